package textproc

import (
	"context"
	"strings"
	"unicode/utf8"
)

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeNewlines turns CRLF and lone CR into LF so each line break is
// typed as a single Enter
func NormalizeNewlines(_ context.Context, text string) (string, error) {
	return newlineReplacer.Replace(text), nil
}

// Truncate returns a processor keeping the first n code points
func Truncate(n int) Processor {
	return func(_ context.Context, text string) (string, error) {
		return head(text, n), nil
	}
}

// head returns the first n code points of text
func head(text string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}

// Preview shortens text to n code points for log lines, marking the cut
// with "..." and showing line breaks as spaces
func Preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= n {
		return flat
	}
	return head(flat, n) + "..."
}

// Count returns the number of code points and lines in text
func Count(text string) (chars, lines int) {
	chars = utf8.RuneCountInString(text)
	if chars == 0 {
		return 0, 0
	}
	return chars, strings.Count(text, "\n") + 1
}
