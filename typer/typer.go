package typer

import (
	"context"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"markestedt/typeclip/keys"
	"markestedt/typeclip/platform"
)

const (
	letterFactor = 2.5
	spaceFactor  = 1.5

	progressEvery = 100
)

// Result summarises one emission
type Result struct {
	Total   int // code points in the input
	Typed   int
	Skipped int
	Elapsed time.Duration
}

// SleepFunc waits d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Typer replays text as synthetic keystrokes
type Typer struct {
	kb     platform.Keyboard
	logger *slog.Logger
	sleep  SleepFunc
}

// New creates a Typer that types on kb
func New(kb platform.Keyboard, logger *slog.Logger) *Typer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Typer{kb: kb, logger: logger, sleep: Sleep}
}

// Type presses and releases one key per code point of text, pausing a
// multiple of delay after each. Characters the keyboard rejects are logged
// and skipped. ctx is checked between characters only.
func (t *Typer) Type(ctx context.Context, text string, delay time.Duration) (Result, error) {
	start := time.Now()
	res := Result{Total: utf8.RuneCountInString(text)}

	i := 0
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}
		i++

		k := keyFor(r)
		if err := t.tap(k); err != nil {
			t.logger.Warn("Skipping character", "char", string(r), "error", err)
			res.Skipped++
			continue
		}
		res.Typed++

		if err := t.sleep(ctx, Pause(r, delay)); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}

		if i%progressEvery == 0 {
			t.logger.Info("Typing progress",
				"typed", i,
				"total", res.Total,
				"percent", percent(i, res.Total))
		}
	}

	res.Elapsed = time.Since(start)
	t.logger.Info("Finished typing", "chars", res.Total, "skipped", res.Skipped, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func (t *Typer) tap(k keys.Key) error {
	if err := t.kb.PressKey(k); err != nil {
		return err
	}
	return t.kb.ReleaseKey(k)
}

// keyFor maps a character to the key that types it
func keyFor(r rune) keys.Key {
	switch r {
	case '\n':
		return keys.Enter
	case '\t':
		return keys.Tab
	case ' ':
		return keys.Space
	default:
		return keys.Rune(r)
	}
}

// Pause returns the wait after typing r. ASCII letters get the longest pause
// so input method editors keep up with mixed-language text.
func Pause(r rune, delay time.Duration) time.Duration {
	switch {
	case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		return time.Duration(float64(delay) * letterFactor)
	case r == ' ':
		return time.Duration(float64(delay) * spaceFactor)
	default:
		return delay
	}
}

// Estimate returns how long typing text at delay will take, ignoring key latency
func Estimate(text string, delay time.Duration) time.Duration {
	var total time.Duration
	for _, r := range text {
		total += Pause(r, delay)
	}
	return total
}

func percent(done, total int) string {
	if total == 0 {
		return "100.0%"
	}
	return strconv.FormatFloat(float64(done)*100/float64(total), 'f', 1, 64) + "%"
}

// Sleep waits d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
