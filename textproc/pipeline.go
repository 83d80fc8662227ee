package textproc

import (
	"context"
	"fmt"
	"log/slog"
)

// Processor is a function that transforms text before it is typed
type Processor func(ctx context.Context, text string) (string, error)

type step struct {
	name string
	proc Processor
}

// Pipeline prepares clipboard text for typing, one named step at a time
type Pipeline struct {
	steps []step
}

// Options select the steps ForTyping builds
type Options struct {
	NormalizeNewlines bool
	Limit             int // keep only the first Limit code points; 0 keeps all
}

// NewPipeline creates an empty pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// ForTyping builds the pipeline applied to text before it is typed.
// Newlines are normalized before the limit so CRLF counts as one character.
func ForTyping(opts Options) *Pipeline {
	p := NewPipeline()
	if opts.NormalizeNewlines {
		p.AddProcessor("normalize-newlines", NormalizeNewlines)
	}
	if opts.Limit > 0 {
		p.AddProcessor(fmt.Sprintf("truncate-%d", opts.Limit), Truncate(opts.Limit))
	}
	return p
}

// AddProcessor appends a named step
func (p *Pipeline) AddProcessor(name string, proc Processor) {
	p.steps = append(p.steps, step{name: name, proc: proc})
}

// Process runs every step in order. Empty text and a nil pipeline pass through.
func (p *Pipeline) Process(ctx context.Context, text string) (string, error) {
	if p == nil || text == "" {
		return text, nil
	}

	result := text
	for _, s := range p.steps {
		out, err := s.proc(ctx, result)
		if err != nil {
			slog.Error("Text processing failed", "step", s.name, "error", err)
			return result, fmt.Errorf("%s: %w", s.name, err)
		}
		if out != result {
			slog.Debug("Text processed", "step", s.name, "before", len(result), "after", len(out))
		}
		result = out
	}

	return result, nil
}
