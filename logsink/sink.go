package logsink

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of lines kept for a slow reader
const DefaultCapacity = 64

// Line is one rendered log record
type Line struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Text    string // level, message and attributes on one line
}

// Sink buffers rendered log lines for a UI. When the reader falls behind the
// oldest line is dropped, so logging never blocks.
type Sink struct {
	mu    sync.Mutex
	lines chan Line
	last  Line
}

// New creates a sink holding up to capacity unread lines
func New(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink{lines: make(chan Line, capacity)}
}

// Lines returns the channel of rendered lines
func (s *Sink) Lines() <-chan Line {
	return s.lines
}

// Last returns the most recent line
func (s *Sink) Last() Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Sink) publish(l Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = l
	for {
		select {
		case s.lines <- l:
			return
		default:
		}
		select {
		case <-s.lines:
		default:
		}
	}
}

// Handler tees records to a Sink and to the wrapped handler
type Handler struct {
	next   slog.Handler
	sink   *Sink
	prefix string
	attrs  string
}

// NewHandler wraps next so every handled record is also published to sink
func NewHandler(next slog.Handler, sink *Sink) *Handler {
	return &Handler{next: next, sink: sink}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})

	h.sink.publish(Line{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Text:    b.String(),
	})
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}
	return &Handler{
		next:   h.next.WithAttrs(attrs),
		sink:   h.sink,
		prefix: h.prefix,
		attrs:  b.String(),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		next:   h.next.WithGroup(name),
		sink:   h.sink,
		prefix: h.prefix + name + ".",
		attrs:  h.attrs,
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			writeAttr(b, prefix, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
