package hotkey

import (
	"context"
	"sync/atomic"

	"markestedt/typeclip/config"
	"markestedt/typeclip/keys"
	"markestedt/typeclip/platform"
)

// Matcher turns a stream of key transitions into hotkey triggers.
//
// The pressed set belongs to the goroutine calling Press, Release and Run.
// Bindings and the armed flag may be touched from any goroutine.
type Matcher struct {
	bindings atomic.Pointer[[]config.Binding]
	armed    atomic.Bool
	pressed  keys.Set
}

// NewMatcher creates a matcher for bindings, tested in slice order
func NewMatcher(bindings []config.Binding) *Matcher {
	m := &Matcher{pressed: keys.NewSet()}
	m.SetBindings(bindings)
	return m
}

// SetBindings replaces all bindings at once
func (m *Matcher) SetBindings(bindings []config.Binding) {
	snapshot := make([]config.Binding, len(bindings))
	copy(snapshot, bindings)
	m.bindings.Store(&snapshot)
}

// Bindings returns the current bindings
func (m *Matcher) Bindings() []config.Binding {
	return *m.bindings.Load()
}

// Press records k as held. When the matcher is not armed, the first binding
// whose combo is fully held wins and arms the matcher.
func (m *Matcher) Press(k keys.Key) (config.Binding, bool) {
	m.pressed.Add(k)
	if m.armed.Load() {
		return config.Binding{}, false
	}

	for _, b := range *m.bindings.Load() {
		if !m.pressed.Covers(b.Combo) {
			continue
		}
		if !m.armed.CompareAndSwap(false, true) {
			return config.Binding{}, false
		}
		return b, true
	}
	return config.Binding{}, false
}

// Release forgets k
func (m *Matcher) Release(k keys.Key) {
	m.pressed.Remove(k)
}

// Disarm lets the next satisfied combo trigger again
func (m *Matcher) Disarm() {
	m.armed.Store(false)
}

// Armed reports whether a trigger is still being handled
func (m *Matcher) Armed() bool {
	return m.armed.Load()
}

// Reset clears held keys and the armed flag. Call it only while no Run is active.
func (m *Matcher) Reset() {
	m.pressed.Clear()
	m.armed.Store(false)
}

// Run consumes events in delivery order until ctx is done or events is
// closed, calling onMatch for every trigger. onMatch must not block.
func (m *Matcher) Run(ctx context.Context, events <-chan platform.KeyEvent, onMatch func(config.Binding)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			switch evt.Type {
			case platform.Pressed:
				if b, matched := m.Press(evt.Key); matched {
					onMatch(b)
				}
			case platform.Released:
				m.Release(evt.Key)
			}
		}
	}
}
