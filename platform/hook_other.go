//go:build !windows

package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	hook "github.com/robotn/gohook"
)

// hookRunning guards the process-wide libuiohook instance
var hookRunning atomic.Bool

// UiohookHook implements the Hook interface with gohook
type UiohookHook struct{}

// NewHook creates a new global keyboard hook
func NewHook() Hook {
	return &UiohookHook{}
}

// Listen starts the hook and streams key presses and releases until ctx is
// cancelled
func (h *UiohookHook) Listen(ctx context.Context) (<-chan KeyEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !hookRunning.CompareAndSwap(false, true) {
		return nil, errors.New("keyboard hook already installed")
	}

	raw := hook.Start()
	out := make(chan KeyEvent, eventBuffer)

	go func() {
		defer hookRunning.Store(false)
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				hook.End()
				slog.Debug("Keyboard hook released")
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				evt, ok := translateHookEvent(ev)
				if !ok {
					continue
				}
				select {
				case out <- evt:
				default:
					slog.Warn("Key event dropped, consumer is behind", "key", evt.Key.String(), "type", evt.Type.String())
				}
			}
		}
	}()

	return out, nil
}

// translateHookEvent keeps physical transitions. KeyDown is the typed
// character event and is reported alongside KeyHold, so it is ignored.
func translateHookEvent(ev hook.Event) (KeyEvent, bool) {
	switch ev.Kind {
	case hook.KeyHold:
		return KeyEvent{Type: Pressed, Key: keyFromVC(ev.Keycode)}, true
	case hook.KeyUp:
		return KeyEvent{Type: Released, Key: keyFromVC(ev.Keycode)}, true
	default:
		return KeyEvent{}, false
	}
}
