package hotkey

import (
	"context"
	"errors"
	"time"

	"markestedt/typeclip/keys"
	"markestedt/typeclip/platform"
)

var (
	// ErrRecordingCancelled is returned when Esc is pressed while recording
	ErrRecordingCancelled = errors.New("hotkey recording cancelled")
	// ErrHookClosed is returned when the event stream ends before a combo is captured
	ErrHookClosed = errors.New("keyboard hook closed during recording")
)

// recordGrace lets the remaining keys of a combo register after the first release
const recordGrace = 100 * time.Millisecond

// Record captures the next combo typed by the user. Keys accumulate until the
// first release; the combo is returned once the grace period has passed.
func Record(ctx context.Context, events <-chan platform.KeyEvent) (keys.Set, error) {
	combo := keys.NewSet()
	var done <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
			return combo, nil
		case evt, ok := <-events:
			if !ok {
				if combo.Len() > 0 && done != nil {
					return combo, nil
				}
				return nil, ErrHookClosed
			}
			switch evt.Type {
			case platform.Pressed:
				if evt.Key == keys.Esc {
					return nil, ErrRecordingCancelled
				}
				combo.Add(evt.Key)
			case platform.Released:
				if combo.Len() > 0 && done == nil {
					done = time.After(recordGrace)
				}
			}
		}
	}
}
