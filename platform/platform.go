package platform

import (
	"context"
	"errors"

	"markestedt/typeclip/keys"
)

// ErrUnsupportedKey is returned when the platform cannot synthesize a key
var ErrUnsupportedKey = errors.New("unsupported key")

// EventType represents the type of key event
type EventType int

const (
	Pressed EventType = iota
	Released
)

func (t EventType) String() string {
	if t == Released {
		return "released"
	}
	return "pressed"
}

// KeyEvent is a raw global key press or release
type KeyEvent struct {
	Type EventType
	Key  keys.Key
}

// Hook provides global key press/release events.
// Events are delivered in OS order; the hook is released when ctx is done.
type Hook interface {
	Listen(ctx context.Context) (<-chan KeyEvent, error)
}

// Keyboard issues synthetic key events to the focused application
type Keyboard interface {
	PressKey(k keys.Key) error
	ReleaseKey(k keys.Key) error
}

// Clipboard provides clipboard access
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// eventBuffer bounds the queue between the OS hook and its consumer
const eventBuffer = 256
