//go:build !windows

package platform

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-vgo/robotgo"

	"markestedt/typeclip/keys"
)

// RobotgoKeyboard implements the Keyboard interface with robotgo
type RobotgoKeyboard struct{}

// NewKeyboard creates a new keyboard instance
func NewKeyboard() Keyboard {
	return &RobotgoKeyboard{}
}

// PressKey sends a key-down event. Characters outside a-z and 0-9 are typed
// as a whole unicode stroke here, and their release is a no-op.
func (kb *RobotgoKeyboard) PressKey(k keys.Key) error {
	if k.Kind() == keys.KindChar {
		r, err := singleRune(k)
		if err != nil {
			return err
		}
		if !isPlainKey(r) {
			robotgo.UnicodeType(uint32(r))
			return nil
		}
	}
	return kb.toggle(k, "down")
}

// ReleaseKey sends a key-up event
func (kb *RobotgoKeyboard) ReleaseKey(k keys.Key) error {
	if k.Kind() == keys.KindChar {
		r, err := singleRune(k)
		if err != nil {
			return err
		}
		if !isPlainKey(r) {
			return nil
		}
	}
	return kb.toggle(k, "up")
}

func (kb *RobotgoKeyboard) toggle(k keys.Key, dir string) error {
	var name string
	switch k.Kind() {
	case keys.KindNamed:
		n, ok := robotgoNames[k]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedKey, k.String())
		}
		name = n
	case keys.KindChar:
		name = k.Text()
	default:
		return fmt.Errorf("%w: raw codes cannot be synthesized here: %s", ErrUnsupportedKey, k.String())
	}

	if err := robotgo.KeyToggle(name, dir); err != nil {
		return fmt.Errorf("failed to toggle %s %s: %w", name, dir, err)
	}
	return nil
}

func singleRune(k keys.Key) (rune, error) {
	text := k.Text()
	if utf8.RuneCountInString(text) != 1 {
		return 0, fmt.Errorf("%w: %q is not a single character", ErrUnsupportedKey, text)
	}
	r, _ := utf8.DecodeRuneInString(text)
	return r, nil
}

// isPlainKey reports whether r has its own unshifted key on every layout
// robotgo supports
func isPlainKey(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
