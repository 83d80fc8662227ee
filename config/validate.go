package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"markestedt/typeclip/keys"
)

// Accepted ranges, in seconds
const (
	MinDebounce = 0.1
	MaxDebounce = 5.0
	MinDelay    = 0.001
	MaxDelay    = 1.0
)

// ErrInvalidSettings is wrapped by every ValidationError
var ErrInvalidSettings = errors.New("invalid settings")

// ValidationError describes a rejected settings value.
// Reason is suitable for showing to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSettings }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the settings invariants
func (s *Settings) Validate() error {
	if len(s.Hotkeys) == 0 {
		return invalid("hotkeys", "at least one hotkey is required")
	}
	for i, hk := range s.Hotkeys {
		if err := hk.validate(); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("hotkeys[%d].%s", i, ve.Field)
			}
			return err
		}
	}
	if err := checkDebounce(s.DebounceTime); err != nil {
		return err
	}
	return checkDelay(s.InputDelay)
}

func (hk HotkeyDefinition) validate() error {
	if len(hk.Keys) == 0 {
		return invalid("keys", "a hotkey needs at least one key")
	}
	for _, k := range hk.Keys {
		if strings.TrimSpace(k) == "" {
			return invalid("keys", "key names must not be empty")
		}
	}
	return nil
}

func checkDebounce(v float64) error {
	if !(v >= MinDebounce && v <= MaxDebounce) {
		return invalid("debounce_time", "must be between %.1f and %.1f seconds", MinDebounce, MaxDebounce)
	}
	return nil
}

func checkDelay(v float64) error {
	if !(v >= MinDelay && v <= MaxDelay) {
		return invalid("input_delay", "must be between 1 and 1000 milliseconds")
	}
	return nil
}

// ParseDebounce parses a debounce interval in seconds as typed by the user
func ParseDebounce(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, invalid("debounce_time", "must be a valid number")
	}
	if err := checkDebounce(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ParseDelayMillis parses a per-character delay in milliseconds and returns
// it in seconds
func ParseDelayMillis(text string) (float64, error) {
	ms, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, invalid("input_delay", "must be a valid number")
	}
	v := ms / 1000
	if err := checkDelay(v); err != nil {
		return 0, err
	}
	return v, nil
}

// DefinitionFromSet builds a hotkey definition whose description lists the
// display names of the keys
func DefinitionFromSet(set keys.Set) HotkeyDefinition {
	return HotkeyDefinition{
		Keys:        set.Strings(),
		Description: set.Display(),
	}
}

// AddHotkey appends a hotkey definition
func (s *Settings) AddHotkey(def HotkeyDefinition) error {
	if err := def.validate(); err != nil {
		return err
	}
	if err := s.checkDuplicate(def, -1); err != nil {
		return err
	}
	s.Hotkeys = append(s.Hotkeys, def)
	return nil
}

// SetHotkey replaces the definition at index
func (s *Settings) SetHotkey(index int, def HotkeyDefinition) error {
	if index < 0 || index >= len(s.Hotkeys) {
		return invalid("hotkeys", "no hotkey at index %d", index+1)
	}
	if err := def.validate(); err != nil {
		return err
	}
	if err := s.checkDuplicate(def, index); err != nil {
		return err
	}
	s.Hotkeys[index] = def
	return nil
}

// checkDuplicate rejects def when another definition, other than the one at
// skip, holds the same keys
func (s *Settings) checkDuplicate(def HotkeyDefinition, skip int) error {
	combo := keys.ParseSet(def.Keys)
	for i, hk := range s.Hotkeys {
		if i != skip && keys.ParseSet(hk.Keys).Equal(combo) {
			return invalid("hotkeys", "%s is already hotkey %d", combo.Display(), i+1)
		}
	}
	return nil
}

// RemoveHotkey deletes the definition at index. The last hotkey cannot be
// removed.
func (s *Settings) RemoveHotkey(index int) error {
	if index < 0 || index >= len(s.Hotkeys) {
		return invalid("hotkeys", "no hotkey at index %d", index+1)
	}
	if len(s.Hotkeys) <= 1 {
		return invalid("hotkeys", "at least one hotkey must be kept")
	}
	s.Hotkeys = append(s.Hotkeys[:index], s.Hotkeys[index+1:]...)
	return nil
}
