//go:build !windows

package platform

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// SystemClipboard implements the Clipboard interface with atotto/clipboard
type SystemClipboard struct{}

// NewClipboard creates a new clipboard instance
func NewClipboard() Clipboard {
	return &SystemClipboard{}
}

// Get returns the clipboard text, or "" when it is empty
func (c *SystemClipboard) Get() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("no clipboard utility available")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// Set replaces the clipboard contents with text
func (c *SystemClipboard) Set(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
