//go:build windows

package platform

import (
	"errors"
	"fmt"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	openClipboard                  = user32.NewProc("OpenClipboard")
	closeClipboard                 = user32.NewProc("CloseClipboard")
	emptyClipboard                 = user32.NewProc("EmptyClipboard")
	getClipboardData               = user32.NewProc("GetClipboardData")
	setClipboardData               = user32.NewProc("SetClipboardData")
	isClipboardFormatAvailableProc = user32.NewProc("IsClipboardFormatAvailable")
	globalAlloc                    = kernel32.NewProc("GlobalAlloc")
	globalFree                     = kernel32.NewProc("GlobalFree")
	globalLock                     = kernel32.NewProc("GlobalLock")
	globalUnlock                   = kernel32.NewProc("GlobalUnlock")
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002

	clipboardRetries    = 10
	clipboardRetryDelay = 10 * time.Millisecond
)

// WindowsClipboard implements the Clipboard interface for Windows
type WindowsClipboard struct{}

// NewClipboard creates a new Windows clipboard instance
func NewClipboard() Clipboard {
	return &WindowsClipboard{}
}

// Get returns the clipboard text, or "" when the clipboard holds no text
func (c *WindowsClipboard) Get() (string, error) {
	if r, _, _ := isClipboardFormatAvailableProc.Call(cfUnicodeText); r == 0 {
		return "", nil
	}

	if err := c.open(); err != nil {
		return "", err
	}
	defer c.close()

	h, _, err := getClipboardData.Call(cfUnicodeText)
	if h == 0 {
		if err != nil && !errors.Is(err, syscall.Errno(0)) {
			return "", fmt.Errorf("GetClipboardData failed: %w", err)
		}
		return "", nil
	}

	l, _, err := globalLock.Call(h)
	if l == 0 {
		return "", fmt.Errorf("GlobalLock failed: %w", err)
	}
	defer globalUnlock.Call(h)

	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(l))), nil
}

// Set replaces the clipboard contents with text
func (c *WindowsClipboard) Set(text string) error {
	buf, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("UTF16 conversion failed: %w", err)
	}

	if err := c.open(); err != nil {
		return err
	}
	defer c.close()

	emptyClipboard.Call()

	h, _, err := globalAlloc.Call(gmemMoveable, uintptr(len(buf)*2))
	if h == 0 {
		return fmt.Errorf("GlobalAlloc failed: %w", err)
	}

	l, _, err := globalLock.Call(h)
	if l == 0 {
		globalFree.Call(h)
		return fmt.Errorf("GlobalLock failed: %w", err)
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(l)), len(buf)), buf)
	globalUnlock.Call(h)

	// On success the system owns the memory
	if r, _, err := setClipboardData.Call(cfUnicodeText, h); r == 0 {
		globalFree.Call(h)
		return fmt.Errorf("SetClipboardData failed: %w", err)
	}
	return nil
}

// open retries because other applications hold the clipboard briefly
func (c *WindowsClipboard) open() error {
	for i := 0; i < clipboardRetries; i++ {
		if r, _, _ := openClipboard.Call(0); r != 0 {
			return nil
		}
		time.Sleep(clipboardRetryDelay)
	}
	return fmt.Errorf("failed to open clipboard after %d attempts", clipboardRetries)
}

func (c *WindowsClipboard) close() {
	closeClipboard.Call()
}
