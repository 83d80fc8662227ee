//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	getMessage          = user32.NewProc("GetMessageW")
	peekMessage         = user32.NewProc("PeekMessageW")
	postThreadMessage   = user32.NewProc("PostThreadMessageW")
	mapVirtualKey       = user32.NewProc("MapVirtualKeyW")
)

const (
	whKeyboardLL = 13
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105
	wmQuit       = 0x0012
	pmNoRemove   = 0x0000

	llkhfInjected = 0x00000010
	mapvkVkToChar = 2
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// hookSink receives events from the process-wide low-level hook procedure
type hookSink struct {
	events chan KeyEvent
}

var (
	// Only one low-level keyboard hook is installed per process
	activeSink atomic.Pointer[hookSink]

	hookCallback = windows.NewCallback(lowLevelKeyboardProc)
)

// WindowsHook implements the Hook interface with a WH_KEYBOARD_LL hook
type WindowsHook struct{}

// NewHook creates a new Windows keyboard hook
func NewHook() Hook {
	return &WindowsHook{}
}

type hookReady struct {
	threadID uint32
	err      error
}

// Listen installs the hook and streams every key press and release until ctx
// is cancelled. Events injected by SendInput are not reported.
func (h *WindowsHook) Listen(ctx context.Context) (<-chan KeyEvent, error) {
	sink := &hookSink{events: make(chan KeyEvent, eventBuffer)}
	if !activeSink.CompareAndSwap(nil, sink) {
		return nil, errors.New("keyboard hook already installed")
	}

	readyCh := make(chan hookReady, 1)
	go h.runHook(sink, readyCh)

	var ready hookReady
	select {
	case ready = <-readyCh:
		if ready.err != nil {
			activeSink.CompareAndSwap(sink, nil)
			return nil, ready.err
		}
	case <-ctx.Done():
		// The hook goroutine still reports; stop it once it is up
		go func() {
			if r := <-readyCh; r.err == nil {
				postThreadMessage.Call(uintptr(r.threadID), wmQuit, 0, 0)
			}
		}()
		return nil, ctx.Err()
	}

	// Monitor context cancellation
	go func() {
		<-ctx.Done()
		postThreadMessage.Call(uintptr(ready.threadID), wmQuit, 0, 0)
	}()

	return sink.events, nil
}

func (h *WindowsHook) runHook(sink *hookSink, readyCh chan<- hookReady) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	threadID := windows.GetCurrentThreadId()

	// Force creation of this thread's message queue so WM_QUIT can be posted
	var m msg
	peekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)

	hook, _, err := setWindowsHookEx.Call(whKeyboardLL, hookCallback, 0, 0)
	if hook == 0 {
		readyCh <- hookReady{err: fmt.Errorf("SetWindowsHookEx failed: %w", err)}
		return
	}
	readyCh <- hookReady{threadID: threadID}

	// The hook procedure runs on this thread while it pumps messages
	for {
		r, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			break
		}
	}

	unhookWindowsHookEx.Call(hook)
	activeSink.CompareAndSwap(sink, nil)
	close(sink.events)
	slog.Debug("Keyboard hook released")
}

func lowLevelKeyboardProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		if sink := activeSink.Load(); sink != nil {
			kbInfo := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			sink.handleKeyEvent(wParam, kbInfo)
		}
	}
	r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

func (s *hookSink) handleKeyEvent(wParam uintptr, kbInfo *kbdllhookstruct) {
	if kbInfo.flags&llkhfInjected != 0 {
		return
	}

	var typ EventType
	switch wParam {
	case wmKeydown, wmSyskeydown:
		typ = Pressed
	case wmKeyup, wmSyskeyup:
		typ = Released
	default:
		return
	}

	evt := KeyEvent{Type: typ, Key: keyFromVK(kbInfo.vkCode, vkToChar)}

	// Never block inside the hook procedure; Windows removes slow hooks
	select {
	case s.events <- evt:
	default:
		slog.Warn("Key event dropped, consumer is behind", "key", evt.Key.String(), "type", typ.String())
	}
}

func vkToChar(vk uint32) rune {
	r, _, _ := mapVirtualKey.Call(uintptr(vk), mapvkVkToChar)
	// The high bit marks dead keys
	return rune(r & 0xFFFF)
}
