//go:build windows

package platform

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"

	"markestedt/typeclip/keys"
)

var (
	sendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard        = 1
	keyeventfExtendedkey = 0x0001
	keyeventfKeyup       = 0x0002
	keyeventfUnicode     = 0x0004
	mapvkVkToVsc         = 0
)

// extendedVK lists keys that need KEYEVENTF_EXTENDEDKEY to be told apart from
// their numpad or left-hand twins
var extendedVK = map[uint16]bool{
	vkRcontrol: true, vkRmenu: true, vkLwin: true, vkRwin: true,
	vkPrior: true, vkNext: true, vkEnd: true, vkHome: true,
	vkLeft: true, vkUp: true, vkRight: true, vkDown: true, vkDelete: true,
}

type keyboardInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type input struct {
	inputType uint32
	ki        keyboardInput
	padding   [8]byte // Padding to match C struct size
}

// WindowsKeyboard implements the Keyboard interface with SendInput
type WindowsKeyboard struct{}

// NewKeyboard creates a new Windows keyboard instance
func NewKeyboard() Keyboard {
	return &WindowsKeyboard{}
}

// PressKey sends a key-down event
func (kb *WindowsKeyboard) PressKey(k keys.Key) error {
	return kb.send(k, 0)
}

// ReleaseKey sends a key-up event
func (kb *WindowsKeyboard) ReleaseKey(k keys.Key) error {
	return kb.send(k, keyeventfKeyup)
}

func (kb *WindowsKeyboard) send(k keys.Key, flags uint32) error {
	inputs, err := inputsFor(k, flags)
	if err != nil {
		return err
	}

	ret, _, err := sendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(ret) != len(inputs) {
		return fmt.Errorf("SendInput failed for %q: %w", k.String(), err)
	}
	return nil
}

// inputsFor builds the INPUT records for one key transition. Characters are
// sent as UTF-16 code units so any layout can receive them.
func inputsFor(k keys.Key, flags uint32) ([]input, error) {
	if k.Kind() == keys.KindChar {
		text := k.Text()
		if utf8.RuneCountInString(text) != 1 {
			return nil, fmt.Errorf("%w: %q is not a single character", ErrUnsupportedKey, text)
		}
		r, _ := utf8.DecodeRuneInString(text)

		units := utf16.Encode([]rune{r})
		inputs := make([]input, 0, len(units))
		for _, u := range units {
			inputs = append(inputs, input{
				inputType: inputKeyboard,
				ki: keyboardInput{
					wScan:   u,
					dwFlags: keyeventfUnicode | flags,
				},
			})
		}
		return inputs, nil
	}

	vk, ok := vkFromKey(k)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, k.String())
	}

	// Scan codes improve compatibility with elevated applications
	scan, _, _ := mapVirtualKey.Call(uintptr(vk), mapvkVkToVsc)
	if extendedVK[vk] {
		flags |= keyeventfExtendedkey
	}
	return []input{{
		inputType: inputKeyboard,
		ki: keyboardInput{
			wVk:     vk,
			wScan:   uint16(scan),
			dwFlags: flags,
		},
	}}, nil
}
