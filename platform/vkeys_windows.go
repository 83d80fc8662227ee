//go:build windows

package platform

import (
	"unicode"

	"markestedt/typeclip/keys"
)

const (
	vkBack     = 0x08
	vkTab      = 0x09
	vkReturn   = 0x0D
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12
	vkEscape   = 0x1B
	vkSpace    = 0x20
	vkPrior    = 0x21
	vkNext     = 0x22
	vkEnd      = 0x23
	vkHome     = 0x24
	vkLeft     = 0x25
	vkUp       = 0x26
	vkRight    = 0x27
	vkDown     = 0x28
	vkDelete   = 0x2E
	vkLwin     = 0x5B
	vkRwin     = 0x5C
	vkF1       = 0x70
	vkLshift   = 0xA0
	vkRshift   = 0xA1
	vkLcontrol = 0xA2
	vkRcontrol = 0xA3
	vkLmenu    = 0xA4
	vkRmenu    = 0xA5
)

// namedVK maps named keys to the virtual-key code used to synthesize them.
// Windows has no side-less Win key, so cmd is sent as the left one.
var namedVK = map[keys.Key]uint16{
	keys.Alt: vkMenu, keys.AltL: vkLmenu, keys.AltR: vkRmenu,
	keys.Ctrl: vkControl, keys.CtrlL: vkLcontrol, keys.CtrlR: vkRcontrol,
	keys.Shift: vkShift, keys.ShiftL: vkLshift, keys.ShiftR: vkRshift,
	keys.Cmd: vkLwin, keys.CmdL: vkLwin, keys.CmdR: vkRwin,

	keys.Enter: vkReturn, keys.Space: vkSpace, keys.Tab: vkTab,
	keys.Backspace: vkBack, keys.Delete: vkDelete, keys.Esc: vkEscape,

	keys.Up: vkUp, keys.Down: vkDown, keys.Left: vkLeft, keys.Right: vkRight,
	keys.Home: vkHome, keys.End: vkEnd, keys.PageUp: vkPrior, keys.PageDown: vkNext,

	keys.F1: vkF1, keys.F2: vkF1 + 1, keys.F3: vkF1 + 2, keys.F4: vkF1 + 3,
	keys.F5: vkF1 + 4, keys.F6: vkF1 + 5, keys.F7: vkF1 + 6, keys.F8: vkF1 + 7,
	keys.F9: vkF1 + 8, keys.F10: vkF1 + 9, keys.F11: vkF1 + 10, keys.F12: vkF1 + 11,
}

// vkNamed is the reverse of namedVK for keys reported by the hook.
// The low-level hook reports sided modifiers, so the Win keys map to cmd_l/cmd_r.
var vkNamed = func() map[uint32]keys.Key {
	m := make(map[uint32]keys.Key, len(namedVK))
	for k, vk := range namedVK {
		if k == keys.Cmd {
			continue
		}
		m[uint32(vk)] = k
	}
	return m
}()

// keyFromVK translates a hooked virtual-key code. Letter and digit keys become
// literal keys independent of Shift; other printable keys are resolved with
// toChar; everything else is reported as a raw code.
func keyFromVK(vk uint32, toChar func(vk uint32) rune) keys.Key {
	if k, ok := vkNamed[vk]; ok {
		return k
	}
	switch {
	case vk >= 'A' && vk <= 'Z', vk >= '0' && vk <= '9':
		return keys.Char(string(rune(vk)))
	}
	if toChar != nil {
		if r := toChar(vk); r > ' ' && unicode.IsPrint(r) {
			return keys.Char(string(r))
		}
	}
	return keys.Raw(int(vk))
}

// vkFromKey returns the virtual-key code for a named or raw key
func vkFromKey(k keys.Key) (uint16, bool) {
	switch k.Kind() {
	case keys.KindNamed:
		vk, ok := namedVK[k]
		return vk, ok
	case keys.KindRaw:
		if k.Code() <= 0 || k.Code() > 0xFE {
			return 0, false
		}
		return uint16(k.Code()), true
	default:
		return 0, false
	}
}
