//go:build !windows

package platform

import "markestedt/typeclip/keys"

// Virtual codes reported by the libuiohook-based hook
const (
	vcEscape    = 0x0001
	vcBackspace = 0x000E
	vcTab       = 0x000F
	vcEnter     = 0x001C
	vcSpace     = 0x0039

	vcF1  = 0x003B
	vcF11 = 0x0057
	vcF12 = 0x0058

	vcShiftL   = 0x002A
	vcShiftR   = 0x0036
	vcControlL = 0x001D
	vcControlR = 0x0E1D
	vcAltL     = 0x0038
	vcAltR     = 0x0E38
	vcMetaL    = 0x0E5B
	vcMetaR    = 0x0E5C

	vcHome     = 0x0E47
	vcUp       = 0xE048
	vcPageUp   = 0x0E49
	vcLeft     = 0xE04B
	vcRight    = 0xE04D
	vcEnd      = 0x0E4F
	vcDown     = 0xE050
	vcPageDown = 0x0E51
	vcDelete   = 0x0E53
)

var vcNamed = map[uint16]keys.Key{
	vcEscape: keys.Esc, vcBackspace: keys.Backspace, vcTab: keys.Tab,
	vcEnter: keys.Enter, vcSpace: keys.Space, vcDelete: keys.Delete,

	vcShiftL: keys.ShiftL, vcShiftR: keys.ShiftR,
	vcControlL: keys.CtrlL, vcControlR: keys.CtrlR,
	vcAltL: keys.AltL, vcAltR: keys.AltR,
	vcMetaL: keys.CmdL, vcMetaR: keys.CmdR,

	vcHome: keys.Home, vcEnd: keys.End, vcPageUp: keys.PageUp, vcPageDown: keys.PageDown,
	vcUp: keys.Up, vcDown: keys.Down, vcLeft: keys.Left, vcRight: keys.Right,

	vcF1: keys.F1, vcF1 + 1: keys.F2, vcF1 + 2: keys.F3, vcF1 + 3: keys.F4,
	vcF1 + 4: keys.F5, vcF1 + 5: keys.F6, vcF1 + 6: keys.F7, vcF1 + 7: keys.F8,
	vcF1 + 8: keys.F9, vcF1 + 9: keys.F10, vcF11: keys.F11, vcF12: keys.F12,
}

// vcChars maps the scan-code layout of printable keys to their unshifted
// US characters. Codes follow physical rows.
var vcChars = func() map[uint16]string {
	m := map[uint16]string{
		0x000B: "0", 0x000C: "-", 0x000D: "=",
		0x001A: "[", 0x001B: "]",
		0x0027: ";", 0x0028: "'", 0x0029: "`", 0x002B: "\\",
		0x0033: ",", 0x0034: ".", 0x0035: "/",
	}
	rows := []struct {
		start uint16
		chars string
	}{
		{0x0002, "123456789"},
		{0x0010, "qwertyuiop"},
		{0x001E, "asdfghjkl"},
		{0x002C, "zxcvbnm"},
	}
	for _, row := range rows {
		for i, c := range row.chars {
			m[row.start+uint16(i)] = string(c)
		}
	}
	return m
}()

// keyFromVC translates a hook key code
func keyFromVC(code uint16) keys.Key {
	if k, ok := vcNamed[code]; ok {
		return k
	}
	if s, ok := vcChars[code]; ok {
		return keys.Char(s)
	}
	return keys.Raw(int(code))
}

// robotgoNames maps named keys to the names robotgo accepts
var robotgoNames = map[keys.Key]string{
	keys.Alt: "alt", keys.AltL: "lalt", keys.AltR: "ralt",
	keys.Ctrl: "ctrl", keys.CtrlL: "lctrl", keys.CtrlR: "rctrl",
	keys.Shift: "shift", keys.ShiftL: "lshift", keys.ShiftR: "rshift",
	keys.Cmd: "cmd", keys.CmdL: "lcmd", keys.CmdR: "rcmd",

	keys.Enter: "enter", keys.Space: "space", keys.Tab: "tab",
	keys.Backspace: "backspace", keys.Delete: "delete", keys.Esc: "esc",

	keys.Up: "up", keys.Down: "down", keys.Left: "left", keys.Right: "right",
	keys.Home: "home", keys.End: "end", keys.PageUp: "pageup", keys.PageDown: "pagedown",

	keys.F1: "f1", keys.F2: "f2", keys.F3: "f3", keys.F4: "f4",
	keys.F5: "f5", keys.F6: "f6", keys.F7: "f7", keys.F8: "f8",
	keys.F9: "f9", keys.F10: "f10", keys.F11: "f11", keys.F12: "f12",
}
