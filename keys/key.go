package keys

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind identifies how a Key is represented
type Kind uint8

const (
	// KindNamed is a symbolic key such as a modifier or function key
	KindNamed Kind = iota + 1
	// KindChar is a literal character key
	KindChar
	// KindRaw is a raw platform key code
	KindRaw
)

const rawPrefix = "vk_"

// Key identifies a single physical or logical key.
// Construct only via Parse, Lookup, Char or Raw so the canonical form holds.
type Key struct {
	kind Kind
	name string // canonical name for named keys, literal text for char keys
	code int
}

// Named keys
var (
	Alt    = named("alt")
	AltL   = named("alt_l")
	AltR   = named("alt_r")
	Ctrl   = named("ctrl")
	CtrlL  = named("ctrl_l")
	CtrlR  = named("ctrl_r")
	Shift  = named("shift")
	ShiftL = named("shift_l")
	ShiftR = named("shift_r")
	Cmd    = named("cmd")
	CmdL   = named("cmd_l")
	CmdR   = named("cmd_r")

	Enter     = named("enter")
	Space     = named("space")
	Tab       = named("tab")
	Backspace = named("backspace")
	Delete    = named("delete")
	Esc       = named("esc")

	Up       = named("up")
	Down     = named("down")
	Left     = named("left")
	Right    = named("right")
	Home     = named("home")
	End      = named("end")
	PageUp   = named("page_up")
	PageDown = named("page_down")

	F1  = named("f1")
	F2  = named("f2")
	F3  = named("f3")
	F4  = named("f4")
	F5  = named("f5")
	F6  = named("f6")
	F7  = named("f7")
	F8  = named("f8")
	F9  = named("f9")
	F10 = named("f10")
	F11 = named("f11")
	F12 = named("f12")
)

var namedKeys = map[string]Key{}

// displayNames holds the beautified names that title-casing cannot produce
var displayNames = map[string]string{
	"alt_l":     "Left Alt",
	"alt_r":     "Right Alt",
	"ctrl_l":    "Left Ctrl",
	"ctrl_r":    "Right Ctrl",
	"shift_l":   "Left Shift",
	"shift_r":   "Right Shift",
	"cmd_l":     "Left Cmd",
	"cmd_r":     "Right Cmd",
	"page_up":   "Page Up",
	"page_down": "Page Down",
}

var generics = map[Key]Key{
	AltL: Alt, AltR: Alt,
	CtrlL: Ctrl, CtrlR: Ctrl,
	ShiftL: Shift, ShiftR: Shift,
	CmdL: Cmd, CmdR: Cmd,
}

func named(name string) Key {
	k := Key{kind: KindNamed, name: name}
	namedKeys[name] = k
	return k
}

// Lookup returns the named key for name, case-insensitively
func Lookup(name string) (Key, bool) {
	k, ok := namedKeys[strings.ToLower(name)]
	return k, ok
}

// Names returns every canonical named-key string
func Names() []string {
	out := make([]string, 0, len(namedKeys))
	for name := range namedKeys {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Char returns a literal character key. The text is lower-cased for storage.
func Char(s string) Key {
	return Key{kind: KindChar, name: strings.ToLower(s)}
}

// Rune returns a literal key for r exactly as typed, without case folding.
// It is meant for emitting text, not for persisted hotkeys.
func Rune(r rune) Key {
	return Key{kind: KindChar, name: string(r)}
}

// Raw returns a key for a raw platform code
func Raw(code int) Key {
	return Key{kind: KindRaw, code: code}
}

// Parse converts the persisted string form of a key into a Key.
//
// Named keys are matched case-insensitively, a single character becomes a
// literal key, and "vk_<n>" becomes a raw code. Any other string is kept as a
// literal key holding the whole string.
func Parse(s string) Key {
	s = strings.ToLower(s)
	if k, ok := namedKeys[s]; ok {
		return k
	}
	if utf8.RuneCountInString(s) == 1 {
		return Char(s)
	}
	if digits, ok := strings.CutPrefix(s, rawPrefix); ok && isDecimal(digits) {
		if code, err := strconv.Atoi(digits); err == nil {
			return Raw(code)
		}
	}
	return Char(s)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Kind reports how the key is represented
func (k Key) Kind() Kind { return k.kind }

// Name returns the canonical name of a named key, or "" for other kinds
func (k Key) Name() string {
	if k.kind != KindNamed {
		return ""
	}
	return k.name
}

// Text returns the literal text of a char key, or "" for other kinds
func (k Key) Text() string {
	if k.kind != KindChar {
		return ""
	}
	return k.name
}

// Code returns the platform code of a raw key, or -1 for other kinds
func (k Key) Code() int {
	if k.kind != KindRaw {
		return -1
	}
	return k.code
}

// IsZero reports whether k is the zero Key
func (k Key) IsZero() bool { return k.kind == 0 }

// String returns the persisted form of the key; Parse(k.String()) == k
func (k Key) String() string {
	switch k.kind {
	case KindNamed, KindChar:
		return k.name
	case KindRaw:
		return rawPrefix + strconv.Itoa(k.code)
	default:
		return ""
	}
}

// Display returns a human-readable label such as "Left Alt" or "G"
func (k Key) Display() string {
	switch k.kind {
	case KindNamed:
		if d, ok := displayNames[k.name]; ok {
			return d
		}
		return titleCase(k.name)
	case KindChar:
		return strings.ToUpper(k.name)
	case KindRaw:
		return "VK_" + strconv.Itoa(k.code)
	default:
		return ""
	}
}

// Generic maps a side-specific modifier to its generic form.
// Every other key is returned unchanged.
func (k Key) Generic() Key {
	if g, ok := generics[k]; ok {
		return g
	}
	return k
}

// IsGenericModifier reports whether k is alt, ctrl, shift or cmd without a side
func (k Key) IsGenericModifier() bool {
	return k == Alt || k == Ctrl || k == Shift || k == Cmd
}

func titleCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if upper {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		upper = !unicode.IsLetter(r)
	}
	return b.String()
}
