package keys

import (
	"slices"
	"strings"
)

// Set is an unordered collection of unique keys.
// It models both a hotkey combo and the set of currently held keys.
type Set map[Key]struct{}

// NewSet returns a set holding ks
func NewSet(ks ...Key) Set {
	s := make(Set, len(ks))
	for _, k := range ks {
		s[k] = struct{}{}
	}
	return s
}

// ParseSet parses every persisted key string into a set
func ParseSet(names []string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s.Add(Parse(name))
	}
	return s
}

// Add inserts k
func (s Set) Add(k Key) { s[k] = struct{}{} }

// Remove deletes k. Removing an absent key is a no-op.
func (s Set) Remove(k Key) { delete(s, k) }

// Has reports whether k is in the set
func (s Set) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Len returns the number of keys
func (s Set) Len() int { return len(s) }

// Clear removes every key
func (s Set) Clear() { clear(s) }

// Clone returns an independent copy
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same keys
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Covers reports whether every key of combo is held in s.
// A generic modifier in combo (alt, ctrl, shift, cmd) is satisfied by
// either of its sided variants.
func (s Set) Covers(combo Set) bool {
	if len(combo) == 0 {
		return false
	}
	for k := range combo {
		if s.Has(k) {
			continue
		}
		if k.IsGenericModifier() && s.hasSideOf(k) {
			continue
		}
		return false
	}
	return true
}

func (s Set) hasSideOf(generic Key) bool {
	for held := range s {
		if held != generic && held.Generic() == generic {
			return true
		}
	}
	return false
}

// Sorted returns the keys ordered by their persisted string form
func (s Set) Sorted() []Key {
	out := make([]Key, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}

// Strings returns the persisted form of every key, sorted
func (s Set) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, k := range sorted {
		out[i] = k.String()
	}
	return out
}

// Display joins the sorted display names with " + ", e.g. "G + Left Alt"
func (s Set) Display() string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k.Display())
	}
	slices.Sort(names)
	return strings.Join(names, " + ")
}
