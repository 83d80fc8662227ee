package keys

import (
	"slices"
	"testing"
)

func TestSetAddRemove(t *testing.T) {
	t.Parallel()

	s := NewSet()
	s.Add(AltL)
	s.Add(AltL)
	s.Add(Char("g"))
	if s.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", s.Len())
	}

	s.Remove(Char("g"))
	s.Remove(Char("g"))
	s.Remove(F5)
	if s.Len() != 1 || !s.Has(AltL) {
		t.Fatalf("unexpected set after removals: %v", s.Strings())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected empty set after Clear")
	}
}

func TestSetCovers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pressed Set
		combo   Set
		want    bool
	}{
		{"exact", NewSet(AltL, Char("g")), NewSet(AltL, Char("g")), true},
		{"superset pressed", NewSet(AltL, Char("g"), ShiftL), NewSet(AltL, Char("g")), true},
		{"missing key", NewSet(AltL), NewSet(AltL, Char("g")), false},
		{"wrong side", NewSet(AltR, Char("g")), NewSet(AltL, Char("g")), false},
		{"generic satisfied by left", NewSet(CtrlL, Char("v")), NewSet(Ctrl, Char("v")), true},
		{"generic satisfied by right", NewSet(CtrlR, Char("v")), NewSet(Ctrl, Char("v")), true},
		{"generic pressed directly", NewSet(Shift, F1), NewSet(Shift, F1), true},
		{"sided combo needs sided key", NewSet(Alt, Char("g")), NewSet(AltL, Char("g")), false},
		{"empty combo never matches", NewSet(AltL), NewSet(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pressed.Covers(tt.combo); got != tt.want {
				t.Fatalf("Covers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSetAndFormatting(t *testing.T) {
	t.Parallel()

	s := ParseSet([]string{"alt_l", "G", "alt_l"})
	if !s.Equal(NewSet(AltL, Char("g"))) {
		t.Fatalf("unexpected set: %v", s.Strings())
	}
	if got := s.Strings(); !slices.Equal(got, []string{"alt_l", "g"}) {
		t.Fatalf("Strings() = %v", got)
	}
	if got := s.Display(); got != "G + Left Alt" {
		t.Fatalf("Display() = %q", got)
	}
}

func TestSetCloneIsIndependent(t *testing.T) {
	t.Parallel()

	a := NewSet(AltL)
	b := a.Clone()
	b.Add(Char("x"))
	if a.Has(Char("x")) {
		t.Fatalf("clone shares storage with original")
	}
	if a.Equal(b) {
		t.Fatalf("sets should differ")
	}
}
