package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"markestedt/typeclip/config"
)

func newTestStore(t *testing.T) *config.SettingsStore {
	t.Helper()
	return config.NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"), nil)
}

func TestAddAndRemoveHotkey(t *testing.T) {
	store := newTestStore(t)

	if err := addHotkey(store, []string{"ctrl_l+shift+v", "Paste", "plain"}); err != nil {
		t.Fatalf("addHotkey: %v", err)
	}
	s := store.Load()
	if len(s.Hotkeys) != 2 {
		t.Fatalf("hotkeys = %+v", s.Hotkeys)
	}
	added := s.Hotkeys[1]
	if strings.Join(added.Keys, ",") != "ctrl_l,shift,v" || added.Description != "Paste plain" {
		t.Fatalf("added = %+v", added)
	}

	if err := removeHotkey(store, []string{"1"}); err != nil {
		t.Fatalf("removeHotkey: %v", err)
	}
	s = store.Load()
	if len(s.Hotkeys) != 1 || s.Hotkeys[0].Description != "Paste plain" {
		t.Fatalf("hotkeys = %+v", s.Hotkeys)
	}

	// The last hotkey stays
	if err := removeHotkey(store, []string{"1"}); !errors.Is(err, config.ErrInvalidSettings) {
		t.Fatalf("removeHotkey = %v, want ErrInvalidSettings", err)
	}
}

func TestAddHotkeyDefaultDescription(t *testing.T) {
	store := newTestStore(t)

	if err := addHotkey(store, []string{"f9"}); err != nil {
		t.Fatalf("addHotkey: %v", err)
	}
	if got := store.Load().Hotkeys[1].Description; got != "F9" {
		t.Fatalf("description = %q, want F9", got)
	}
}

func TestSetOptionValidatesBeforeSave(t *testing.T) {
	store := newTestStore(t)

	if err := setOption(store, []string{"debounce", "0.05"}); err == nil {
		t.Fatalf("debounce below the floor should be rejected")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("settings file should not be written, stat = %v", err)
	}

	if err := setOption(store, []string{"delay", "20"}); err != nil {
		t.Fatalf("set delay: %v", err)
	}
	if got := store.Load().InputDelay; got != 0.02 {
		t.Fatalf("input delay = %v, want 0.02", got)
	}

	if err := setOption(store, []string{"debounce", "1.5"}); err != nil {
		t.Fatalf("set debounce: %v", err)
	}
	if got := store.Load().DebounceTime; got != 1.5 {
		t.Fatalf("debounce = %v, want 1.5", got)
	}

	if err := setOption(store, []string{"speed", "1"}); err == nil {
		t.Fatalf("unknown setting should be rejected")
	}
}

func TestParseIndex(t *testing.T) {
	if i, err := parseIndex("2"); err != nil || i != 1 {
		t.Fatalf("parseIndex(2) = %d, %v", i, err)
	}
	for _, bad := range []string{"0", "-1", "x", ""} {
		if _, err := parseIndex(bad); err == nil {
			t.Errorf("parseIndex(%q) should fail", bad)
		}
	}
}

func TestPrintHotkeys(t *testing.T) {
	var buf bytes.Buffer
	printHotkeys(&buf, config.DefaultSettings())

	want := "1. G + Left Alt  (Alt + G)\ndebounce: 0.5s, delay: 10ms\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
