package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join("home", "user", ".config", "typeclip", "settings.json")
	base := filepath.Base(path)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to file", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create file", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename onto file", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove only", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(filepath.Dir(path), "config.toml"), Op: fsnotify.Write}, false},
		{"partial path", fsnotify.Event{Name: "settings.json", Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldReload(path, base, tt.event); got != tt.want {
				t.Fatalf("shouldReload = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatchSettingsSignalsOnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	reloadCh := make(chan struct{}, 10)
	watcher, err := WatchSettings(path, func() {
		select {
		case reloadCh <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchSettings: %v", err)
	}
	t.Cleanup(func() {
		_ = watcher.Close()
	})

	// Give fsnotify a moment to attach
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated: %v", err)
	}
	select {
	case <-reloadCh:
		t.Fatalf("unrelated file should not trigger a reload")
	case <-time.After(150 * time.Millisecond):
	}

	st := NewSettingsStore(path, discardLogger())
	if !st.Save(DefaultSettings()) {
		t.Fatalf("Save failed")
	}

	select {
	case <-reloadCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected reload signal after saving settings")
	}
}
