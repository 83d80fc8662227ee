package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// shouldReload reports whether an fsnotify event touches the settings file
func shouldReload(path, base string, event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if name == path {
		return true
	}
	// Editors that save via temp + rename may report a partial path
	return filepath.Base(name) == base
}

// WatchSettings calls onChange whenever the settings file at path is written
// or replaced. The caller closes the returned watcher.
func WatchSettings(path string, onChange func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watching the directory survives the file being replaced
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	path = filepath.Clean(path)
	base := filepath.Base(path)

	go func() {
		// Editors may write in several steps; reload once they go quiet
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !shouldReload(path, base, event) {
					continue
				}
				slog.Debug("Settings change detected", "path", path, "op", event.Op.String())
				if timer == nil {
					timer = time.AfterFunc(reloadDebounce, onChange)
				} else {
					timer.Reset(reloadDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("Settings watcher error", "error", err)
			}
		}
	}()
	return watcher, nil
}
