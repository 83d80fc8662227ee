package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"markestedt/typeclip/keys"
)

// Settings is the hotkey document persisted as settings.json
type Settings struct {
	Hotkeys      []HotkeyDefinition `json:"hotkeys"`
	DebounceTime float64            `json:"debounce_time"`
	InputDelay   float64            `json:"input_delay"`
}

// HotkeyDefinition is one configured combo and its label
type HotkeyDefinition struct {
	Keys        []string `json:"keys"`
	Description string   `json:"description"`
}

// Binding is a parsed hotkey definition, in configuration order
type Binding struct {
	Index       int
	Combo       keys.Set
	Description string
}

const (
	defaultDebounce   = 0.5
	defaultInputDelay = 0.01
)

// DefaultSettings returns the built-in settings: Left Alt + G
func DefaultSettings() *Settings {
	return &Settings{
		Hotkeys: []HotkeyDefinition{
			{Keys: []string{"alt_l", "g"}, Description: "Alt + G"},
		},
		DebounceTime: defaultDebounce,
		InputDelay:   defaultInputDelay,
	}
}

// Clone returns a deep copy
func (s *Settings) Clone() *Settings {
	out := &Settings{
		Hotkeys:      make([]HotkeyDefinition, len(s.Hotkeys)),
		DebounceTime: s.DebounceTime,
		InputDelay:   s.InputDelay,
	}
	for i, hk := range s.Hotkeys {
		out.Hotkeys[i] = HotkeyDefinition{
			Keys:        append([]string(nil), hk.Keys...),
			Description: hk.Description,
		}
	}
	return out
}

// Bindings parses every hotkey definition into a key set
func (s *Settings) Bindings() []Binding {
	out := make([]Binding, 0, len(s.Hotkeys))
	for i, hk := range s.Hotkeys {
		out = append(out, Binding{
			Index:       i,
			Combo:       keys.ParseSet(hk.Keys),
			Description: hk.Description,
		})
	}
	return out
}

// Debounce returns the debounce interval
func (s *Settings) Debounce() time.Duration {
	return seconds(s.DebounceTime)
}

// Delay returns the per-character input delay unit
func (s *Settings) Delay() time.Duration {
	return seconds(s.InputDelay)
}

func seconds(f float64) time.Duration {
	return time.Duration(math.Round(f * float64(time.Second)))
}

// SettingsStore reads and writes the settings file
type SettingsStore struct {
	path   string
	logger *slog.Logger
}

// NewSettingsStore creates a store backed by path
func NewSettingsStore(path string, logger *slog.Logger) *SettingsStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsStore{path: path, logger: logger}
}

// Path returns the backing file path
func (st *SettingsStore) Path() string { return st.path }

// Load returns the stored settings, or the defaults if the file is missing or
// cannot be read or parsed. Failures are logged, never returned.
func (st *SettingsStore) Load() *Settings {
	s, err := st.Read()
	if err != nil {
		if os.IsNotExist(err) {
			st.logger.Info("Settings file not found, using defaults", "path", st.path)
		} else {
			st.logger.Warn("Failed to load settings, using defaults", "path", st.path, "error", err)
		}
		return DefaultSettings()
	}
	if len(s.Hotkeys) == 0 {
		st.logger.Warn("Settings file defines no hotkeys", "path", st.path)
	}
	return s
}

// Read parses the settings file. Absent numeric fields take their defaults;
// values present in the file are kept as written.
func (st *SettingsStore) Read() (*Settings, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		return nil, err
	}

	// Decode over the defaults, like config.toml
	s := Settings{
		DebounceTime: defaultDebounce,
		InputDelay:   defaultInputDelay,
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &s, nil
}

// Save validates s and writes it to the settings file. It reports false if
// validation or the write fails; nothing is written for invalid settings.
func (st *SettingsStore) Save(s *Settings) bool {
	if err := s.Validate(); err != nil {
		st.logger.Warn("Refusing to save invalid settings", "error", err)
		return false
	}
	if err := st.write(s); err != nil {
		st.logger.Error("Failed to save settings", "path", st.path, "error", err)
		return false
	}
	st.logger.Info("Settings saved", "path", st.path, "hotkeys", len(s.Hotkeys))
	return true
}

func (st *SettingsStore) write(s *Settings) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), st.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
