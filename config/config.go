package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"markestedt/typeclip/keys"
)

const appName = "typeclip"

// Config holds application options read from config.toml
type Config struct {
	Settings SettingsConfig `toml:"settings"`
	Typing   TypingConfig   `toml:"typing"`
	Log      LogConfig      `toml:"log"`
	Tray     TrayConfig     `toml:"tray"`
	Watch    WatchConfig    `toml:"watch"`
}

type SettingsConfig struct {
	Path string `toml:"path"`
}

type TypingConfig struct {
	CountdownSeconds  int  `toml:"countdown_seconds"`
	SettleDelayMs     int  `toml:"settle_delay_ms"`
	TestLength        int  `toml:"test_length"`
	NormalizeNewlines bool `toml:"normalize_newlines"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type TrayConfig struct {
	Enabled bool `toml:"enabled"`
}

type WatchConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default configuration
func DefaultConfig() *Config {
	dir, err := ConfigDir()
	if err != nil {
		dir = "."
	}

	return &Config{
		Settings: SettingsConfig{
			Path: filepath.Join(dir, "settings.json"),
		},
		Typing: TypingConfig{
			CountdownSeconds:  3,
			SettleDelayMs:     200,
			TestLength:        50,
			NormalizeNewlines: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Tray: TrayConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the per-user directory holding config.toml and settings.json
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the TOML file at path.
// If the file doesn't exist, it creates it with default values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the TOML file at path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(c)
}

func (c *Config) validate() error {
	if c.Settings.Path == "" {
		return fmt.Errorf("settings.path must not be empty")
	}
	if c.Typing.CountdownSeconds < 0 {
		return fmt.Errorf("typing.countdown_seconds must not be negative")
	}
	if c.Typing.SettleDelayMs < 0 {
		return fmt.Errorf("typing.settle_delay_ms must not be negative")
	}
	if c.Typing.TestLength <= 0 {
		return fmt.Errorf("typing.test_length must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}
	return nil
}

// SettleDelay is the pause between reading the clipboard and typing
func (t TypingConfig) SettleDelay() time.Duration {
	return time.Duration(t.SettleDelayMs) * time.Millisecond
}

// ParseCombo parses a combo string like "alt_l+g" or "ctrl + shift + n"
// into persisted key strings
func ParseCombo(combo string) ([]string, error) {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return nil, fmt.Errorf("empty hotkey combo")
	}

	// A trailing "+" names the plus key itself, e.g. "ctrl++"
	var parts []string
	if rest, ok := strings.CutSuffix(combo, "++"); ok {
		parts = append(strings.Split(rest, "+"), "+")
	} else {
		parts = strings.Split(combo, "+")
	}

	seen := make(map[keys.Key]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty key in combo: %s", combo)
		}
		k := keys.Parse(part)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k.String())
	}

	return out, nil
}
