package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"markestedt/typeclip/config"
	"markestedt/typeclip/logsink"
	"markestedt/typeclip/platform"
	"markestedt/typeclip/systray"
)

var version = "dev"

// flags
type options struct {
	configPath   string
	settingsPath string
	headless     bool
}

func initFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.configPath, "config", "", "path to config.toml (default: user config directory)")
	flag.StringVar(&opts.settingsPath, "settings", "", "path to settings.json, overrides config.toml")
	flag.BoolVar(&opts.headless, "headless", false, "run without the system tray icon")
	flag.Usage = usage
	return opts
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: typeclip [flags] [command]

Commands:
  run                         listen for hotkeys and type the clipboard (default)
  type [text]                 copy text (or stdin) to the clipboard and type it
  test                        type the start of the clipboard
  hotkeys                     list configured hotkeys
  add <combo> [description]   add a hotkey, e.g. "ctrl_l+shift+v"
  remove <n>                  remove hotkey n
  record [n]                  record a hotkey from the keyboard, replacing hotkey n
  set debounce <seconds>      set the re-trigger interval
  set delay <milliseconds>    set the per-character delay
  version                     print version and exit

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	opts := initFlags()
	flag.Parse()

	if flag.Arg(0) == "version" {
		fmt.Printf("typeclip %s\n", version)
		return
	}

	if err := run(opts, flag.Args()); err != nil {
		slog.Error("typeclip failed", "error", err)
		os.Exit(1)
	}
}

func run(opts *options, args []string) error {
	configPath := opts.configPath
	if configPath == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.settingsPath != "" {
		cfg.Settings.Path = opts.settingsPath
	}

	sink := logsink.New(logsink.DefaultCapacity)
	logFile, err := setupLogging(cfg.Log, sink)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.Debug("Configuration loaded", "path", configPath)

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := config.NewSettingsStore(cfg.Settings.Path, slog.Default())

	cmd := "run"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "run":
		agent := newAgent(ctx, cfg, store)
		return runAgent(ctx, cfg, agent, sink, opts.headless)
	case "type":
		return typeCommand(newAgent(ctx, cfg, store), args)
	case "test":
		return testCommand(newAgent(ctx, cfg, store))
	case "hotkeys":
		return listHotkeys(store)
	case "add":
		return addHotkey(store, args)
	case "remove":
		return removeHotkey(store, args)
	case "record":
		return recordHotkey(ctx, newAgent(ctx, cfg, store), store, args)
	case "set":
		return setOption(store, args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func newAgent(ctx context.Context, cfg *config.Config, store *config.SettingsStore) *Agent {
	return NewAgent(ctx, cfg, store, platform.NewHook(), platform.NewKeyboard(), platform.NewClipboard())
}

// runAgent listens for hotkeys until interrupted or quit from the tray
func runAgent(ctx context.Context, cfg *config.Config, agent *Agent, sink *logsink.Sink, headless bool) error {
	defer agent.Close()

	slog.Info("TypeClip started", "version", version, "settings", cfg.Settings.Path)

	// A hook failure leaves the agent stopped; the tray can retry
	if err := agent.StartListening(); err != nil && (headless || !cfg.Tray.Enabled) {
		return err
	}

	if cfg.Watch.Enabled {
		watcher, err := config.WatchSettings(cfg.Settings.Path, func() {
			slog.Info("Settings file changed, reloading")
			agent.ReloadSettings()
		})
		if err != nil {
			slog.Warn("Failed to watch settings file", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	if headless || !cfg.Tray.Enabled {
		<-ctx.Done()
		slog.Info("Shutting down")
		return nil
	}

	tray := systray.NewSystrayManager(systray.Actions{
		StartListening: agent.StartListening,
		StopListening:  agent.StopListening,
		TypeClipboard: func() error {
			_, err := agent.TypeClipboard()
			return err
		},
		TestInput: func() error {
			_, err := agent.TestInput()
			return err
		},
		ReloadSettings: agent.ReloadSettings,
		Listening:      agent.Listening,
		Status: func() string {
			return string(agent.Status())
		},
	}, cfg.Settings.Path, sink)

	go func() {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down")
			tray.Stop()
		case <-tray.WaitForQuit():
		}
	}()

	// Blocks on the main goroutine as the tray requires
	tray.Run()
	return nil
}
