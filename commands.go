package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"markestedt/typeclip/config"
	"markestedt/typeclip/keys"
	"markestedt/typeclip/typer"
)

// typeCommand copies text from args, or stdin, to the clipboard and types it
func typeCommand(agent *Agent, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	task, err := agent.CopyAndType(text)
	if err != nil {
		return err
	}
	return waitTask(task)
}

func testCommand(agent *Agent) error {
	task, err := agent.TestInput()
	if err != nil {
		return err
	}
	return waitTask(task)
}

func waitTask(task *typer.Task) error {
	res, err := task.Wait()
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		slog.Warn("Some characters could not be typed", "skipped", res.Skipped)
	}
	return nil
}

func listHotkeys(store *config.SettingsStore) error {
	s := store.Load()
	printHotkeys(os.Stdout, s)
	return nil
}

func printHotkeys(w io.Writer, s *config.Settings) {
	for _, b := range s.Bindings() {
		fmt.Fprintf(w, "%d. %s", b.Index+1, b.Combo.Display())
		if b.Description != "" && b.Description != b.Combo.Display() {
			fmt.Fprintf(w, "  (%s)", b.Description)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "debounce: %gs, delay: %gms\n", s.DebounceTime, s.InputDelay*1000)
}

func addHotkey(store *config.SettingsStore, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <combo> [description]")
	}

	names, err := config.ParseCombo(args[0])
	if err != nil {
		return err
	}
	def := config.DefinitionFromSet(keys.ParseSet(names))
	def.Keys = names
	if len(args) > 1 {
		def.Description = strings.Join(args[1:], " ")
	}

	return updateSettings(store, func(s *config.Settings) error {
		return s.AddHotkey(def)
	})
}

func removeHotkey(store *config.SettingsStore, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <n>")
	}
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	return updateSettings(store, func(s *config.Settings) error {
		return s.RemoveHotkey(index)
	})
}

func recordHotkey(ctx context.Context, agent *Agent, store *config.SettingsStore, args []string) error {
	index := -1
	if len(args) > 0 {
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		index = i
	}

	combo, err := agent.RecordHotkey(ctx)
	if err != nil {
		return err
	}
	def := config.DefinitionFromSet(combo)
	slog.Info("Recorded hotkey", "combo", def.Description)

	return updateSettings(store, func(s *config.Settings) error {
		if index < 0 {
			return s.AddHotkey(def)
		}
		return s.SetHotkey(index, def)
	})
}

func setOption(store *config.SettingsStore, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set debounce <seconds> | set delay <milliseconds>")
	}

	switch args[0] {
	case "debounce":
		v, err := config.ParseDebounce(args[1])
		if err != nil {
			return err
		}
		return updateSettings(store, func(s *config.Settings) error {
			s.DebounceTime = v
			return nil
		})
	case "delay":
		v, err := config.ParseDelayMillis(args[1])
		if err != nil {
			return err
		}
		return updateSettings(store, func(s *config.Settings) error {
			s.InputDelay = v
			return nil
		})
	default:
		return fmt.Errorf("unknown setting: %s", args[0])
	}
}

// updateSettings applies edit to a copy of the stored settings and saves it
func updateSettings(store *config.SettingsStore, edit func(*config.Settings) error) error {
	s := store.Load().Clone()
	if err := edit(s); err != nil {
		return err
	}
	if !store.Save(s) {
		return errors.New("settings were not saved")
	}
	printHotkeys(os.Stdout, s)
	return nil
}

// parseIndex converts a 1-based hotkey number to an index
func parseIndex(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid hotkey number: %s", text)
	}
	return n - 1, nil
}
