package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"markestedt/typeclip/config"
	"markestedt/typeclip/hotkey"
	"markestedt/typeclip/keys"
	"markestedt/typeclip/platform"
	"markestedt/typeclip/textproc"
	"markestedt/typeclip/typer"
)

// Status describes what the agent is doing
type Status string

const (
	StatusStopped   Status = "stopped"
	StatusListening Status = "listening"
	StatusTyping    Status = "typing"
)

// ErrAlreadyListening is returned when the hook is needed while a session holds it
var ErrAlreadyListening = errors.New("already listening for hotkeys")

// Agent coordinates hotkey detection, clipboard reads and typing
type Agent struct {
	ctx       context.Context // process lifetime; cancels typing on shutdown
	cfg       *config.Config
	store     *config.SettingsStore
	hook      platform.Hook
	clipboard platform.Clipboard
	typer     *typer.Typer
	scheduler *typer.Scheduler
	matcher   *hotkey.Matcher
	settings  atomic.Pointer[config.Settings]

	sleep typer.SleepFunc

	mu      sync.Mutex
	session *session
}

// session is one period of listening mode
type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAgent creates a new agent instance and loads the stored settings
func NewAgent(ctx context.Context, cfg *config.Config, store *config.SettingsStore, hook platform.Hook, kb platform.Keyboard, clip platform.Clipboard) *Agent {
	a := &Agent{
		ctx:       ctx,
		cfg:       cfg,
		store:     store,
		hook:      hook,
		clipboard: clip,
		typer:     typer.New(kb, slog.Default()),
		scheduler: typer.NewScheduler(),
		matcher:   hotkey.NewMatcher(nil),
		sleep:     typer.Sleep,
	}
	a.applySettings(store.Load())
	return a
}

// Settings returns the current settings snapshot
func (a *Agent) Settings() *config.Settings {
	return a.settings.Load()
}

// ReloadSettings re-reads the settings file and swaps in its hotkeys and delays
func (a *Agent) ReloadSettings() {
	a.applySettings(a.store.Load())
}

func (a *Agent) applySettings(s *config.Settings) {
	a.settings.Store(s)
	a.matcher.SetBindings(s.Bindings())
	slog.Info("Settings loaded",
		"hotkeys", len(s.Hotkeys),
		"debounce", s.Debounce(),
		"delay", s.Delay())
}

// StartListening installs the keyboard hook and starts matching hotkeys.
// A hook failure is logged and leaves the agent stopped.
func (a *Agent) StartListening() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(a.ctx)
	events, err := a.hook.Listen(ctx)
	if err != nil {
		cancel()
		slog.Error("Failed to start keyboard listener", "error", err)
		return fmt.Errorf("failed to start keyboard listener: %w", err)
	}

	a.matcher.Reset()
	s := &session{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		if err := a.matcher.Run(ctx, events, a.onHotkey); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Hotkey matcher stopped", "error", err)
		}
	}()
	a.session = s

	for _, b := range a.matcher.Bindings() {
		slog.Info("Listening for hotkey", "combo", b.Combo.Display(), "description", b.Description)
	}
	return nil
}

// StopListening releases the keyboard hook. Typing already in progress
// runs to completion.
func (a *Agent) StopListening() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return
	}
	a.session.cancel()
	<-a.session.done
	a.session = nil
	slog.Info("Stopped listening")
}

// Listening reports whether a listening session is active
func (a *Agent) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

// Status reports the agent's current activity
func (a *Agent) Status() Status {
	switch {
	case a.scheduler.Busy():
		return StatusTyping
	case a.Listening():
		return StatusListening
	default:
		return StatusStopped
	}
}

// onHotkey runs on the matcher goroutine and must not block
func (a *Agent) onHotkey(b config.Binding) {
	slog.Info("Hotkey triggered", "combo", b.Combo.Display(), "description", b.Description)

	task, err := a.scheduler.Submit(a.typeClipboard)
	if err != nil {
		slog.Warn("Hotkey ignored", "error", err)
		a.matcher.Disarm()
		return
	}

	// Stay armed for the debounce interval after typing ends
	go func() {
		task.Wait()
		if err := a.sleep(a.ctx, a.Settings().Debounce()); err != nil {
			return
		}
		a.matcher.Disarm()
	}()
}

// typeClipboard types the clipboard contents after the settle delay
func (a *Agent) typeClipboard() (typer.Result, error) {
	text, err := a.readClipboard()
	if err != nil || text == "" {
		return typer.Result{}, err
	}

	if err := a.sleep(a.ctx, a.cfg.Typing.SettleDelay()); err != nil {
		return typer.Result{}, err
	}
	return a.typeText(text, 0)
}

// TypeClipboard counts down and types the clipboard contents
func (a *Agent) TypeClipboard() (*typer.Task, error) {
	return a.scheduler.Submit(func() (typer.Result, error) {
		if err := a.countdown(); err != nil {
			return typer.Result{}, err
		}
		text, err := a.readClipboard()
		if err != nil || text == "" {
			return typer.Result{}, err
		}
		return a.typeText(text, 0)
	})
}

// CopyAndType puts text on the clipboard, counts down and types it
func (a *Agent) CopyAndType(text string) (*typer.Task, error) {
	if text == "" {
		return nil, errors.New("no text to type")
	}

	return a.scheduler.Submit(func() (typer.Result, error) {
		if err := a.clipboard.Set(text); err != nil {
			slog.Error("Failed to copy text", "error", err)
			return typer.Result{}, fmt.Errorf("failed to set clipboard: %w", err)
		}

		chars, lines := textproc.Count(text)
		slog.Info("Copied text to clipboard", "chars", chars, "lines", lines)

		if err := a.countdown(); err != nil {
			return typer.Result{}, err
		}
		return a.typeText(text, 0)
	})
}

// TestInput counts down and types the start of the clipboard contents
func (a *Agent) TestInput() (*typer.Task, error) {
	return a.scheduler.Submit(func() (typer.Result, error) {
		if err := a.countdown(); err != nil {
			return typer.Result{}, err
		}

		text, err := a.readClipboard()
		if err != nil || text == "" {
			return typer.Result{}, err
		}

		slog.Info("Test typing", "preview", textproc.Preview(text, a.cfg.Typing.TestLength))
		return a.typeText(text, a.cfg.Typing.TestLength)
	})
}

// RecordHotkey captures the next combo typed on the keyboard. It needs the
// hook to itself, so it fails while listening.
func (a *Agent) RecordHotkey(ctx context.Context) (keys.Set, error) {
	if a.Listening() {
		return nil, ErrAlreadyListening
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := a.hook.Listen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start keyboard listener: %w", err)
	}
	slog.Info("Press the new hotkey, or Esc to cancel")
	return hotkey.Record(ctx, events)
}

// Close stops listening and waits for typing in progress
func (a *Agent) Close() {
	a.StopListening()
	a.scheduler.Wait()
}

func (a *Agent) readClipboard() (string, error) {
	text, err := a.clipboard.Get()
	if err != nil {
		slog.Error("Failed to read clipboard", "error", err)
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	if text == "" {
		slog.Warn("Clipboard is empty, nothing to type")
	}
	return text, nil
}

// typeText prepares text and types it. A positive limit keeps only that many
// characters.
func (a *Agent) typeText(text string, limit int) (typer.Result, error) {
	pipeline := textproc.ForTyping(textproc.Options{
		NormalizeNewlines: a.cfg.Typing.NormalizeNewlines,
		Limit:             limit,
	})
	prepared, err := pipeline.Process(a.ctx, text)
	if err != nil {
		return typer.Result{}, fmt.Errorf("failed to prepare text: %w", err)
	}

	delay := a.Settings().Delay()
	chars, _ := textproc.Count(prepared)
	slog.Info("Started typing",
		"chars", chars,
		"delay", delay,
		"estimate", typer.Estimate(prepared, delay).Round(time.Second),
		"preview", textproc.Preview(prepared, 40))

	return a.typer.Type(a.ctx, prepared, delay)
}

func (a *Agent) countdown() error {
	for i := a.cfg.Typing.CountdownSeconds; i > 0; i-- {
		slog.Info("Typing starts in", "seconds", i)
		if err := a.sleep(a.ctx, time.Second); err != nil {
			return err
		}
	}
	return nil
}
