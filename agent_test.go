package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"markestedt/typeclip/config"
	"markestedt/typeclip/keys"
	"markestedt/typeclip/platform"
	"markestedt/typeclip/typer"
)

type fakeHook struct {
	mu     sync.Mutex
	err    error
	events chan platform.KeyEvent
	ctx    context.Context
}

func (h *fakeHook) Listen(ctx context.Context) (<-chan platform.KeyEvent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return nil, h.err
	}
	h.events = make(chan platform.KeyEvent, 16)
	h.ctx = ctx
	return h.events, nil
}

func (h *fakeHook) send(typ platform.EventType, k keys.Key) {
	h.mu.Lock()
	ch := h.events
	h.mu.Unlock()
	ch <- platform.KeyEvent{Type: typ, Key: k}
}

type fakeKeyboard struct {
	mu    sync.Mutex
	typed strings.Builder
}

func (kb *fakeKeyboard) PressKey(k keys.Key) error {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	switch k {
	case keys.Enter:
		kb.typed.WriteString("\n")
	case keys.Space:
		kb.typed.WriteString(" ")
	case keys.Tab:
		kb.typed.WriteString("\t")
	default:
		kb.typed.WriteString(k.Text())
	}
	return nil
}

func (kb *fakeKeyboard) ReleaseKey(keys.Key) error { return nil }

func (kb *fakeKeyboard) String() string {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.typed.String()
}

type fakeClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

func (c *fakeClipboard) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, c.err
}

func (c *fakeClipboard) Set(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

type testAgent struct {
	*Agent
	hook   *fakeHook
	kb     *fakeKeyboard
	clip   *fakeClipboard
	sleeps chan time.Duration
}

func newTestAgent(t *testing.T) *testAgent {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Settings.Path = filepath.Join(t.TempDir(), "settings.json")
	cfg.Typing.CountdownSeconds = 0
	cfg.Typing.SettleDelayMs = 0

	ta := &testAgent{
		hook:   &fakeHook{},
		kb:     &fakeKeyboard{},
		clip:   &fakeClipboard{},
		sleeps: make(chan time.Duration, 32),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := config.NewSettingsStore(cfg.Settings.Path, nil)
	ta.Agent = NewAgent(ctx, cfg, store, ta.hook, ta.kb, ta.clip)
	ta.Agent.sleep = func(ctx context.Context, d time.Duration) error {
		select {
		case ta.sleeps <- d:
		default:
		}
		return ctx.Err()
	}
	t.Cleanup(ta.Close)
	return ta
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHotkeyTypesClipboard(t *testing.T) {
	ta := newTestAgent(t)
	ta.clip.text = "hi"

	if err := ta.StartListening(); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	if ta.Status() != StatusListening {
		t.Fatalf("status = %s", ta.Status())
	}

	ta.hook.send(platform.Pressed, keys.AltL)
	ta.hook.send(platform.Pressed, keys.Char("g"))

	waitFor(t, "typed text", func() bool { return ta.kb.String() == "hi" })
	waitFor(t, "disarm", func() bool { return !ta.matcher.Armed() })

	// Settle delay, then the debounce wait
	var got []time.Duration
	for len(got) < 2 {
		select {
		case d := <-ta.sleeps:
			got = append(got, d)
		case <-time.After(time.Second):
			t.Fatalf("sleeps = %v", got)
		}
	}
	if got[0] != 0 || got[1] != 500*time.Millisecond {
		t.Fatalf("sleeps = %v, want [0s 500ms]", got)
	}
}

func TestHookFailureLeavesAgentStopped(t *testing.T) {
	ta := newTestAgent(t)
	ta.hook.err = errors.New("access denied")

	if err := ta.StartListening(); err == nil {
		t.Fatalf("StartListening should fail")
	}
	if ta.Listening() || ta.Status() != StatusStopped {
		t.Fatalf("agent should not be listening")
	}
}

func TestStopListeningReleasesHook(t *testing.T) {
	ta := newTestAgent(t)

	if err := ta.StartListening(); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	// Starting twice keeps the same session
	if err := ta.StartListening(); err != nil {
		t.Fatalf("second StartListening: %v", err)
	}
	hookCtx := ta.hook.ctx

	ta.StopListening()
	if hookCtx.Err() == nil {
		t.Fatalf("hook context should be cancelled")
	}
	if ta.Listening() {
		t.Fatalf("agent still listening")
	}
	ta.StopListening()
}

func TestBusyTriggerIsDropped(t *testing.T) {
	ta := newTestAgent(t)
	ta.clip.text = "x"

	block := make(chan struct{})
	task, err := ta.scheduler.Submit(func() (typer.Result, error) {
		<-block
		return typer.Result{}, nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ta.Status() != StatusTyping {
		t.Fatalf("status = %s, want typing", ta.Status())
	}

	ta.matcher.Press(keys.AltL)
	b, ok := ta.matcher.Press(keys.Char("g"))
	if !ok {
		t.Fatalf("default hotkey should match")
	}
	ta.onHotkey(b)

	if ta.matcher.Armed() {
		t.Fatalf("dropped trigger should disarm the matcher")
	}
	close(block)
	task.Wait()
	if ta.kb.String() != "" {
		t.Fatalf("typed %q while busy", ta.kb.String())
	}
}

func TestCopyAndType(t *testing.T) {
	ta := newTestAgent(t)
	ta.cfg.Typing.CountdownSeconds = 2

	task, err := ta.CopyAndType("ok\r\nyes")
	if err != nil {
		t.Fatalf("CopyAndType: %v", err)
	}
	res, err := task.Wait()
	if err != nil {
		t.Fatalf("task: %v", err)
	}

	if got, _ := ta.clip.Get(); got != "ok\r\nyes" {
		t.Fatalf("clipboard = %q", got)
	}
	if got := ta.kb.String(); got != "ok\nyes" {
		t.Fatalf("typed %q", got)
	}
	if res.Typed != 6 {
		t.Fatalf("result = %+v", res)
	}
	for i := 0; i < 2; i++ {
		if d := <-ta.sleeps; d != time.Second {
			t.Fatalf("countdown sleep = %v", d)
		}
	}

	if _, err := ta.CopyAndType(""); err == nil {
		t.Fatalf("empty text should be rejected")
	}
}

func TestTestInputTypesPrefix(t *testing.T) {
	ta := newTestAgent(t)
	ta.cfg.Typing.TestLength = 3
	ta.clip.text = "abcdef"

	task, err := ta.TestInput()
	if err != nil {
		t.Fatalf("TestInput: %v", err)
	}
	if _, err := task.Wait(); err != nil {
		t.Fatalf("task: %v", err)
	}
	if got := ta.kb.String(); got != "abc" {
		t.Fatalf("typed %q, want abc", got)
	}
}

func TestEmptyClipboardTypesNothing(t *testing.T) {
	ta := newTestAgent(t)

	res, err := ta.typeClipboard()
	if err != nil {
		t.Fatalf("typeClipboard: %v", err)
	}
	if res.Total != 0 || ta.kb.String() != "" {
		t.Fatalf("typed %q, result %+v", ta.kb.String(), res)
	}

	ta.clip.err = errors.New("locked")
	if _, err := ta.typeClipboard(); err == nil {
		t.Fatalf("clipboard error should be returned")
	}
}

func TestReloadSettingsSwapsBindings(t *testing.T) {
	ta := newTestAgent(t)

	s := config.DefaultSettings()
	s.Hotkeys = []config.HotkeyDefinition{{Keys: []string{"f5"}, Description: "F5"}}
	s.InputDelay = 0.002
	if !ta.store.Save(s) {
		t.Fatalf("Save failed")
	}

	ta.ReloadSettings()

	bindings := ta.matcher.Bindings()
	if len(bindings) != 1 || !bindings[0].Combo.Has(keys.F5) {
		t.Fatalf("bindings = %+v", bindings)
	}
	if got := ta.Settings().Delay(); got != 2*time.Millisecond {
		t.Fatalf("delay = %v", got)
	}
}

func TestRecordHotkeyNeedsFreeHook(t *testing.T) {
	ta := newTestAgent(t)

	if err := ta.StartListening(); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	if _, err := ta.RecordHotkey(context.Background()); !errors.Is(err, ErrAlreadyListening) {
		t.Fatalf("RecordHotkey = %v, want ErrAlreadyListening", err)
	}
	ta.StopListening()

	resultCh := make(chan keys.Set, 1)
	go func() {
		combo, err := ta.RecordHotkey(context.Background())
		if err != nil {
			t.Errorf("RecordHotkey: %v", err)
		}
		resultCh <- combo
	}()

	waitFor(t, "recording hook", func() bool {
		ta.hook.mu.Lock()
		defer ta.hook.mu.Unlock()
		return ta.hook.ctx != nil && ta.hook.ctx.Err() == nil
	})
	ta.hook.send(platform.Pressed, keys.CtrlL)
	ta.hook.send(platform.Pressed, keys.Char("t"))
	ta.hook.send(platform.Released, keys.Char("t"))

	select {
	case combo := <-resultCh:
		if combo.Display() != "Left Ctrl + T" {
			t.Fatalf("combo = %q", combo.Display())
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("recording did not finish")
	}
}

func TestTypeClipboardAfterCountdown(t *testing.T) {
	ta := newTestAgent(t)
	ta.cfg.Typing.CountdownSeconds = 1
	ta.clip.text = "a b"

	task, err := ta.TypeClipboard()
	if err != nil {
		t.Fatalf("TypeClipboard: %v", err)
	}
	if _, err := ta.TypeClipboard(); !errors.Is(err, typer.ErrBusy) {
		t.Fatalf("second TypeClipboard = %v, want ErrBusy", err)
	}
	if _, err := task.Wait(); err != nil {
		t.Fatalf("task: %v", err)
	}
	if got := ta.kb.String(); got != "a b" {
		t.Fatalf("typed %q", got)
	}
	if d := <-ta.sleeps; d != time.Second {
		t.Fatalf("countdown sleep = %v", d)
	}
}
