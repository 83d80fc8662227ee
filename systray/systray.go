package systray

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/getlantern/systray"

	"markestedt/typeclip/logsink"
)

// Actions are the menu callbacks. They are called on the menu goroutine.
type Actions struct {
	StartListening func() error
	StopListening  func()
	TypeClipboard  func() error
	TestInput      func() error
	ReloadSettings func()
	Listening      func() bool
	Status         func() string
}

// SystrayManager manages the system tray icon and menu
type SystrayManager struct {
	actions      Actions
	settingsPath string
	sink         *logsink.Sink
	quit         chan struct{}
}

// NewSystrayManager creates a new systray manager. Log lines from sink are
// shown in the tooltip.
func NewSystrayManager(actions Actions, settingsPath string, sink *logsink.Sink) *SystrayManager {
	return &SystrayManager{
		actions:      actions,
		settingsPath: settingsPath,
		sink:         sink,
		quit:         make(chan struct{}),
	}
}

// Run starts the system tray (blocking call)
func (m *SystrayManager) Run() {
	systray.Run(m.onReady, m.onExit)
}

// Stop stops the system tray
func (m *SystrayManager) Stop() {
	systray.Quit()
}

// WaitForQuit returns a channel that will be closed when user clicks Quit
func (m *SystrayManager) WaitForQuit() <-chan struct{} {
	return m.quit
}

// onReady is called when the systray is ready
func (m *SystrayManager) onReady() {
	if icon, err := iconData(); err != nil {
		slog.Warn("Failed to build tray icon", "error", err)
	} else {
		systray.SetIcon(icon)
	}

	systray.SetTitle("TypeClip")
	systray.SetTooltip("TypeClip")

	mStart := systray.AddMenuItem("Start listening", "Type the clipboard when a hotkey is pressed")
	mStop := systray.AddMenuItem("Stop listening", "Release the keyboard hook")
	systray.AddSeparator()
	mType := systray.AddMenuItem("Type clipboard", "Type the clipboard after a countdown")
	mTest := systray.AddMenuItem("Test input", "Type the start of the clipboard after a countdown")
	systray.AddSeparator()
	mReload := systray.AddMenuItem("Reload settings", "Re-read hotkeys and delays")
	mOpen := systray.AddMenuItem("Open settings file", "Edit hotkeys and delays")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit TypeClip")

	refresh := func() {
		if m.actions.Listening() {
			mStart.Disable()
			mStop.Enable()
		} else {
			mStart.Enable()
			mStop.Disable()
		}
	}
	refresh()

	// Render log lines
	go func() {
		for {
			select {
			case <-m.quit:
				return
			case line := <-m.sink.Lines():
				systray.SetTooltip(fmt.Sprintf("TypeClip (%s)\n%s", m.actions.Status(), line.Message))
			}
		}
	}()

	// Handle menu clicks
	go func() {
		for {
			select {
			case <-mStart.ClickedCh:
				if err := m.actions.StartListening(); err != nil {
					slog.Error("Could not start listening", "error", err)
				}
				refresh()
			case <-mStop.ClickedCh:
				m.actions.StopListening()
				refresh()
			case <-mType.ClickedCh:
				if err := m.actions.TypeClipboard(); err != nil {
					slog.Warn("Could not type clipboard", "error", err)
				}
			case <-mTest.ClickedCh:
				if err := m.actions.TestInput(); err != nil {
					slog.Warn("Could not run test input", "error", err)
				}
			case <-mReload.ClickedCh:
				m.actions.ReloadSettings()
			case <-mOpen.ClickedCh:
				m.openSettings()
			case <-mQuit.ClickedCh:
				slog.Info("User requested quit from system tray")
				m.actions.StopListening()
				close(m.quit)
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (m *SystrayManager) onExit() {
	slog.Info("System tray exited")
}

// openSettings opens the settings file in the default editor
func (m *SystrayManager) openSettings() {
	slog.Info("Opening settings file", "path", m.settingsPath)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", m.settingsPath)
	case "darwin":
		cmd = exec.Command("open", m.settingsPath)
	case "linux":
		cmd = exec.Command("xdg-open", m.settingsPath)
	default:
		slog.Error("Unsupported platform for opening files", "platform", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to open settings file", "error", err)
	}
}
