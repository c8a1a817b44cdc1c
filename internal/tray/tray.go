// Package tray provides a system tray menu for the try-on service.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle      func(enabled bool)
	onRecalibrate func()
	onStrategy    func() string
	onOpen        func()
	onQuit        func()
	enabled       bool
	status        string
	strategy      string
	mu            sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuStatus   *systray.MenuItem
	menuStrategy *systray.MenuItem
}

// New creates a new Tray with capture enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
		status:  "Calibrating",
	}
}

// OnToggle sets the callback run when capture is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRecalibrate sets the callback run when the user asks to calibrate again.
func (t *Tray) OnRecalibrate(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecalibrate = fn
}

// OnStrategy sets the callback run when the layout item is clicked. It returns
// the strategy now in use.
func (t *Tray) OnStrategy(fn func() string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStrategy = fn
}

// OnOpen sets the callback run when the preview item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Try-On")
	systray.SetTooltip("Pose-anchored garment try-on")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Pause or resume the camera")
	systray.AddSeparator()
	t.menuStatus = systray.AddMenuItem(statusTitle(t.status), "Session phase")
	t.menuStatus.Disable()
	t.menuStrategy = systray.AddMenuItem(strategyTitle(t.strategy), "Switch garment layout")
	t.mu.Unlock()

	menuRecalibrate := systray.AddMenuItem("Recalibrate", "Start calibration again")
	systray.AddSeparator()
	menuOpen := systray.AddMenuItem("Open Preview...", "Open the preview in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit Try-On")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuStrategy.ClickedCh:
				t.handleStrategy()
			case <-menuRecalibrate.ClickedCh:
				t.handleRecalibrate()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Camera On"
	}
	return "○ Camera Paused"
}

func statusTitle(status string) string {
	return "Status: " + status
}

func strategyTitle(strategy string) string {
	if strategy == "" {
		return "Layout"
	}
	return "Layout: " + strategy
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleStrategy() {
	t.mu.RLock()
	callback := t.onStrategy
	t.mu.RUnlock()

	if callback != nil {
		t.SetStrategy(callback())
	}
}

func (t *Tray) handleRecalibrate() {
	t.mu.RLock()
	callback := t.onRecalibrate
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetStatus updates the phase shown in the menu.
func (t *Tray) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(status))
	}
}

// SetStrategy updates the layout shown in the menu.
func (t *Tray) SetStrategy(strategy string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.strategy = strategy
	if t.menuStrategy != nil {
		t.menuStrategy.SetTitle(strategyTitle(strategy))
	}
}

// Status returns the phase shown in the menu.
func (t *Tray) Status() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
