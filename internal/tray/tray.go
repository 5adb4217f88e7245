// Package tray provides the menu bar controls for mudra.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Handlers are invoked from menu clicks. Any field may be nil.
type Handlers struct {
	OnToggle     func(enabled bool)
	OnReset      func()
	OnComet      func()
	OnOpenViewer func()
	OnQuit       func()
}

// Tray is the system tray menu.
type Tray struct {
	handlers Handlers
	enabled  bool
	pose     string
	action   string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a Tray showing the given enabled state.
func New(enabled bool, h Handlers) *Tray {
	return &Tray{handlers: h, enabled: enabled}
}

// Run starts the system tray. It blocks until Quit is called and must run on
// the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("mudra")
	systray.SetTooltip("mudra hand-pose orbit controller")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture recognition")
	systray.AddSeparator()
	t.menuStatus = systray.AddMenuItem(statusTitle(t.pose, t.action), "Last pose and action")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuReset := systray.AddMenuItem("Reset Orbit", "Return the camera to free orbit")
	menuComet := systray.AddMenuItem("Spawn Comet", "Launch a comet")
	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the viewer in a browser")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				call(t.handlers.OnReset)
			case <-menuComet.ClickedCh:
				call(t.handlers.OnComet)
			case <-menuViewer.ClickedCh:
				call(t.handlers.OnOpenViewer)
			case <-menuQuit.ClickedCh:
				call(t.handlers.OnQuit)
				systray.Quit()
				return
			}
		}
	}()
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func statusTitle(pose, action string) string {
	if pose == "" {
		pose = "NONE"
	}
	if action == "" {
		action = "none"
	}
	return "Pose: " + pose + "  Last: " + action
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	t.mu.Unlock()

	// Outside the lock: the callback may call back into SetEnabled.
	if t.handlers.OnToggle != nil {
		t.handlers.OnToggle(enabled)
	}
}

// SetEnabled syncs the toggle with a change made elsewhere.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetStatus updates the pose and last action readout. Unchanged values do
// not touch the menu.
func (t *Tray) SetStatus(pose, action string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pose == t.pose && action == t.action {
		return
	}
	t.pose, t.action = pose, action
	if t.menuStatus != nil {
		t.menuStatus.SetTitle(statusTitle(pose, action))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
