// internal/tui/tui.go
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/notebook/internal/theme"
)

// TUI manages the terminal screen using tcell.
type TUI struct {
	screen tcell.Screen
}

// New initializes screen, or a new terminal screen when screen is nil.
// Tests pass a tcell.SimulationScreen.
func New(screen tcell.Screen, th *theme.Theme) (*TUI, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to create tcell screen: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	t := &TUI{screen: screen}
	t.SetTheme(th)
	return t, nil
}

// SetTheme uses the theme's default style for the screen background.
func (t *TUI) SetTheme(th *theme.Theme) {
	if th != nil {
		t.screen.SetStyle(th.GetStyle("Default"))
	}
}

// Close finalizes the tcell screen.
func (t *TUI) Close() {
	if t.screen != nil {
		t.screen.Fini()
	}
}

// PollEvent retrieves the next event. It returns nil once the screen is
// finalized.
func (t *TUI) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// PostInterrupt wakes PollEvent, e.g. to redraw from another goroutine.
func (t *TUI) PostInterrupt(data interface{}) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

// Clear clears the entire screen.
func (t *TUI) Clear() {
	t.screen.Clear()
}

// Show makes the changes visible.
func (t *TUI) Show() {
	t.screen.Show()
}

// Sync redraws every cell, after a resize.
func (t *TUI) Sync() {
	t.screen.Sync()
}

// Size returns the width and height of the terminal screen.
func (t *TUI) Size() (int, int) {
	return t.screen.Size()
}

// GetScreen provides direct access (use with caution).
func (t *TUI) GetScreen() tcell.Screen {
	return t.screen
}
