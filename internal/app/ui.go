package app

import (
	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/modehandler"
	"github.com/bethropolis/notebook/internal/tui"
)

// draw clears the screen and redraws all components.
func (a *App) draw() {
	a.updateStatusBarContent()

	th := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	viewHeight := height - config.StatusBarHeight

	logger.DebugTagf("draw", "draw: screen %dx%d, view height %d", width, height, viewHeight)

	a.tuiManager.Clear()
	a.view.Draw(screen, tui.Frame{
		Theme:     th,
		Registry:  a.host.Registry(),
		Selection: a.modeHandler.Selection(),
		Width:     width,
		Height:    viewHeight,
	})
	if m, ok := a.modeHandler.MenuView(); ok {
		tui.DrawMenu(screen, th, m, width, viewHeight)
	}
	if e, ok := a.modeHandler.EditorView(); ok {
		tui.DrawEditor(screen, th, e, width, viewHeight)
	}
	a.statusBar.Draw(screen, width, height, th)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes the notebook state to the status bar.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.DocumentPath(), a.IsModified())
	a.statusBar.SetReadOnly(a.host.ReadOnly())
	a.statusBar.SetEditorMode(a.modeHandler.GetCurrentModeString())

	seq := a.view.Sequence()
	if b, idx, ok := a.view.Focused(); ok {
		label := b.Type()
		if def, err := a.host.Registry().Lookup(b.Type()); err == nil && def.Label != "" {
			label = def.Label
		}
		a.statusBar.SetBlockInfo(label, idx, len(seq))
	} else {
		a.statusBar.SetBlockInfo("", -1, len(seq))
	}

	if a.modeHandler.GetCurrentMode() == modehandler.ModeCommand {
		a.statusBar.SetTemporaryMessage(":%s", a.modeHandler.GetCommandBuffer())
	}
}

// SetStatusMessage shows a temporary message. It is safe to call from
// any goroutine.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.requestRedraw()
}
