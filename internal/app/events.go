package app

import (
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/logger"
)

// subscribeEvents wires the App's reactions to the host's events.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeDispatchFailed, a.handleDispatchFailed)
	a.eventManager.Subscribe(event.TypeExternalSync, a.handleRedrawEvent)
	a.eventManager.Subscribe(event.TypeEditorOpened, a.handleRedrawEvent)
	a.eventManager.Subscribe(event.TypeEditorClosed, a.handleEditorClosed)
}

func (a *App) handleDispatchFailed(e event.Event) bool {
	if data, ok := e.Data.(event.DispatchFailedData); ok {
		logger.DebugTagf("app", "%s failed: %v", data.Action, data.Err)
	}
	return false
}

func (a *App) handleEditorClosed(e event.Event) bool {
	if data, ok := e.Data.(event.EditorClosedData); ok && data.Applied {
		logger.DebugTagf("app", "editor %s applied to %s", data.Name, data.BlockID)
	}
	a.requestRedraw()
	return false
}

func (a *App) handleRedrawEvent(event.Event) bool {
	a.requestRedraw()
	return false
}
