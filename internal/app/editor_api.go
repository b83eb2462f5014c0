// internal/app/editor_api.go
package app

import (
	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/commands"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/modehandler"
	"github.com/bethropolis/notebook/internal/plugin"
	"github.com/bethropolis/notebook/internal/theme"
)

var (
	_ plugin.EditorAPI     = (*appEditorAPI)(nil)
	_ modehandler.Session  = (*App)(nil)
	_ commands.NotebookAPI = (*App)(nil)
	_ commands.ThemeAPI    = (*App)(nil)
	_ commands.Registry    = (*modehandler.ModeHandler)(nil)
)

// appEditorAPI is what plugins see of the App. Registrations go to the
// embedded Contributions until the host is built.
type appEditorAPI struct {
	*plugin.Contributions
	app *App
}

func newEditorAPI(app *App, c *plugin.Contributions) *appEditorAPI {
	return &appEditorAPI{Contributions: c, app: app}
}

// --- Document Access ---

// Objects is the committed notebook. Before the host exists it is the
// loaded value.
func (api *appEditorAPI) Objects() []block.Object {
	if api.app.host == nil {
		api.app.mu.Lock()
		defer api.app.mu.Unlock()
		return append([]block.Object(nil), api.app.last...)
	}
	return api.app.host.Objects()
}

func (api *appEditorAPI) DocumentPath() string { return api.app.DocumentPath() }
func (api *appEditorAPI) IsModified() bool     { return api.app.IsModified() }
func (api *appEditorAPI) SaveDocument() error  { return api.app.Save() }

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) {
	api.app.eventManager.Subscribe(eventType, handler)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

// --- Configuration ---

func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}

// --- Theme Access ---

// SetTheme sets the active theme by name and redraws with it.
func (a *App) SetTheme(name string) error {
	if err := a.themeManager.SetTheme(name); err != nil {
		return err
	}
	a.tuiManager.SetTheme(a.themeManager.Current())
	a.requestRedraw()
	return nil
}

// GetTheme returns the current active theme.
func (a *App) GetTheme() *theme.Theme {
	return a.themeManager.Current()
}

// ReloadThemes rescans the themes directory and redraws with the
// reloaded active theme.
func (a *App) ReloadThemes() error {
	err := a.themeManager.Reload()
	a.tuiManager.SetTheme(a.themeManager.Current())
	a.requestRedraw()
	return err
}

// ListThemes returns a list of all available theme names.
func (a *App) ListThemes() []string {
	return a.themeManager.ListThemes()
}
