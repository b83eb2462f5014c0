// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/event"
)

// Registrar is the part of the API that contributes to the notebook.
// Contributions are only honoured during Initialize, before the host is
// built from them.
type Registrar interface {
	RegisterBlockType(def blocktype.Definition) error
	RegisterMenuItem(item blocktype.MenuItem) error
	RegisterTool(tool blocktype.Tool) error
	RegisterEditor(ed blocktype.Editor) error
}

// EditorAPI defines the methods plugins can use to interact with the editor core.
// This acts as a controlled interface, preventing plugins from accessing everything.
type EditorAPI interface {
	Registrar

	// --- Document Access ---
	Objects() []block.Object // committed sequence, serialised
	DocumentPath() string
	IsModified() bool
	SaveDocument() error

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler)

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Configuration ---
	// GetPluginConfigValue reads a key from the [plugins.<name>] table.
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin. It is also
	// the name of its [plugins.<name>] config table.
	Name() string

	// Initialize is called once, before the host exists. Register block
	// types, menu items, tools and editors here and subscribe to events.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the notebook is closing.
	Shutdown() error
}
