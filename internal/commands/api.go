package commands

import (
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/modehandler"
	"github.com/bethropolis/notebook/internal/theme"
)

// Registry is where commands are registered, the mode handler in practice.
type Registry interface {
	RegisterCommand(name string, fn modehandler.CommandFunc) error
}

// StatusAPI shows command feedback.
type StatusAPI interface {
	SetStatusMessage(format string, args ...interface{})
}

// ThemeAPI extends the commands functionality to support theme operations
type ThemeAPI interface {
	StatusAPI
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string
	ReloadThemes() error
}

// NotebookAPI is the document side of the commands.
type NotebookAPI interface {
	StatusAPI
	Save() error
	SaveAs(path string) error
	Reload() error
	Undo() error
	Redo() error
	Quit(force bool)
	Registry() *blocktype.Registry
	ConvertFocused(blockType string) error
}
