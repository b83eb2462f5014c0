// internal/event/event.go
package event

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/notebook/internal/block"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Notebook state
	TypeSequenceCommitted // a dispatch produced a new sequence
	TypeDispatchFailed    // a dispatch was rejected; state unchanged
	TypeExternalSync      // the controlled value was replaced from outside

	// Editor overlay
	TypeEditorOpened
	TypeEditorClosed

	// Documents
	TypeDocumentLoaded
	TypeDocumentSaved

	// Input events, forwarded for plugins reacting to raw keys
	TypeKeyPressed

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeSequenceCommitted: "sequence-committed",
	TypeDispatchFailed:    "dispatch-failed",
	TypeExternalSync:      "external-sync",
	TypeEditorOpened:      "editor-opened",
	TypeEditorClosed:      "editor-closed",
	TypeDocumentLoaded:    "document-loaded",
	TypeDocumentSaved:     "document-saved",
	TypeKeyPressed:        "key-pressed",
	TypeAppReady:          "app-ready",
	TypeAppQuit:           "app-quit",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// SequenceCommittedData carries the committed sequence and the action
// that produced it.
type SequenceCommittedData struct {
	Action   string
	Sequence block.Sequence
}

// DispatchFailedData carries the rejected action and why.
type DispatchFailedData struct {
	Action string
	Err    error
}

// ExternalSyncData carries the sequence adopted from outside.
type ExternalSyncData struct {
	Sequence block.Sequence
}

// EditorOpenedData names the editor and the block it was opened on.
type EditorOpenedData struct {
	Name    string
	BlockID string
}

// EditorClosedData reports whether the editor's result was applied.
type EditorClosedData struct {
	Name    string
	BlockID string
	Applied bool
}

// DocumentData identifies a loaded or saved document.
type DocumentData struct {
	FilePath string
	Blocks   int
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
