// internal/input/action.go
package input

// Action represents a command or operation to be performed by the notebook.
type Action int

// Define the set of possible notebook actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionForceQuit // Quit without checking modified status
	ActionSave
	ActionUndo
	ActionRedo

	// --- Caret Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMoveHome // Beginning of line
	ActionMoveEnd  // End of line
	ActionMoveFirstBlock
	ActionMoveLastBlock

	// --- Block Structure ---
	ActionNewBlock // Enter: split off a new block after the focused one
	ActionDeleteBlock
	ActionMoveBlockUp
	ActionMoveBlockDown
	ActionCopyBlock
	ActionPasteBlock

	// --- Text Manipulation ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertNewLine      // Newline inside the block
	ActionDeleteCharForward  // Delete key
	ActionDeleteCharBackward // Backspace key
	ActionPasteText

	// --- Overlays ---
	ActionOpenMenu
	ActionEnterCommandMode
	ActionConfirm // Enter inside an overlay
	ActionCancel  // Esc inside an overlay

	// --- Shortcut ---
	ActionShortcut // Keys holds the normalized combination
)

// ActionEvent represents a decoded input event resulting in an action.
// It carries payload data needed for the action (the rune to insert, the
// key combination of a shortcut, whether shift extends a selection).
type ActionEvent struct {
	Action Action
	Rune   rune   // Used for ActionInsertRune
	Keys   string // Used for ActionShortcut, e.g. "Cmd+Shift+W"
	Shift  bool   // Movement with shift extends the selection
}
