// internal/input/keymap.go
package input

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to notebook actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt)

// InputProcessor translates tcell events into ActionEvents.
//
// Reserved application keys are looked up first. Any other Ctrl or Alt
// combination becomes an ActionShortcut whose Keys the host matches
// against block-type and menu shortcuts, so Alt+S reaches "Cmd+S" even
// though Ctrl+S saves.
type InputProcessor struct {
	keymap    Keymap
	modKeymap ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:    make(Keymap),
		modKeymap: make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyLeft] = ActionMoveLeft
	p.keymap[tcell.KeyRight] = ActionMoveRight
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyPgUp] = ActionMoveFirstBlock
	p.keymap[tcell.KeyPgDn] = ActionMoveLastBlock
	p.keymap[tcell.KeyEnter] = ActionNewBlock
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyDelete] = ActionDeleteCharForward
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyF2] = ActionOpenMenu
	p.keymap[tcell.KeyF3] = ActionCopyBlock
	p.keymap[tcell.KeyF4] = ActionPasteBlock

	// --- Ctrl ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlC] = ActionQuit
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlR] = ActionRedo
	ctrlMap[tcell.KeyCtrlD] = ActionDeleteBlock
	ctrlMap[tcell.KeyCtrlG] = ActionEnterCommandMode
	ctrlMap[tcell.KeyCtrlV] = ActionPasteText
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Alt ---
	altMap := make(Keymap)
	altMap[tcell.KeyUp] = ActionMoveBlockUp
	altMap[tcell.KeyDown] = ActionMoveBlockDown
	altMap[tcell.KeyEnter] = ActionInsertNewLine
	p.modKeymap[tcell.ModAlt] = altMap
}

// ProcessEvent takes a tcell key event and returns the corresponding
// ActionEvent. Overlay modes reinterpret the result (Enter confirms, Esc
// cancels); the processor itself is modeless.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	if isTextControl(key) {
		mod &^= tcell.ModCtrl
	}
	shift := mod&tcell.ModShift != 0

	// 1. Modifier + Key combinations
	base := mod &^ tcell.ModShift
	if modKeyMap, ok := p.modKeymap[base]; ok && base != tcell.ModNone {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action, Shift: shift}
		}
	}
	// Ctrl+letter keys carry the modifier in the key itself.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ && !isTextControl(key) {
		if action, ok := p.modKeymap[tcell.ModCtrl][key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 2. Shortcuts
	if keys := KeyString(ev); keys != "" {
		return ActionEvent{Action: ActionShortcut, Keys: keys}
	}

	// 3. Simple keys, shift allowed for selection
	if base == tcell.ModNone {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action, Shift: shift}
		}
	}

	// 4. Plain runes
	if key == tcell.KeyRune && base == tcell.ModNone {
		return ActionEvent{Action: ActionInsertRune, Rune: ev.Rune()}
	}

	return ActionEvent{Action: ActionUnknown}
}

// isTextControl reports keys that share a code with a Ctrl letter but are
// editing keys in every terminal (Ctrl+H is Backspace, Ctrl+I is Tab,
// Ctrl+M is Enter).
func isTextControl(key tcell.Key) bool {
	switch key {
	case tcell.KeyBackspace, tcell.KeyTab, tcell.KeyEnter:
		return true
	}
	return false
}

// KeyString renders a shortcut-capable key event in the "Cmd+Shift+K"
// form block types and menu items declare. Ctrl and Alt both become Cmd.
// Events that cannot be shortcuts return "".
func KeyString(ev *tcell.EventKey) string {
	key := ev.Key()
	mod := ev.Modifiers()

	switch key {
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyBacktab:
		return "Shift+Tab"
	}

	var parts []string
	var name string
	switch {
	case key == tcell.KeyRune && mod&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			mod |= tcell.ModShift
		}
		name = strings.ToUpper(string(r))
	case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ && !isTextControl(key):
		mod |= tcell.ModCtrl
		name = string(rune('A' + int(key-tcell.KeyCtrlA)))
	default:
		return ""
	}

	parts = append(parts, "Cmd")
	if mod&tcell.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	return strings.Join(append(parts, name), "+")
}
