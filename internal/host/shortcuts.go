package host

import (
	"sort"
	"strings"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
)

// Shortcut binds a key combination to an action on the focused block.
type Shortcut struct {
	Keys   string
	Label  string
	Action func(current block.Block) blocktype.Action
}

// Shortcuts lists the bindings available on current: conversions to
// every block type with a shortcut, then the menu items of current's type
// and the shared menu items that have one.
func (h *Host) Shortcuts(current block.Block) []Shortcut {
	var out []Shortcut
	for _, def := range h.opts.Registry.All() {
		if def.Shortcut == "" {
			continue
		}
		newType := def.Type
		out = append(out, Shortcut{
			Keys:  def.Shortcut,
			Label: def.Label,
			Action: func(cur block.Block) blocktype.Action {
				return blocktype.ConvertBlockType{ID: cur.ID(), OldType: cur.Type(), NewType: newType}
			},
		})
	}
	for _, item := range h.MenuItems(current.Type()) {
		if item.Shortcut == "" {
			continue
		}
		item := item
		out = append(out, Shortcut{
			Keys:  item.Shortcut,
			Label: item.Name,
			Action: func(cur block.Block) blocktype.Action {
				return blocktype.ExecuteMenu{ID: cur.ID(), Name: item.Name, Action: item.Action}
			},
		})
	}
	return out
}

// MatchShortcut returns the action bound to keys on current. Later
// bindings win, so a block type's menu items override conversions.
func (h *Host) MatchShortcut(current block.Block, keys string) (blocktype.Action, bool) {
	want := NormalizeKeys(keys)
	var found *Shortcut
	shortcuts := h.Shortcuts(current)
	for i := range shortcuts {
		if NormalizeKeys(shortcuts[i].Keys) == want {
			found = &shortcuts[i]
		}
	}
	if found == nil {
		return nil, false
	}
	return found.Action(current), true
}

// NormalizeKeys canonicalises "Shift+Cmd+o" and "ctrl+shift+O" to the same
// string: lower case, modifiers sorted, key last. Ctrl and Meta count as
// Cmd, since terminals have no Cmd key.
func NormalizeKeys(keys string) string {
	parts := strings.Split(strings.ToLower(keys), "+")
	var mods []string
	key := ""
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "":
			continue
		case "cmd", "ctrl", "meta":
			mods = append(mods, "cmd")
		case "shift", "alt":
			mods = append(mods, p)
		default:
			key = p
		}
	}
	sort.Strings(mods)
	return strings.Join(append(mods, key), "+")
}
