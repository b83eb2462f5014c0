package modehandler

import (
	"strings"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/input"
	"github.com/bethropolis/notebook/internal/tui"
)

type menuEntry struct {
	label  string
	action func(cur block.Block) blocktype.Action
}

type menuState struct {
	blockID  string
	title    string
	entries  []menuEntry
	filter   []rune
	selected int
}

// visible lists the entries matching the typed filter.
func (m *menuState) visible() []menuEntry {
	if len(m.filter) == 0 {
		return m.entries
	}
	f := strings.ToLower(string(m.filter))
	var out []menuEntry
	for _, e := range m.entries {
		if strings.Contains(strings.ToLower(e.label), f) {
			out = append(out, e)
		}
	}
	return out
}

// openMenu lists the focused block's menu items, then conversions to the
// other registered types.
func (mh *ModeHandler) openMenu() bool {
	cur, _, ok := mh.view.Focused()
	if !ok {
		return false
	}
	var entries []menuEntry
	for _, item := range mh.host.MenuItems(cur.Type()) {
		name := item.Name
		entries = append(entries, menuEntry{
			label: name,
			action: func(cur block.Block) blocktype.Action {
				return blocktype.ExecuteMenu{ID: cur.ID(), Name: name}
			},
		})
	}
	for _, def := range mh.host.Registry().All() {
		if def.Type == cur.Type() {
			continue
		}
		typ := def.Type
		entries = append(entries, menuEntry{
			label: "Turn into " + def.Label,
			action: func(cur block.Block) blocktype.Action {
				return blocktype.ConvertBlockType{ID: cur.ID(), OldType: cur.Type(), NewType: typ}
			},
		})
	}
	entries = append(entries, menuEntry{
		label:  "Delete Block",
		action: func(cur block.Block) blocktype.Action { return blocktype.DeleteBlock{ID: cur.ID()} },
	})

	title := cur.Type()
	if def, err := mh.host.Registry().Lookup(cur.Type()); err == nil && def.Label != "" {
		title = def.Label
	}
	mh.selection.Clear()
	mh.menu = menuState{blockID: cur.ID(), title: title, entries: entries}
	mh.currentMode = ModeMenu
	return true
}

func (mh *ModeHandler) handleActionMenu(ae input.ActionEvent) bool {
	m := &mh.menu
	switch ae.Action {
	case input.ActionMoveUp:
		if m.selected > 0 {
			m.selected--
		}
	case input.ActionMoveDown:
		if m.selected < len(m.visible())-1 {
			m.selected++
		}
	case input.ActionInsertRune:
		m.filter = append(m.filter, ae.Rune)
		m.selected = 0
	case input.ActionDeleteCharBackward:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.selected = 0
		}
	case input.ActionNewBlock, input.ActionConfirm:
		entries := m.visible()
		mh.currentMode = ModeNormal
		if m.selected >= len(entries) {
			return true
		}
		cur, ok := mh.view.Sequence().Find(m.blockID)
		if !ok {
			return true
		}
		mh.dispatch(entries[m.selected].action(cur))
	case input.ActionQuit, input.ActionCancel, input.ActionOpenMenu:
		mh.currentMode = ModeNormal
	default:
		return false
	}
	return true
}

// MenuView is the open menu for drawing.
func (mh *ModeHandler) MenuView() (tui.Menu, bool) {
	if mh.currentMode != ModeMenu {
		return tui.Menu{}, false
	}
	entries := mh.menu.visible()
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = e.label
	}
	title := mh.menu.title
	if len(mh.menu.filter) > 0 {
		title += " /" + string(mh.menu.filter)
	}
	return tui.Menu{Title: title, Items: items, Selected: mh.menu.selected}, true
}
