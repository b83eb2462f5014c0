package input_test

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/input"
)

// Every built-in single-letter shortcut must be typeable with Ctrl, not
// swallowed by an application key or a text control.
func TestBuiltinShortcutsReachableWithCtrl(t *testing.T) {
	var shortcuts []string
	for _, def := range blocks.Defaults(nil) {
		shortcuts = append(shortcuts, def.Shortcut)
		for _, item := range def.MenuItems {
			shortcuts = append(shortcuts, item.Shortcut)
		}
	}
	for _, item := range blocks.DefaultMenuItems() {
		shortcuts = append(shortcuts, item.Shortcut)
	}
	for _, tool := range blocks.DefaultTools() {
		shortcuts = append(shortcuts, tool.Shortcut)
	}

	p := input.NewInputProcessor()
	seen := map[string]bool{}
	for _, s := range shortcuts {
		letter, ok := strings.CutPrefix(s, "Cmd+")
		if !ok || len(letter) != 1 {
			continue
		}
		assert.False(t, seen[s], "%s declared twice", s)
		seen[s] = true

		key := tcell.KeyCtrlA + tcell.Key(letter[0]-'A')
		got := p.ProcessEvent(tcell.NewEventKey(key, 0, tcell.ModCtrl))
		assert.Equal(t, input.ActionEvent{Action: input.ActionShortcut, Keys: s}, got, s)
	}
	assert.NotEmpty(t, seen)
}
