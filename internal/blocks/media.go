package blocks

import (
	"context"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
)

// Media menu item names.
const (
	MenuEditTable   = "Edit Table"
	MenuEditLatex   = "Edit Latex"
	MenuChangeImage = "Change Image"
)

// openEditorItem is a menu item that only opens the named editor.
func openEditorItem(name, editor string) blocktype.MenuItem {
	return blocktype.MenuItem{
		Name: name,
		Action: func(_ context.Context, _ blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			return cb.OpenEditor(editor, map[string]any{})
		},
	}
}

// NewCell is an empty, visible, single-span table cell.
func NewCell(content string) map[string]any {
	return map[string]any{
		"content":      content,
		"inlineStyles": []any{},
		"hidden":       false,
		"rowspan":      float64(1),
		"colspan":      float64(1),
		"isHeader":     false,
		"groupId":      "",
		"borders":      true,
	}
}

// NewRows builds a rows×cols grid of empty cells.
func NewRows(rows, cols int) []any {
	out := make([]any, rows)
	for r := range out {
		row := make([]any, cols)
		for c := range row {
			row[c] = NewCell("")
		}
		out[r] = row
	}
	return out
}

func table() blocktype.Definition {
	return blocktype.Definition{
		Type:           Table,
		Label:          "Table",
		Icon:           "T",
		Shortcut:       "Cmd+Y",
		FollowingBlock: Paragraph,
		MenuItems:      []blocktype.MenuItem{openEditorItem(MenuEditTable, EditorTable)},
		Init: func(*block.Block) block.Data {
			d := textData()
			d["rows"] = NewRows(2, 2)
			return d
		},
	}
}

func latex() blocktype.Definition {
	return blocktype.Definition{
		Type:           Latex,
		Label:          "Latex",
		Icon:           "L",
		Shortcut:       "Cmd+K",
		FollowingBlock: Paragraph,
		MenuItems:      []blocktype.MenuItem{openEditorItem(MenuEditLatex, EditorLatex)},
		Init:           withText(block.Data{"latex": "", "variables": []any{}}),
	}
}

func image() blocktype.Definition {
	return blocktype.Definition{
		Type:           Image,
		Label:          "Image",
		Icon:           "I",
		Shortcut:       "Cmd+F",
		FollowingBlock: Paragraph,
		MenuItems:      []blocktype.MenuItem{openEditorItem(MenuChangeImage, EditorImage)},
		Init:           withText(block.Data{"img": ""}),
	}
}

// Canvas drawings are stored opaquely; the notebook only carries them.
func canvas() blocktype.Definition {
	return blocktype.Definition{
		Type:           Canvas,
		Label:          "Canvas",
		Icon:           "C",
		Shortcut:       "Cmd+A",
		FollowingBlock: Paragraph,
		Init:           withText(block.Data{"elements": nil, "files": map[string]any{}}),
	}
}
