package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/notebook/internal/core/cursor"
	"github.com/bethropolis/notebook/internal/textutil"
	"github.com/bethropolis/notebook/internal/theme"
)

// Menu is a list overlay, used for a block's menu items.
type Menu struct {
	Title    string
	Items    []string
	Selected int
}

// EditorBox is the overlay of an open block editor. Input may span lines;
// Caret is a rune offset into it.
type EditorBox struct {
	Title string
	Input string
	Caret int
	Error string
}

const overlayMargin = 2

// DrawMenu draws m as a box anchored to the bottom of the area.
func DrawMenu(s tcell.Screen, th *theme.Theme, m Menu, width, height int) {
	if len(m.Items) == 0 || width <= 2*overlayMargin {
		return
	}
	boxW := uniseg.StringWidth(m.Title) + 2
	for _, it := range m.Items {
		if w := uniseg.StringWidth(it) + 4; w > boxW {
			boxW = w
		}
	}
	if maxW := width - 2*overlayMargin; boxW > maxW {
		boxW = maxW
	}
	rows := len(m.Items) + 1
	if rows > height {
		rows = height
	}
	top := height - rows
	x0 := overlayMargin

	title := th.GetStyle("EditorTitle")
	fill(s, x0, top, x0+boxW, title)
	drawString(s, x0+1, top, x0+boxW, textutil.Truncate(m.Title, boxW-2, "…"), title)

	first := 0
	if visible := rows - 1; visible > 0 && m.Selected >= visible {
		first = m.Selected - visible + 1
	}
	for i := 0; i < rows-1 && first+i < len(m.Items); i++ {
		st := th.GetStyle("Menu")
		marker := "  "
		item := first + i
		if item == m.Selected {
			st = th.GetStyle("MenuSelected")
			marker = "> "
		}
		y := top + 1 + i
		fill(s, x0, y, x0+boxW, st)
		drawString(s, x0+1, y, x0+boxW, marker+m.Items[item], st)
	}
}

// DrawEditor draws e above the last row of the area and puts the cursor on
// its caret.
func DrawEditor(s tcell.Screen, th *theme.Theme, e EditorBox, width, height int) {
	lines := cursor.Lines(e.Input)
	rows := len(lines) + 1
	if e.Error != "" {
		rows++
	}
	if rows > height {
		rows = height
	}
	top := height - rows

	title := th.GetStyle("EditorTitle")
	fill(s, 0, top, width, title)
	drawString(s, 1, top, width, e.Title+"  (Enter: apply, Alt+Enter: newline, Esc: cancel)", title)

	st := th.GetStyle("Editor")
	for i := 0; i < len(lines) && top+1+i < height; i++ {
		y := top + 1 + i
		fill(s, 0, y, width, st)
		drawString(s, 1, y, width, lines[i], st)
	}
	if e.Error != "" {
		y := height - 1
		fill(s, 0, y, width, th.GetStyle("Error"))
		drawString(s, 1, y, width, e.Error, th.GetStyle("Error"))
	}

	pos := cursor.PositionOf(e.Input, e.Caret)
	y := top + 1 + pos.Line
	if y >= height {
		return
	}
	line := []rune(lines[pos.Line])
	s.ShowCursor(1+visualWidth(string(line[:pos.Col])), y)
}
