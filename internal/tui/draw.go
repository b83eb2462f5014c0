package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/core/selection"
	"github.com/bethropolis/notebook/internal/theme"
)

// TabWidth is how many cells a tab occupies.
const TabWidth = 4

// gutterWidth is the focus bar plus a space.
const gutterWidth = 2

const emptyHint = "Empty notebook. Press Enter to add a block."

// Frame is what a draw needs besides the view's own state.
type Frame struct {
	Theme     *theme.Theme
	Registry  *blocktype.Registry // labels for placeholders; may be nil
	Selection *selection.Manager  // may be nil
	Width     int
	Height    int // rows available to blocks
}

// Draw paints the visible rows and places the cursor on the caret. The
// scroll offset follows the caret.
func (v *View) Draw(s tcell.Screen, f Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()

	th := f.Theme
	def := th.GetStyle("Default")
	if len(v.seq) == 0 {
		drawString(s, gutterWidth, 0, f.Width, emptyHint, th.GetStyle("Placeholder"))
		s.HideCursor()
		return
	}

	rows := Layout(v.seq)
	caretRow := CaretRow(rows, v.focusID, v.caret)
	v.scrollTo(caretRow, f.Height)

	for y := 0; y < f.Height; y++ {
		i := v.top + y
		if i >= len(rows) {
			fill(s, 0, y, f.Width, def)
			continue
		}
		v.drawRow(s, rows[i], y, f)
	}

	if caretRow < 0 {
		s.HideCursor()
		return
	}
	r := rows[caretRow]
	runes := []rune(r.Text)
	k := v.caret - r.Offset
	if k < 0 {
		k = 0
	} else if k > len(runes) {
		k = len(runes)
	}
	col := visualWidth(string(runes[:k]))
	x := gutterWidth + uniseg.StringWidth(r.Prefix) + col
	if x >= f.Width {
		x = f.Width - 1
	}
	s.ShowCursor(x, caretRow-v.top)
}

func (v *View) scrollTo(row, height int) {
	if row < 0 || height <= 0 {
		return
	}
	if row < v.top {
		v.top = row
	}
	if row >= v.top+height {
		v.top = row - height + 1
	}
	if v.top < 0 {
		v.top = 0
	}
}

func (v *View) drawRow(s tcell.Screen, r Row, y int, f Frame) {
	th := f.Theme
	def := th.GetStyle("Default")
	fill(s, 0, y, f.Width, def)

	focused := r.Block.ID() == v.focusID
	if focused {
		s.SetContent(0, y, '▌', nil, th.GetStyle("Focused"))
	}

	base := th.GetStyle("block." + r.Block.Type())
	x := drawString(s, gutterWidth, y, f.Width, r.Prefix, th.GetStyle("Gutter"))
	if !r.IsText() {
		drawString(s, x, y, f.Width, r.Text, base)
		return
	}

	if r.Offset == 0 && r.Text == "" && len([]rune(r.Block.Text())) == 0 && focused {
		drawString(s, x, y, f.Width, placeholder(f.Registry, r.Block.Type()), th.GetStyle("Placeholder"))
		return
	}

	styles := r.Block.Data().InlineStyles()
	offset := r.Offset
	state := -1
	text := r.Text
	for len(text) > 0 && x < f.Width {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		n := len([]rune(cluster))

		st := styleAt(th, base, styles, offset)
		if f.Selection != nil && f.Selection.Contains(r.Block.ID(), offset) {
			st = st.Reverse(true)
		}

		if cluster == "\t" {
			for i := 0; i < TabWidth && x < f.Width; i++ {
				s.SetContent(x, y, ' ', nil, st)
				x++
			}
		} else {
			runes := []rune(cluster)
			s.SetContent(x, y, runes[0], runes[1:], st)
			x += width
		}
		offset += n
	}
}

// styleAt layers every inline style covering offset over base.
func styleAt(th *theme.Theme, base tcell.Style, styles []block.InlineStyle, offset int) tcell.Style {
	st := base
	for _, is := range styles {
		if offset >= is.Offset && offset < is.End() {
			name := theme.InlineStyleName(is.Style)
			if th.Has(name) {
				st = theme.Overlay(st, th.GetStyle(name))
			}
		}
	}
	return st
}

func placeholder(reg *blocktype.Registry, typ string) string {
	if reg != nil {
		if def, err := reg.Lookup(typ); err == nil && def.Label != "" {
			return def.Label
		}
	}
	return typ
}

// visualWidth is the cell width of s with tabs expanded.
func visualWidth(s string) int {
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			w += TabWidth
		} else {
			w += width
		}
	}
	return w
}

// drawString draws str from x, clipped at maxX, and returns the next x.
func drawString(s tcell.Screen, x, y, maxX int, str string, style tcell.Style) int {
	state := -1
	for len(str) > 0 && x < maxX {
		var cluster string
		var width int
		cluster, str, width, state = uniseg.FirstGraphemeClusterInString(str, state)
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}

func fill(s tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}
