package tui

import (
	"fmt"
	"strings"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/core/cursor"
	"github.com/bethropolis/notebook/internal/numbering"
)

// Row is one screen line of the notebook. Text rows carry the rune offset
// of their first rune within the block text; decoration rows (a table
// preview, a formula) have Offset -1.
type Row struct {
	Index  int // block index
	Block  block.Block
	Prefix string
	Text   string
	Offset int
}

// IsText reports whether the row shows part of the block's text.
func (r Row) IsText() bool { return r.Offset >= 0 }

const bullet = "•"

// Layout turns seq into rows. Lines are not wrapped.
func Layout(seq block.Sequence) []Row {
	var rows []Row
	for i, b := range seq {
		for _, line := range decorations(b) {
			rows = append(rows, Row{Index: i, Block: b, Prefix: "  ", Text: line, Offset: -1})
		}
		first, rest := markers(b)
		offset := 0
		for n, line := range cursor.Lines(b.Text()) {
			prefix := rest
			if n == 0 {
				prefix = first
			}
			rows = append(rows, Row{Index: i, Block: b, Prefix: prefix, Text: line, Offset: offset})
			offset += len([]rune(line)) + 1
		}
	}
	return rows
}

// markers returns the prefix of the first text row and of the rows after it.
func markers(b block.Block) (string, string) {
	switch b.Type() {
	case blocks.Heading:
		return "# ", "  "
	case blocks.Subheading:
		return "## ", "   "
	case blocks.OrderedList:
		indent := strings.Repeat("  ", numbering.Indentation(b, numbering.DefaultMaxIndent)-1)
		first := indent + numbering.Of(b, numbering.DefaultMaxIndent).String() + ". "
		return first, strings.Repeat(" ", len([]rune(first)))
	case blocks.UnorderedList:
		indent := strings.Repeat("  ", numbering.Indentation(b, blocks.UnorderedMaxIndent)-1)
		return indent + bullet + " ", indent + "  "
	case blocks.Code:
		return "│ ", "│ "
	}
	return "", ""
}

func decorations(b block.Block) []string {
	data := b.Data()
	switch b.Type() {
	case blocks.Table:
		return cursor.Lines(blocks.TableText(data))
	case blocks.Latex:
		if src := data.String("latex"); src != "" {
			return []string{"$ " + src}
		}
		return []string{"$ (empty formula)"}
	case blocks.Image:
		if src := data.String("img"); src != "" {
			return []string{"[image] " + shorten(src)}
		}
		return []string{"[image: none]"}
	case blocks.Canvas:
		elements, _ := data["elements"].([]any)
		return []string{fmt.Sprintf("[canvas: %d elements]", len(elements))}
	case blocks.Code:
		return []string{"```" + data.String("language")}
	}
	return nil
}

// shorten keeps data URLs from flooding the screen.
func shorten(src string) string {
	if strings.HasPrefix(src, "data:") {
		if i := strings.IndexByte(src, ','); i > 0 {
			return src[:i] + ",…"
		}
	}
	return src
}

// CaretRow finds the text row of block id holding the caret.
func CaretRow(rows []Row, id string, caret int) int {
	last := -1
	for i, r := range rows {
		if r.Block.ID() != id || !r.IsText() {
			continue
		}
		last = i
		if caret >= r.Offset && caret <= r.Offset+len([]rune(r.Text)) {
			return i
		}
	}
	return last
}
