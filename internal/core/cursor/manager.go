// Package cursor maps a caret's rune offset inside a block to the line and
// column it is drawn at, and back. Block text may span several lines.
package cursor

import (
	"strings"

	"github.com/bethropolis/notebook/internal/types"
)

// Lines splits text on newlines. Empty text is one empty line.
func Lines(text string) []string {
	return strings.Split(text, "\n")
}

// PositionOf returns the line and column of rune offset in text.
func PositionOf(text string, offset int) types.Position {
	if offset < 0 {
		offset = 0
	}
	pos := types.Position{}
	for _, line := range Lines(text) {
		n := len([]rune(line))
		if offset <= n {
			pos.Col = offset
			return pos
		}
		offset -= n + 1 // the newline
		pos.Line++
	}
	// Past the end: clamp to the end of the last line.
	lines := Lines(text)
	return types.Position{Line: len(lines) - 1, Col: len([]rune(lines[len(lines)-1]))}
}

// OffsetOf returns the rune offset of pos in text, clamping the line and
// column to the text.
func OffsetOf(text string, pos types.Position) int {
	lines := Lines(text)
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(lines) {
		return len([]rune(text))
	}
	offset := 0
	for i := 0; i < pos.Line; i++ {
		offset += len([]rune(lines[i])) + 1
	}
	col := pos.Col
	if n := len([]rune(lines[pos.Line])); col > n {
		col = n
	}
	if col < 0 {
		col = 0
	}
	return offset + col
}

// Vertical moves offset delta lines within text, keeping the column where
// possible. ok is false when the move would leave the block, so the
// caller can move focus to a neighbour instead.
func Vertical(text string, offset, delta int) (int, bool) {
	pos := PositionOf(text, offset)
	target := pos.Line + delta
	if target < 0 || target >= len(Lines(text)) {
		return offset, false
	}
	return OffsetOf(text, types.Position{Line: target, Col: pos.Col}), true
}

// LineStart is the offset of the start of offset's line.
func LineStart(text string, offset int) int {
	pos := PositionOf(text, offset)
	return OffsetOf(text, types.Position{Line: pos.Line})
}

// LineEnd is the offset of the end of offset's line.
func LineEnd(text string, offset int) int {
	pos := PositionOf(text, offset)
	return OffsetOf(text, types.Position{Line: pos.Line, Col: len([]rune(Lines(text)[pos.Line]))})
}
