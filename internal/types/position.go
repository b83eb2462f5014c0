// internal/types/position.go
package types

// Position is a caret location inside a block's text, as seen on screen.
// Line is the 0-based line index within the block.
// Col is the 0-based rune index within the line.
type Position struct {
	Line int
	Col  int // Rune index
}
