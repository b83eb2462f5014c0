package blocktype

import (
	"github.com/bethropolis/notebook/internal/block"
)

// Kind names an action. The string values double as log and event labels.
type Kind string

const (
	KindCreateNewBlock   Kind = "create-new-block"
	KindDeleteBlock      Kind = "block-delete"
	KindBaseTextUpdate   Kind = "base-text-update"
	KindMoveBlock        Kind = "block-move"
	KindMoveFocus        Kind = "focus-move"
	KindConvertBlockType Kind = "block-type-conversion"
	KindExecuteMenu      Kind = "menu-execution"
	KindModifyRawBlock   Kind = "modify-raw-block"
)

// Action is one typed input to the reducer.
type Action interface {
	Kind() Kind
}

// Position selects where a new block goes relative to its anchor.
type Position int

const (
	After Position = iota
	Before
)

func (p Position) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

// Direction is used by block and focus moves.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// CreateNewBlock inserts a new block of BlockType next to AnchorID.
// An empty or unknown anchor appends to the end.
type CreateNewBlock struct {
	AnchorID  string
	Position  Position
	BlockType string
}

// DeleteBlock removes the block with ID.
type DeleteBlock struct {
	ID string
}

// BaseTextUpdate replaces a block's text and inline styles, leaving the rest
// of its data untouched.
type BaseTextUpdate struct {
	ID           string
	Text         string
	InlineStyles []block.InlineStyle
}

// MoveBlock swaps a block with its neighbour in Dir.
type MoveBlock struct {
	ID  string
	Dir Direction
}

// MoveFocus moves the caret to the neighbour of ID without changing data.
type MoveFocus struct {
	ID  string
	Dir Direction
}

// ConvertBlockType rebuilds a block as NewType. OldType is informational;
// when empty the block's current type is used.
type ConvertBlockType struct {
	ID      string
	OldType string
	NewType string
}

// ExecuteMenu runs a menu item's action against the block with ID.
type ExecuteMenu struct {
	ID     string
	Name   string
	Action MenuFunc
}

// ModifyRawBlock replaces the block whose id matches Block.ID wholesale.
type ModifyRawBlock struct {
	Block block.Object
}

func (CreateNewBlock) Kind() Kind   { return KindCreateNewBlock }
func (DeleteBlock) Kind() Kind      { return KindDeleteBlock }
func (BaseTextUpdate) Kind() Kind   { return KindBaseTextUpdate }
func (MoveBlock) Kind() Kind        { return KindMoveBlock }
func (MoveFocus) Kind() Kind        { return KindMoveFocus }
func (ConvertBlockType) Kind() Kind { return KindConvertBlockType }
func (ExecuteMenu) Kind() Kind      { return KindExecuteMenu }
func (ModifyRawBlock) Kind() Kind   { return KindModifyRawBlock }
