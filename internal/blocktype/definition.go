// Package blocktype defines the contract block types implement and the
// registries the reducer resolves them from.
package blocktype

import (
	"context"
	"errors"

	"github.com/bethropolis/notebook/internal/block"
)

var (
	ErrUnknownBlockType  = errors.New("unknown block type")
	ErrUnknownEditor     = errors.New("unknown editor")
	ErrInvalidDefinition = errors.New("invalid block type definition")
)

// InitFunc builds the data for a new block. prev is the block preceding
// the insertion point, or nil when there is none.
type InitFunc func(prev *block.Block) block.Data

// Callbacks are handed to hooks so they can write into the in-flight
// sequence and request focus after commit.
type Callbacks struct {
	// ModifyBlock replaces the working block with the same id.
	ModifyBlock func(updated block.Object) error
	// FocusOnCurrentBlock queues a focus-at-start on the action's block.
	FocusOnCurrentBlock func()
}

// HookArgs describes the mutation a hook is reacting to.
type HookArgs struct {
	Current  block.Block    // the block the action targeted, as it is now (for deletes, as it was)
	Sequence block.Sequence // working sequence at the time this hook is called
	Index    int            // Current's index in Sequence; for deletes, where it used to be
	Action   Action
}

// Hook is an optional lifecycle callback. Hooks of every registered type
// run after each structural action, not just the targeted block's type.
type Hook func(ctx context.Context, args HookArgs, cb Callbacks) error

// Definition is one registered block type.
type Definition struct {
	Type           string
	Label          string
	Icon           string
	Shortcut       string
	FollowingBlock string // type created when pressing enter at the end of this block
	MenuItems      []MenuItem

	Init InitFunc

	OnCreateNewBlock   Hook
	OnDeleteBlock      Hook
	OnBaseTextUpdate   Hook
	OnMoveBlock        Hook
	OnConvertBlockType Hook
	OnModifyRawBlock   Hook
	OnMenuItem         Hook
}

// Hook returns the lifecycle hook matching an action kind, or nil.
func (d Definition) Hook(kind Kind) Hook {
	switch kind {
	case KindCreateNewBlock:
		return d.OnCreateNewBlock
	case KindDeleteBlock:
		return d.OnDeleteBlock
	case KindBaseTextUpdate:
		return d.OnBaseTextUpdate
	case KindMoveBlock:
		return d.OnMoveBlock
	case KindConvertBlockType:
		return d.OnConvertBlockType
	case KindModifyRawBlock:
		return d.OnModifyRawBlock
	case KindExecuteMenu:
		return d.OnMenuItem
	default:
		return nil
	}
}

// NewData runs Init, always returning a non-nil map.
func (d Definition) NewData(prev *block.Block) block.Data {
	if d.Init == nil {
		return block.Data{}
	}
	data := d.Init(prev)
	if data == nil {
		return block.Data{}
	}
	return data
}

// Following returns the type to create after a block of this type.
func (d Definition) Following() string {
	if d.FollowingBlock != "" {
		return d.FollowingBlock
	}
	return d.Type
}
