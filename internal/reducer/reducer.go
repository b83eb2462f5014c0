// Package reducer is the notebook state machine. Reduce takes the current
// block sequence and one action and computes the next sequence, running
// every block type's lifecycle hooks and queueing focus effects along the
// way. It keeps no state between calls.
package reducer

import (
	"context"
	"errors"
	"fmt"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/effect"
	"github.com/bethropolis/notebook/internal/logger"
)

var (
	ErrBlockNotFound   = errors.New("block not found")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownMenuItem = errors.New("unknown menu item")
	ErrNoEditorHost    = errors.New("no editor host to open editor")
	ErrHookPanic       = errors.New("hook panicked")
)

// Env is everything the reducer resolves against. It is supplied once by
// the host and treated as read-only during a Reduce call.
type Env struct {
	Registry  *blocktype.Registry
	Tools     []blocktype.Tool
	MenuItems []blocktype.MenuItem // offered on every block, after the type's own items
	Editors   *blocktype.EditorRegistry
	Opener    blocktype.EditorOpener
	Refs      effect.Lookup

	InitProps  func() block.Props
	NewID      func() string
	NewBlockID func() string
}

// Reducer applies actions to sequences.
type Reducer struct {
	env Env
}

// New creates a reducer, filling unset factories with defaults.
func New(env Env) *Reducer {
	if env.InitProps == nil {
		env.InitProps = func() block.Props { return block.Props{} }
	}
	if env.NewID == nil {
		env.NewID = block.NewID
	}
	if env.NewBlockID == nil {
		env.NewBlockID = block.NewBlockID
	}
	if env.Editors == nil {
		env.Editors, _ = blocktype.NewEditorRegistry()
	}
	return &Reducer{env: env}
}

// Env returns the environment the reducer was built with.
func (r *Reducer) Env() Env { return r.env }

// Reduce applies act to seq and returns the new sequence. Focus requests
// are added to effects, to be flushed by the caller after commit.
//
// Hooks and menu actions may block; Reduce returns only once all of them
// have finished. On error the returned sequence is nil and effects queued
// so far should be discarded by the caller.
func (r *Reducer) Reduce(ctx context.Context, seq block.Sequence, act blocktype.Action, effects *effect.Queue) (block.Sequence, error) {
	if effects == nil {
		effects = effect.NewQueue()
	}
	t := &txn{r: r, seq: seq.Clone(), action: act, effects: effects}

	logger.DebugTagf("reducer", "reduce %s on %d blocks", kindOf(act), len(seq))

	var err error
	switch a := act.(type) {
	case blocktype.CreateNewBlock:
		err = t.createNewBlock(ctx, a)
	case blocktype.DeleteBlock:
		err = t.deleteBlock(ctx, a)
	case blocktype.BaseTextUpdate:
		err = t.baseTextUpdate(ctx, a)
	case blocktype.MoveBlock:
		err = t.moveBlock(ctx, a)
	case blocktype.MoveFocus:
		t.moveFocus(a)
	case blocktype.ConvertBlockType:
		err = t.convertBlockType(ctx, a)
	case blocktype.ExecuteMenu:
		err = t.executeMenu(ctx, a)
	case blocktype.ModifyRawBlock:
		err = t.modifyRawBlock(ctx, a)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, act)
	}
	if err != nil {
		logger.DebugTagf("reducer", "%s failed: %v", kindOf(act), err)
		return nil, err
	}
	return t.seq, nil
}

func kindOf(act blocktype.Action) blocktype.Kind {
	if act == nil {
		return "<nil>"
	}
	return act.Kind()
}

// txn is one in-flight reduction. seq is the working next-state every
// hook and callback writes into.
type txn struct {
	r       *Reducer
	seq     block.Sequence
	action  blocktype.Action
	effects *effect.Queue
}

// modify replaces the working block with the same id as obj. The new
// block must validate and its type must be registered.
func (t *txn) modify(obj block.Object) error {
	b, err := block.New(obj)
	if err != nil {
		return fmt.Errorf("modify block: %w", err)
	}
	if _, err := t.r.env.Registry.Lookup(b.Type()); err != nil {
		return fmt.Errorf("modify block %s: %w", b.ID(), err)
	}
	i := t.seq.IndexOf(b.ID())
	if i < 0 {
		return fmt.Errorf("modify block: %w: %s", ErrBlockNotFound, b.ID())
	}
	t.seq = t.seq.Replace(i, b)
	return nil
}

// runHooks invokes the hook for this action's kind on every registered
// definition, in registration order. Each hook sees the working sequence
// as left by the hooks before it.
func (t *txn) runHooks(ctx context.Context, current block.Block, index int, focus func()) error {
	kind := t.action.Kind()
	if focus == nil {
		focus = func() {}
	}
	for _, def := range t.r.env.Registry.All() {
		hook := def.Hook(kind)
		if hook == nil {
			continue
		}
		cur, idx := current, index
		if i := t.seq.IndexOf(current.ID()); i >= 0 {
			cur, idx = t.seq[i], i
		}
		args := blocktype.HookArgs{Current: cur, Sequence: t.seq, Index: idx, Action: t.action}
		cb := blocktype.Callbacks{ModifyBlock: t.modify, FocusOnCurrentBlock: focus}
		if err := hook(ctx, args, cb); err != nil {
			return fmt.Errorf("%s hook of %q: %w", kind, def.Type, err)
		}
	}
	return nil
}

// focusStart returns a callback queueing focus-at-start on id.
func (t *txn) focusStart(id string) func() {
	return func() { t.effects.Add(effect.FocusStart(id)) }
}

// newBlock builds a block of def with ids unused in the working sequence.
func (t *txn) newBlock(def blocktype.Definition, data block.Data, props block.Props) (block.Block, error) {
	id := t.r.env.NewID()
	for t.seq.IndexOf(id) >= 0 {
		id = t.r.env.NewID()
	}
	b, err := block.New(block.Object{
		ID:      id,
		BlockID: t.r.env.NewBlockID(),
		Type:    def.Type,
		Data:    data,
		Props:   props,
	})
	if err != nil {
		return block.Block{}, fmt.Errorf("new %s block: %w", def.Type, err)
	}
	return b, nil
}
