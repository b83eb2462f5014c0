package reducer

import (
	"context"
	"fmt"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/effect"
	"github.com/bethropolis/notebook/internal/logger"
)

// createNewBlock inserts before or after the anchor. A missing anchor
// appends; focus and hooks apply either way.
func (t *txn) createNewBlock(ctx context.Context, a blocktype.CreateNewBlock) error {
	def, err := t.r.env.Registry.Lookup(a.BlockType)
	if err != nil {
		return err
	}

	index := len(t.seq)
	var anchor *block.Block
	if i := t.seq.IndexOf(a.AnchorID); i >= 0 {
		anchor = &t.seq[i]
		index = i + 1
		if a.Position == blocktype.Before {
			index = i
		}
	} else if a.AnchorID != "" {
		logger.DebugTagf("reducer", "create: anchor %s not found, appending", a.AnchorID)
	}

	nb, err := t.newBlock(def, def.NewData(anchor), t.r.env.InitProps())
	if err != nil {
		return err
	}
	t.seq = t.seq.Insert(index, nb)
	t.effects.Add(effect.FocusStart(nb.ID()))

	return t.runHooks(ctx, nb, index, t.focusStart(nb.ID()))
}

// deleteBlock removes the block. A missing id is a no-op without hooks.
// Focus goes to the block now at the same index, or to the end of the new
// last block; an emptied notebook gets no focus.
func (t *txn) deleteBlock(ctx context.Context, a blocktype.DeleteBlock) error {
	index := t.seq.IndexOf(a.ID)
	if index < 0 {
		return nil
	}
	removed := t.seq[index]
	t.seq = t.seq.Remove(index)

	if n := len(t.seq); n > 0 {
		if index < n {
			t.effects.Add(effect.FocusStart(t.seq[index].ID()))
		} else {
			t.effects.Add(effect.FocusEnd(t.seq[n-1].ID()))
		}
	}

	return t.runHooks(ctx, removed, index, nil)
}

// baseTextUpdate swaps text and inlineStyles, keeping the other data keys.
// A missing id is a no-op.
func (t *txn) baseTextUpdate(ctx context.Context, a blocktype.BaseTextUpdate) error {
	index := t.seq.IndexOf(a.ID)
	if index < 0 {
		logger.DebugTagf("reducer", "text update: block %s not found", a.ID)
		return nil
	}
	current := t.seq[index]
	data := current.Data().
		With("text", a.Text).
		With("inlineStyles", block.EncodeInlineStyles(a.InlineStyles))
	updated, err := current.WithData(data)
	if err != nil {
		return fmt.Errorf("text update: %w", err)
	}
	t.seq = t.seq.Replace(index, updated)

	return t.runHooks(ctx, updated, index, t.focusStart(updated.ID()))
}

// moveBlock swaps the block with its neighbour. At a boundary, or for an
// unknown id, nothing changes and nothing is queued. The caret offset is
// read before the swap and restored after it.
func (t *txn) moveBlock(ctx context.Context, a blocktype.MoveBlock) error {
	index := t.seq.IndexOf(a.ID)
	if index < 0 {
		return nil
	}
	target := index + 1
	if a.Dir == blocktype.Up {
		target = index - 1
	}
	if target < 0 || target >= len(t.seq) {
		return nil
	}

	if ref, ok := t.lookupRef(a.ID); ok {
		t.effects.Add(effect.FocusAt(a.ID, ref.CurrentPosition()))
	} else {
		t.effects.Add(effect.FocusStart(a.ID))
	}
	t.seq = t.seq.Swap(index, target)

	return t.runHooks(ctx, t.seq[target], target, t.focusStart(a.ID))
}

func (t *txn) lookupRef(id string) (effect.FocusController, bool) {
	if t.r.env.Refs == nil {
		return nil, false
	}
	return t.r.env.Refs.Get(id)
}

// moveFocus queues navigation only; the target is resolved at flush time.
func (t *txn) moveFocus(a blocktype.MoveFocus) {
	t.effects.Add(effect.FocusNeighbour(a.ID, a.Dir))
}

// convertBlockType rebuilds the block as a new instance of NewType. Every
// key of the new type's default data takes the old block's value when
// that value is truthy; keys the new type does not know are dropped.
func (t *txn) convertBlockType(ctx context.Context, a blocktype.ConvertBlockType) error {
	index := t.seq.IndexOf(a.ID)
	if index < 0 {
		return fmt.Errorf("convert: %w: %s", ErrBlockNotFound, a.ID)
	}
	def, err := t.r.env.Registry.Lookup(a.NewType)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	old := t.seq[index]
	var prev *block.Block
	if index > 0 {
		prev = &t.seq[index-1]
	}
	data := def.NewData(prev)
	oldData := old.Data()
	for key := range data {
		if block.Truthy(oldData[key]) {
			data[key] = oldData[key]
		}
	}

	nb, err := t.newBlock(def, data, old.Props())
	if err != nil {
		return err
	}
	t.seq = t.seq.Replace(index, nb)
	t.effects.Add(effect.FocusStart(nb.ID()))

	if a.OldType == "" {
		a.OldType = old.Type()
		t.action = a
	}
	return t.runHooks(ctx, nb, index, t.focusStart(nb.ID()))
}

// executeMenu runs a menu action against the block, then the OnMenuItem
// hooks. An action without a function is resolved by name from the
// block type's menu and the shared menu items.
func (t *txn) executeMenu(ctx context.Context, a blocktype.ExecuteMenu) error {
	index := t.seq.IndexOf(a.ID)
	if index < 0 {
		return fmt.Errorf("menu %q: %w: %s", a.Name, ErrBlockNotFound, a.ID)
	}
	current := t.seq[index]

	if a.Action == nil {
		item, err := t.resolveMenuItem(current.Type(), a.Name)
		if err != nil {
			return err
		}
		a.Action = item.Action
		t.action = a
	}

	args := blocktype.MenuArgs{Current: current, Sequence: t.seq, Tools: t.r.env.Tools}
	cb := blocktype.MenuCallbacks{
		ModifyBlock:         t.modify,
		FocusOnCurrentBlock: t.focusStart(a.ID),
		OpenEditor:          t.openEditor(current),
	}
	if err := a.Action(ctx, args, cb); err != nil {
		return fmt.Errorf("menu %q: %w", a.Name, err)
	}

	return t.runHooks(ctx, current, index, t.focusStart(a.ID))
}

func (t *txn) resolveMenuItem(typ, name string) (blocktype.MenuItem, error) {
	def, err := t.r.env.Registry.Lookup(typ)
	if err != nil {
		return blocktype.MenuItem{}, err
	}
	for _, items := range [][]blocktype.MenuItem{def.MenuItems, t.r.env.MenuItems} {
		for _, item := range items {
			if item.Name == name && item.Action != nil {
				return item, nil
			}
		}
	}
	return blocktype.MenuItem{}, fmt.Errorf("%w: %q for %s", ErrUnknownMenuItem, name, typ)
}

// openEditor checks the editor exists now and opens it after commit, so a
// failed dispatch never leaves an editor open.
func (t *txn) openEditor(current block.Block) func(name string, data map[string]any) error {
	return func(name string, data map[string]any) error {
		if _, err := t.r.env.Editors.Lookup(name); err != nil {
			return err
		}
		opener := t.r.env.Opener
		if opener == nil {
			return fmt.Errorf("%w: %q", ErrNoEditorHost, name)
		}
		t.effects.Add(func(ctx effect.Context) {
			target := current
			if b, ok := ctx.Sequence.Find(current.ID()); ok {
				target = b
			}
			if err := opener.OpenEditor(name, data, target); err != nil {
				logger.Errorf("reducer: open editor %q: %v", name, err)
			}
		})
		return nil
	}
}

// modifyRawBlock replaces a block wholesale with one built from the object.
func (t *txn) modifyRawBlock(ctx context.Context, a blocktype.ModifyRawBlock) error {
	index := t.seq.IndexOf(a.Block.ID)
	if index < 0 {
		return fmt.Errorf("modify raw: %w: %s", ErrBlockNotFound, a.Block.ID)
	}
	if err := t.modify(a.Block); err != nil {
		return fmt.Errorf("modify raw: %w", err)
	}
	updated := t.seq[index]
	return t.runHooks(ctx, updated, index, t.focusStart(updated.ID()))
}
