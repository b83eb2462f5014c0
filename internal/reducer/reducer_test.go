package reducer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/effect"
	"github.com/bethropolis/notebook/internal/effect/effecttest"
	"github.com/bethropolis/notebook/internal/reducer"
)

func textType(typ string) blocktype.Definition {
	return blocktype.Definition{
		Type: typ,
		Init: func(*block.Block) block.Data { return block.Data{"text": "", "inlineStyles": []any{}} },
	}
}

func idGen() (func() string, func() string) {
	n := 0
	return func() string { n++; return fmt.Sprintf("%024x", n) },
		func() string { return fmt.Sprintf("%010x", n) }
}

func newReducer(t *testing.T, env reducer.Env, defs ...blocktype.Definition) *reducer.Reducer {
	t.Helper()
	if len(defs) == 0 {
		defs = []blocktype.Definition{textType("paragraph"), textType("heading")}
	}
	reg, err := blocktype.NewRegistry(defs...)
	require.NoError(t, err)
	env.Registry = reg
	if env.NewID == nil {
		env.NewID, env.NewBlockID = idGen()
	}
	return reducer.New(env)
}

func para(t *testing.T, id, text string) block.Block {
	t.Helper()
	b, err := block.New(block.Object{
		ID:      id,
		BlockID: "aaaaaaaaaa",
		Type:    "paragraph",
		Data:    block.Data{"text": text, "inlineStyles": []any{}},
		Props:   block.Props{},
	})
	require.NoError(t, err)
	return b
}

const (
	id1 = "aaaaaaaaaaaaaaaaaaaaaaa1"
	id2 = "aaaaaaaaaaaaaaaaaaaaaaa2"
	id3 = "aaaaaaaaaaaaaaaaaaaaaaa3"
)

func reduce(t *testing.T, r *reducer.Reducer, seq block.Sequence, act blocktype.Action) (block.Sequence, *effect.Queue) {
	t.Helper()
	q := effect.NewQueue()
	next, err := r.Reduce(context.Background(), seq, act, q)
	require.NoError(t, err)
	return next, q
}

func TestCreate_Position(t *testing.T) {
	r := newReducer(t, reducer.Env{})
	seq := block.Sequence{para(t, id1, "a"), para(t, id2, "b")}

	after, q := reduce(t, r, seq, blocktype.CreateNewBlock{AnchorID: id1, BlockType: "heading"})
	require.Len(t, after, 3)
	assert.Equal(t, []string{id1, after[1].ID(), id2}, after.IDs())
	assert.Equal(t, "heading", after[1].Type())
	assert.Equal(t, 1, q.Len())

	before, _ := reduce(t, r, seq, blocktype.CreateNewBlock{AnchorID: id1, Position: blocktype.Before, BlockType: "heading"})
	assert.Equal(t, "heading", before[0].Type())
	assert.Equal(t, id1, before[1].ID())

	appended, _ := reduce(t, r, seq, blocktype.CreateNewBlock{AnchorID: "missing", BlockType: "paragraph"})
	assert.Equal(t, id2, appended[1].ID())
	assert.Len(t, appended, 3)

	empty, _ := reduce(t, r, nil, blocktype.CreateNewBlock{BlockType: "paragraph"})
	assert.Len(t, empty, 1)

	assert.Len(t, seq, 2, "input sequence untouched")
}

func TestCreate_UnknownType(t *testing.T) {
	r := newReducer(t, reducer.Env{})
	q := effect.NewQueue()
	next, err := r.Reduce(context.Background(), nil, blocktype.CreateNewBlock{BlockType: "headng"}, q)
	assert.ErrorIs(t, err, blocktype.ErrUnknownBlockType)
	assert.Contains(t, err.Error(), "heading")
	assert.Nil(t, next)
}

func TestCreate_InitSeesAnchor(t *testing.T) {
	var seen *block.Block
	def := textType("paragraph")
	def.Init = func(prev *block.Block) block.Data {
		seen = prev
		return block.Data{"text": ""}
	}
	r := newReducer(t, reducer.Env{}, def)
	_, _ = reduce(t, r, block.Sequence{para(t, id1, "a")}, blocktype.CreateNewBlock{AnchorID: id1, BlockType: "paragraph"})
	require.NotNil(t, seen)
	assert.Equal(t, id1, seen.ID())
}

// A notebook session end to end: type into a fresh block, then remove the
// block above it.
func TestEditingSession_Focus(t *testing.T) {
	refs := effect.NewRefMap()
	r := newReducer(t, reducer.Env{Refs: refs})
	seq := block.Sequence{para(t, id1, "")}
	ctrl1 := effecttest.New(0)
	refs.Set(id1, ctrl1)

	seq, q := reduce(t, r, seq, blocktype.CreateNewBlock{AnchorID: id1, BlockType: "paragraph"})
	require.Len(t, seq, 2)
	p2 := seq[1].ID()
	ctrl2 := effecttest.New(0)
	refs.Set(p2, ctrl2)
	q.Flush(effect.Context{Sequence: seq, Refs: refs})
	assert.Equal(t, []string{"start"}, ctrl2.Calls())

	seq, _ = reduce(t, r, seq, blocktype.BaseTextUpdate{ID: p2, Text: "hi"})
	assert.Equal(t, "hi", seq[1].Text())

	seq, q = reduce(t, r, seq, blocktype.DeleteBlock{ID: id1})
	require.Len(t, seq, 1)
	assert.Equal(t, p2, seq[0].ID())
	refs.Prune(seq)
	q.Flush(effect.Context{Sequence: seq, Refs: refs})
	assert.Equal(t, []string{"start", "start"}, ctrl2.Calls())
	assert.Empty(t, ctrl1.Calls())
}

func TestDelete(t *testing.T) {
	var hooked []string
	def := textType("paragraph")
	def.OnDeleteBlock = func(_ context.Context, args blocktype.HookArgs, _ blocktype.Callbacks) error {
		hooked = append(hooked, fmt.Sprintf("%s@%d/%d", args.Current.ID(), args.Index, len(args.Sequence)))
		return nil
	}
	refs := effect.NewRefMap()
	ctrl := effecttest.New(0)
	refs.Set(id1, ctrl)
	r := newReducer(t, reducer.Env{Refs: refs}, def)
	seq := block.Sequence{para(t, id1, "a"), para(t, id2, "b")}

	same, q := reduce(t, r, seq, blocktype.DeleteBlock{ID: "nope"})
	assert.True(t, same.Equal(seq))
	assert.Zero(t, q.Len())
	assert.Empty(t, hooked)

	next, q := reduce(t, r, seq, blocktype.DeleteBlock{ID: id2})
	assert.Equal(t, []string{id1}, next.IDs())
	assert.Equal(t, []string{id2 + "@1/1"}, hooked, "hooks see the removed block and where it was")
	q.Flush(effect.Context{Sequence: next, Refs: refs})
	assert.Equal(t, []string{"end"}, ctrl.Calls(), "deleting the last block focuses the end of the new last")

	empty, q := reduce(t, r, next, blocktype.DeleteBlock{ID: id1})
	assert.Empty(t, empty)
	assert.Zero(t, q.Len())
}

func TestBaseTextUpdate(t *testing.T) {
	r := newReducer(t, reducer.Env{})
	orig := para(t, id1, "old")
	orig, err := orig.WithData(orig.Data().With("extra", "kept"))
	require.NoError(t, err)
	styles := []block.InlineStyle{{Offset: 0, Length: 3, Style: "BOLD"}}

	next, _ := reduce(t, r, block.Sequence{orig}, blocktype.BaseTextUpdate{ID: id1, Text: "new", InlineStyles: styles})
	assert.Equal(t, "new", next[0].Text())
	assert.Equal(t, styles, next[0].Data().InlineStyles())
	assert.Equal(t, "kept", next[0].Data().String("extra"))
	assert.Equal(t, id1, next[0].ID())

	same, _ := reduce(t, r, block.Sequence{orig}, blocktype.BaseTextUpdate{ID: "missing", Text: "x"})
	assert.True(t, same.Equal(block.Sequence{orig}))
}

func TestMoveBlock(t *testing.T) {
	refs := effect.NewRefMap()
	ctrl := effecttest.New(2)
	refs.Set(id1, ctrl)
	r := newReducer(t, reducer.Env{Refs: refs})
	seq := block.Sequence{para(t, id1, "abc"), para(t, id2, "b"), para(t, id3, "c")}

	top, q := reduce(t, r, seq, blocktype.MoveBlock{ID: id1, Dir: blocktype.Up})
	assert.True(t, top.Equal(seq))
	assert.Zero(t, q.Len())

	bottom, q := reduce(t, r, seq, blocktype.MoveBlock{ID: id3, Dir: blocktype.Down})
	assert.True(t, bottom.Equal(seq))
	assert.Zero(t, q.Len())

	down, q := reduce(t, r, seq, blocktype.MoveBlock{ID: id1, Dir: blocktype.Down})
	assert.Equal(t, []string{id2, id1, id3}, down.IDs())
	q.Flush(effect.Context{Sequence: down, Refs: refs})
	assert.Equal(t, []string{"at:2"}, ctrl.Calls(), "caret offset survives the move")

	up, _ := reduce(t, r, seq, blocktype.MoveBlock{ID: id3, Dir: blocktype.Up})
	assert.Equal(t, []string{id1, id3, id2}, up.IDs())
}

func TestMoveFocus(t *testing.T) {
	refs := effect.NewRefMap()
	c1, c3 := effecttest.New(0), effecttest.New(0)
	refs.Set(id1, c1)
	refs.Set(id3, c3)
	r := newReducer(t, reducer.Env{Refs: refs})
	seq := block.Sequence{para(t, id1, "a"), para(t, id2, "b"), para(t, id3, "c")}

	next, q := reduce(t, r, seq, blocktype.MoveFocus{ID: id2, Dir: blocktype.Up})
	assert.True(t, next.Equal(seq))
	q.Flush(effect.Context{Sequence: next, Refs: refs})
	assert.Equal(t, []string{"end"}, c1.Calls())

	_, q = reduce(t, r, seq, blocktype.MoveFocus{ID: id2, Dir: blocktype.Down})
	q.Flush(effect.Context{Sequence: seq, Refs: refs})
	assert.Equal(t, []string{"start"}, c3.Calls())
}

func TestHooks_RunForEveryTypeInOrder(t *testing.T) {
	var order []string
	tagging := func(typ string) blocktype.Definition {
		def := textType(typ)
		def.OnBaseTextUpdate = func(_ context.Context, args blocktype.HookArgs, cb blocktype.Callbacks) error {
			order = append(order, typ+":"+args.Current.Props()["by"])
			obj := args.Current.Object()
			obj.Props["by"] = typ
			return cb.ModifyBlock(obj)
		}
		return def
	}
	r := newReducer(t, reducer.Env{}, tagging("paragraph"), tagging("heading"), tagging("quote"))

	next, _ := reduce(t, r, block.Sequence{para(t, id1, "")}, blocktype.BaseTextUpdate{ID: id1, Text: "x"})
	assert.Equal(t, []string{"paragraph:", "heading:paragraph", "quote:heading"}, order,
		"each hook sees the writes of the hooks before it")
	assert.Equal(t, "quote", next[0].Props()["by"])
}

func TestHookError_DiscardsEverything(t *testing.T) {
	boom := errors.New("boom")
	def := textType("paragraph")
	def.OnCreateNewBlock = func(context.Context, blocktype.HookArgs, blocktype.Callbacks) error { return boom }
	r := newReducer(t, reducer.Env{}, def)
	seq := block.Sequence{para(t, id1, "")}

	q := effect.NewQueue()
	next, err := r.Reduce(context.Background(), seq, blocktype.CreateNewBlock{AnchorID: id1, BlockType: "paragraph"}, q)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, next)
	assert.Len(t, seq, 1)
}

func TestHook_ModifyValidates(t *testing.T) {
	def := textType("paragraph")
	def.OnBaseTextUpdate = func(_ context.Context, args blocktype.HookArgs, cb blocktype.Callbacks) error {
		obj := args.Current.Object()
		obj.Type = "unregistered"
		return cb.ModifyBlock(obj)
	}
	r := newReducer(t, reducer.Env{}, def)
	_, err := r.Reduce(context.Background(), block.Sequence{para(t, id1, "")}, blocktype.BaseTextUpdate{ID: id1}, nil)
	assert.ErrorIs(t, err, blocktype.ErrUnknownBlockType)
}

func TestConvert_TruthyOverlay(t *testing.T) {
	var seenOld string
	target := blocktype.Definition{
		Type: "card",
		Init: func(*block.Block) block.Data {
			return block.Data{"text": "", "count": float64(5), "flag": false, "extra": "d"}
		},
		OnConvertBlockType: func(_ context.Context, args blocktype.HookArgs, _ blocktype.Callbacks) error {
			seenOld = args.Action.(blocktype.ConvertBlockType).OldType
			return nil
		},
	}
	r := newReducer(t, reducer.Env{}, textType("paragraph"), target)
	src, err := block.New(block.Object{
		ID: id1, BlockID: "aaaaaaaaaa", Type: "paragraph",
		Data:  block.Data{"text": "x", "count": 0, "flag": true, "gone": "y"},
		Props: block.Props{"color": "red"},
	})
	require.NoError(t, err)

	next, _ := reduce(t, r, block.Sequence{src}, blocktype.ConvertBlockType{ID: id1, NewType: "card"})
	got := next[0]
	assert.Equal(t, "card", got.Type())
	assert.NotEqual(t, id1, got.ID())
	assert.True(t, block.Equal(block.Data{"text": "x", "count": 5, "flag": true, "extra": "d"}, got.Data()))
	assert.Equal(t, block.Props{"color": "red"}, got.Props())
	assert.Equal(t, "paragraph", seenOld)
}

func TestNotFoundErrors(t *testing.T) {
	r := newReducer(t, reducer.Env{})
	seq := block.Sequence{para(t, id1, "")}
	ghost := para(t, id2, "")

	for name, act := range map[string]blocktype.Action{
		"convert": blocktype.ConvertBlockType{ID: id2, NewType: "heading"},
		"menu":    blocktype.ExecuteMenu{ID: id2, Name: "x"},
		"raw":     blocktype.ModifyRawBlock{Block: ghost.Object()},
	} {
		t.Run(name, func(t *testing.T) {
			next, err := r.Reduce(context.Background(), seq, act, nil)
			assert.ErrorIs(t, err, reducer.ErrBlockNotFound)
			assert.Nil(t, next)
		})
	}
}

type otherAction struct{}

func (otherAction) Kind() blocktype.Kind { return "other" }

func TestUnknownAction(t *testing.T) {
	r := newReducer(t, reducer.Env{})
	_, err := r.Reduce(context.Background(), nil, otherAction{}, nil)
	assert.ErrorIs(t, err, reducer.ErrUnknownAction)
}

func TestModifyRawBlock(t *testing.T) {
	r := newReducer(t, reducer.Env{})
	seq := block.Sequence{para(t, id1, "a"), para(t, id2, "b")}

	obj := seq[1].Object()
	obj.Type = "heading"
	obj.Data["text"] = "B"
	next, _ := reduce(t, r, seq, blocktype.ModifyRawBlock{Block: obj})
	assert.Equal(t, "heading", next[1].Type())
	assert.Equal(t, "B", next[1].Text())

	bad := seq[1].Object()
	bad.BlockID = "!"
	_, err := r.Reduce(context.Background(), seq, blocktype.ModifyRawBlock{Block: bad}, nil)
	assert.ErrorIs(t, err, block.ErrInvalidBlockID)

	unknown := seq[1].Object()
	unknown.Type = "nope"
	_, err = r.Reduce(context.Background(), seq, blocktype.ModifyRawBlock{Block: unknown}, nil)
	assert.ErrorIs(t, err, blocktype.ErrUnknownBlockType)
}

type opener struct{ names []string }

func (o *opener) OpenEditor(name string, _ map[string]any, _ block.Block) error {
	o.names = append(o.names, name)
	return nil
}

func editors(t *testing.T) *blocktype.EditorRegistry {
	t.Helper()
	eds, err := blocktype.NewEditorRegistry(blocktype.Editor{
		Name:  "props",
		Apply: func(cur block.Object, _ map[string]any, _ string) (block.Object, error) { return cur, nil },
	})
	require.NoError(t, err)
	return eds
}

func TestExecuteMenu(t *testing.T) {
	var hooks []string
	def := textType("paragraph")
	def.MenuItems = []blocktype.MenuItem{{
		Name: "Shout",
		Action: func(_ context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			obj := args.Current.Object()
			obj.Data["text"] = args.Current.Text() + "!"
			return cb.ModifyBlock(obj)
		},
	}}
	def.OnMenuItem = func(_ context.Context, args blocktype.HookArgs, _ blocktype.Callbacks) error {
		hooks = append(hooks, args.Action.(blocktype.ExecuteMenu).Name+":"+args.Current.Text())
		return nil
	}
	shared := blocktype.MenuItem{
		Name: "Open",
		Action: func(_ context.Context, _ blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			return cb.OpenEditor("props", nil)
		},
	}
	o := &opener{}
	r := newReducer(t, reducer.Env{MenuItems: []blocktype.MenuItem{shared}, Editors: editors(t), Opener: o}, def)
	seq := block.Sequence{para(t, id1, "hey")}

	next, _ := reduce(t, r, seq, blocktype.ExecuteMenu{ID: id1, Name: "Shout"})
	assert.Equal(t, "hey!", next[0].Text())
	assert.Equal(t, []string{"Shout:hey!"}, hooks)

	direct, _ := reduce(t, r, seq, blocktype.ExecuteMenu{
		ID: id1, Name: "inline",
		Action: func(context.Context, blocktype.MenuArgs, blocktype.MenuCallbacks) error { return nil },
	})
	assert.True(t, direct.Equal(seq))

	next, q := reduce(t, r, seq, blocktype.ExecuteMenu{ID: id1, Name: "Open"})
	assert.Empty(t, o.names, "editors open after commit")
	q.Flush(effect.Context{Sequence: next})
	assert.Equal(t, []string{"props"}, o.names)

	_, err := r.Reduce(context.Background(), seq, blocktype.ExecuteMenu{ID: id1, Name: "Missing"}, nil)
	assert.ErrorIs(t, err, reducer.ErrUnknownMenuItem)
}

func TestOpenEditor_Errors(t *testing.T) {
	open := func(name string) blocktype.MenuFunc {
		return func(_ context.Context, _ blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			return cb.OpenEditor(name, nil)
		}
	}
	seq := block.Sequence{para(t, id1, "")}

	noHost := newReducer(t, reducer.Env{Editors: editors(t)})
	_, err := noHost.Reduce(context.Background(), seq, blocktype.ExecuteMenu{ID: id1, Name: "m", Action: open("props")}, nil)
	assert.ErrorIs(t, err, reducer.ErrNoEditorHost)

	o := &opener{}
	r := newReducer(t, reducer.Env{Editors: editors(t), Opener: o})
	_, err = r.Reduce(context.Background(), seq, blocktype.ExecuteMenu{ID: id1, Name: "m", Action: open("nope")}, nil)
	assert.ErrorIs(t, err, blocktype.ErrUnknownEditor)

	// a hook failing after the menu action means the editor never opens
	def := textType("paragraph")
	def.OnMenuItem = func(context.Context, blocktype.HookArgs, blocktype.Callbacks) error { return errors.New("veto") }
	vetoed := newReducer(t, reducer.Env{Editors: editors(t), Opener: o}, def)
	q := effect.NewQueue()
	_, err = vetoed.Reduce(context.Background(), seq, blocktype.ExecuteMenu{ID: id1, Name: "m", Action: open("props")}, q)
	require.Error(t, err)
	q.Discard()
	q.Flush(effect.Context{Sequence: seq})
	assert.Empty(t, o.names)
}

func TestNewIDsAreUnique(t *testing.T) {
	calls := 0
	ids := []string{id1, id1, id2}
	r := newReducer(t, reducer.Env{
		NewID:      func() string { id := ids[calls]; calls++; return id },
		NewBlockID: func() string { return "bbbbbbbbbb" },
	})
	next, _ := reduce(t, r, block.Sequence{para(t, id1, "")}, blocktype.CreateNewBlock{AnchorID: id1, BlockType: "paragraph"})
	assert.Equal(t, []string{id1, id2}, next.IDs())
	_, dup := next.DuplicateID()
	assert.False(t, dup)
}
