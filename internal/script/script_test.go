package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/plugin/plugintest"
)

const upper = `
notebook.menu_item{
  name = "Upper Case",
  shortcut = "Cmd+Shift+Y",
  action = function(block, doc)
    block.data.text = string.upper(block.data.text)
    block.props.count = tostring(#doc)
    return block
  end,
}
`

func paragraph(t *testing.T, id, text string) block.Block {
	t.Helper()
	b, err := block.New(block.Object{
		ID: id, BlockID: "aaaaaaaaaa", Type: "paragraph",
		Data:  block.Data{"text": text, "inlineStyles": []any{}},
		Props: block.Props{},
	})
	require.NoError(t, err)
	return b
}

type recorder struct {
	modified []block.Object
	focused  int
	editors  []string
}

func (r *recorder) callbacks() blocktype.MenuCallbacks {
	return blocktype.MenuCallbacks{
		ModifyBlock:         func(o block.Object) error { r.modified = append(r.modified, o); return nil },
		FocusOnCurrentBlock: func() { r.focused++ },
		OpenEditor: func(name string, data map[string]any) error {
			r.editors = append(r.editors, name)
			return nil
		},
	}
}

func run(t *testing.T, item blocktype.MenuItem, b block.Block, rec *recorder) error {
	t.Helper()
	return item.Action(context.Background(), blocktype.MenuArgs{Current: b, Sequence: block.Sequence{b}}, rec.callbacks())
}

func TestMenuItem_ModifiesBlock(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	require.NoError(t, e.LoadString(context.Background(), "upper.lua", upper))

	items := e.MenuItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Upper Case", items[0].Name)
	assert.Equal(t, "Cmd+Shift+Y", items[0].Shortcut)

	var rec recorder
	require.NoError(t, run(t, items[0], paragraph(t, "000000000000000000000001", "hello"), &rec))
	require.Len(t, rec.modified, 1)
	got := rec.modified[0]
	assert.Equal(t, "HELLO", got.Data.String("text"))
	assert.Equal(t, []any{}, got.Data["inlineStyles"], "empty lists stay lists")
	assert.Equal(t, block.Props{"count": "1"}, got.Props)
}

func TestMenuItem_NilResultAndCallbacks(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	require.NoError(t, e.LoadString(context.Background(), "cb.lua", `
notebook.menu_item{
  name = "Poke",
  action = function(block)
    notebook.focus()
    notebook.open_editor("properties", {props = {}})
    notebook.status("poked " .. block.type)
  end,
}`))

	var rec recorder
	require.NoError(t, run(t, e.MenuItems()[0], paragraph(t, "000000000000000000000001", "x"), &rec))
	assert.Empty(t, rec.modified)
	assert.Equal(t, 1, rec.focused)
	assert.Equal(t, []string{"properties"}, rec.editors)
}

func TestMenuItem_StatusReachesPlugin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`
notebook.menu_item{name = "Hi", action = function(b) notebook.status("hi " .. b.data.text) end}`), 0o644))

	api := plugintest.New()
	p := NewPlugin(dir)
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	items, _ := api.Seal()
	require.Len(t, items, 1)
	var rec recorder
	require.NoError(t, run(t, items[0], paragraph(t, "000000000000000000000001", "there"), &rec))
	assert.Equal(t, "hi there", api.LastMessage())
}

func TestMenuItem_RejectsBadResults(t *testing.T) {
	cases := map[string]string{
		"number":     `return 3`,
		"id change":  `b.id = "00000000000000000000000f"; return b`,
		"bad prop":   `b.props.n = 3; return b`,
		"lua error":  `error("nope")`,
		"type field": `b.type = 4; return b`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := NewEngine()
			defer e.Close()
			require.NoError(t, e.LoadString(context.Background(), "bad.lua",
				`notebook.menu_item{name = "Bad", action = function(b) `+body+` end}`))
			var rec recorder
			err := run(t, e.MenuItems()[0], paragraph(t, "000000000000000000000001", "x"), &rec)
			assert.Error(t, err)
			assert.Empty(t, rec.modified)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	ctx := context.Background()

	assert.ErrorContains(t, e.LoadString(ctx, "a.lua", `notebook.menu_item{action = function() end}`), "name")
	assert.ErrorContains(t, e.LoadString(ctx, "b.lua", `notebook.menu_item{name = "X"}`), "action")
	assert.Error(t, e.LoadString(ctx, "c.lua", `this is not lua`))
	assert.Error(t, e.LoadString(ctx, "d.lua", `notebook.focus()`))
	assert.Empty(t, e.MenuItems())

	require.NoError(t, e.LoadString(ctx, "e.lua", `notebook.menu_item{name = "X", action = function() end}`))
	assert.ErrorIs(t, e.LoadString(ctx, "f.lua", `notebook.menu_item{name = "X", action = function() end}`), ErrInvalidMenuItem)
	assert.Len(t, e.MenuItems(), 1)
}

func TestSandbox(t *testing.T) {
	s := NewState()
	defer s.Close()
	ctx := context.Background()
	for _, code := range []string{`io.write("x")`, `os.exit(1)`, `require("os")`, `dofile("/etc/passwd")`, `load("return 1")`} {
		assert.Error(t, s.DoString(ctx, "sandbox", code), code)
	}
	assert.NoError(t, s.DoString(ctx, "ok", `local t = {3, 1, 2}; table.sort(t); assert(math.max(t[1], 1) == 1)`))
}

func TestTimeout(t *testing.T) {
	s := NewState(WithTimeout(50 * time.Millisecond))
	defer s.Close()

	start := time.Now()
	err := s.DoString(context.Background(), "loop", `while true do end`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)

	s.Close()
	assert.ErrorIs(t, s.DoString(context.Background(), "closed", `x = 1`), ErrStateClosed)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`notebook.menu_item{name = "B", action = function() end}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`notebook.menu_item{name = "A", action = function() end}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte(`(`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))

	e := NewEngine()
	defer e.Close()
	err := e.LoadDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.lua")

	items := e.MenuItems()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)

	assert.NoError(t, NewEngine().LoadDir(context.Background(), filepath.Join(dir, "missing")))
}
