package spellcheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/plugin/plugintest"
)

func TestKnown(t *testing.T) {
	p := New()
	assert.True(t, p.Known("Notebook"))
	assert.True(t, p.Known("world's"))
	assert.False(t, p.Known("zzyzx"))
}

func TestCheck_Suggests(t *testing.T) {
	p := New()
	found := p.Check("the speling test")
	require.Len(t, found, 1)
	assert.Equal(t, "speling", found[0].Text)
	assert.Equal(t, 4, found[0].Offset)
	assert.Equal(t, 7, found[0].Length)
	assert.Equal(t, "spelling", found[0].Suggestion)
}

func TestMark_ReplacesOnlySpellingStyles(t *testing.T) {
	p := New()
	data := block.Data{
		"text": "good wrld",
		"inlineStyles": block.EncodeInlineStyles([]block.InlineStyle{
			{Offset: 0, Length: 4, Style: "BOLD"},
			{Offset: 0, Length: 4, Style: Style},
		}),
	}
	marked, found := p.Mark(data)
	require.Len(t, found, 1)

	styles := marked.InlineStyles()
	require.Len(t, styles, 2)
	assert.Equal(t, "BOLD", styles[0].Style)
	assert.Equal(t, Style, styles[1].Style)
	assert.Equal(t, 5, styles[1].Offset)
	assert.Equal(t, 4, styles[1].Length)
}

func TestInitialize_ConfigWords(t *testing.T) {
	dict := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(dict, []byte("# custom\nzzyzx\n"), 0o644))

	api := plugintest.New()
	api.Config["spellcheck"] = map[string]any{"dictionary": dict, "words": []any{"Tcell"}}
	p := New()
	require.NoError(t, p.Initialize(api))
	assert.True(t, p.Known("zzyzx"))
	assert.True(t, p.Known("tcell"))

	items, tools := api.Seal()
	require.Len(t, items, 1)
	assert.Equal(t, MenuName, items[0].Name)
	require.Len(t, tools, 1)
	assert.Equal(t, []string{Style}, tools[0].Styles)
}

func TestInitialize_MissingDictionary(t *testing.T) {
	api := plugintest.New()
	api.Config["spellcheck"] = map[string]any{"dictionary": filepath.Join(t.TempDir(), "nope")}
	assert.Error(t, New().Initialize(api))
}

func TestMenuAction(t *testing.T) {
	api := plugintest.New()
	p := New()
	require.NoError(t, p.Initialize(api))
	items, _ := api.Seal()

	b, err := block.New(block.Object{
		ID: "000000000000000000000001", BlockID: "aaaaaaaaaa", Type: "paragraph",
		Data: block.Data{"text": "read the wrld", "inlineStyles": []any{}}, Props: block.Props{},
	})
	require.NoError(t, err)

	var modified []block.Object
	cb := blocktype.MenuCallbacks{ModifyBlock: func(o block.Object) error { modified = append(modified, o); return nil }}
	require.NoError(t, items[0].Action(context.Background(), blocktype.MenuArgs{Current: b, Sequence: block.Sequence{b}}, cb))

	require.Len(t, modified, 1)
	styles := modified[0].Data.InlineStyles()
	require.Len(t, styles, 1)
	assert.Equal(t, 9, styles[0].Offset)
	assert.Equal(t, "1 misspelled: wrld → world", api.LastMessage())

	img, err := b.WithData(block.Data{"img": ""})
	require.NoError(t, err)
	modified = nil
	require.NoError(t, items[0].Action(context.Background(), blocktype.MenuArgs{Current: img}, cb))
	assert.Empty(t, modified)
}
