package wordcount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/plugin/plugintest"
)

func mustBlock(t *testing.T, id, typ string, data block.Data) block.Block {
	t.Helper()
	b, err := block.New(block.Object{ID: id, BlockID: "aaaaaaaaaa", Type: typ, Data: data, Props: block.Props{}})
	require.NoError(t, err)
	return b
}

func TestCount(t *testing.T) {
	assert.Equal(t, Stats{Words: 2, Characters: 8}, Count("héllo 🇩🇪x"))
	assert.Equal(t, Stats{}, Count(""))
}

func TestMenuItem(t *testing.T) {
	api := plugintest.New()
	p := New()
	require.NoError(t, p.Initialize(api))

	items, _ := api.Seal()
	require.Len(t, items, 1)
	assert.Equal(t, MenuName, items[0].Name)

	first := mustBlock(t, "000000000000000000000001", "paragraph", block.Data{"text": "one two three"})
	second := mustBlock(t, "000000000000000000000002", "latex", block.Data{"latex": "x + y"})
	seq := block.Sequence{first, second}

	err := items[0].Action(context.Background(),
		blocktype.MenuArgs{Current: first, Sequence: seq}, blocktype.MenuCallbacks{})
	require.NoError(t, err)
	assert.Equal(t, "Block: 3 words, 13 chars | Notebook: 6 words, 18 chars (2 blocks)", api.LastMessage())
}
