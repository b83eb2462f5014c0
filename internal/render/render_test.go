package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
)

func newBlock(t *testing.T, typ string, data block.Data) block.Block {
	t.Helper()
	if _, ok := data["text"]; !ok {
		data["text"] = ""
	}
	b, err := block.New(block.Object{ID: block.NewID(), BlockID: block.NewBlockID(), Type: typ, Data: data})
	require.NoError(t, err)
	return b
}

func TestNotebook_Plain(t *testing.T) {
	seq := block.Sequence{
		newBlock(t, blocks.Heading, block.Data{"text": "Title"}),
		newBlock(t, blocks.Paragraph, block.Data{"text": "first\nsecond"}),
		newBlock(t, blocks.Code, block.Data{"text": "x := 1", "language": "go"}),
	}

	var buf bytes.Buffer
	require.NoError(t, Notebook(&buf, seq, Options{}))

	out := buf.String()
	assert.Contains(t, out, "# Title\n\nfirst\nsecond\n\n")
	assert.Contains(t, out, "│ x := 1\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestNotebook_Color(t *testing.T) {
	styles := []block.InlineStyle{{Offset: 0, Length: 4, Style: blocks.StyleBold}}
	seq := block.Sequence{
		newBlock(t, blocks.Paragraph, block.Data{"text": "bold rest", "inlineStyles": block.EncodeInlineStyles(styles)}),
	}

	var buf bytes.Buffer
	require.NoError(t, Notebook(&buf, seq, Options{Color: true}))

	out := buf.String()
	assert.Contains(t, out, "\x1b[1mbold\x1b[0m")
	assert.Contains(t, out, " rest\n")
}

func TestNotebook_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Notebook(&buf, nil, Options{Color: true}))
	assert.Empty(t, buf.String())
}
