// Package blocks provides the built-in block types, inline tools, menu items
// and editors a notebook starts with.
package blocks

import (
	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/highlighter"
)

// Built-in type names.
const (
	Paragraph     = "paragraph"
	Heading       = "heading"
	Subheading    = "subheading"
	OrderedList   = "ordered-list"
	UnorderedList = "unordered-list"
	Table         = "table"
	Latex         = "latex"
	Image         = "image"
	Canvas        = "canvas"
	Code          = "code"
)

// UnorderedMaxIndent is how deep bullet lists nest.
const UnorderedMaxIndent = 6

// Defaults returns the built-in definitions in registration order.
// Paragraph is first, so it is what an empty notebook starts with.
// A nil highlighter leaves code blocks unstyled.
func Defaults(hl *highlighter.Highlighter) []blocktype.Definition {
	return []blocktype.Definition{
		paragraph(),
		heading(),
		subheading(),
		orderedList(),
		unorderedList(),
		table(),
		latex(),
		image(),
		canvas(),
		code(hl),
	}
}

// NewRegistry registers Defaults plus any extra definitions.
func NewRegistry(hl *highlighter.Highlighter, extra ...blocktype.Definition) (*blocktype.Registry, error) {
	return blocktype.NewRegistry(append(Defaults(hl), extra...)...)
}

// textData is the data every text-bearing block starts from.
func textData() block.Data {
	return block.Data{"text": "", "inlineStyles": []any{}}
}

func withText(extra block.Data) blocktype.InitFunc {
	return func(*block.Block) block.Data {
		d := textData()
		for k, v := range extra {
			d[k] = v
		}
		return d.Clone()
	}
}

func paragraph() blocktype.Definition {
	return blocktype.Definition{
		Type:     Paragraph,
		Label:    "Paragraph",
		Icon:     "P",
		Shortcut: "Cmd+P",
		Init:     withText(nil),

		FollowingBlock: Paragraph,
	}
}

func heading() blocktype.Definition {
	return blocktype.Definition{
		Type:           Heading,
		Label:          "Heading",
		Icon:           "H",
		Shortcut:       "Cmd+T",
		FollowingBlock: Paragraph,
		Init:           withText(nil),
	}
}

func subheading() blocktype.Definition {
	return blocktype.Definition{
		Type:           Subheading,
		Label:          "Subheading",
		Icon:           "S",
		Shortcut:       "Cmd+N",
		FollowingBlock: Paragraph,
		Init:           withText(nil),
	}
}

// PlainText is the readable text of a block: its text, a table's cells,
// or a formula. Other blocks have none.
func PlainText(typ string, data block.Data) string {
	switch typ {
	case Table:
		return TableText(data)
	case Latex:
		return data.String("latex")
	case Image, Canvas:
		return ""
	}
	return data.String("text")
}
