// Package render prints a notebook as terminal text, with ANSI colors for
// block types and inline styles.
package render

import (
	"bufio"
	"io"

	"github.com/fatih/color"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/tui"
	"github.com/bethropolis/notebook/plugins/spellcheck"
)

// Options control the output.
type Options struct {
	Color bool // emit ANSI escapes
}

var blockAttrs = map[string][]color.Attribute{
	blocks.Heading:    {color.Bold, color.Underline},
	blocks.Subheading: {color.Bold},
	blocks.Code:       {color.FgCyan},
}

var inlineAttrs = map[string][]color.Attribute{
	blocks.StyleBold:            {color.Bold},
	blocks.StyleItalic:          {color.Italic},
	blocks.StyleUnderline:       {color.Underline},
	blocks.StyleHighlightGreen:  {color.BgGreen},
	blocks.StyleHighlightRed:    {color.BgRed},
	blocks.StyleHighlightYellow: {color.BgYellow},
	blocks.StyleHighlightGray:   {color.BgHiBlack},
	blocks.StyleSubscript:       {color.Faint},
	blocks.StyleSuperscript:     {color.Faint},
	blocks.StyleLink:            {color.FgBlue, color.Underline},
	spellcheck.Style:            {color.FgRed, color.Underline},
}

// Notebook writes seq to w, one line per layout row.
func Notebook(w io.Writer, seq block.Sequence, opts Options) error {
	bw := bufio.NewWriter(w)
	p := printer{w: bw, color: opts.Color}

	prev := -1
	for _, row := range tui.Layout(seq) {
		if prev >= 0 && row.Index != prev {
			bw.WriteByte('\n')
		}
		prev = row.Index

		p.print(row.Prefix, color.FgYellow)
		if row.IsText() {
			p.text(row)
		} else {
			p.print(row.Text, color.Faint)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

type printer struct {
	w     *bufio.Writer
	color bool
}

func (p printer) print(s string, attrs ...color.Attribute) {
	if s == "" {
		return
	}
	c := color.New(attrs...)
	if p.color && len(attrs) > 0 {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprint(p.w, s)
}

// text prints a text row in runs of equal attributes.
func (p printer) text(row tui.Row) {
	base := blockAttrs[row.Block.Type()]
	styles := row.Block.Data().InlineStyles()
	runes := []rune(row.Text)

	start := 0
	current := attrsAt(base, styles, row.Offset)
	for i := 1; i <= len(runes); i++ {
		var next []color.Attribute
		if i < len(runes) {
			next = attrsAt(base, styles, row.Offset+i)
			if sameAttrs(next, current) {
				continue
			}
		}
		p.print(string(runes[start:i]), current...)
		start, current = i, next
	}
}

func attrsAt(base []color.Attribute, styles []block.InlineStyle, offset int) []color.Attribute {
	attrs := append([]color.Attribute(nil), base...)
	for _, s := range styles {
		if offset >= s.Offset && offset < s.End() {
			attrs = append(attrs, inlineAttrs[s.Style]...)
		}
	}
	return attrs
}

func sameAttrs(a, b []color.Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
