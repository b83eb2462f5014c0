// Package text edits a block's text together with its inline style
// ranges. Offsets are rune indexes; every function returns new values and
// leaves its inputs alone.
package text

import (
	"errors"
	"sort"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
)

// ErrImmutable is returned when typing inside a range owned by an
// immutable tool such as a link.
var ErrImmutable = errors.New("styled text is immutable")

// Edit is the result of an operation: the new text and styles and where
// the caret ends up.
type Edit struct {
	Text   string
	Styles []block.InlineStyle
	Caret  int
}

// Insert puts s at rune offset at. Ranges after the insertion point move
// right and ranges containing it grow. A range ending exactly at the
// insertion point grows only when its tool is persistent.
func Insert(text string, styles []block.InlineStyle, tools []blocktype.Tool, at int, s string) (Edit, error) {
	runes := []rune(text)
	at = clamp(at, 0, len(runes))
	n := len([]rune(s))

	out := make([]block.InlineStyle, 0, len(styles))
	for _, st := range styles {
		tool, known := blocktype.ToolByStyle(tools, st.Style)
		switch {
		case st.Offset >= at:
			st.Offset += n
		case at < st.End():
			if known && tool.Immutable {
				return Edit{}, ErrImmutable
			}
			st.Length += n
		case at == st.End():
			if known && tool.Persistent {
				st.Length += n
			}
		}
		out = append(out, cloneStyle(st))
	}

	return Edit{
		Text:   string(runes[:at]) + s + string(runes[at:]),
		Styles: out,
		Caret:  at + n,
	}, nil
}

// Delete removes the runes in [start, end). Ranges are shortened or
// shifted to match; ranges left empty are dropped.
func Delete(text string, styles []block.InlineStyle, start, end int) Edit {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, 0, len(runes))
	if end < start {
		start, end = end, start
	}
	removed := end - start

	mapPos := func(p int) int {
		switch {
		case p <= start:
			return p
		case p <= end:
			return start
		default:
			return p - removed
		}
	}

	out := make([]block.InlineStyle, 0, len(styles))
	for _, st := range styles {
		from, to := mapPos(st.Offset), mapPos(st.End())
		if to <= from {
			continue
		}
		st.Offset, st.Length = from, to-from
		out = append(out, cloneStyle(st))
	}
	return Edit{
		Text:   string(runes[:start]) + string(runes[end:]),
		Styles: out,
		Caret:  start,
	}
}

// Backspace deletes the rune before caret.
func Backspace(text string, styles []block.InlineStyle, caret int) (Edit, bool) {
	if caret <= 0 {
		return Edit{}, false
	}
	return Delete(text, styles, caret-1, caret), true
}

// DeleteForward deletes the rune at caret.
func DeleteForward(text string, styles []block.InlineStyle, caret int) (Edit, bool) {
	if caret >= len([]rune(text)) {
		return Edit{}, false
	}
	return Delete(text, styles, caret, caret+1), true
}

// Toggle applies style over [start, end), or removes it when the whole
// range already carries it. Styles of an exclusive tool replace one
// another on the range.
func Toggle(text string, styles []block.InlineStyle, tool blocktype.Tool, style string, start, end int) []block.InlineStyle {
	runes := []rune(text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, 0, len(runes))
	if end < start {
		start, end = end, start
	}
	if start == end {
		return cloneStyles(styles)
	}

	if covered(styles, style, start, end) {
		return normalize(subtract(styles, func(s string) bool { return s == style }, start, end))
	}

	out := styles
	if tool.Exclusive {
		owned := make(map[string]bool, len(tool.Styles))
		for _, s := range tool.Styles {
			owned[s] = true
		}
		out = subtract(out, func(s string) bool { return owned[s] }, start, end)
	} else {
		out = subtract(out, func(s string) bool { return s == style }, start, end)
	}

	added := block.InlineStyle{Offset: start, Length: end - start, Style: style}
	if tool.Data != nil {
		added.Data = tool.Data(string(runes[start:end]))
	}
	return normalize(append(out, added))
}

// Active lists the styles covering the rune at offset.
func Active(styles []block.InlineStyle, offset int) []string {
	var out []string
	for _, st := range styles {
		if offset >= st.Offset && offset < st.End() {
			out = append(out, st.Style)
		}
	}
	return out
}

// covered reports whether every rune of [start, end) carries style.
func covered(styles []block.InlineStyle, style string, start, end int) bool {
	for p := start; p < end; p++ {
		hit := false
		for _, st := range styles {
			if st.Style == style && p >= st.Offset && p < st.End() {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// subtract cuts [start, end) out of every range whose style matches.
func subtract(styles []block.InlineStyle, match func(string) bool, start, end int) []block.InlineStyle {
	out := make([]block.InlineStyle, 0, len(styles)+1)
	for _, st := range styles {
		if !match(st.Style) || st.End() <= start || st.Offset >= end {
			out = append(out, cloneStyle(st))
			continue
		}
		if st.Offset < start {
			left := cloneStyle(st)
			left.Length = start - st.Offset
			out = append(out, left)
		}
		if st.End() > end {
			right := cloneStyle(st)
			right.Offset = end
			right.Length = st.End() - end
			out = append(out, right)
		}
	}
	return out
}

// normalize sorts ranges and merges touching ranges of the same style
// that carry no data.
func normalize(styles []block.InlineStyle) []block.InlineStyle {
	sort.SliceStable(styles, func(i, j int) bool {
		if styles[i].Style != styles[j].Style {
			return styles[i].Style < styles[j].Style
		}
		return styles[i].Offset < styles[j].Offset
	})
	out := make([]block.InlineStyle, 0, len(styles))
	for _, st := range styles {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Style == st.Style && len(last.Data) == 0 && len(st.Data) == 0 && st.Offset <= last.End() {
				if st.End() > last.End() {
					last.Length = st.End() - last.Offset
				}
				continue
			}
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func cloneStyles(styles []block.InlineStyle) []block.InlineStyle {
	out := make([]block.InlineStyle, len(styles))
	for i, st := range styles {
		out[i] = cloneStyle(st)
	}
	return out
}

func cloneStyle(st block.InlineStyle) block.InlineStyle {
	if st.Data != nil {
		d := make(map[string]any, len(st.Data))
		for k, v := range st.Data {
			d[k] = v
		}
		st.Data = d
	}
	return st
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
