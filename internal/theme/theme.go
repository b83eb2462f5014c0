// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/notebook/internal/logger"
)

// Theme maps style names to tcell styles. Names are dotted: "block.heading",
// "inline.bold", "code.keyword".
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves name, falling back to the part before the first dot
// and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Has reports whether name resolves to something other than "Default".
func (t *Theme) Has(name string) bool {
	if _, ok := t.Styles[name]; ok {
		return true
	}
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		_, ok := t.Styles[name[:dotIndex]]
		return ok
	}
	return false
}

// InlineStyleName maps a stored inline style ("BOLD", "CODE_KEYWORD") to
// its theme entry ("inline.bold", "code.keyword").
func InlineStyleName(style string) string {
	lower := strings.ToLower(style)
	if rest, ok := strings.CutPrefix(lower, "code_"); ok {
		return "code." + rest
	}
	return "inline." + lower
}

// Overlay applies the colors and attributes top sets on top of base.
func Overlay(base, top tcell.Style) tcell.Style {
	fg, bg, attr := top.Decompose()
	_, _, baseAttr := base.Decompose()
	if fg != tcell.ColorDefault {
		base = base.Foreground(fg)
	}
	if bg != tcell.ColorDefault && bg != tcell.ColorReset {
		base = base.Background(bg)
	}
	return base.Attributes(baseAttr | attr)
}

// --- Notebook Dark Theme Definition ---

// NotebookDark is the built-in theme.
var NotebookDark = newNotebookDark()

func newNotebookDark() Theme {
	dcBackground := tcell.NewHexColor(0x2a2f38)
	dcForeground := tcell.NewHexColor(0xc5cdd9)
	dcComment := tcell.NewHexColor(0x5c6370)
	dcOrange := tcell.NewHexColor(0xd19a66)
	dcYellow := tcell.NewHexColor(0xe5c07b)
	dcGreen := tcell.NewHexColor(0x98c379)
	dcRed := tcell.NewHexColor(0xe06c75)
	dcCyan := tcell.NewHexColor(0x56b6c2)
	dcBlue := tcell.NewHexColor(0x61afef)
	dcMagenta := tcell.NewHexColor(0xc678dd)
	dcPanel := tcell.NewHexColor(0x21252b)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	return Theme{
		Name:   "Notebook Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			// --- UI Elements ---
			"Default":           baseStyle,
			"Gutter":            baseStyle.Foreground(dcComment),
			"Focused":           baseStyle.Foreground(dcBlue).Bold(true),
			"Placeholder":       baseStyle.Foreground(dcComment).Italic(true),
			"Cursor":            baseStyle.Reverse(true),
			"StatusBar":         tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground),
			"StatusBarReadOnly": tcell.StyleDefault.Background(dcBackground).Foreground(dcYellow),
			"StatusBarMessage":  tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground).Bold(true),
			"Editor":            tcell.StyleDefault.Background(dcPanel).Foreground(dcForeground),
			"EditorTitle":       tcell.StyleDefault.Background(dcPanel).Foreground(dcBlue).Bold(true),
			"Menu":              tcell.StyleDefault.Background(dcPanel).Foreground(dcForeground),
			"MenuSelected":      tcell.StyleDefault.Background(dcBlue).Foreground(dcPanel),
			"Error":             baseStyle.Foreground(dcRed).Bold(true),

			// --- Blocks ---
			"block":            baseStyle,
			"block.heading":    baseStyle.Bold(true).Foreground(dcBlue),
			"block.subheading": baseStyle.Bold(true).Foreground(dcCyan),
			"block.code":       baseStyle.Background(dcPanel),
			"block.latex":      baseStyle.Foreground(dcMagenta).Italic(true),
			"block.image":      baseStyle.Foreground(dcComment),
			"block.canvas":     baseStyle.Foreground(dcComment),
			"block.table":      baseStyle,

			// --- Inline tools ---
			"inline.bold":             baseStyle.Bold(true),
			"inline.italic":           baseStyle.Italic(true),
			"inline.underline":        baseStyle.Underline(true),
			"inline.highlight_green":  tcell.StyleDefault.Background(dcGreen).Foreground(dcPanel),
			"inline.highlight_red":    tcell.StyleDefault.Background(dcRed).Foreground(dcPanel),
			"inline.highlight_yellow": tcell.StyleDefault.Background(dcYellow).Foreground(dcPanel),
			"inline.highlight_gray":   tcell.StyleDefault.Background(dcComment).Foreground(dcForeground),
			"inline.subscript":        baseStyle.Dim(true),
			"inline.superscript":      baseStyle.Dim(true),
			"inline.link":             baseStyle.Foreground(dcBlue).Underline(true),
			"inline.spelling":         baseStyle.Foreground(dcRed).Underline(true),

			// --- Code blocks ---
			"code":          baseStyle,
			"code.keyword":  baseStyle.Foreground(dcBlue).Bold(true),
			"code.string":   baseStyle.Foreground(dcGreen),
			"code.comment":  baseStyle.Foreground(dcComment).Italic(true),
			"code.number":   baseStyle.Foreground(dcOrange),
			"code.constant": baseStyle.Foreground(dcOrange),
			"code.type":     baseStyle.Foreground(dcCyan),
			"code.function": baseStyle.Foreground(dcYellow),
			"code.operator": baseStyle.Foreground(dcForeground),
		},
	}
}
