package blocks

import "github.com/bethropolis/notebook/internal/blocktype"

// Inline style names applied by the default tools.
const (
	StyleBold            = "BOLD"
	StyleItalic          = "ITALIC"
	StyleUnderline       = "UNDERLINE"
	StyleHighlightGreen  = "HIGHLIGHT_GREEN"
	StyleHighlightRed    = "HIGHLIGHT_RED"
	StyleHighlightYellow = "HIGHLIGHT_YELLOW"
	StyleHighlightGray   = "HIGHLIGHT_GRAY"
	StyleSubscript       = "SUBSCRIPT"
	StyleSuperscript     = "SUPERSCRIPT"
	StyleLink            = "LINK"
)

// DefaultTools returns the inline tools offered on every text block.
func DefaultTools() []blocktype.Tool {
	return []blocktype.Tool{
		{Name: "bold", Label: "Bold", Shortcut: "Cmd+B", Styles: []string{StyleBold}, Persistent: true},
		{Name: "italic", Label: "Italic", Shortcut: "Cmd+Shift+I", Styles: []string{StyleItalic}, Persistent: true},
		{Name: "underline", Label: "Underline", Shortcut: "Cmd+Shift+U", Styles: []string{StyleUnderline}, Persistent: true},
		{
			Name:  "highlight",
			Label: "Highlight",
			Styles: []string{
				StyleHighlightGreen,
				StyleHighlightRed,
				StyleHighlightYellow,
				StyleHighlightGray,
			},
			Persistent: true,
			Exclusive:  true,
		},
		{Name: "subscript", Label: "Subscript", Styles: []string{StyleSubscript}},
		{Name: "superscript", Label: "Superscript", Styles: []string{StyleSuperscript}},
		{
			Name:      "link",
			Label:     "Link",
			Styles:    []string{StyleLink},
			Immutable: true,
			Data: func(selected string) map[string]any {
				return map[string]any{"url": selected, "target": "_self"}
			},
		},
	}
}
