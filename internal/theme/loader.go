// internal/theme/loader.go
package theme

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/notebook/internal/logger"
)

// themeFile is the TOML layout of a theme. [styles] is keyed by full
// style name. [blocks] and [inline] are shorthands keyed by block type
// ("heading") and stored inline style ("BOLD").
type themeFile struct {
	Name    string              `toml:"name"`
	IsDark  bool                `toml:"is_dark"`
	Extends string              `toml:"extends"`
	Styles  map[string]styleDef `toml:"styles"`
	Blocks  map[string]styleDef `toml:"blocks"`
	Inline  map[string]styleDef `toml:"inline"`
}

// styleDef is one style. Unset fields keep the inherited value.
type styleDef struct {
	Fg            *string `toml:"fg"`
	Bg            *string `toml:"bg"`
	Bold          *bool   `toml:"bold"`
	Italic        *bool   `toml:"italic"`
	Underline     *bool   `toml:"underline"`
	Strikethrough *bool   `toml:"strikethrough"`
	Reverse       *bool   `toml:"reverse"`
	Dim           *bool   `toml:"dim"`
}

// LoadThemeFromFile parses a TOML theme. A theme that extends the
// built-in one starts from its styles; otherwise it starts empty and
// every style inherits from its own Default.
func LoadThemeFromFile(filePath string) (*Theme, error) {
	var file themeFile
	metadata, err := toml.DecodeFile(filePath, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme '%s': Unrecognized keys in file '%s': %v", file.Name, filePath, undecoded)
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", filePath, file.Name)
	}

	theme := &Theme{Name: file.Name, IsDark: file.IsDark, Styles: make(map[string]tcell.Style)}
	if file.Extends != "" {
		if !strings.EqualFold(file.Extends, NotebookDark.Name) {
			return nil, fmt.Errorf("theme '%s': cannot extend unknown theme '%s'", file.Name, file.Extends)
		}
		for name, style := range NotebookDark.Styles {
			theme.Styles[name] = style
		}
	}

	base := tcell.StyleDefault
	if inherited, ok := theme.Styles["Default"]; ok {
		base = inherited
	}
	if def, ok := file.Styles["Default"]; ok {
		style, err := def.apply(base)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse 'Default' style, keeping the inherited one: %v", theme.Name, err)
		} else {
			base = style
		}
	}
	theme.Styles["Default"] = base

	entries := file.entries()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "Default" {
			continue
		}
		parent := base
		if existing, ok := theme.Styles[name]; ok {
			parent = existing
		}
		style, err := entries[name].apply(parent)
		if err != nil {
			logger.Warnf("Theme '%s': Failed to parse style '%s', skipping: %v", theme.Name, name, err)
			continue
		}
		theme.Styles[name] = style
	}

	logger.Debugf("Loaded theme '%s' from '%s' (%d styles)", theme.Name, filePath, len(theme.Styles))
	return theme, nil
}

// entries merges the three tables under full style names. [styles] wins
// over a shorthand naming the same style.
func (f themeFile) entries() map[string]styleDef {
	out := make(map[string]styleDef, len(f.Styles)+len(f.Blocks)+len(f.Inline))
	for typ, def := range f.Blocks {
		out["block."+typ] = def
	}
	for style, def := range f.Inline {
		out[InlineStyleName(style)] = def
	}
	for name, def := range f.Styles {
		out[name] = def
	}
	return out
}

// apply sets the fields d defines on top of base.
func (d styleDef) apply(base tcell.Style) (tcell.Style, error) {
	style := base
	if d.Fg != nil {
		color, err := parseColorString(*d.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *d.Fg, err)
		}
		style = style.Foreground(color)
	}
	if d.Bg != nil {
		color, err := parseColorString(*d.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *d.Bg, err)
		}
		style = style.Background(color)
	}

	attrs := []struct {
		set *bool
		fn  func(tcell.Style, bool) tcell.Style
	}{
		{d.Bold, tcell.Style.Bold},
		{d.Italic, tcell.Style.Italic},
		{d.Underline, func(s tcell.Style, on bool) tcell.Style { return s.Underline(on) }},
		{d.Strikethrough, tcell.Style.StrikeThrough},
		{d.Reverse, tcell.Style.Reverse},
		{d.Dim, tcell.Style.Dim},
	}
	for _, a := range attrs {
		if a.set != nil {
			style = a.fn(style, *a.set)
		}
	}
	return style, nil
}

// parseColorString converts "#RRGGBB", "#RGB", a W3C color name, "reset"
// or "default" to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB or #RGB", s)
		}
		val, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	case s == "reset":
		return tcell.ColorReset, nil
	case s == "default":
		return tcell.ColorDefault, nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
