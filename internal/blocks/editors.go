package blocks

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/highlighter"
	"github.com/bethropolis/notebook/internal/numbering"
)

// Built-in editor names.
const (
	EditorProperties   = "properties"
	EditorSetNumbering = "set-numbering"
	EditorLatex        = "latex"
	EditorImage        = "image"
	EditorTable        = "table"
	EditorLanguage     = "language"
)

const MenuEditProperties = "Edit Properties"

// ResetNumbering is the set-numbering input that hands an item back to
// automatic numbering.
const ResetNumbering = "reset"

var ErrEditorInput = errors.New("invalid editor input")

// DefaultMenuItems are offered on every block after its type's own items.
func DefaultMenuItems() []blocktype.MenuItem {
	return []blocktype.MenuItem{{
		Name: MenuEditProperties,
		Action: func(_ context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			props := make(map[string]any)
			for k, v := range args.Current.Props() {
				props[k] = v
			}
			return cb.OpenEditor(EditorProperties, map[string]any{"props": props})
		},
	}}
}

// Editors returns the built-in editors. hl, when set, restricts the
// language editor to grammars it knows.
func Editors(hl *highlighter.Highlighter) []blocktype.Editor {
	return []blocktype.Editor{
		{Name: EditorProperties, Label: "Edit Props", Apply: applyProperties},
		{Name: EditorSetNumbering, Label: "Set Numbering", Apply: applySetNumbering},
		{Name: EditorLatex, Label: "Latex", Apply: applyLatex},
		{Name: EditorImage, Label: "Image", Apply: applyImage},
		{Name: EditorTable, Label: "Table", Apply: applyTable},
		{Name: EditorLanguage, Label: "Language", Apply: languageEditor(hl)},
	}
}

// NewEditorRegistry registers Editors plus any extra ones.
func NewEditorRegistry(hl *highlighter.Highlighter, extra ...blocktype.Editor) (*blocktype.EditorRegistry, error) {
	return blocktype.NewEditorRegistry(append(Editors(hl), extra...)...)
}

// applyProperties replaces the props with "key=value" lines. Blank lines
// are skipped; the value is everything after the first '='.
func applyProperties(current block.Object, _ map[string]any, input string) (block.Object, error) {
	props := block.Props{}
	for n, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return block.Object{}, fmt.Errorf("%w: line %d: expected key=value", ErrEditorInput, n+1)
		}
		props[strings.TrimSpace(key)] = value
	}
	current.Props = props
	if _, err := block.New(current); err != nil {
		return block.Object{}, err
	}
	return current, nil
}

// applySetNumbering fixes the numbering of an ordered list item, or with
// "reset" returns it to automatic numbering.
func applySetNumbering(current block.Object, data map[string]any, input string) (block.Object, error) {
	depth := intFrom(data, "depth", numbering.DefaultMaxIndent)
	input = strings.TrimSpace(input)
	current.Data = editable(current.Data)

	if input == "" || strings.EqualFold(input, ResetNumbering) {
		current.Data[numbering.FieldManual] = false
		return current, nil
	}
	v, err := numbering.Parse(input, depth)
	if err != nil {
		return block.Object{}, fmt.Errorf("%w: %w", ErrEditorInput, err)
	}
	current.Data[numbering.FieldNumbering] = block.EncodeInts(v)
	current.Data[numbering.FieldManual] = true
	current.Data[numbering.FieldIndentation] = float64(numbering.Levels(input))
	return current, nil
}

// applyLatex takes the formula, optionally followed by a "---" line and
// one "name: description" variable per line.
func applyLatex(current block.Object, _ map[string]any, input string) (block.Object, error) {
	formula, vars, hasVars := strings.Cut(input, "\n---\n")
	if !hasVars {
		formula, hasVars = strings.CutSuffix(input, "\n---")
	}
	current.Data = editable(current.Data)
	current.Data["latex"] = strings.TrimRight(formula, "\n")
	if !hasVars {
		return current, nil
	}

	variables := []any{}
	for n, line := range strings.Split(vars, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, desc, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return block.Object{}, fmt.Errorf("%w: variable line %d: expected name: description", ErrEditorInput, n+1)
		}
		variables = append(variables, map[string]any{
			"name":        strings.TrimSpace(name),
			"description": strings.TrimSpace(desc),
		})
	}
	current.Data["variables"] = variables
	return current, nil
}

// applyImage sets the image source. URLs are stored as given; anything
// else is read as a local file and embedded as a data URL.
func applyImage(current block.Object, _ map[string]any, input string) (block.Object, error) {
	src := strings.TrimSpace(input)
	if src == "" {
		return block.Object{}, fmt.Errorf("%w: image path or URL required", ErrEditorInput)
	}
	if !isURL(src) {
		url, err := dataURL(src)
		if err != nil {
			return block.Object{}, err
		}
		src = url
	}
	current.Data = editable(current.Data)
	current.Data["img"] = src
	return current, nil
}

func isURL(s string) bool {
	for _, p := range []string{"data:", "http://", "https://"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func dataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if typ == "" {
		typ = http.DetectContentType(raw)
	}
	if !strings.HasPrefix(typ, "image/") {
		return "", fmt.Errorf("%w: %s is %s, not an image", ErrEditorInput, filepath.Base(path), typ)
	}
	if i := strings.Index(typ, ";"); i >= 0 {
		typ = typ[:i]
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// applyTable rebuilds the grid from "a | b" lines. Short rows are padded,
// and cells that already existed keep their attributes.
func applyTable(current block.Object, _ map[string]any, input string) (block.Object, error) {
	var grid [][]string
	cols := 0
	for _, line := range strings.Split(strings.TrimRight(input, "\n"), "\n") {
		cells := strings.Split(line, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		grid = append(grid, cells)
		cols = max(cols, len(cells))
	}
	if len(grid) == 0 || (len(grid) == 1 && cols == 1 && grid[0][0] == "") {
		return block.Object{}, fmt.Errorf("%w: table needs at least one cell", ErrEditorInput)
	}

	old, _ := current.Data["rows"].([]any)
	rows := make([]any, len(grid))
	for r, line := range grid {
		var oldRow []any
		if r < len(old) {
			oldRow, _ = old[r].([]any)
		}
		row := make([]any, cols)
		for c := range row {
			content := ""
			if c < len(line) {
				content = line[c]
			}
			cell := NewCell(content)
			if c < len(oldRow) {
				if prev, ok := oldRow[c].(map[string]any); ok {
					for k, v := range prev {
						cell[k] = v
					}
					cell["content"] = content
				}
			}
			row[c] = cell
		}
		rows[r] = row
	}
	current.Data = editable(current.Data)
	current.Data["rows"] = rows
	return current, nil
}

func languageEditor(hl *highlighter.Highlighter) blocktype.EditorFunc {
	return func(current block.Object, _ map[string]any, input string) (block.Object, error) {
		language := strings.ToLower(strings.TrimSpace(input))
		if language == "" {
			return block.Object{}, fmt.Errorf("%w: language required", ErrEditorInput)
		}
		if hl != nil && !hl.Supports(language) {
			return block.Object{}, fmt.Errorf("%w: %w: %q", ErrEditorInput, highlighter.ErrUnknownLanguage, language)
		}
		current.Data = editable(current.Data)
		current.Data["language"] = language
		return current, nil
	}
}

// TableText renders rows back into the editor's "a | b" input form.
func TableText(data block.Data) string {
	rows, _ := data["rows"].([]any)
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		row, _ := r.([]any)
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cell, _ := c.(map[string]any)
			s, _ := cell["content"].(string)
			cells = append(cells, s)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n")
}

func intFrom(data map[string]any, key string, def int) int {
	switch n := data[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return def
}

func editable(d block.Data) block.Data {
	if d = d.Clone(); d == nil {
		return block.Data{}
	}
	return d
}

// InitialInput is the text an editor overlay starts with: the block's
// current value in the form the editor's Apply accepts.
func InitialInput(name string, current block.Block, data map[string]any) string {
	d := current.Data()
	switch name {
	case EditorProperties:
		props := current.Props()
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s=%v", k, props[k]))
		}
		return strings.Join(lines, "\n")
	case EditorSetNumbering:
		if !numbering.IsManual(current) {
			return ""
		}
		return numbering.Of(current, intFrom(data, "depth", numbering.DefaultMaxIndent)).String()
	case EditorLatex:
		input := d.String("latex")
		vars, _ := d["variables"].([]any)
		if len(vars) == 0 {
			return input
		}
		lines := []string{input, "---"}
		for _, v := range vars {
			m, _ := v.(map[string]any)
			lines = append(lines, fmt.Sprintf("%v: %v", m["name"], m["description"]))
		}
		return strings.Join(lines, "\n")
	case EditorImage:
		if src := d.String("img"); !strings.HasPrefix(src, "data:") {
			return src
		}
		return ""
	case EditorTable:
		return TableText(d)
	case EditorLanguage:
		if lang, ok := data["language"].(string); ok {
			return lang
		}
		return d.String("language")
	}
	return ""
}
