package blocktype

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bethropolis/notebook/internal/block"
)

// MenuArgs is what a menu action gets to look at.
type MenuArgs struct {
	Current  block.Block
	Sequence block.Sequence
	Tools    []Tool
}

// MenuCallbacks lets a menu action mutate blocks, request focus, or hand
// off to an editor.
type MenuCallbacks struct {
	ModifyBlock         func(updated block.Object) error
	FocusOnCurrentBlock func()
	OpenEditor          func(name string, data map[string]any) error
}

// MenuFunc is the scripted mutation behind a menu item.
type MenuFunc func(ctx context.Context, args MenuArgs, cb MenuCallbacks) error

// MenuItem is an entry in a block's context menu.
type MenuItem struct {
	Name     string
	Shortcut string
	Action   MenuFunc
}

// Tool is an inline style tool (bold, link, ...). Styles lists the style
// names the tool applies to a text range.
type Tool struct {
	Name       string
	Label      string
	Shortcut   string
	Styles     []string
	Persistent bool // style survives typing past the end of the range
	Exclusive  bool // styles of the tool replace one another on a range
	Immutable  bool // styled text is edited through the tool, not typed over

	// Data builds the extra data stored on a new style range from the
	// selected text. Nil means the style carries none.
	Data func(selected string) map[string]any
}

// ToolByStyle finds the tool owning a style name.
func ToolByStyle(tools []Tool, style string) (Tool, bool) {
	for _, t := range tools {
		for _, s := range t.Styles {
			if s == style {
				return t, true
			}
		}
	}
	return Tool{}, false
}

// EditorFunc applies an editor's input to the block it was opened on and
// returns the replacement block.
type EditorFunc func(current block.Object, data map[string]any, input string) (block.Object, error)

// Editor is a named modal that round-trips a whole block.
type Editor struct {
	Name  string
	Label string
	Apply EditorFunc
}

// EditorOpener is implemented by the host that displays editors.
type EditorOpener interface {
	OpenEditor(name string, data map[string]any, current block.Block) error
}

// EditorRegistry holds editors by name.
type EditorRegistry struct {
	mu      sync.RWMutex
	editors map[string]Editor
}

// NewEditorRegistry creates a registry preloaded with editors.
func NewEditorRegistry(editors ...Editor) (*EditorRegistry, error) {
	r := &EditorRegistry{editors: make(map[string]Editor)}
	for _, e := range editors {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an editor. Names must be unique.
func (r *EditorRegistry) Register(e Editor) error {
	if e.Name == "" || e.Apply == nil {
		return fmt.Errorf("editor registration failed: name and apply function are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.editors[e.Name]; exists {
		return fmt.Errorf("editor registration failed: editor named '%s' already registered", e.Name)
	}
	r.editors[e.Name] = e
	return nil
}

// Lookup returns the editor called name.
func (r *EditorRegistry) Lookup(name string) (Editor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.editors[name]
	if !ok {
		return Editor{}, fmt.Errorf("%w: %q", ErrUnknownEditor, name)
	}
	return e, nil
}

// Names lists registered editors alphabetically.
func (r *EditorRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.editors))
	for n := range r.editors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
