// Package spellcheck marks misspelled words in text blocks.
package spellcheck

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sajari/fuzzy"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/plugin"
	"github.com/bethropolis/notebook/internal/textutil"
)

var _ plugin.Plugin = (*SpellCheck)(nil)

//go:embed words.txt
var builtinWords []byte

const (
	// MenuName is the menu item that checks the current block.
	MenuName = "Check Spelling"
	// Style marks a misspelled range. Its data carries "suggestion" when
	// one was found.
	Style = "SPELLING"
)

// Misspelling is one unknown word.
type Misspelling struct {
	textutil.Span
	Suggestion string
}

// SpellCheck holds the dictionary and the suggestion model.
type SpellCheck struct {
	api plugin.EditorAPI

	mu    sync.RWMutex
	known map[string]struct{}
	model *fuzzy.Model
}

// New creates the plugin with the built-in word list loaded.
func New() *SpellCheck {
	p := &SpellCheck{known: make(map[string]struct{})}
	p.model = fuzzy.NewModel()
	p.model.SetThreshold(1)
	p.model.SetDepth(2)
	p.Train(readWords(bytes.NewReader(builtinWords)))
	return p
}

func (p *SpellCheck) Name() string { return "spellcheck" }

// Initialize loads extra words from config ("dictionary" file, "words"
// list) and registers the menu item and the marking tool.
func (p *SpellCheck) Initialize(api plugin.EditorAPI) error {
	p.api = api

	if v, ok := api.GetPluginConfigValue(p.Name(), "dictionary"); ok {
		path, _ := v.(string)
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open dictionary: %w", err)
		}
		words := readWords(f)
		f.Close()
		p.Train(words)
		logger.Debugf("%s: loaded %d words from %s", p.Name(), len(words), path)
	}
	if v, ok := api.GetPluginConfigValue(p.Name(), "words"); ok {
		list, _ := v.([]any)
		words := make([]string, 0, len(list))
		for _, w := range list {
			if s, ok := w.(string); ok {
				words = append(words, s)
			}
		}
		p.Train(words)
	}

	if err := api.RegisterTool(blocktype.Tool{Name: "spelling", Label: "Misspelling", Styles: []string{Style}}); err != nil {
		return err
	}
	return api.RegisterMenuItem(blocktype.MenuItem{
		Name:     MenuName,
		Shortcut: "Cmd+Shift+K",
		Action:   p.check,
	})
}

func (p *SpellCheck) Shutdown() error { return nil }

func readWords(r io.Reader) []string {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" && !strings.HasPrefix(w, "#") {
			words = append(words, w)
		}
	}
	return words
}

// Train adds words to the dictionary.
func (p *SpellCheck) Train(words []string) {
	lower := make([]string, 0, len(words))
	for _, w := range words {
		lower = append(lower, strings.ToLower(w))
	}
	p.mu.Lock()
	for _, w := range lower {
		p.known[w] = struct{}{}
	}
	p.mu.Unlock()
	p.model.Train(lower)
}

// Known reports whether word is in the dictionary. A possessive or
// contraction is known when the part before the apostrophe is.
func (p *SpellCheck) Known(word string) bool {
	w := strings.ToLower(word)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.known[w]; ok {
		return true
	}
	if i := strings.IndexByte(w, '\''); i > 0 {
		_, ok := p.known[w[:i]]
		return ok
	}
	return false
}

// Check lists the unknown words of text with their best suggestion.
func (p *SpellCheck) Check(text string) []Misspelling {
	var out []Misspelling
	for _, span := range textutil.WordSpans(text) {
		if p.Known(span.Text) {
			continue
		}
		out = append(out, Misspelling{Span: span, Suggestion: p.model.SpellCheck(strings.ToLower(span.Text))})
	}
	return out
}

// Mark replaces the SPELLING styles of a text block's data.
func (p *SpellCheck) Mark(data block.Data) (block.Data, []Misspelling) {
	text := data.String("text")
	found := p.Check(text)

	var styles []block.InlineStyle
	for _, s := range data.InlineStyles() {
		if s.Style != Style {
			styles = append(styles, s)
		}
	}
	for _, m := range found {
		s := block.InlineStyle{Offset: m.Offset, Length: m.Length, Style: Style}
		if m.Suggestion != "" {
			s.Data = map[string]any{"suggestion": m.Suggestion}
		}
		styles = append(styles, s)
	}
	return data.With("inlineStyles", block.EncodeInlineStyles(styles)), found
}

func (p *SpellCheck) check(_ context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
	data := args.Current.Data()
	if !data.Has("text") {
		p.status("Nothing to check in a %s block", args.Current.Type())
		return nil
	}

	marked, found := p.Mark(data)
	if !block.Equal(marked, data) {
		obj := args.Current.Object()
		obj.Data = marked
		if err := cb.ModifyBlock(obj); err != nil {
			return err
		}
	}

	if len(found) == 0 {
		p.status("No spelling mistakes")
		return nil
	}
	parts := make([]string, 0, len(found))
	for _, m := range found {
		if m.Suggestion != "" {
			parts = append(parts, fmt.Sprintf("%s → %s", m.Text, m.Suggestion))
		} else {
			parts = append(parts, m.Text)
		}
	}
	p.status("%d misspelled: %s", len(found), strings.Join(parts, ", "))
	return nil
}

func (p *SpellCheck) status(format string, args ...any) {
	if p.api != nil {
		p.api.SetStatusMessage(format, args...)
	}
}
