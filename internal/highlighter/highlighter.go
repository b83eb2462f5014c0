// Package highlighter turns code block text into inline styles using
// tree-sitter grammars. Each capture name in a language's highlight query
// becomes a CODE_<NAME> style over the captured rune range.
package highlighter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/highlighter/lang"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/textutil"
)

// StylePrefix marks inline styles the highlighter owns. Restyling a block
// replaces every style carrying it and keeps the rest.
const StylePrefix = "CODE_"

var ErrUnknownLanguage = errors.New("unknown language")

// Highlighter parses and queries source text. A sitter.Parser is not safe
// for concurrent use, so calls are serialized.
type Highlighter struct {
	mu      sync.Mutex
	parser  *sitter.Parser
	queries map[string]*sitter.Query
}

// NewHighlighter creates a highlighter with the built-in languages
// registered.
func NewHighlighter() *Highlighter {
	RegisterLanguages()
	return &Highlighter{
		parser:  sitter.NewParser(),
		queries: make(map[string]*sitter.Query),
	}
}

// Supports reports whether language names a registered grammar.
func (h *Highlighter) Supports(language string) bool {
	return lang.Get(language) != nil
}

// Highlight parses source as language and returns one style per capture,
// ordered by offset. Offsets and lengths are in runes.
func (h *Highlighter) Highlight(ctx context.Context, language, source string) ([]block.InlineStyle, error) {
	l := lang.Get(language)
	if l == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	query, err := h.query(l)
	if err != nil {
		return nil, err
	}

	h.parser.SetLanguage(l.TreeSitterLang)
	src := []byte(source)
	tree, err := h.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", l.Name, err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	type span struct {
		start, end int
		style      string
	}
	seen := make(map[span]bool)
	var styles []block.InlineStyle
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			node := capture.Node
			start := textutil.ByteOffsetToRuneIndex(source, int(node.StartByte()))
			end := textutil.ByteOffsetToRuneIndex(source, int(node.EndByte()))
			if end <= start {
				continue // zero-width or error node
			}
			key := span{start, end, StyleName(query.CaptureNameForId(capture.Index))}
			if seen[key] {
				continue
			}
			seen[key] = true
			styles = append(styles, block.InlineStyle{Offset: start, Length: end - start, Style: key.style})
		}
	}

	sort.SliceStable(styles, func(i, j int) bool {
		if styles[i].Offset != styles[j].Offset {
			return styles[i].Offset < styles[j].Offset
		}
		return styles[i].Length > styles[j].Length
	})
	logger.DebugTagf("highlight", "%s: %d styles over %d runes", l.Name, len(styles), textutil.RuneLen(source))
	return styles, nil
}

func (h *Highlighter) query(l *lang.Language) (*sitter.Query, error) {
	if q, ok := h.queries[l.Name]; ok {
		return q, nil
	}
	src, err := l.Query()
	if err != nil {
		return nil, err
	}
	q, err := sitter.NewQuery(src, l.TreeSitterLang)
	if err != nil {
		return nil, fmt.Errorf("highlight query for %s: %w", l.Name, err)
	}
	h.queries[l.Name] = q
	return q, nil
}

// Restyle replaces the highlighter's styles in existing with fresh, keeping
// user styles such as BOLD untouched.
func Restyle(existing, fresh []block.InlineStyle) []block.InlineStyle {
	out := make([]block.InlineStyle, 0, len(existing)+len(fresh))
	for _, s := range existing {
		if !strings.HasPrefix(s.Style, StylePrefix) {
			out = append(out, s)
		}
	}
	return append(out, fresh...)
}

// StyleName maps a capture like "keyword.control" to "CODE_KEYWORD".
func StyleName(captureName string) string {
	captureName = strings.TrimPrefix(captureName, "@")
	if dot := strings.Index(captureName, "."); dot != -1 {
		captureName = captureName[:dot]
	}
	return StylePrefix + strings.ToUpper(captureName)
}
