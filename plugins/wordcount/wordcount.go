// plugins/wordcount/wordcount.go
package wordcount

import (
	"context"
	"fmt"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/plugin"
	"github.com/bethropolis/notebook/internal/textutil"
)

// Ensure WordCount implements plugin.Plugin
var _ plugin.Plugin = (*WordCount)(nil)

// MenuName is the menu item the plugin adds to every block.
const MenuName = "Word Count"

// WordCount reports word and character counts for a block and the whole
// notebook.
type WordCount struct {
	api plugin.EditorAPI
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the menu item.
func (p *WordCount) Initialize(api plugin.EditorAPI) error {
	p.api = api
	err := api.RegisterMenuItem(blocktype.MenuItem{
		Name:     MenuName,
		Shortcut: "Cmd+Shift+W",
		Action:   p.count,
	})
	if err != nil {
		return fmt.Errorf("failed to register '%s' menu item: %w", MenuName, err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *WordCount) Shutdown() error {
	return nil
}

// Stats are the counts of one piece of text.
type Stats struct {
	Words      int
	Characters int
}

// Count measures text. Characters are grapheme clusters.
func Count(text string) Stats {
	return Stats{Words: textutil.Words(text), Characters: textutil.Graphemes(text)}
}

// CountSequence sums Count over every block.
func CountSequence(seq block.Sequence) Stats {
	var total Stats
	for _, b := range seq {
		s := Count(blocks.PlainText(b.Type(), b.Data()))
		total.Words += s.Words
		total.Characters += s.Characters
	}
	return total
}

// count runs as a menu action; it changes nothing.
func (p *WordCount) count(_ context.Context, args blocktype.MenuArgs, _ blocktype.MenuCallbacks) error {
	if p.api == nil {
		return fmt.Errorf("wordcount plugin not initialized with API")
	}
	cur := Count(blocks.PlainText(args.Current.Type(), args.Current.Data()))
	all := CountSequence(args.Sequence)
	p.api.SetStatusMessage("Block: %d words, %d chars | Notebook: %d words, %d chars (%d blocks)",
		cur.Words, cur.Characters, all.Words, all.Characters, len(args.Sequence))
	return nil
}
