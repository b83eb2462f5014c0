package tui

import (
	"sync"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/effect"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/textutil"
)

// View is the terminal rendition of a notebook. The host calls Render on
// every commit; the view registers one FocusController per block so focus
// effects can place the caret.
type View struct {
	mu       sync.Mutex
	seq      block.Sequence
	focusID  string
	caret    int // rune offset in the focused block's text
	top      int // first visible row
	onChange func()
}

// NewView creates an empty view. onChange, if set, is called whenever the
// rendered sequence or the focus changes, typically to request a redraw.
func NewView(onChange func()) *View {
	return &View{onChange: onChange}
}

// Render stores seq and refreshes the refs. It runs on the host's worker.
func (v *View) Render(seq block.Sequence, refs *effect.RefMap) {
	v.mu.Lock()
	v.seq = seq
	for _, b := range seq {
		refs.Set(b.ID(), &blockRef{view: v, id: b.ID()})
	}
	if v.focusID != "" {
		if b, ok := seq.Find(v.focusID); ok {
			v.caret = clampCaret(b.Text(), v.caret)
		} else {
			logger.DebugTagf("tui", "focused block %s removed", v.focusID)
			v.focusID, v.caret = "", 0
		}
	}
	v.mu.Unlock()
	v.changed()
}

// Sequence is the last rendered sequence.
func (v *View) Sequence() block.Sequence {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seq
}

// Focus returns the focused block id and caret offset.
func (v *View) Focus() (string, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focusID, v.caret
}

// Focused returns the focused block and its index.
func (v *View) Focused() (block.Block, int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.seq.IndexOf(v.focusID)
	if i < 0 {
		return block.Block{}, -1, false
	}
	return v.seq[i], i, true
}

// SetFocus moves the caret to offset in block id, clamped to its text.
// Unknown ids are ignored.
func (v *View) SetFocus(id string, offset int) {
	v.mu.Lock()
	b, ok := v.seq.Find(id)
	if ok {
		v.focusID = id
		v.caret = clampCaret(b.Text(), offset)
	}
	v.mu.Unlock()
	if ok {
		v.changed()
	}
}

// SetFocusEnd moves the caret to the end of block id.
func (v *View) SetFocusEnd(id string) {
	v.SetFocus(id, int(^uint(0)>>1))
}

func (v *View) changed() {
	if v.onChange != nil {
		v.onChange()
	}
}

func clampCaret(text string, offset int) int {
	if offset < 0 {
		return 0
	}
	if n := textutil.RuneLen(text); offset > n {
		return n
	}
	return offset
}

// blockRef is the FocusController of one rendered block.
type blockRef struct {
	view *View
	id   string
}

func (r *blockRef) FocusAtStart()      { r.view.SetFocus(r.id, 0) }
func (r *blockRef) FocusAtEnd()        { r.view.SetFocusEnd(r.id) }
func (r *blockRef) FocusAt(offset int) { r.view.SetFocus(r.id, offset) }

// CurrentPosition is the caret offset when this block has focus, else 0.
func (r *blockRef) CurrentPosition() int {
	id, caret := r.view.Focus()
	if id != r.id {
		return 0
	}
	return caret
}
