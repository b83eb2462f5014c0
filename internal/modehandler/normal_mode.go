package modehandler

import (
	"errors"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/clipboard"
	"github.com/bethropolis/notebook/internal/core/cursor"
	"github.com/bethropolis/notebook/internal/core/text"
	"github.com/bethropolis/notebook/internal/host"
	"github.com/bethropolis/notebook/internal/input"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/textutil"
)

// handleActionNormal handles actions when in ModeNormal.
func (mh *ModeHandler) handleActionNormal(ae input.ActionEvent) bool {
	actionProcessed := true

	switch ae.Action {
	// --- Mode Switching ---
	case input.ActionEnterCommandMode:
		mh.selection.Clear()
		mh.currentMode = ModeCommand
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.statusBar.SetTemporaryMessage(":")
		logger.DebugTagf("modehandler", "Entering Command Mode")
	case input.ActionOpenMenu:
		actionProcessed = mh.openMenu()

	// --- Quit/Save ---
	case input.ActionQuit:
		switch {
		case mh.selection.HasSelection():
			mh.selection.Clear()
		case mh.session.IsModified() && !mh.forceQuitPending:
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
			mh.forceQuitPending = true
			actionProcessed = false
		default:
			mh.Quit()
			actionProcessed = false
		}
	case input.ActionForceQuit:
		mh.Quit()
		actionProcessed = false
	case input.ActionSave:
		if err := mh.session.Save(); err != nil {
			mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
		}
	case input.ActionUndo:
		if err := mh.session.Undo(); err != nil {
			mh.statusBar.SetTemporaryMessage("%v", err)
		}
	case input.ActionRedo:
		if err := mh.session.Redo(); err != nil {
			mh.statusBar.SetTemporaryMessage("%v", err)
		}

	// --- Caret ---
	case input.ActionMoveUp, input.ActionMoveDown, input.ActionMoveLeft, input.ActionMoveRight,
		input.ActionMoveHome, input.ActionMoveEnd:
		actionProcessed = mh.moveCaret(ae.Action, ae.Shift)
	case input.ActionMoveFirstBlock, input.ActionMoveLastBlock:
		mh.selection.Clear()
		seq := mh.view.Sequence()
		if len(seq) == 0 {
			return false
		}
		if ae.Action == input.ActionMoveFirstBlock {
			mh.view.SetFocus(seq[0].ID(), 0)
		} else {
			mh.view.SetFocusEnd(seq[len(seq)-1].ID())
		}

	// --- Blocks ---
	case input.ActionNewBlock:
		actionProcessed = mh.newBlock()
	case input.ActionDeleteBlock:
		cur, _, ok := mh.view.Focused()
		actionProcessed = ok && mh.dispatch(blocktype.DeleteBlock{ID: cur.ID()})
	case input.ActionMoveBlockUp, input.ActionMoveBlockDown:
		cur, _, ok := mh.view.Focused()
		dir := blocktype.Down
		if ae.Action == input.ActionMoveBlockUp {
			dir = blocktype.Up
		}
		actionProcessed = ok && mh.dispatch(blocktype.MoveBlock{ID: cur.ID(), Dir: dir})
	case input.ActionCopyBlock:
		actionProcessed = mh.copy()
	case input.ActionPasteBlock:
		actionProcessed = mh.pasteBlock()

	// --- Text ---
	case input.ActionInsertRune:
		actionProcessed = mh.insertText(string(ae.Rune))
	case input.ActionInsertNewLine:
		actionProcessed = mh.insertText("\n")
	case input.ActionDeleteCharBackward:
		actionProcessed = mh.backspace()
	case input.ActionDeleteCharForward:
		actionProcessed = mh.deleteForward()
	case input.ActionPasteText:
		s, err := mh.clipboard.PasteText()
		if err != nil {
			mh.statusBar.SetTemporaryMessage("Clipboard empty")
			return false
		}
		actionProcessed = mh.insertText(s)

	case input.ActionShortcut:
		actionProcessed = mh.shortcut(ae.Keys)

	default:
		actionProcessed = false
	}

	if ae.Action != input.ActionQuit && ae.Action != input.ActionUnknown && actionProcessed {
		mh.forceQuitPending = false
	}
	return actionProcessed
}

// moveCaret moves within the focused block, crossing to the neighbour at
// its edges. With shift the selection follows the caret inside the block.
func (mh *ModeHandler) moveCaret(action input.Action, shift bool) bool {
	cur, idx, ok := mh.view.Focused()
	if !ok {
		return false
	}
	_, caret := mh.view.Focus()
	txt := cur.Text()
	n := textutil.RuneLen(txt)
	seq := mh.view.Sequence()

	next, inside := caret, true
	switch action {
	case input.ActionMoveLeft:
		if caret > 0 {
			next = caret - 1
		} else if idx > 0 {
			inside = false
			mh.view.SetFocusEnd(seq[idx-1].ID())
		}
	case input.ActionMoveRight:
		if caret < n {
			next = caret + 1
		} else if idx < len(seq)-1 {
			inside = false
			mh.view.SetFocus(seq[idx+1].ID(), 0)
		}
	case input.ActionMoveUp, input.ActionMoveDown:
		delta, dir := 1, blocktype.Down
		if action == input.ActionMoveUp {
			delta, dir = -1, blocktype.Up
		}
		if off, ok := cursor.Vertical(txt, caret, delta); ok {
			next = off
		} else {
			inside = false
			mh.dispatch(blocktype.MoveFocus{ID: cur.ID(), Dir: dir})
		}
	case input.ActionMoveHome:
		next = cursor.LineStart(txt, caret)
	case input.ActionMoveEnd:
		next = cursor.LineEnd(txt, caret)
	}

	if !inside {
		mh.selection.Clear()
		return true
	}
	if shift {
		mh.selection.StartOrUpdate(cur.ID(), caret, next)
	} else {
		mh.selection.Clear()
	}
	mh.view.SetFocus(cur.ID(), next)
	return true
}

// applyEdit commits an edit of cur's text and puts the caret where the
// edit left it.
func (mh *ModeHandler) applyEdit(cur block.Block, e text.Edit) bool {
	if !mh.dispatch(blocktype.BaseTextUpdate{ID: cur.ID(), Text: e.Text, InlineStyles: e.Styles}) {
		return true
	}
	mh.view.SetFocus(cur.ID(), e.Caret)
	return true
}

// cutSelection removes the selected text of cur, if any.
func (mh *ModeHandler) cutSelection(cur block.Block) (text.Edit, bool) {
	id, start, end, ok := mh.selection.Get()
	mh.selection.Clear()
	if !ok || id != cur.ID() {
		return text.Edit{}, false
	}
	return text.Delete(cur.Text(), cur.Data().InlineStyles(), start, end), true
}

func (mh *ModeHandler) insertText(s string) bool {
	cur, _, ok := mh.view.Focused()
	if !ok || s == "" {
		return false
	}
	_, caret := mh.view.Focus()
	txt, styles := cur.Text(), cur.Data().InlineStyles()
	if e, ok := mh.cutSelection(cur); ok {
		txt, styles, caret = e.Text, e.Styles, e.Caret
	}
	e, err := text.Insert(txt, styles, mh.host.Tools(), caret, s)
	if errors.Is(err, text.ErrImmutable) {
		mh.statusBar.SetTemporaryMessage("Linked text can only be changed by removing the link")
		return true
	}
	return mh.applyEdit(cur, e)
}

// backspace deletes before the caret. At the start of a block it removes
// an empty block or joins the block onto the previous one.
func (mh *ModeHandler) backspace() bool {
	cur, idx, ok := mh.view.Focused()
	if !ok {
		return false
	}
	if e, ok := mh.cutSelection(cur); ok {
		return mh.applyEdit(cur, e)
	}
	_, caret := mh.view.Focus()
	if e, ok := text.Backspace(cur.Text(), cur.Data().InlineStyles(), caret); ok {
		return mh.applyEdit(cur, e)
	}

	seq := mh.view.Sequence()
	if idx == 0 {
		return false
	}
	prev := seq[idx-1]
	if cur.Text() == "" {
		if mh.dispatch(blocktype.DeleteBlock{ID: cur.ID()}) {
			mh.view.SetFocusEnd(prev.ID())
		}
		return true
	}
	return mh.join(prev, cur)
}

// join appends next's text and styles to prev and removes next.
func (mh *ModeHandler) join(prev, next block.Block) bool {
	shift := textutil.RuneLen(prev.Text())
	styles := prev.Data().InlineStyles()
	for _, st := range next.Data().InlineStyles() {
		st.Offset += shift
		styles = append(styles, st)
	}
	if !mh.dispatch(blocktype.BaseTextUpdate{ID: prev.ID(), Text: prev.Text() + next.Text(), InlineStyles: styles}) {
		return true
	}
	if mh.dispatch(blocktype.DeleteBlock{ID: next.ID()}) {
		mh.view.SetFocus(prev.ID(), shift)
	}
	return true
}

func (mh *ModeHandler) deleteForward() bool {
	cur, _, ok := mh.view.Focused()
	if !ok {
		return false
	}
	if e, ok := mh.cutSelection(cur); ok {
		return mh.applyEdit(cur, e)
	}
	_, caret := mh.view.Focus()
	e, ok := text.DeleteForward(cur.Text(), cur.Data().InlineStyles(), caret)
	if !ok {
		return false
	}
	return mh.applyEdit(cur, e)
}

// newBlock creates the block following the focused one, carrying over the
// text after the caret. In code blocks Enter is a newline.
func (mh *ModeHandler) newBlock() bool {
	cur, _, ok := mh.view.Focused()
	if !ok {
		ctx, cancel := mh.context()
		defer cancel()
		if err := mh.host.CreateFirstBlock(ctx); err != nil {
			mh.reportError(err)
		}
		return true
	}
	if cur.Type() == blocks.Code {
		return mh.insertText("\n")
	}
	mh.selection.Clear()

	def, err := mh.host.Registry().Lookup(cur.Type())
	if err != nil {
		mh.reportError(err)
		return true
	}
	_, caret := mh.view.Focus()
	txt, styles := cur.Text(), cur.Data().InlineStyles()
	n := textutil.RuneLen(txt)

	var tail text.Edit
	if caret < n {
		head := text.Delete(txt, styles, caret, n)
		tail = text.Delete(txt, styles, 0, caret)
		if !mh.dispatch(blocktype.BaseTextUpdate{ID: cur.ID(), Text: head.Text, InlineStyles: head.Styles}) {
			return true
		}
	}
	if !mh.dispatch(blocktype.CreateNewBlock{AnchorID: cur.ID(), Position: blocktype.After, BlockType: def.Following()}) {
		return true
	}
	if tail.Text == "" {
		return true
	}
	id, _ := mh.view.Focus()
	if mh.dispatch(blocktype.BaseTextUpdate{ID: id, Text: tail.Text, InlineStyles: tail.Styles}) {
		mh.view.SetFocus(id, 0)
	}
	return true
}

// copy puts the selected text, or else the focused block, on the
// clipboard.
func (mh *ModeHandler) copy() bool {
	cur, _, ok := mh.view.Focused()
	if !ok {
		return false
	}
	if id, start, end, ok := mh.selection.Get(); ok && id == cur.ID() {
		mh.clipboard.CopyText(string([]rune(cur.Text())[start:end]))
		mh.statusBar.SetTemporaryMessage("Selection copied")
		return true
	}
	mh.clipboard.CopyBlock(cur, blocks.PlainText(cur.Type(), cur.Data()))
	mh.statusBar.SetTemporaryMessage("%s block copied", cur.Type())
	return true
}

// pasteBlock inserts a copy of the clipboard block after the focused one.
// The copy gets fresh ids.
func (mh *ModeHandler) pasteBlock() bool {
	obj, err := mh.clipboard.PasteBlock()
	if errors.Is(err, clipboard.ErrEmpty) {
		mh.statusBar.SetTemporaryMessage("No block on the clipboard")
		return true
	} else if err != nil {
		mh.reportError(err)
		return true
	}
	anchor := ""
	if cur, _, ok := mh.view.Focused(); ok {
		anchor = cur.ID()
	}
	if !mh.dispatch(blocktype.CreateNewBlock{AnchorID: anchor, Position: blocktype.After, BlockType: obj.Type}) {
		return true
	}
	id, _ := mh.view.Focus()
	created, ok := mh.view.Sequence().Find(id)
	if !ok {
		return true
	}
	pasted := created.Object()
	pasted.Data = obj.Data
	pasted.Props = obj.Props
	mh.dispatch(blocktype.ModifyRawBlock{Block: pasted})
	return true
}

// shortcut applies an inline tool to the selection, or else the block
// type or menu binding for keys.
func (mh *ModeHandler) shortcut(keys string) bool {
	cur, _, ok := mh.view.Focused()
	if !ok {
		return false
	}
	want := host.NormalizeKeys(keys)
	for _, tool := range mh.host.Tools() {
		if tool.Shortcut == "" || host.NormalizeKeys(tool.Shortcut) != want {
			continue
		}
		id, start, end, ok := mh.selection.Get()
		if !ok || id != cur.ID() {
			mh.statusBar.SetTemporaryMessage("Select text to apply %s", tool.Label)
			return true
		}
		styles := text.Toggle(cur.Text(), cur.Data().InlineStyles(), tool, tool.Styles[0], start, end)
		mh.dispatch(blocktype.BaseTextUpdate{ID: cur.ID(), Text: cur.Text(), InlineStyles: styles})
		return true
	}

	act, ok := mh.host.MatchShortcut(cur, keys)
	if !ok {
		if want == host.NormalizeKeys("Tab") {
			return mh.insertText("\t")
		}
		logger.DebugTagf("modehandler", "no binding for %s", keys)
		return false
	}
	mh.selection.Clear()
	mh.dispatch(act)
	return true
}
