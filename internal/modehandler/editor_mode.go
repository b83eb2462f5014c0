package modehandler

import (
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/core/cursor"
	"github.com/bethropolis/notebook/internal/input"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/tui"
)

// editorState is the overlay input of an open block editor.
type editorState struct {
	name  string
	title string
	input []rune
	caret int
	err   string
}

// syncEditor follows the host: an editor opened by a menu action switches
// to editor mode, one closed underneath us (its block went away) leaves it.
func (mh *ModeHandler) syncEditor() bool {
	state, open := mh.host.Editor()
	switch {
	case open && mh.currentMode != ModeEditor:
		initial := ""
		if cur, ok := mh.view.Sequence().Find(state.BlockID); ok {
			initial = blocks.InitialInput(state.Name, cur, state.Data)
		}
		title := state.Label
		if title == "" {
			title = state.Name
		}
		mh.editor = editorState{name: state.Name, title: title, input: []rune(initial)}
		mh.editor.caret = len(mh.editor.input)
		mh.currentMode = ModeEditor
		logger.DebugTagf("modehandler", "editor %s opened", state.Name)
		return true
	case !open && mh.currentMode == ModeEditor:
		mh.currentMode = ModeNormal
		return true
	}
	return false
}

func (mh *ModeHandler) handleActionEditor(ae input.ActionEvent) bool {
	ed := &mh.editor
	text := string(ed.input)

	switch ae.Action {
	case input.ActionInsertRune:
		ed.insert(string(ae.Rune))
	case input.ActionInsertNewLine:
		ed.insert("\n")
	case input.ActionPasteText:
		s, err := mh.clipboard.PasteText()
		if err != nil {
			return false
		}
		ed.insert(s)
	case input.ActionDeleteCharBackward:
		if ed.caret == 0 {
			return false
		}
		ed.input = append(ed.input[:ed.caret-1], ed.input[ed.caret:]...)
		ed.caret--
	case input.ActionDeleteCharForward:
		if ed.caret >= len(ed.input) {
			return false
		}
		ed.input = append(ed.input[:ed.caret], ed.input[ed.caret+1:]...)
	case input.ActionMoveLeft:
		if ed.caret > 0 {
			ed.caret--
		}
	case input.ActionMoveRight:
		if ed.caret < len(ed.input) {
			ed.caret++
		}
	case input.ActionMoveUp, input.ActionMoveDown:
		delta := 1
		if ae.Action == input.ActionMoveUp {
			delta = -1
		}
		if off, ok := cursor.Vertical(text, ed.caret, delta); ok {
			ed.caret = off
		}
	case input.ActionMoveHome:
		ed.caret = cursor.LineStart(text, ed.caret)
	case input.ActionMoveEnd:
		ed.caret = cursor.LineEnd(text, ed.caret)

	case input.ActionNewBlock, input.ActionConfirm:
		ctx, cancel := mh.context()
		defer cancel()
		if err := mh.host.SubmitEditor(ctx, text); err != nil {
			ed.err = err.Error()
			return true
		}
		mh.currentMode = ModeNormal
		mh.statusBar.SetTemporaryMessage("%s applied", ed.title)
	case input.ActionQuit, input.ActionCancel:
		mh.host.CloseEditor()
		mh.currentMode = ModeNormal
	default:
		return false
	}
	return true
}

func (ed *editorState) insert(s string) {
	r := []rune(s)
	out := make([]rune, 0, len(ed.input)+len(r))
	out = append(out, ed.input[:ed.caret]...)
	out = append(out, r...)
	ed.input = append(out, ed.input[ed.caret:]...)
	ed.caret += len(r)
	ed.err = ""
}

// EditorView is the open editor overlay for drawing.
func (mh *ModeHandler) EditorView() (tui.EditorBox, bool) {
	if mh.currentMode != ModeEditor {
		return tui.EditorBox{}, false
	}
	ed := mh.editor
	return tui.EditorBox{Title: ed.title, Input: string(ed.input), Caret: ed.caret, Error: ed.err}, true
}
