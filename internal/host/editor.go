package host

import (
	"context"
	"fmt"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/logger"
)

// EditorState describes the open editor overlay.
type EditorState struct {
	Name    string
	Label   string
	BlockID string
	Data    map[string]any
}

// OpenEditor shows the named editor for current. Menu actions reach it
// through an effect, so it only runs for committed dispatches. An editor
// already open is replaced.
func (h *Host) OpenEditor(name string, data map[string]any, current block.Block) error {
	ed, err := h.reducer.Env().Editors.Lookup(name)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}

	h.mu.Lock()
	prev := h.editor
	h.editor = &EditorState{Name: ed.Name, Label: ed.Label, BlockID: current.ID(), Data: data}
	h.mu.Unlock()

	if prev != nil {
		h.events.Dispatch(event.TypeEditorClosed, event.EditorClosedData{Name: prev.Name, BlockID: prev.BlockID})
	}
	logger.DebugTagf("host", "editor %s opened on %s", name, current.ID())
	h.events.Dispatch(event.TypeEditorOpened, event.EditorOpenedData{Name: name, BlockID: current.ID()})
	return nil
}

// Editor returns the open editor, if any.
func (h *Host) Editor() (EditorState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.editor == nil {
		return EditorState{}, false
	}
	return *h.editor, true
}

// SubmitEditor applies input through the open editor and commits the
// edited block as a modify-raw-block dispatch. The editor stays open when
// the input is rejected.
func (h *Host) SubmitEditor(ctx context.Context, input string) error {
	return h.submit(ctx, "submit-editor", func(ctx context.Context) error {
		state, ok := h.Editor()
		if !ok {
			return ErrNoEditor
		}
		ed, err := h.reducer.Env().Editors.Lookup(state.Name)
		if err != nil {
			return err
		}
		current, ok := h.Sequence().Find(state.BlockID)
		if !ok {
			h.clearEditor(false)
			return fmt.Errorf("editor %s: %w", state.Name, ErrNoEditor)
		}
		obj, err := ed.Apply(current.Object(), state.Data, input)
		if err != nil {
			return fmt.Errorf("editor %s: %w", state.Name, err)
		}
		obj.ID = current.ID()
		if err := h.apply(ctx, blocktype.ModifyRawBlock{Block: obj}); err != nil {
			return err
		}
		h.clearEditor(true)
		return nil
	})
}

// CloseEditor dismisses the open editor without applying anything.
func (h *Host) CloseEditor() {
	h.clearEditor(false)
}

func (h *Host) clearEditor(applied bool) {
	h.mu.Lock()
	prev := h.editor
	h.editor = nil
	h.mu.Unlock()
	if prev != nil {
		h.events.Dispatch(event.TypeEditorClosed, event.EditorClosedData{
			Name:    prev.Name,
			BlockID: prev.BlockID,
			Applied: applied,
		})
	}
}

// closeStaleEditor drops an editor whose block is gone.
func (h *Host) closeStaleEditor(seq block.Sequence) {
	state, ok := h.Editor()
	if ok && seq.IndexOf(state.BlockID) < 0 {
		logger.DebugTagf("host", "closing editor %s: block %s removed", state.Name, state.BlockID)
		h.clearEditor(false)
	}
}
