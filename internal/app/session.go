package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/core/history"
	"github.com/bethropolis/notebook/internal/document"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/modehandler"
)

func (a *App) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), modehandler.DefaultDispatchTimeout)
}

// onChange runs on the host worker after every commit that changed the
// notebook.
func (a *App) onChange(objs []block.Object) {
	focus, _ := a.view.Focus()

	a.mu.Lock()
	before := a.last
	a.last = objs
	a.modified = true
	a.mu.Unlock()

	a.history.RecordChange(history.Change{Action: "commit", Before: before, After: objs, Focus: focus})
	a.requestRedraw()
}

// IsModified reports unsaved changes.
func (a *App) IsModified() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.modified
}

// DocumentPath is the notebook file, or "" for an unnamed notebook.
func (a *App) DocumentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// Save writes the committed notebook to its file.
func (a *App) Save() error {
	path := a.DocumentPath()
	if path == "" {
		return fmt.Errorf("save: %w (use :w <file>)", ErrNoPath)
	}
	return a.saveTo(path)
}

// SaveAs writes the notebook to path and makes it the notebook's file.
func (a *App) SaveAs(path string) error {
	if _, err := document.FormatFromPath(path); err != nil {
		return err
	}
	if err := a.saveTo(path); err != nil {
		return err
	}

	a.mu.Lock()
	changed := a.path != path
	a.path = path
	a.mu.Unlock()

	if changed && a.cfg.Editor.Watch {
		if err := a.watch(path); err != nil {
			logger.Warnf("App: not watching %s: %v", path, err)
		}
	}
	return nil
}

func (a *App) saveTo(path string) error {
	objs := a.host.Objects()

	a.mu.Lock()
	w := a.watcher
	a.mu.Unlock()
	if w != nil && samePath(w.Path(), path) {
		w.IgnoreNext(objs)
	}

	if err := document.Save(path, objs); err != nil {
		return err
	}

	// Commits made while writing keep the notebook modified.
	a.mu.Lock()
	a.modified = !block.EqualObjects(objs, a.last)
	a.mu.Unlock()

	a.eventManager.Dispatch(event.TypeDocumentSaved, event.DocumentData{FilePath: path, Blocks: len(objs)})
	a.SetStatusMessage("Saved %s (%d blocks)", filepath.Base(path), len(objs))
	logger.Infof("Saved %s", path)
	return nil
}

// Reload replaces the notebook with its file, dropping unsaved changes
// and the undo history.
func (a *App) Reload() error {
	path := a.DocumentPath()
	if path == "" {
		return fmt.Errorf("reload: %w", ErrNoPath)
	}
	objs, err := document.Load(path)
	if err != nil {
		return err
	}
	if err := a.adopt(objs); err != nil {
		return err
	}
	a.SetStatusMessage("Reloaded %s", filepath.Base(path))
	return nil
}

// adopt installs a value read from disk as the unmodified notebook.
func (a *App) adopt(objs []block.Object) error {
	ctx, cancel := a.context()
	defer cancel()
	if err := a.host.Sync(ctx, objs); err != nil {
		return err
	}

	a.mu.Lock()
	a.last = objs
	a.modified = false
	path := a.path
	a.mu.Unlock()

	a.history.Clear()
	a.ensureFocus()
	a.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentData{FilePath: path, Blocks: len(objs)})
	a.requestRedraw()
	return nil
}

// Undo restores the notebook as it was before the last change.
func (a *App) Undo() error {
	change, ok := a.history.Undo()
	if !ok {
		return ErrNothingToUndo
	}
	return a.restore(change.Before, change.Focus)
}

// Redo reapplies the last undone change.
func (a *App) Redo() error {
	change, ok := a.history.Redo()
	if !ok {
		return ErrNothingToRedo
	}
	return a.restore(change.After, change.Focus)
}

func (a *App) restore(objs []block.Object, focus string) error {
	ctx, cancel := a.context()
	defer cancel()
	if err := a.host.Sync(ctx, objs); err != nil {
		return err
	}

	a.mu.Lock()
	a.last = objs
	a.modified = true
	a.mu.Unlock()

	if focus != "" {
		a.view.SetFocusEnd(focus)
	}
	a.ensureFocus()
	a.requestRedraw()
	return nil
}

// ensureFocus puts the caret on the first block when nothing is focused.
func (a *App) ensureFocus() {
	if _, _, ok := a.view.Focused(); ok {
		return
	}
	if seq := a.view.Sequence(); len(seq) > 0 {
		a.view.SetFocus(seq[0].ID(), 0)
	}
}

// Quit leaves the notebook. Without force, unsaved changes keep it open.
func (a *App) Quit(force bool) {
	if !force && a.IsModified() {
		a.SetStatusMessage("No write since last change (use :q! to override)")
		return
	}
	a.modeHandler.Quit()
}

// ConvertFocused turns the focused block into blockType.
func (a *App) ConvertFocused(blockType string) error {
	b, _, ok := a.view.Focused()
	if !ok {
		return ErrNoFocus
	}
	ctx, cancel := a.context()
	defer cancel()
	return a.host.Dispatch(ctx, blocktype.ConvertBlockType{ID: b.ID(), NewType: blockType})
}

// Registry is the block type registry the host was built with.
func (a *App) Registry() *blocktype.Registry { return a.host.Registry() }

// watch replaces the file watcher with one on path.
func (a *App) watch(path string) error {
	w, err := document.NewWatcher(path, a.onExternalChange, document.WithErrorHandler(func(err error) {
		a.SetStatusMessage("Watching %s: %v", filepath.Base(path), err)
	}))
	if err != nil {
		return err
	}

	a.mu.Lock()
	old := a.watcher
	a.watcher = w
	a.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// onExternalChange runs on the watcher goroutine when the file changed
// on disk.
func (a *App) onExternalChange(objs []block.Object) {
	name := filepath.Base(a.DocumentPath())
	if a.IsModified() {
		a.SetStatusMessage("%s changed on disk. Use :reload to discard your changes", name)
		return
	}
	if err := a.adopt(objs); err != nil {
		a.SetStatusMessage("Reload of %s failed: %v", name, err)
		return
	}
	a.SetStatusMessage("%s changed on disk, reloaded", name)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
