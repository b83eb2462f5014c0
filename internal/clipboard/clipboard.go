// Package clipboard copies blocks and text between the notebook and the
// system clipboard. When the system clipboard is unavailable (no display,
// no xclip/xsel) it falls back to an in-process register.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/logger"
)

// ErrEmpty is returned by Paste when nothing was copied.
var ErrEmpty = errors.New("clipboard is empty")

// System is the system clipboard backend.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type atottoSystem struct{}

func (atottoSystem) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (atottoSystem) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Manager handles clipboard operations.
type Manager struct {
	mu     sync.Mutex
	system System // nil when the system clipboard is disabled

	text   string
	object *block.Object // last copied block, if the last copy was a block
}

// NewManager creates a manager. useSystem selects the system clipboard;
// it is ignored on platforms atotto reports as unsupported.
func NewManager(useSystem bool) *Manager {
	m := &Manager{}
	if useSystem && !clipboard.Unsupported {
		m.system = atottoSystem{}
	}
	return m
}

// NewManagerWithSystem creates a manager over a custom backend.
func NewManagerWithSystem(sys System) *Manager {
	return &Manager{system: sys}
}

// CopyText places text on the clipboard.
func (m *Manager) CopyText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.object = nil
	m.writeSystem(text)
}

// CopyBlock places a block on the clipboard. text is what other
// applications see; pasting inside the notebook restores the whole block.
func (m *Manager) CopyBlock(b block.Block, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := b.Object()
	m.text = text
	m.object = &obj
	m.writeSystem(text)
	logger.DebugTagf("clipboard", "copied block %s (%s)", b.ID(), b.Type())
}

// PasteText returns the clipboard text, preferring the system clipboard.
func (m *Manager) PasteText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if text, ok := m.readSystem(); ok {
		return text, nil
	}
	if m.text == "" {
		return "", ErrEmpty
	}
	return m.text, nil
}

// PasteBlock returns the last copied block. It fails when the system
// clipboard has since been overwritten by another application, since the
// user then expects that text instead.
func (m *Manager) PasteBlock() (block.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.object == nil {
		return block.Object{}, ErrEmpty
	}
	if text, ok := m.readSystem(); ok && text != m.text {
		return block.Object{}, ErrEmpty
	}
	obj := *m.object
	obj.Data = obj.Data.Clone()
	obj.Props = obj.Props.Clone()
	return obj, nil
}

func (m *Manager) writeSystem(text string) {
	if m.system == nil {
		return
	}
	if err := m.system.WriteAll(text); err != nil {
		logger.Warnf("clipboard: system write failed, keeping copy in-process: %v", err)
	}
}

func (m *Manager) readSystem() (string, bool) {
	if m.system == nil {
		return "", false
	}
	text, err := m.system.ReadAll()
	if err != nil {
		logger.DebugTagf("clipboard", "system read failed: %v", err)
		return "", false
	}
	return text, text != ""
}
