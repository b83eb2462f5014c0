package selection

import (
	"github.com/bethropolis/notebook/internal/logger"
)

// Manager tracks a text selection inside one block. Offsets are rune
// indexes into the block's text.
type Manager struct {
	// --- State owned by Selection Manager ---
	blockID   string
	selecting bool
	anchor    int // where the selection started
	head      int // follows the caret
}

// NewManager creates a selection manager with nothing selected.
func NewManager() *Manager {
	return &Manager{}
}

// StartOrUpdate anchors a selection at caret in blockID, or moves its head
// there when one is already running in the same block. A selection in
// another block is replaced.
func (m *Manager) StartOrUpdate(blockID string, before, caret int) {
	if !m.selecting || m.blockID != blockID {
		m.blockID = blockID
		m.anchor = before
		m.selecting = true
		logger.DebugTagf("selection", "selection started in %s at %d", blockID, before)
	}
	m.head = caret
}

// HasSelection reports whether a non-empty range is selected.
func (m *Manager) HasSelection() bool {
	return m.selecting && m.anchor != m.head
}

// Get returns the normalized range (start <= end) and the block it is in.
func (m *Manager) Get() (blockID string, start, end int, ok bool) {
	if !m.HasSelection() {
		return "", 0, 0, false
	}
	start, end = m.anchor, m.head
	if start > end {
		start, end = end, start
	}
	return m.blockID, start, end, true
}

// Contains reports whether the rune at offset of blockID is selected.
func (m *Manager) Contains(blockID string, offset int) bool {
	id, start, end, ok := m.Get()
	return ok && id == blockID && offset >= start && offset < end
}

// Clear drops the selection.
func (m *Manager) Clear() {
	if m.selecting {
		logger.DebugTagf("selection", "selection cleared")
	}
	m.selecting = false
	m.blockID = ""
	m.anchor, m.head = 0, 0
}
