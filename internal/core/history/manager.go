package history

import (
	"sync"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/logger"
)

const DefaultMaxHistory = 100

// Manager keeps bounded undo and redo stacks of notebook changes.
type Manager struct {
	mu    sync.Mutex
	undo  []Change
	redo  []Change
	limit int
}

// NewManager returns a Manager keeping at most limit undo steps. A
// non-positive limit uses DefaultMaxHistory.
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultMaxHistory
	}
	return &Manager{limit: limit}
}

// RecordChange pushes change and forgets everything that could have been
// redone. A change whose Before and After are equal is dropped.
func (m *Manager) RecordChange(change Change) {
	if block.EqualObjects(change.Before, change.After) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.redo = m.redo[:0]
	m.undo = append(m.undo, change)
	if over := len(m.undo) - m.limit; over > 0 {
		m.undo = append(m.undo[:0], m.undo[over:]...)
	}
	logger.DebugTagf("history", "recorded %s (%d undo steps)", change.Action, len(m.undo))
}

// Undo pops the newest change. The caller restores change.Before.
func (m *Manager) Undo() (Change, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := pop(&m.undo)
	if !ok {
		logger.DebugTagf("history", "nothing to undo")
		return Change{}, false
	}
	m.redo = append(m.redo, c)
	return c, true
}

// Redo pops the newest undone change. The caller restores change.After.
func (m *Manager) Redo() (Change, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := pop(&m.redo)
	if !ok {
		logger.DebugTagf("history", "nothing to redo")
		return Change{}, false
	}
	m.undo = append(m.undo, c)
	return c, true
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Clear drops both stacks. Used when the notebook is replaced from disk.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
	logger.DebugTagf("history", "cleared")
}

func pop(stack *[]Change) (Change, bool) {
	s := *stack
	if len(s) == 0 {
		return Change{}, false
	}
	c := s[len(s)-1]
	*stack = s[:len(s)-1]
	return c, true
}
