// Package effect implements the deferred callbacks run after a new block
// sequence has been committed to the UI, and the id-to-ref map they use
// to reach live block views.
package effect

import (
	"sync"

	"github.com/bethropolis/notebook/internal/block"
)

// FocusController is the imperative handle a UI exposes per rendered block.
type FocusController interface {
	FocusAtStart()
	FocusAtEnd()
	FocusAt(offset int)
	CurrentPosition() int
}

// Lookup resolves a block id to its live controller.
type Lookup interface {
	Get(id string) (FocusController, bool)
}

// RefMap is the concurrent-safe id -> FocusController map shared by the
// host (writes) and flushed effects (reads).
type RefMap struct {
	mu   sync.RWMutex
	refs map[string]FocusController
}

// NewRefMap creates an empty map.
func NewRefMap() *RefMap {
	return &RefMap{refs: make(map[string]FocusController)}
}

// Set registers ctrl for id, replacing any previous controller.
func (m *RefMap) Set(id string, ctrl FocusController) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[id] = ctrl
}

// Get returns the controller for id.
func (m *RefMap) Get(id string) (FocusController, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ctrl, ok := m.refs[id]
	return ctrl, ok
}

// Delete drops id.
func (m *RefMap) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refs, id)
}

// Len returns the number of registered refs.
func (m *RefMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.refs)
}

// Prune removes every ref whose id is not in seq and returns how many
// were removed.
func (m *RefMap) Prune(seq block.Sequence) int {
	live := make(map[string]struct{}, len(seq))
	for _, b := range seq {
		live[b.ID()] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id := range m.refs {
		if _, ok := live[id]; !ok {
			delete(m.refs, id)
			removed++
		}
	}
	return removed
}
