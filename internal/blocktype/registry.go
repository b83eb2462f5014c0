package blocktype

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// Registry is the ordered set of block types. Hooks run in registration
// order, so the order is part of the contract.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	byType map[string]Definition
}

// NewRegistry creates a registry and registers defs in order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{byType: make(map[string]Definition)}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a definition. The type tag must be non-empty and unique
// and an Init function is required.
func (r *Registry) Register(def Definition) error {
	if def.Type == "" {
		return fmt.Errorf("%w: type cannot be empty", ErrInvalidDefinition)
	}
	if def.Init == nil {
		return fmt.Errorf("%w: %q has no init function", ErrInvalidDefinition, def.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byType[def.Type]; exists {
		return fmt.Errorf("%w: %q already registered", ErrInvalidDefinition, def.Type)
	}
	r.byType[def.Type] = def
	r.order = append(r.order, def.Type)
	return nil
}

// Lookup resolves a type tag. Unknown tags are a hard error; the message
// names the closest registered types.
func (r *Registry) Lookup(typ string) (Definition, error) {
	r.mu.RLock()
	def, ok := r.byType[typ]
	r.mu.RUnlock()
	if ok {
		return def, nil
	}
	if near := r.Suggest(typ, 2); len(near) > 0 {
		return Definition{}, fmt.Errorf("%w: %q (did you mean %s?)", ErrUnknownBlockType, typ, strings.Join(near, " or "))
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, typ)
}

// Has reports whether typ is registered.
func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byType[typ]
	return ok
}

// All returns definitions in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, len(r.order))
	for i, t := range r.order {
		out[i] = r.byType[t]
	}
	return out
}

// Types returns type tags in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// First returns the earliest registered definition.
func (r *Registry) First() (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return Definition{}, false
	}
	return r.byType[r.order[0]], true
}

// Suggest ranks registered types by edit distance to query and returns
// at most limit of them. Types further than half the query length away
// are not suggested.
func (r *Registry) Suggest(query string, limit int) []string {
	r.mu.RLock()
	types := append([]string(nil), r.order...)
	r.mu.RUnlock()

	type candidate struct {
		typ  string
		dist int
	}
	maxDist := len(query)/2 + 1
	var cands []candidate
	for _, t := range types {
		d := levenshtein.ComputeDistance(strings.ToLower(query), strings.ToLower(t))
		if d <= maxDist {
			cands = append(cands, candidate{t, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.typ
	}
	return out
}
