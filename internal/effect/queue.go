package effect

import (
	"sync"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/logger"
)

// Context is what an effect sees when it is flushed: the committed
// sequence and live refs, not the state at the time it was queued.
type Context struct {
	Sequence block.Sequence
	Refs     Lookup
	Registry *blocktype.Registry
}

// ref looks up id, tolerating a nil lookup.
func (c Context) ref(id string) (FocusController, bool) {
	if c.Refs == nil {
		return nil, false
	}
	return c.Refs.Get(id)
}

// Effect is a deferred callback.
type Effect func(ctx Context)

// Queue collects effects during a mutation and runs them once after commit.
type Queue struct {
	mu      sync.Mutex
	pending []Effect
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends e to the queue.
func (q *Queue) Add(e Effect) {
	if e == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()
}

// Len returns the number of pending effects.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Append moves every pending effect of other onto the end of q.
func (q *Queue) Append(other *Queue) {
	if other == nil || other == q {
		return
	}
	other.mu.Lock()
	moved := other.pending
	other.pending = nil
	other.mu.Unlock()

	q.mu.Lock()
	q.pending = append(q.pending, moved...)
	q.mu.Unlock()
}

// Discard drops all pending effects.
func (q *Queue) Discard() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

// Flush runs every pending effect once, in the order added, then clears
// the queue. Effects added while flushing wait for the next Flush.
// A panicking effect is logged and does not stop the rest.
func (q *Queue) Flush(ctx Context) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for i, e := range batch {
		run(i, e, ctx)
	}
	return len(batch)
}

func run(i int, e Effect, ctx Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("effect: callback %d panicked: %v", i, r)
		}
	}()
	e(ctx)
}

// --- Focus effects ---
// A missing ref means the block went away before the flush; the effect
// then does nothing.

// FocusStart places the caret at the start of id.
func FocusStart(id string) Effect {
	return func(ctx Context) {
		if ref, ok := ctx.ref(id); ok {
			ref.FocusAtStart()
		}
	}
}

// FocusEnd places the caret at the end of id.
func FocusEnd(id string) Effect {
	return func(ctx Context) {
		if ref, ok := ctx.ref(id); ok {
			ref.FocusAtEnd()
		}
	}
}

// FocusAt places the caret at offset inside id.
func FocusAt(id string, offset int) Effect {
	return func(ctx Context) {
		if ref, ok := ctx.ref(id); ok {
			ref.FocusAt(offset)
		}
	}
}

// FocusNeighbour moves to the block above (caret at end) or below (caret
// at start) of id, resolved against the committed sequence.
func FocusNeighbour(id string, dir blocktype.Direction) Effect {
	return func(ctx Context) {
		i := ctx.Sequence.IndexOf(id)
		if i < 0 {
			return
		}
		if dir == blocktype.Up {
			if prev, ok := ctx.Sequence.At(i - 1); ok {
				FocusEnd(prev.ID())(ctx)
			}
			return
		}
		if next, ok := ctx.Sequence.At(i + 1); ok {
			FocusStart(next.ID())(ctx)
		}
	}
}
