// Package effecttest provides a recording FocusController for tests.
package effecttest

import (
	"fmt"
	"sync"
)

// Controller records every focus call made on it.
type Controller struct {
	mu       sync.Mutex
	Position int // returned by CurrentPosition
	calls    []string
}

// New returns a controller reporting pos as its caret offset.
func New(pos int) *Controller {
	return &Controller{Position: pos}
}

func (c *Controller) FocusAtStart() { c.record("start") }
func (c *Controller) FocusAtEnd()   { c.record("end") }

func (c *Controller) FocusAt(offset int) { c.record(fmt.Sprintf("at:%d", offset)) }

func (c *Controller) CurrentPosition() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Position
}

// Calls returns the recorded calls in order, e.g. "start", "end", "at:3".
func (c *Controller) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Last returns the most recent call, or "".
func (c *Controller) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return ""
	}
	return c.calls[len(c.calls)-1]
}

func (c *Controller) record(call string) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()
}
