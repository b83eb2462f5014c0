// Package script runs Lua menu items. Each script file gets its own
// sandboxed interpreter and registers items through the notebook table:
//
//	notebook.menu_item{
//	  name = "Upper Case",
//	  shortcut = "Cmd+Shift+Y",
//	  action = function(block, doc)
//	    block.data.text = string.upper(block.data.text)
//	    return block
//	  end,
//	}
//
// An action returning a table replaces the block with it; returning nil
// leaves the block alone.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/bethropolis/notebook/internal/blocktype"
)

var (
	ErrStateClosed     = errors.New("lua state is closed")
	ErrInvalidMenuItem = errors.New("invalid menu item")
	ErrInvalidResult   = errors.New("invalid script result")
)

// DefaultTimeout bounds a single script call.
const DefaultTimeout = 2 * time.Second

// State is one sandboxed Lua interpreter. gopher-lua states are not
// goroutine-safe, so every use goes through mu.
type State struct {
	L       *lua.LState
	mu      sync.Mutex
	timeout time.Duration
	closed  bool

	// cb is set while a menu action runs, for notebook.focus and
	// notebook.open_editor.
	cb *blocktype.MenuCallbacks
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the per-call limit. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) { s.timeout = d }
}

// NewState creates an interpreter with only the base, table, string and
// math libraries and without the loaders that reach the file system.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	s.L = L
	return s
}

// DoString runs a chunk.
func (s *State) DoString(ctx context.Context, name, code string) error {
	return s.with(ctx, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// with runs fn holding the lock, bounded by ctx and the state timeout.
// Panics out of the interpreter become errors.
func (s *State) with(ctx context.Context, fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	top := s.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		s.L.SetTop(top)
	}()
	if err := fn(s.L); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ctxErr, err)
		}
		return err
	}
	return nil
}

// Close releases the interpreter.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.L.Close()
	}
}
