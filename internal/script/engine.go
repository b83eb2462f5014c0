package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/logger"
)

// Engine owns the interpreters of every loaded script and the menu items
// they registered.
type Engine struct {
	opts   []StateOption
	status func(string)

	mu     sync.Mutex
	states []*State
	items  []blocktype.MenuItem
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStateOptions applies opts to every interpreter.
func WithStateOptions(opts ...StateOption) EngineOption {
	return func(e *Engine) { e.opts = append(e.opts, opts...) }
}

// WithStatus receives notebook.status messages.
func WithStatus(fn func(string)) EngineOption {
	return func(e *Engine) { e.status = fn }
}

// NewEngine creates an engine without scripts.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadDir runs every *.lua file in dir in name order. A missing directory
// loads nothing. A failing script is skipped; the others still load and
// the returned error joins the failures.
func (e *Engine) LoadDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.DebugTagf("script", "no scripts directory at %s", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read scripts: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".lua") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		path := filepath.Join(dir, name)
		code, err := os.ReadFile(path)
		if err == nil {
			err = e.LoadString(ctx, name, string(code))
		}
		if err != nil {
			logger.Errorf("script %s: %v", path, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		logger.DebugTagf("script", "loaded %s", path)
	}
	return errors.Join(errs...)
}

// LoadString runs code in a fresh interpreter. Menu items it registers are
// kept only when the whole chunk succeeds.
func (e *Engine) LoadString(ctx context.Context, name, code string) error {
	s := NewState(e.opts...)
	var pending []blocktype.MenuItem
	e.installAPI(s, &pending)

	if err := s.DoString(ctx, name, code); err != nil {
		s.Close()
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range pending {
		for _, existing := range e.items {
			if existing.Name == item.Name {
				s.Close()
				return fmt.Errorf("%w: %q already registered", ErrInvalidMenuItem, item.Name)
			}
		}
	}
	e.states = append(e.states, s)
	e.items = append(e.items, pending...)
	return nil
}

// MenuItems returns the registered items in load order.
func (e *Engine) MenuItems() []blocktype.MenuItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]blocktype.MenuItem(nil), e.items...)
}

// Close releases every interpreter. Menu actions fail afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	states := e.states
	e.states = nil
	e.mu.Unlock()
	for _, s := range states {
		s.Close()
	}
}

// installAPI sets the notebook global. It runs before any script code, so
// no lock is needed.
func (e *Engine) installAPI(s *State, pending *[]blocktype.MenuItem) {
	L := s.L
	api := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"menu_item": func(L *lua.LState) int {
			item, err := e.menuItem(s, L.CheckTable(1))
			if err != nil {
				L.RaiseError("%v", err)
				return 0
			}
			for _, p := range *pending {
				if p.Name == item.Name {
					L.RaiseError("%v: %q registered twice", ErrInvalidMenuItem, item.Name)
					return 0
				}
			}
			*pending = append(*pending, item)
			return 0
		},
		"log": func(L *lua.LState) int {
			logger.InfoTagf("script", "%s", L.CheckString(1))
			return 0
		},
		"status": func(L *lua.LState) int {
			if e.status != nil {
				e.status(L.CheckString(1))
			}
			return 0
		},
		"new_id": func(L *lua.LState) int {
			L.Push(lua.LString(block.NewID()))
			return 1
		},
		"focus": func(L *lua.LState) int {
			if s.cb == nil || s.cb.FocusOnCurrentBlock == nil {
				L.RaiseError("notebook.focus called outside a menu action")
				return 0
			}
			s.cb.FocusOnCurrentBlock()
			return 0
		},
		"open_editor": func(L *lua.LState) int {
			name := L.CheckString(1)
			var data map[string]any
			if t, ok := L.Get(2).(*lua.LTable); ok {
				data, _ = toGo(t, map[string]any{}).(map[string]any)
			}
			if s.cb == nil || s.cb.OpenEditor == nil {
				L.RaiseError("notebook.open_editor called outside a menu action")
				return 0
			}
			if err := s.cb.OpenEditor(name, data); err != nil {
				L.RaiseError("%v", err)
			}
			return 0
		},
	})
	L.SetGlobal("notebook", api)
}

func (e *Engine) menuItem(s *State, t *lua.LTable) (blocktype.MenuItem, error) {
	name, ok := t.RawGetString("name").(lua.LString)
	if !ok || name == "" {
		return blocktype.MenuItem{}, fmt.Errorf("%w: name must be a non-empty string", ErrInvalidMenuItem)
	}
	fn, ok := t.RawGetString("action").(*lua.LFunction)
	if !ok {
		return blocktype.MenuItem{}, fmt.Errorf("%w: %q has no action function", ErrInvalidMenuItem, name)
	}
	item := blocktype.MenuItem{Name: string(name), Action: menuFunc(s, fn)}
	if sc, ok := t.RawGetString("shortcut").(lua.LString); ok {
		item.Shortcut = string(sc)
	}
	return item, nil
}

// menuFunc adapts a Lua action to a menu action. The block is passed as a
// table along with the whole document; a returned table replaces the block.
func menuFunc(s *State, fn *lua.LFunction) blocktype.MenuFunc {
	return func(ctx context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
		current := args.Current.Object()
		var raw map[string]any

		err := s.with(ctx, func(L *lua.LState) error {
			s.cb = &cb
			defer func() { s.cb = nil }()

			doc := L.CreateTable(len(args.Sequence), 0)
			for i, b := range args.Sequence {
				doc.RawSetInt(i+1, objectToLua(L, b.Object()))
			}
			if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, objectToLua(L, current), doc); err != nil {
				return err
			}
			switch ret := L.Get(-1).(type) {
			case *lua.LNilType:
				return nil
			case *lua.LTable:
				var err error
				raw, err = luaToObject(ret, current)
				return err
			default:
				return fmt.Errorf("%w: expected a block table or nil, got %s", ErrInvalidResult, ret.Type())
			}
		})
		if err != nil || raw == nil {
			return err
		}

		b, err := block.FromRaw(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidResult, err)
		}
		if block.Equal(b.Object(), current) {
			return nil
		}
		return cb.ModifyBlock(b.Object())
	}
}
