// internal/app/app.go
package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/clipboard"
	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/core/history"
	"github.com/bethropolis/notebook/internal/document"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/highlighter"
	"github.com/bethropolis/notebook/internal/host"
	"github.com/bethropolis/notebook/internal/input"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/modehandler"
	"github.com/bethropolis/notebook/internal/plugin"
	"github.com/bethropolis/notebook/internal/statusbar"
	"github.com/bethropolis/notebook/internal/theme"
	"github.com/bethropolis/notebook/internal/tui"
)

var (
	ErrNoPath        = errors.New("no file name")
	ErrNothingToUndo = errors.New("already at oldest change")
	ErrNothingToRedo = errors.New("already at newest change")
	ErrNoFocus       = errors.New("no block focused")
)

// Options configure a new App.
type Options struct {
	Path   string         // notebook file; empty starts an unnamed notebook
	Config *config.Config // nil uses config.Get()
	Screen tcell.Screen   // nil opens the terminal
}

// App wires the notebook host to the terminal, the plugins and the file
// on disk.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	host          *host.Host
	view          *tui.View
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	themeManager  *theme.Manager
	modeHandler   *modehandler.ModeHandler
	history       *history.Manager
	clipboard     *clipboard.Manager
	editorAPI     *appEditorAPI

	mu       sync.Mutex
	path     string
	modified bool
	last     []block.Object // value last committed or loaded
	watcher  *document.Watcher

	quit          chan struct{}
	redrawPending atomic.Bool
	closeOnce     sync.Once
}

// New loads the notebook at opts.Path and builds every component. Plugins
// initialise before the host so their block types, tools and menu items
// are part of it.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Get()
	}

	initial := []block.Object{}
	if opts.Path != "" {
		objs, err := document.Load(opts.Path)
		if err != nil {
			return nil, err
		}
		initial = objs
	}

	var hl *highlighter.Highlighter
	if cfg.Editor.Highlight {
		hl = highlighter.NewHighlighter()
	}
	registry, err := blocks.NewRegistry(hl)
	if err != nil {
		return nil, fmt.Errorf("block types: %w", err)
	}
	editors, err := blocks.NewEditorRegistry(hl)
	if err != nil {
		return nil, fmt.Errorf("editors: %w", err)
	}

	themeManager := theme.NewManager(cfg.Editor.ThemesDir)
	if cfg.Editor.Theme != "" {
		if err := themeManager.SetTheme(cfg.Editor.Theme); err != nil {
			logger.Warnf("App: %v, using %s", err, themeManager.Current().Name)
		}
	}

	a := &App{
		cfg:           cfg,
		statusBar:     statusbar.New(statusbar.DefaultConfig()),
		eventManager:  event.NewManager(),
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		history:       history.NewManager(cfg.Editor.HistorySize),
		clipboard:     clipboard.NewManager(cfg.Editor.SystemClipboard),
		path:          opts.Path,
		last:          initial,
		quit:          make(chan struct{}),
	}
	a.view = tui.NewView(a.requestRedraw)
	a.editorAPI = newEditorAPI(a, plugin.NewContributions(registry, editors))

	if err := registerPlugins(a.pluginManager, cfg); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(a.editorAPI); err != nil {
		a.statusBar.SetTemporaryMessage("Some plugins failed to load: %v", err)
	}
	menuItems, tools := a.editorAPI.Seal()

	if t := cfg.Editor.DefaultBlockType; t != "" && !registry.Has(t) {
		a.pluginManager.ShutdownPlugins()
		return nil, fmt.Errorf("default block type %q is not registered", t)
	}

	a.host, err = host.New(host.Options{
		Registry:    registry,
		Tools:       append(blocks.DefaultTools(), tools...),
		MenuItems:   append(blocks.DefaultMenuItems(), menuItems...),
		Editors:     editors,
		Initial:     initial,
		Renderer:    a.view,
		OnChange:    a.onChange,
		Events:      a.eventManager,
		ReadOnly:    cfg.Editor.ReadOnly,
		QueueSize:   cfg.Editor.DispatchQueue,
		DefaultType: cfg.Editor.DefaultBlockType,
	})
	if err != nil {
		a.pluginManager.ShutdownPlugins()
		return nil, err
	}
	a.ensureFocus()

	a.modeHandler = modehandler.New(modehandler.Config{
		Host:           a.host,
		View:           a.view,
		Session:        a,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   a.eventManager,
		StatusBar:      a.statusBar,
		Clipboard:      a.clipboard,
		QuitSignal:     a.quit,
	})
	registerAppCommands(a)
	a.subscribeEvents()

	if cfg.Editor.Watch && opts.Path != "" {
		if err := a.watch(opts.Path); err != nil {
			logger.Warnf("App: not watching %s: %v", opts.Path, err)
		}
	}

	a.tuiManager, err = tui.New(opts.Screen, themeManager.Current())
	if err != nil {
		a.shutdown()
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	a.eventManager.Dispatch(event.TypeDocumentLoaded, event.DocumentData{FilePath: opts.Path, Blocks: len(initial)})
	return a, nil
}

// Run handles terminal events until the notebook quits. Keys and drawing
// share this goroutine; other goroutines ask for a redraw through an
// interrupt event.
func (a *App) Run() error {
	defer a.Close()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Notebook - Ctrl+S Save | F2 Menu | Ctrl+G Command | Esc Quit")
	a.draw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.IsModified() {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting notebook.")
			return nil
		default:
		}

		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handleEvent(ev) {
			a.draw()
		}
	}
}

// handleEvent reports whether ev needs a redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		return true
	case *tcell.EventKey:
		return a.modeHandler.HandleKeyEvent(ev)
	case *tcell.EventInterrupt:
		a.redrawPending.Store(false)
		return true
	}
	return false
}

// requestRedraw wakes the event loop. Requests made while one is pending
// are folded into it.
func (a *App) requestRedraw() {
	if a.tuiManager == nil || !a.redrawPending.CompareAndSwap(false, true) {
		return
	}
	if err := a.tuiManager.PostInterrupt(nil); err != nil {
		a.redrawPending.Store(false)
	}
}

// Close releases the plugins, the watcher, the host and the terminal.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.shutdown()
		if a.tuiManager != nil {
			a.tuiManager.Close()
		}
	})
}

func (a *App) shutdown() {
	a.pluginManager.ShutdownPlugins()
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.mu.Unlock()
	if w != nil {
		if err := w.Close(); err != nil {
			logger.Warnf("App: closing watcher: %v", err)
		}
	}
	a.host.Close()
}

// Host exposes the notebook host.
func (a *App) Host() *host.Host { return a.host }

// ModeHandler exposes the input handler, mainly for tests.
func (a *App) ModeHandler() *modehandler.ModeHandler { return a.modeHandler }
