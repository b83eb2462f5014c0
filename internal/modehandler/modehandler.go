// internal/modehandler/modehandler.go
package modehandler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/clipboard"
	"github.com/bethropolis/notebook/internal/core/selection"
	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/host"
	"github.com/bethropolis/notebook/internal/input"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/statusbar"
	"github.com/bethropolis/notebook/internal/tui"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeMenu
	ModeEditor
	ModeCommand
)

func (m InputMode) String() string {
	switch m {
	case ModeMenu:
		return "MENU"
	case ModeEditor:
		return "EDITOR"
	case ModeCommand:
		return "COMMAND"
	}
	return "NORMAL"
}

// DefaultDispatchTimeout bounds one dispatch, hooks included.
const DefaultDispatchTimeout = 5 * time.Second

// CommandFunc runs a ":name args..." command.
type CommandFunc func(args []string) error

// Session is what the handler needs from the application around it.
type Session interface {
	Save() error
	Undo() error
	Redo() error
	IsModified() bool
}

// ModeHandler manages input modes, command execution, and related state.
type ModeHandler struct {
	// Dependencies (references to components managed by App)
	host           *host.Host
	view           *tui.View
	session        Session
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	selection      *selection.Manager
	clipboard      *clipboard.Manager
	quitSignal     chan<- struct{}
	quitOnce       sync.Once
	timeout        time.Duration

	// Internal State
	currentMode      InputMode
	cmdBuffer        []rune
	commands         map[string]CommandFunc
	forceQuitPending bool
	menu             menuState
	editor           editorState
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Host            *host.Host
	View            *tui.View
	Session         Session
	InputProcessor  *input.InputProcessor
	EventManager    *event.Manager
	StatusBar       *statusbar.StatusBar
	Selection       *selection.Manager
	Clipboard       *clipboard.Manager
	QuitSignal      chan<- struct{} // Write-only channel to signal quit
	DispatchTimeout time.Duration
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Host == nil || cfg.View == nil || cfg.Session == nil || cfg.StatusBar == nil || cfg.QuitSignal == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	if cfg.InputProcessor == nil {
		cfg.InputProcessor = input.NewInputProcessor()
	}
	if cfg.EventManager == nil {
		cfg.EventManager = cfg.Host.Events()
	}
	if cfg.Selection == nil {
		cfg.Selection = selection.NewManager()
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.NewManager(false)
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = DefaultDispatchTimeout
	}
	return &ModeHandler{
		host:           cfg.Host,
		view:           cfg.View,
		session:        cfg.Session,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		selection:      cfg.Selection,
		clipboard:      cfg.Clipboard,
		quitSignal:     cfg.QuitSignal,
		timeout:        cfg.DispatchTimeout,
		currentMode:    ModeNormal,
		commands:       make(map[string]CommandFunc),
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	actionEvent := mh.inputProcessor.ProcessEvent(ev)

	var actionProcessed bool
	switch mh.currentMode {
	case ModeNormal:
		actionProcessed = mh.handleActionNormal(actionEvent)
	case ModeMenu:
		actionProcessed = mh.handleActionMenu(actionEvent)
	case ModeEditor:
		actionProcessed = mh.handleActionEditor(actionEvent)
	case ModeCommand:
		actionProcessed = mh.handleActionCommand(actionEvent)
	default:
		logger.Warnf("ModeHandler: unknown input mode %v", mh.currentMode)
	}

	// A menu action may have opened an editor.
	if mh.syncEditor() {
		actionProcessed = true
	}
	return actionProcessed || (actionEvent.Action == input.ActionQuit && mh.forceQuitPending)
}

func (mh *ModeHandler) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mh.timeout)
}

// dispatch sends act to the host and reports a failure on the status bar.
func (mh *ModeHandler) dispatch(act blocktype.Action) bool {
	ctx, cancel := mh.context()
	defer cancel()
	if err := mh.host.Dispatch(ctx, act); err != nil {
		mh.reportError(err)
		return false
	}
	return true
}

func (mh *ModeHandler) reportError(err error) {
	logger.DebugTagf("modehandler", "%v", err)
	if errors.Is(err, host.ErrReadOnly) {
		mh.statusBar.SetTemporaryMessage("Notebook is read-only")
		return
	}
	mh.statusBar.SetTemporaryMessage("Error: %v", err)
}

// Quit closes the quit signal. Later calls do nothing.
func (mh *ModeHandler) Quit() {
	mh.quitOnce.Do(func() { close(mh.quitSignal) })
}

// RegisterCommand adds a command to the registry.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.DebugTagf("modehandler", "Registered command ':%s'", name)
	return nil
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCurrentModeString names the mode for the status bar.
func (mh *ModeHandler) GetCurrentModeString() string {
	return mh.currentMode.String()
}

// GetCommandBuffer returns the command being typed in command mode.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return string(mh.cmdBuffer)
	}
	return ""
}

// Selection exposes the text selection for drawing.
func (mh *ModeHandler) Selection() *selection.Manager {
	return mh.selection
}
