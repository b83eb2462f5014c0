// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation

	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/theme"
)

// Config defines the behavior of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{MessageTimeout: config.MessageTimeout}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields
	now    func() time.Time

	// Content fields (updated externally)
	filePath   string
	isModified bool
	readOnly   bool
	blockLabel string
	blockIndex int // 0-based; -1 when nothing is focused
	blockCount int
	mode       string

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
}

// New creates a new StatusBar with the given configuration.
func New(cfg Config) *StatusBar {
	if cfg.MessageTimeout <= 0 {
		cfg.MessageTimeout = config.MessageTimeout
	}
	return &StatusBar{config: cfg, now: time.Now, blockIndex: -1}
}

// SetFileInfo updates the document path and modified flag.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetReadOnly marks the notebook as read-only.
func (sb *StatusBar) SetReadOnly(readOnly bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.readOnly = readOnly
}

// SetBlockInfo updates the focused block's label and position.
func (sb *StatusBar) SetBlockInfo(label string, index, count int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.blockLabel = label
	sb.blockIndex = index
	sb.blockCount = count
}

// SetEditorMode updates the displayed input mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.mode = mode
}

// SetTemporaryMessage displays a message for the configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
}

// ResetTemporaryMessage clears any temporary message being displayed.
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// Message returns the active temporary message, if any.
func (sb *StatusBar) Message() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.activeMessage()
}

// activeMessage expires a stale message. Callers hold the lock.
func (sb *StatusBar) activeMessage() (string, bool) {
	if sb.tempMessageTime.IsZero() {
		return "", false
	}
	if sb.now().Sub(sb.tempMessageTime) > sb.config.MessageTimeout {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
		return "", false
	}
	return sb.tempMessage, true
}

// Text builds the default status line.
func (sb *StatusBar) Text() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.defaultText()
}

func (sb *StatusBar) defaultText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	flags := ""
	if sb.isModified {
		flags += " [Modified]"
	}
	if sb.readOnly {
		flags += " [Read-Only]"
	}

	block := "no blocks"
	if sb.blockIndex >= 0 && sb.blockCount > 0 {
		block = fmt.Sprintf("%s %d/%d", sb.blockLabel, sb.blockIndex+1, sb.blockCount)
	}

	modeIndicator := ""
	if sb.mode != "" {
		modeIndicator = fmt.Sprintf(" -- %s", sb.mode)
	}
	return fmt.Sprintf("%s%s -- %s%s", fPath, flags, block, modeIndicator)
}

// Draw renders the status bar on the last screen line using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, th *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	sb.mu.Lock()
	msg, isTemp := sb.activeMessage()
	readOnly := sb.readOnly
	text := msg
	if !isTemp {
		text = sb.defaultText()
	}
	sb.mu.Unlock()

	var style tcell.Style
	switch {
	case isTemp:
		style = th.GetStyle("StatusBarMessage")
	case readOnly:
		style = th.GetStyle("StatusBarReadOnly")
	default:
		style = th.GetStyle("StatusBar")
	}

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
}
