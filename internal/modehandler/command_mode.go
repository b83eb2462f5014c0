package modehandler

import (
	"sort"
	"strings"

	"github.com/bethropolis/notebook/internal/input"
	"github.com/bethropolis/notebook/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	actionProcessed := true
	needsUpdate := false

	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.cmdBuffer = append(mh.cmdBuffer, actionEvent.Rune)
		needsUpdate = true

	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) > 0 {
			mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]
			needsUpdate = true
		} else {
			mh.currentMode = ModeNormal
			mh.statusBar.ResetTemporaryMessage()
			logger.DebugTagf("modehandler", "Exiting Command Mode via Backspace")
		}

	case input.ActionNewBlock, input.ActionConfirm: // Enter: Execute command
		mh.currentMode = ModeNormal
		mh.executeCommand()

	case input.ActionQuit, input.ActionCancel: // Escape: Cancel command
		mh.currentMode = ModeNormal
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.statusBar.ResetTemporaryMessage()
		logger.DebugTagf("modehandler", "Canceled Command Mode via Escape")

	default:
		actionProcessed = false
	}

	if needsUpdate && mh.currentMode == ModeCommand {
		mh.statusBar.SetTemporaryMessage(":%s", string(mh.cmdBuffer))
	}
	return actionProcessed
}

// executeCommand parses and runs the command in cmdBuffer.
func (mh *ModeHandler) executeCommand() {
	cmdStr := strings.TrimSpace(string(mh.cmdBuffer))
	mh.cmdBuffer = mh.cmdBuffer[:0]
	if cmdStr == "" {
		mh.statusBar.ResetTemporaryMessage()
		return
	}

	parts := strings.Fields(cmdStr)
	cmdName := parts[0]
	args := parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.DebugTagf("modehandler", "Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
	// Success message usually set by the command itself.
}

// CommandNames lists the registered commands, sorted.
func (mh *ModeHandler) CommandNames() []string {
	names := make([]string, 0, len(mh.commands))
	for name := range mh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
