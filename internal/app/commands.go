package app

import (
	"strings"

	"github.com/bethropolis/notebook/internal/commands"
	"github.com/bethropolis/notebook/internal/logger"
)

// registerAppCommands registers the built-in commands plus :plugins.
func registerAppCommands(a *App) {
	commands.RegisterAppCommands(a.modeHandler, a, a)

	err := a.modeHandler.RegisterCommand("plugins", func([]string) error {
		names := a.pluginManager.Names()
		if len(names) == 0 {
			a.SetStatusMessage("No plugins loaded")
			return nil
		}
		a.SetStatusMessage("Plugins: %s", strings.Join(names, ", "))
		return nil
	})
	if err != nil {
		logger.Warnf("Failed to register ':plugins' command: %v", err)
	}
}
