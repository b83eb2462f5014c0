package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/modehandler"
)

// ErrUsage is returned for commands given the wrong arguments.
var ErrUsage = errors.New("usage")

// suggestLimit caps the "did you mean" list of :type.
const suggestLimit = 3

// RegisterAppCommands registers the built-in commands.
func RegisterAppCommands(reg Registry, nb NotebookAPI, themeAPI ThemeAPI) {
	RegisterThemeCommands(reg, themeAPI)
	RegisterNotebookCommands(reg, nb)
}

func register(reg Registry, name string, fn modehandler.CommandFunc) {
	if err := reg.RegisterCommand(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}

// RegisterThemeCommands registers only theme-related commands
func RegisterThemeCommands(reg Registry, themeAPI ThemeAPI) {
	themeCmdFunc := func(args []string) error {
		if len(args) == 0 {
			themeAPI.SetStatusMessage("Current theme: %s", themeAPI.GetTheme().Name)
			return nil
		}

		themeName := strings.Join(args, " ") // Allow theme names with spaces
		if err := themeAPI.SetTheme(themeName); err != nil {
			themeList := strings.Join(themeAPI.ListThemes(), ", ")
			return fmt.Errorf("theme '%s' not found. Available: %s", themeName, themeList)
		}
		themeAPI.SetStatusMessage("Theme set to: %s", themeName)
		return nil
	}

	themeListCmdFunc := func(args []string) error {
		if len(args) == 1 && args[0] == "reload" {
			if err := themeAPI.ReloadThemes(); err != nil {
				return err
			}
		}
		themeAPI.SetStatusMessage("Available themes: %s", strings.Join(themeAPI.ListThemes(), ", "))
		return nil
	}

	register(reg, "theme", themeCmdFunc)
	register(reg, "themes", themeListCmdFunc)
}

// RegisterNotebookCommands registers saving, history and block commands.
func RegisterNotebookCommands(reg Registry, nb NotebookAPI) {
	save := func(args []string) error {
		if len(args) > 0 {
			return nb.SaveAs(strings.Join(args, " "))
		}
		return nb.Save()
	}
	register(reg, "w", save)
	register(reg, "save", save)
	register(reg, "q", func([]string) error { nb.Quit(false); return nil })
	register(reg, "q!", func([]string) error { nb.Quit(true); return nil })
	register(reg, "wq", func(args []string) error {
		if err := save(args); err != nil {
			return err
		}
		nb.Quit(false)
		return nil
	})
	register(reg, "undo", func([]string) error { return nb.Undo() })
	register(reg, "redo", func([]string) error { return nb.Redo() })
	register(reg, "reload", func([]string) error { return nb.Reload() })

	register(reg, "type", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: type <block-type>", ErrUsage)
		}
		return convert(nb, args[0])
	})
	register(reg, "types", func([]string) error {
		nb.SetStatusMessage("Block types: %s", strings.Join(nb.Registry().Types(), ", "))
		return nil
	})
}

// convert turns the focused block into typ, suggesting close names for an
// unknown one.
func convert(nb NotebookAPI, typ string) error {
	reg := nb.Registry()
	if !reg.Has(typ) {
		if s := reg.Suggest(typ, suggestLimit); len(s) > 0 {
			return fmt.Errorf("%w: %q. Did you mean: %s?", blocktype.ErrUnknownBlockType, typ, strings.Join(s, ", "))
		}
		return fmt.Errorf("%w: %q", blocktype.ErrUnknownBlockType, typ)
	}
	if err := nb.ConvertFocused(typ); err != nil {
		return err
	}
	nb.SetStatusMessage("Converted to %s", typ)
	return nil
}
