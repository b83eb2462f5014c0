package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bethropolis/notebook/internal/app"
	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/logger"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open a notebook in the terminal editor",
	Long: `Open a notebook in the terminal editor. A missing file starts an empty
notebook that is created on the first save; without a file the notebook
is unnamed until saved with :w <file>.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	logger.Infof("Starting notebook editor on %q", path)

	nb, err := app.New(app.Options{Path: path, Config: cfg})
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		return printed(printError("Cannot open %s: %v", displayPath(path), err))
	}
	if err := nb.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		return printed(printError("%v", err))
	}
	logger.Infof("Notebook editor finished.")
	return nil
}

// defaultLogPath keeps the log out of the terminal the editor draws on.
func defaultLogPath() string {
	if path := config.DefaultPath(); path != "" {
		return filepath.Join(filepath.Dir(path), config.DefaultLogFileName)
	}
	return filepath.Join(os.TempDir(), config.DefaultLogFileName)
}

func displayPath(path string) string {
	if path == "" {
		return "[No Name]"
	}
	return path
}
