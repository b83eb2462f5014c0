package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bethropolis/notebook/internal/config"
	"github.com/bethropolis/notebook/internal/logger"
)

var (
	flags     config.Flags
	cfg       *config.Config
	logCloser io.Closer
)

// rootCmd opens the notebook editor when given a file and no subcommand.
var rootCmd = &cobra.Command{
	Use:   "notebook [file]",
	Short: "Notebook - a block-based notebook for the terminal",
	Long: `Notebook edits documents made of typed blocks: paragraphs, headings,
lists, code, tables, formulas and images. Documents are stored as YAML or
JSON lists of blocks.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPostRun: teardown,
	RunE:              runEdit,
}

// Execute runs the root command. Cobra's own error printing is silenced;
// commands print their errors with the printer helpers.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil && !isPrinted(err) {
		printError("%v", err)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd,
	// which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = setup
	flags.Register(rootCmd.PersistentFlags())
	rootCmd.AddCommand(editCmd, renderCmd, checkCmd)
}

// setup loads the config and starts logging. The log goes to stderr
// unless a file is configured; the editor overrides that default itself.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flags.ConfigFilePath, &flags, cmd.Flags())
	if err != nil {
		printWarning("Ignoring config file: %v\n", err)
	}
	cfg = loaded
	if cmd == rootCmd || cmd == editCmd {
		if cfg.Logger.LogFilePath == "" {
			cfg.Logger.LogFilePath = defaultLogPath()
		}
	}

	logger.SetFilterDebug(flags.DebugLog)
	closer, err := logger.Setup(cfg.Logger)
	if err != nil {
		return err
	}
	logCloser = closer
	logger.Debugf("Config loaded, log level %s", cfg.Logger.LogLevel)
	return nil
}

func teardown(*cobra.Command, []string) {
	if logCloser != nil {
		logCloser.Close()
	}
}
