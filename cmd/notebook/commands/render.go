package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/document"
	"github.com/bethropolis/notebook/internal/render"
)

var renderColor string

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Print a notebook as text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objs, err := document.Load(args[0])
		if err != nil {
			return printed(printError("Cannot read %s: %v", args[0], err))
		}
		seq, err := block.FromObjects(objs)
		if err != nil {
			return printed(printError("%s is not a valid notebook: %v", args[0], err))
		}

		useColor := !color.NoColor
		switch renderColor {
		case "always":
			useColor = true
		case "never":
			useColor = false
		}
		return render.Notebook(cmd.OutOrStdout(), seq, render.Options{Color: useColor})
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderColor, "color", "auto", "Colorize output: auto, always or never")
}
