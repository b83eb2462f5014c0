package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocks"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/document"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate notebook files",
	Long: `Check that every file decodes, every block is well formed and every
block type is known. Exits non-zero when any file fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := blocks.NewRegistry(nil)
		if err != nil {
			return err
		}
		failed := 0
		for _, path := range args {
			n, err := checkFile(reg, path)
			if err != nil {
				failed++
				printFailure(cmd.OutOrStdout(), "%s: %v\n", path, err)
				continue
			}
			printSuccess(cmd.OutOrStdout(), "%s: %d blocks\n", path, n)
		}
		if failed > 0 {
			return printed(fmt.Errorf("%d of %d files failed", failed, len(args)))
		}
		return nil
	},
}

// checkFile validates one document and returns its block count.
func checkFile(reg *blocktype.Registry, path string) (int, error) {
	objs, err := document.Load(path)
	if err != nil {
		return 0, err
	}
	seq, err := block.FromObjects(objs)
	if err != nil {
		return 0, err
	}
	var errs []error
	for i, b := range seq {
		if _, err := reg.Lookup(b.Type()); err != nil {
			if s := reg.Suggest(b.Type(), 1); len(s) > 0 {
				err = fmt.Errorf("%w (did you mean %s?)", err, s[0])
			}
			errs = append(errs, fmt.Errorf("block %d: %w", i, err))
		}
	}
	return len(seq), errors.Join(errs...)
}
