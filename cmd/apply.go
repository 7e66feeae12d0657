package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/ctorinject/internal/action/apply"
	"github.com/cmmoran/ctorinject/internal/workspace"
)

func init() {
	rootCmd.AddCommand(NewApplyCommand())
}

func NewApplyCommand() *cobra.Command {
	var (
		pos      workspace.Position
		selector string
		write    bool
		diff     bool
	)

	// applyCmd represents the ctorinject apply command
	var applyCmd = &cobra.Command{
		Use:   "apply FILE",
		Short: "apply a refactoring at a position",
		Long:  "Apply one of the refactorings offered at a position and print or write the updated file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			file, err := openFile(args[0])
			if err != nil {
				return err
			}
			res, err := apply.Generate(c.Context(), engine, file, pos, selector, write)
			if err != nil {
				return err
			}
			switch {
			case diff:
				fmt.Fprint(c.OutOrStdout(), res.Diff)
			case !res.Written:
				fmt.Fprint(c.OutOrStdout(), res.Source)
			}
			return nil
		},
	}
	addPositionFlags(applyCmd, &pos)
	applyCmd.Flags().StringVarP(&selector, "action", "a", "1", "action to apply, by 1-based index or title")
	applyCmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	applyCmd.Flags().BoolVarP(&diff, "diff", "d", false, "print a diff instead of the updated file")

	return applyCmd
}
