package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/ctorinject/internal/action/initialize"
)

func init() {
	var initializeCmd = NewInitCommand()
	rootCmd.AddCommand(initializeCmd)
}

func NewInitCommand() *cobra.Command {
	var (
		inputs []string
		output string
		diff   bool
		dryRun bool
	)

	// initCmd represents the ctorinject init command
	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "init a type catalog",
		Long:  "Catalog the types and constructors declared in C# sources so other projects can chain to them",
		RunE: func(c *cobra.Command, args []string) error {
			cat, err := initialize.Generate(c.Context(), initialize.Options{
				Paths:  inputs,
				Logger: slog.Default(),
			})
			if err != nil {
				return err
			}
			if diff {
				d, err := initialize.Diff(output, cat)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(c.OutOrStdout(), d)
			}
			if dryRun {
				return nil
			}
			if err := cat.Save(output); err != nil {
				return err
			}
			slog.Info("catalog written", "file", output, "types", len(cat.Types))
			return nil
		},
	}
	initCmd.Flags().StringSliceVarP(&inputs, "input-directory", "i", []string{"."}, "directories or files to catalog")
	initCmd.Flags().StringVarP(&output, "output-file", "f", "ctorinject.catalog.yaml", "catalog file to write")
	initCmd.Flags().BoolVarP(&diff, "diff", "d", false, "print the difference against the existing catalog")
	initCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "do not write the catalog")

	return initCmd
}
