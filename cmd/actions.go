package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/ctorinject/internal/action/list"
	"github.com/cmmoran/ctorinject/internal/workspace"
)

func init() {
	rootCmd.AddCommand(NewActionsCommand())
}

func NewActionsCommand() *cobra.Command {
	var (
		pos    workspace.Position
		output string
	)

	// actionsCmd represents the ctorinject actions command
	var actionsCmd = &cobra.Command{
		Use:   "actions FILE",
		Short: "list refactorings at a position",
		Long:  "List the dependency injection refactorings offered at a position of a C# file",
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
			entries, err := list.Generate(c.Context(), engine, file, pos)
			if err != nil {
				return err
			}
			if output == "yaml" {
				return yaml.NewEncoder(c.OutOrStdout()).Encode(entries)
			}
			for _, e := range entries {
				fmt.Fprintf(c.OutOrStdout(), "%d\t%s\n", e.Index, e.Title)
			}
			return nil
		},
	}
	addPositionFlags(actionsCmd, &pos)
	actionsCmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, yaml)")

	return actionsCmd
}
