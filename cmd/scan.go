package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/ctorinject/internal/action/scan"
)

func init() {
	rootCmd.AddCommand(NewScanCommand())
}

func NewScanCommand() *cobra.Command {
	var output string

	// scanCmd represents the ctorinject scan command
	var scanCmd = &cobra.Command{
		Use:   "scan PATH...",
		Short: "report refactoring opportunities",
		Long:  "Walk C# sources and report every member and constructor parameter with an available refactoring",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			engine, err := newEngine()
			if err != nil {
				return err
			}
			cats, err := loadCatalogs()
			if err != nil {
				return err
			}
			report, err := scan.Generate(c.Context(), engine, scan.Options{
				Paths:       args,
				Concurrency: viper.GetInt("scan.concurrency"),
				Catalogs:    cats,
				Logger:      slog.Default(),
			})
			if err != nil {
				return err
			}
			if output == "text" {
				return report.Text(c.OutOrStdout())
			}
			out, err := report.YAML()
			if err != nil {
				return err
			}
			_, err = c.OutOrStdout().Write(out)
			return err
		},
	}
	scanCmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (yaml, text)")
	scanCmd.Flags().Int("concurrency", 0, "files scanned in parallel (0 = GOMAXPROCS)")
	_ = viper.BindPFlag("scan.concurrency", scanCmd.Flags().Lookup("concurrency"))

	return scanCmd
}
