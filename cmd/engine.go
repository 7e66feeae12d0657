package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/ctorinject/internal/csharp"
	"github.com/cmmoran/ctorinject/internal/workspace"
	"github.com/cmmoran/ctorinject/pkg/catalog"
	"github.com/cmmoran/ctorinject/pkg/refactor"
)

// newEngine builds the refactoring engine from the merged configuration.
func newEngine() (*refactor.Engine, error) {
	return refactor.New(refactor.WithOptions(refactor.Options{
		Guards:           refactor.GuardMode(viper.GetString("guards")),
		FieldsPolicy:     viper.GetBool("policies.fields"),
		PropertiesPolicy: viper.GetBool("policies.properties"),
		IntroduceField:   viper.GetBool("policies.introduce_field"),
		Logger:           slog.Default(),
	}))
}

func loadCatalogs() ([]*catalog.Catalog, error) {
	cats, err := workspace.LoadCatalogs(viper.GetStringSlice("catalogs"))
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	return cats, nil
}

func openFile(path string) (*workspace.File, error) {
	cats, err := loadCatalogs()
	if err != nil {
		return nil, err
	}
	return workspace.Open(path,
		workspace.WithParser(csharp.NewParser(csharp.WithLogger(slog.Default()))),
		workspace.WithCatalogs(cats...),
	), nil
}

// addPositionFlags registers the flags selecting the span actions are computed for.
func addPositionFlags(c *cobra.Command, pos *workspace.Position) {
	c.Flags().IntVar(&pos.Offset, "offset", 0, "byte offset of the span start")
	c.Flags().IntVar(&pos.Length, "length", 0, "length of the span in bytes")
	c.Flags().IntVar(&pos.Line, "line", 0, "1-based line of the span start (overrides --offset)")
	c.Flags().IntVar(&pos.Col, "col", 1, "1-based column of the span start, used with --line")
}
