package initialize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/ctorinject/internal/csharp"
	"github.com/cmmoran/ctorinject/internal/workspace"
	"github.com/cmmoran/ctorinject/pkg/catalog"
	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// Options configure catalog generation.
type Options struct {
	Paths  []string
	Parser *csharp.Parser
	Logger *slog.Logger
}

// Generate builds a catalog of every type declared below opts.Paths, nested
// types included. Base entries that name an interface are dropped.
func Generate(ctx context.Context, opts Options) (*catalog.Catalog, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Parser == nil {
		opts.Parser = csharp.NewParser(csharp.WithLogger(log))
	}

	files, err := workspace.Collect(opts.Paths)
	if err != nil {
		return nil, err
	}

	out := &catalog.Catalog{}
	for _, path := range files {
		tree, err := workspace.Open(path, workspace.WithParser(opts.Parser)).Tree(ctx)
		if err != nil {
			return nil, err
		}
		var visit func(td *syntax.TypeDecl)
		visit = func(td *syntax.TypeDecl) {
			out.Add(semantic.CatalogType(td))
			for _, m := range td.Members {
				if nested, ok := m.(*syntax.TypeDecl); ok {
					visit(nested)
				}
			}
		}
		for _, td := range tree.Types() {
			visit(td)
		}
		log.Debug("catalogued file", "file", path, "types", len(tree.Types()))
	}

	known := catalog.Default().Merge(out)
	for i := range out.Types {
		t := &out.Types[i]
		if t.Base == "" {
			continue
		}
		if base, ok := known.Find(t.Base); ok && base.Kind != "class" {
			t.Base = ""
		}
	}
	return out, nil
}

// Diff reports how next differs from the catalog stored at path. A missing
// file diffs as an empty catalog.
func Diff(path string, next *catalog.Catalog) (string, error) {
	prev, err := catalog.Load(path)
	if err != nil {
		return "", fmt.Errorf("load previous catalog: %w", err)
	}
	return cmp.Diff(prev, next), nil
}
