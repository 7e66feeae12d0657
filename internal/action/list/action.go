package list

import (
	"context"

	"github.com/cmmoran/ctorinject/internal/workspace"
	"github.com/cmmoran/ctorinject/pkg/refactor"
)

// Entry is one offered refactoring. Index is 1-based, matching the selector
// accepted by apply.
type Entry struct {
	Index int    `yaml:"index" json:"index"`
	Title string `yaml:"title" json:"title"`
}

// Actions computes the refactorings offered at pos in file.
func Actions(ctx context.Context, engine *refactor.Engine, file *workspace.File, pos workspace.Position) ([]refactor.Action, error) {
	span, err := file.Span(ctx, pos)
	if err != nil {
		return nil, err
	}
	return engine.ComputeActions(ctx, file, span)
}

// Generate lists the titles of the refactorings offered at pos.
func Generate(ctx context.Context, engine *refactor.Engine, file *workspace.File, pos workspace.Position) ([]Entry, error) {
	actions, err := Actions(ctx, engine, file, pos)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(actions))
	for i, a := range actions {
		out = append(out, Entry{Index: i + 1, Title: a.Title})
	}
	return out, nil
}
