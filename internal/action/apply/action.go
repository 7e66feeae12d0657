package apply

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/ctorinject/internal/action/list"
	"github.com/cmmoran/ctorinject/internal/csharp"
	"github.com/cmmoran/ctorinject/internal/workspace"
	"github.com/cmmoran/ctorinject/pkg/refactor"
)

// ErrUnknownAction is returned when the selector matches no offered action.
var ErrUnknownAction = errors.New("unknown action")

// Result is the outcome of applying one refactoring.
type Result struct {
	Title   string
	Source  string
	Diff    string
	Written bool
}

// Select picks an action by 1-based index or by title, ignoring case.
func Select(actions []refactor.Action, selector string) (refactor.Action, error) {
	selector = strings.TrimSpace(selector)
	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(actions) {
			return refactor.Action{}, fmt.Errorf("%w: index %d of %d", ErrUnknownAction, n, len(actions))
		}
		return actions[n-1], nil
	}
	for _, a := range actions {
		if strings.EqualFold(a.Title, selector) {
			return a, nil
		}
	}
	return refactor.Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, selector)
}

// Generate applies the action chosen by selector at pos. The rendered document
// is returned and, when write is set, saved over the file.
func Generate(ctx context.Context, engine *refactor.Engine, file *workspace.File, pos workspace.Position, selector string, write bool) (*Result, error) {
	actions, err := list.Actions(ctx, engine, file, pos)
	if err != nil {
		return nil, err
	}
	action, err := Select(actions, selector)
	if err != nil {
		return nil, err
	}

	before, err := file.Tree(ctx)
	if err != nil {
		return nil, err
	}
	after, err := action.Apply(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply %q: %w", action.Title, err)
	}

	res := &Result{
		Title:  action.Title,
		Source: csharp.Print(after),
	}
	res.Diff = cmp.Diff(before.Source(), res.Source)

	if write {
		if err := file.Write(after); err != nil {
			return nil, err
		}
		res.Written = true
	}
	return res, nil
}
