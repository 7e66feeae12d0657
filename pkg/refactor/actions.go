package refactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// ErrSnapshotChanged is returned by Action.Apply when the document no longer
// contains the declaration the action was computed for.
var ErrSnapshotChanged = errors.New("document changed since actions were computed")

// Document is the host's view of the file being refactored. Both calls may
// block and are the only points where a refactoring honors cancellation.
type Document interface {
	Tree(ctx context.Context) (*syntax.Tree, error)
	SemanticModel(ctx context.Context) (semantic.Resolver, error)
}

// Action is a named, independently invocable refactoring.
type Action struct {
	Title string
	apply func(ctx context.Context) (*syntax.Tree, error)
}

// Apply runs the refactoring and returns the whole updated tree.
func (a Action) Apply(ctx context.Context) (*syntax.Tree, error) {
	return a.apply(ctx)
}

// Engine computes the refactorings available at a span.
type Engine struct {
	opts Options
	log  *slog.Logger
}

// New builds an Engine with opts applied over NewOptions.
func New(opts ...Option) (*Engine, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Engine, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	return &Engine{opts: *opts, log: opts.Logger}, nil
}

func (e *Engine) Options() Options { return e.opts }

// ComputeActions returns the refactorings offered at span, possibly none.
// Errors come only from the document: a failed or cancelled tree or model
// fetch is returned unchanged.
func (e *Engine) ComputeActions(ctx context.Context, doc Document, span syntax.Span) ([]Action, error) {
	tree, err := doc.Tree(ctx)
	if err != nil {
		return nil, err
	}

	if param, ctor, owner := tree.FindParameter(span); param != nil {
		return e.introduceActions(tree, doc, owner, ctor, param), nil
	}

	member, owner := tree.FindMember(span)
	if member == nil || !owner.IsClass() {
		return nil, nil
	}

	var (
		typ      syntax.TypeRef
		property bool
	)
	switch x := member.(type) {
	case *syntax.FieldDecl:
		if !IsCandidateField(x) {
			return nil, nil
		}
		typ = x.Type
	case *syntax.PropertyDecl:
		if !e.opts.PropertiesPolicy || !IsCandidateProperty(x) {
			return nil, nil
		}
		typ, property = x.Type, true
	default:
		return nil, nil
	}

	model, err := doc.SemanticModel(ctx)
	if err != nil {
		return nil, err
	}
	if !IsInjectable(typ, model) {
		e.log.Debug("member type is not injectable", "type", owner.Name, "member_type", typ.Text)
		return nil, nil
	}

	var actions []Action
	if e.opts.FieldsPolicy && !property {
		actions = append(actions, e.synthesizeAction(doc, owner, model, FieldsOnly(e.opts.Guards)))
	}
	if e.opts.PropertiesPolicy {
		actions = append(actions, e.synthesizeAction(doc, owner, model, FieldsAndProperties(e.opts.Guards)))
	}
	return actions, nil
}

func (e *Engine) synthesizeAction(doc Document, owner *syntax.TypeDecl, model semantic.Resolver, p Policy) Action {
	return Action{
		Title: p.Label,
		apply: func(ctx context.Context) (*syntax.Tree, error) {
			return e.splice(ctx, doc, owner, func() *syntax.TypeDecl {
				return Synthesize(owner, model, p)
			})
		},
	}
}

func (e *Engine) introduceActions(tree *syntax.Tree, doc Document, owner *syntax.TypeDecl, ctor *syntax.ConstructorDecl, param *syntax.Parameter) []Action {
	if !e.opts.IntroduceField || !CanIntroduceField(owner, ctor, param) {
		return nil
	}
	var actions []Action
	for _, style := range []FieldStyle{UnderscoreStyle, ThisStyle} {
		if tree.DeclaresVariable(style.FieldName(param.Name)) {
			e.log.Debug("field name already declared", "type", owner.Name, "field", style.FieldName(param.Name))
			continue
		}
		style := style
		actions = append(actions, Action{
			Title: style.Label(param.Name),
			apply: func(ctx context.Context) (*syntax.Tree, error) {
				return e.splice(ctx, doc, owner, func() *syntax.TypeDecl {
					return IntroduceField(owner, ctor, param, style)
				})
			},
		})
	}
	return actions
}

// splice refetches the current tree, the one cancellable step of an action,
// and replaces owner with the declaration build produces.
func (e *Engine) splice(ctx context.Context, doc Document, owner *syntax.TypeDecl, build func() *syntax.TypeDecl) (*syntax.Tree, error) {
	tree, err := doc.Tree(ctx)
	if err != nil {
		return nil, err
	}
	updated, ok := syntax.Replace(tree, owner, build())
	if !ok {
		return nil, fmt.Errorf("%w: type %s", ErrSnapshotChanged, owner.Name)
	}
	e.log.Debug("refactoring applied", "type", owner.Name)
	return updated, nil
}
