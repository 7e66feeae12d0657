package refactor

import (
	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

const (
	LabelFields     = "Create constructor for dependency injection"
	LabelProperties = "Create constructor for dependency injection with properties"
)

// Candidate pairs an injectable member with the constructor parameter that
// will feed it. It is recomputed on every invocation.
type Candidate struct {
	Member   syntax.Member
	Name     string
	Type     syntax.TypeRef
	Param    string
	Property bool
}

// Policy is the pluggable part of constructor synthesis: which members take
// part, and which statements each of them contributes to the body.
type Policy struct {
	Label      string
	Candidates func(decl *syntax.TypeDecl, r semantic.Resolver) []Candidate
	Statements func(c Candidate) []syntax.Statement
}

// FieldsOnly injects candidate fields.
func FieldsOnly(g GuardMode) Policy {
	return Policy{
		Label: LabelFields,
		Candidates: func(decl *syntax.TypeDecl, r semantic.Resolver) []Candidate {
			return collectCandidates(decl, r, false)
		},
		Statements: assignStatements(func(Candidate) bool { return g == GuardAlways }),
	}
}

// FieldsAndProperties injects candidate fields and get-only auto-properties.
func FieldsAndProperties(g GuardMode) Policy {
	return Policy{
		Label: LabelProperties,
		Candidates: func(decl *syntax.TypeDecl, r semantic.Resolver) []Candidate {
			return collectCandidates(decl, r, true)
		},
		Statements: assignStatements(func(c Candidate) bool {
			switch g {
			case GuardAlways:
				return true
			case GuardNever:
				return false
			}
			return c.Property
		}),
	}
}

// collectCandidates walks the direct members of decl in declaration order.
func collectCandidates(decl *syntax.TypeDecl, r semantic.Resolver, properties bool) []Candidate {
	var out []Candidate
	for _, m := range decl.Members {
		switch x := m.(type) {
		case *syntax.FieldDecl:
			if !IsCandidateField(x) || !IsInjectable(x.Type, r) {
				continue
			}
			out = append(out, Candidate{Member: x, Name: x.Name(), Type: x.Type, Param: x.Name()})
		case *syntax.PropertyDecl:
			if !properties || !IsCandidateProperty(x) || !IsInjectable(x.Type, r) {
				continue
			}
			out = append(out, Candidate{Member: x, Name: x.Name, Type: x.Type, Param: lowerCamel(x.Name), Property: true})
		}
	}
	return out
}

func assignStatements(guard func(Candidate) bool) func(Candidate) []syntax.Statement {
	return func(c Candidate) []syntax.Statement {
		assign := syntax.NewAssign(true, c.Name, c.Param)
		if guard(c) {
			return []syntax.Statement{syntax.NewGuard(c.Param), assign}
		}
		return []syntax.Statement{assign}
	}
}

// listBuilder accumulates a separated list the way a token stream is built:
// every item is followed by a separator, and finish drops the terminal one.
type listBuilder[T any] struct {
	items []T
	seps  []string
}

func (b *listBuilder[T]) add(item T) {
	b.items = append(b.items, item)
	b.seps = append(b.seps, ",")
}

func (b *listBuilder[T]) finish() syntax.SeparatedList[T] {
	if len(b.seps) > 0 {
		b.seps = b.seps[:len(b.seps)-1]
	}
	return syntax.SeparatedList[T]{Items: b.items, Separators: b.seps}
}

// BuildConstructor assembles the constructor Synthesize adds: one parameter
// per candidate followed by the parameters of the base constructor to chain
// to, a base initializer forwarding those, and the policy's statements in
// candidate order.
func BuildConstructor(decl *syntax.TypeDecl, r semantic.Resolver, p Policy) *syntax.ConstructorDecl {
	var (
		names  = nameSet{}
		params listBuilder[*syntax.Parameter]
		stmts  []syntax.Statement
	)
	for _, c := range p.Candidates(decl, r) {
		c.Param = names.claim(c.Param)
		params.add(syntax.NewParameter(c.Type, c.Param))
		stmts = append(stmts, p.Statements(c)...)
	}

	ctor := syntax.NewConstructor(decl.Name, syntax.Modifiers{syntax.KwPublic})
	if base, ok := ResolveBaseCtor(decl, r); ok {
		var args listBuilder[string]
		for _, bp := range base.Params {
			name := names.claim(bp.Name)
			params.add(syntax.NewParameter(syntax.TypeRef{Text: bp.Type}, name))
			args.add(name)
		}
		ctor = ctor.WithInitializer(&syntax.CtorInitializer{Keyword: "base", Args: args.finish()})
	}

	return ctor.WithParams(params.finish()).WithBody(syntax.NewBlock(stmts...))
}

// Synthesize returns decl with one new constructor appended. Existing members,
// constructors included, are left untouched.
func Synthesize(decl *syntax.TypeDecl, r semantic.Resolver, p Policy) *syntax.TypeDecl {
	return decl.AddMembers(BuildConstructor(decl, r, p))
}
