package refactor

import (
	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// ResolveBaseCtor finds the base constructor a synthesized constructor has to
// chain to. It reports false when no explicit chain is needed: no declared
// symbol, no base class, the root object type, or a base with a parameterless
// constructor. Among the remaining constructors the one with the most
// parameters wins; ties go to the first declared.
func ResolveBaseCtor(decl *syntax.TypeDecl, r semantic.Resolver) (semantic.Constructor, bool) {
	if r == nil {
		return semantic.Constructor{}, false
	}
	sym, ok := r.DeclaredType(decl)
	if !ok || sym == nil || sym.Base == nil || sym.Base.IsRoot() {
		return semantic.Constructor{}, false
	}

	var (
		best  semantic.Constructor
		found bool
	)
	for _, c := range sym.Base.Constructors {
		if !c.UsableFromDerived() {
			continue
		}
		if len(c.Params) == 0 {
			return semantic.Constructor{}, false
		}
		if !found || len(c.Params) > len(best.Params) {
			best, found = c, true
		}
	}
	return best, found
}
