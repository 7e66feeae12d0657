package refactor

import (
	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// IsInjectable reports whether ref resolves to an interface or an abstract
// class. Unresolved references are never injectable.
func IsInjectable(ref syntax.TypeRef, r semantic.Resolver) bool {
	if r == nil {
		return false
	}
	sym, ok := r.ResolveType(ref)
	if !ok || sym == nil {
		return false
	}
	return sym.Kind == semantic.KindInterface || (sym.Kind == semantic.KindClass && sym.Abstract)
}
