package refactor

import (
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// IsCandidateField reports whether a field can be injected through a
// constructor: it must be non-public, non-static and read-only.
func IsCandidateField(f *syntax.FieldDecl) bool {
	if f == nil || len(f.Variables) == 0 {
		return false
	}
	m := f.Modifiers
	return !m.Has(syntax.KwPublic) && !m.Has(syntax.KwStatic) && m.Has(syntax.KwReadonly)
}

// IsCandidateProperty reports whether a property is a non-public, non-static,
// get-only auto-property without an initializer. Any accessor with a body,
// modifiers or a keyword other than get disqualifies it.
func IsCandidateProperty(p *syntax.PropertyDecl) bool {
	if p == nil || p.Initializer != "" || p.ExpressionBodied {
		return false
	}
	if p.Modifiers.Has(syntax.KwPublic) || p.Modifiers.Has(syntax.KwStatic) {
		return false
	}
	if len(p.Accessors) == 0 {
		return false
	}
	for _, a := range p.Accessors {
		if a.Keyword != "get" || a.HasBody || len(a.Modifiers) > 0 {
			return false
		}
	}
	return true
}
