package refactor

import (
	"strings"

	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// fakeResolver resolves by simple name against a fixed symbol table.
type fakeResolver map[string]*semantic.TypeSymbol

func (f fakeResolver) ResolveType(ref syntax.TypeRef) (*semantic.TypeSymbol, bool) {
	s, ok := f[ref.Simple()]
	return s, ok
}

func (f fakeResolver) DeclaredType(decl *syntax.TypeDecl) (*semantic.TypeSymbol, bool) {
	s, ok := f[decl.Name]
	return s, ok
}

func iface(name string) *semantic.TypeSymbol {
	return &semantic.TypeSymbol{Name: name, Kind: semantic.KindInterface}
}

func class(name string, base *semantic.TypeSymbol, ctors ...semantic.Constructor) *semantic.TypeSymbol {
	if len(ctors) == 0 {
		ctors = []semantic.Constructor{{Access: semantic.AccessPublic}}
	}
	return &semantic.TypeSymbol{Name: name, Kind: semantic.KindClass, Base: base, Constructors: ctors}
}

func ctor(access semantic.Access, params ...string) semantic.Constructor {
	c := semantic.Constructor{Access: access}
	for i := 0; i+1 < len(params); i += 2 {
		c.Params = append(c.Params, semantic.Param{Type: params[i], Name: params[i+1]})
	}
	return c
}

func mods(s string) syntax.Modifiers { return strings.Fields(s) }

func field(modifiers, typ, name string) *syntax.FieldDecl {
	return &syntax.FieldDecl{
		Source:    syntax.Source{Span: syntax.Span{Start: 0, End: 1}, Raw: modifiers + " " + typ + " " + name + ";"},
		Modifiers: mods(modifiers),
		Type:      syntax.TypeRef{Text: typ},
		Variables: []syntax.Variable{{Name: name}},
	}
}

func getter() syntax.Accessor { return syntax.Accessor{Keyword: "get"} }

func property(modifiers, typ, name string, accessors ...syntax.Accessor) *syntax.PropertyDecl {
	return &syntax.PropertyDecl{
		Source:    syntax.Source{Span: syntax.Span{Start: 0, End: 1}, Raw: typ + " " + name},
		Modifiers: mods(modifiers),
		Type:      syntax.TypeRef{Text: typ},
		Name:      name,
		Accessors: accessors,
	}
}

func classDecl(name string, members ...syntax.Member) *syntax.TypeDecl {
	return &syntax.TypeDecl{
		Source:  syntax.Source{Span: syntax.Span{Start: 0, End: 100}, Raw: "class " + name + " {}"},
		Kind:    syntax.KindClass,
		Name:    name,
		Members: members,
		HasBody: true,
	}
}

// added returns the constructor Synthesize appended to decl.
func added(decl *syntax.TypeDecl) *syntax.ConstructorDecl {
	return decl.Members[len(decl.Members)-1].(*syntax.ConstructorDecl)
}

func paramNames(c *syntax.ConstructorDecl) []string {
	var out []string
	for _, p := range c.Params.Items {
		out = append(out, p.Type.Text+" "+p.Name)
	}
	return out
}

// render flattens statements into a compact textual form.
func render(stmts []syntax.Statement) []string {
	var out []string
	for _, s := range stmts {
		switch x := s.(type) {
		case *syntax.GuardStatement:
			out = append(out, "guard "+x.Name)
		case *syntax.AssignStatement:
			target := x.Target
			if x.This {
				target = "this." + target
			}
			out = append(out, target+" = "+x.Value)
		case *syntax.RawStatement:
			out = append(out, x.Raw)
		}
	}
	return out
}
