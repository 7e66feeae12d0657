package semantic

import (
	"log/slog"
	"strings"

	"github.com/cmmoran/ctorinject/pkg/catalog"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// Index is a Resolver backed by the declarations of one syntax tree plus any
// number of type catalogs. Types declared in the tree shadow catalog entries
// of the same simple name.
type Index struct {
	byName map[string]*TypeSymbol
	byDecl map[*syntax.TypeDecl]*TypeSymbol
}

var _ Resolver = (*Index)(nil)

// NewIndex builds an Index. Catalogs are applied in order, later ones winning.
func NewIndex(tree *syntax.Tree, catalogs ...*catalog.Catalog) *Index {
	idx := &Index{
		byName: make(map[string]*TypeSymbol),
		byDecl: make(map[*syntax.TypeDecl]*TypeSymbol),
	}
	bases := make(map[*TypeSymbol]string)

	for _, c := range catalogs {
		if c == nil {
			continue
		}
		for _, t := range c.Types {
			sym := symbolFromCatalog(t)
			idx.byName[t.Name] = sym
			if t.Base != "" {
				bases[sym] = syntax.TypeRef{Text: t.Base}.Simple()
			}
		}
	}

	if tree != nil {
		var visit func(td *syntax.TypeDecl)
		visit = func(td *syntax.TypeDecl) {
			sym := symbolFromDecl(td)
			idx.byName[td.Name] = sym
			idx.byDecl[td] = sym
			if len(td.BaseList) > 0 && sym.Kind == KindClass {
				bases[sym] = td.BaseList[0].Simple()
			}
			for _, m := range td.Members {
				if nested, ok := m.(*syntax.TypeDecl); ok {
					visit(nested)
				}
			}
		}
		for _, td := range tree.Types() {
			visit(td)
		}
	}

	for sym, name := range bases {
		base, ok := idx.byName[name]
		if !ok {
			slog.Debug("unresolved base type", "type", sym.Name, "base", name)
			continue
		}
		// The first entry of a base list may just as well be an interface.
		if base.Kind != KindClass || base == sym {
			continue
		}
		sym.Base = base
	}

	return idx
}

func (x *Index) ResolveType(ref syntax.TypeRef) (*TypeSymbol, bool) {
	sym, ok := x.byName[ref.Simple()]
	return sym, ok
}

func (x *Index) DeclaredType(decl *syntax.TypeDecl) (*TypeSymbol, bool) {
	if decl == nil {
		return nil, false
	}
	if sym, ok := x.byDecl[decl]; ok {
		return sym, true
	}
	sym, ok := x.byName[decl.Name]
	return sym, ok
}

func symbolFromDecl(td *syntax.TypeDecl) *TypeSymbol {
	sym := &TypeSymbol{
		Name:     td.Name,
		Kind:     ParseKind(td.Kind.String()),
		Abstract: td.Modifiers.Has(syntax.KwAbstract),
	}
	// Interfaces are abstract by definition; static classes have no constructors.
	if sym.Kind == KindInterface || td.Modifiers.Has(syntax.KwStatic) {
		return sym
	}
	if len(td.PrimaryParams) > 0 {
		primary := Constructor{Access: implicitConstructor(sym).Access}
		for _, p := range td.PrimaryParams {
			primary.Params = append(primary.Params, Param{Name: p.Name, Type: p.Type.Text})
		}
		sym.Constructors = append(sym.Constructors, primary)
	}
	for _, c := range td.Constructors() {
		ctor := Constructor{Access: ParseAccess(c.Modifiers, AccessPrivate)}
		for _, p := range c.Params.Items {
			ctor.Params = append(ctor.Params, Param{Name: p.Name, Type: p.Type.Text})
		}
		sym.Constructors = append(sym.Constructors, ctor)
	}
	if len(sym.Constructors) == 0 {
		sym.Constructors = []Constructor{implicitConstructor(sym)}
	}
	return sym
}

func symbolFromCatalog(t catalog.Type) *TypeSymbol {
	sym := &TypeSymbol{
		Name:     t.Name,
		Kind:     ParseKind(t.Kind),
		Abstract: t.Abstract,
	}
	if sym.Kind == KindInterface {
		return sym
	}
	for _, c := range t.Constructors {
		ctor := Constructor{Access: ParseAccess(strings.Fields(c.Access), AccessPublic)}
		for _, p := range c.Params {
			ctor.Params = append(ctor.Params, Param{Name: p.Name, Type: p.Type})
		}
		sym.Constructors = append(sym.Constructors, ctor)
	}
	if len(sym.Constructors) == 0 {
		sym.Constructors = []Constructor{implicitConstructor(sym)}
	}
	return sym
}

// implicitConstructor is the parameterless constructor the compiler supplies
// when a class declares none.
func implicitConstructor(sym *TypeSymbol) Constructor {
	if sym.Abstract {
		return Constructor{Access: AccessProtected}
	}
	return Constructor{Access: AccessPublic}
}

// CatalogType describes a source declaration as a catalog entry, so that other
// documents can resolve it. Base holds the first base list entry of a class
// unresolved; it may name an interface.
func CatalogType(td *syntax.TypeDecl) catalog.Type {
	sym := symbolFromDecl(td)
	t := catalog.Type{
		Name:     sym.Name,
		Kind:     sym.Kind.String(),
		Abstract: sym.Abstract,
	}
	if sym.Kind == KindClass && len(td.BaseList) > 0 {
		t.Base = td.BaseList[0].Simple()
	}
	if len(td.Constructors()) == 0 && len(td.PrimaryParams) == 0 {
		return t
	}
	for _, c := range sym.Constructors {
		ctor := catalog.Constructor{Access: c.Access.String()}
		for _, p := range c.Params {
			ctor.Params = append(ctor.Params, catalog.Param{Name: p.Name, Type: p.Type})
		}
		t.Constructors = append(t.Constructors, ctor)
	}
	return t
}
