package syntax

import (
	"slices"
)

// Tree is an immutable parsed document. Edits never touch an existing Tree;
// Replace returns a new one that shares every untouched subtree.
type Tree struct {
	path   string
	source string
	types  []*TypeDecl
	// slots are the spans of the top-level types in source. They stay fixed
	// across replacements so the printer knows where each type goes.
	slots  []Span
	locals []string
}

// NewTree assembles a tree from the top-level type declarations of source.
// locals lists variables declared outside of any type (top-level statements).
func NewTree(path, source string, types []*TypeDecl, locals []string) *Tree {
	slots := make([]Span, len(types))
	for i, t := range types {
		slots[i] = t.Span
	}
	return &Tree{
		path:   path,
		source: source,
		types:  types,
		slots:  slots,
		locals: locals,
	}
}

func (t *Tree) Path() string       { return t.path }
func (t *Tree) Source() string     { return t.source }
func (t *Tree) Types() []*TypeDecl { return t.types }
func (t *Tree) Slot(i int) Span    { return t.slots[i] }

// Replace performs a single structural substitution of old by repl. Every node
// outside the path from the root to old is shared with the input tree. It
// reports false, returning tree unchanged, when old is not part of tree.
func Replace(tree *Tree, old, repl Node) (*Tree, bool) {
	if tree == nil || old == nil || repl == nil {
		return tree, false
	}
	for i, td := range tree.types {
		var (
			next *TypeDecl
			ok   bool
		)
		if Node(td) == old {
			next, ok = repl.(*TypeDecl)
		} else {
			next, ok = replaceInType(td, old, repl)
		}
		if !ok {
			continue
		}
		types := slices.Clone(tree.types)
		types[i] = next
		out := *tree
		out.types = types
		return &out, true
	}
	return tree, false
}

func replaceInType(td *TypeDecl, old, repl Node) (*TypeDecl, bool) {
	for i, m := range td.Members {
		var (
			next Member
			ok   bool
		)
		switch {
		case Node(m) == old:
			next, ok = repl.(Member)
		default:
			next, ok = replaceInMember(m, old, repl)
		}
		if !ok {
			continue
		}
		members := slices.Clone(td.Members)
		members[i] = next
		return td.withMembers(members), true
	}
	return td, false
}

func replaceInMember(m Member, old, repl Node) (Member, bool) {
	switch x := m.(type) {
	case *TypeDecl:
		return replaceInType(x, old, repl)
	case *ConstructorDecl:
		return replaceInConstructor(x, old, repl)
	}
	return m, false
}

func replaceInConstructor(c *ConstructorDecl, old, repl Node) (*ConstructorDecl, bool) {
	for i, p := range c.Params.Items {
		if Node(p) != old {
			continue
		}
		np, ok := repl.(*Parameter)
		if !ok {
			return c, false
		}
		items := slices.Clone(c.Params.Items)
		items[i] = np
		return c.WithParams(SeparatedList[*Parameter]{Items: items, Separators: c.Params.Separators}), true
	}
	if c.Body == nil {
		return c, false
	}
	if Node(c.Body) == old {
		nb, ok := repl.(*Block)
		if !ok {
			return c, false
		}
		return c.WithBody(nb), true
	}
	for i, s := range c.Body.Statements {
		if Node(s) != old {
			continue
		}
		ns, ok := repl.(Statement)
		if !ok {
			return c, false
		}
		body := *c.Body
		body.Raw = ""
		body.Statements = slices.Clone(c.Body.Statements)
		body.Statements[i] = ns
		return c.WithBody(&body), true
	}
	return c, false
}

// FindMember returns the innermost member whose span contains span, together
// with the type that declares it. Nested types are descended into; a span that
// falls in a type but outside all of its members yields the type itself as a
// member of its parent, or nil for top-level types.
func (t *Tree) FindMember(span Span) (Member, *TypeDecl) {
	for _, td := range t.types {
		if !td.Span.Contains(span) {
			continue
		}
		return findInType(td, span)
	}
	return nil, nil
}

func findInType(td *TypeDecl, span Span) (Member, *TypeDecl) {
	for _, m := range td.Members {
		if !m.Origin().Span.Contains(span) {
			continue
		}
		if nested, ok := m.(*TypeDecl); ok {
			if inner, owner := findInType(nested, span); inner != nil {
				return inner, owner
			}
		}
		return m, td
	}
	return nil, nil
}

// FindParameter resolves span to exactly one parameter of a constructor
// parameter list. It returns nils when span is not inside a parameter list or
// when it does not single out one parameter.
func (t *Tree) FindParameter(span Span) (*Parameter, *ConstructorDecl, *TypeDecl) {
	m, owner := t.FindMember(span)
	ctor, ok := m.(*ConstructorDecl)
	if !ok || !ctor.ParamSpan.Contains(span) {
		return nil, nil, nil
	}
	var found *Parameter
	for _, p := range ctor.Params.Items {
		if !p.Span.Contains(span) {
			continue
		}
		if found != nil {
			return nil, nil, nil
		}
		found = p
	}
	if found == nil {
		return nil, nil, nil
	}
	return found, ctor, owner
}

// Walk visits every member of every type in declaration order, nested types
// included. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(owner *TypeDecl, m Member) bool) {
	for _, td := range t.types {
		if !walkType(td, fn) {
			return
		}
	}
}

func walkType(td *TypeDecl, fn func(owner *TypeDecl, m Member) bool) bool {
	for _, m := range td.Members {
		if !fn(td, m) {
			return false
		}
		if nested, ok := m.(*TypeDecl); ok {
			if !walkType(nested, fn) {
				return false
			}
		}
	}
	return true
}

// DeclaresVariable reports whether any variable declarator in the tree, field
// or local, is named one of names. Parameters are not variables.
func (t *Tree) DeclaresVariable(names ...string) bool {
	hit := func(ids []string) bool {
		for _, id := range ids {
			if slices.Contains(names, id) {
				return true
			}
		}
		return false
	}
	if hit(t.locals) {
		return true
	}
	found := false
	t.Walk(func(_ *TypeDecl, m Member) bool {
		switch x := m.(type) {
		case *FieldDecl:
			for _, v := range x.Variables {
				if slices.Contains(names, v.Name) {
					found = true
				}
			}
		case *PropertyDecl:
			found = hit(x.Locals)
		case *ConstructorDecl:
			found = hit(x.Locals) || (x.Body != nil && blockDeclares(x.Body, hit))
		case *RawMember:
			found = hit(x.Locals)
		}
		return !found
	})
	return found
}

func blockDeclares(b *Block, hit func([]string) bool) bool {
	for _, s := range b.Statements {
		if rs, ok := s.(*RawStatement); ok && hit(rs.Locals) {
			return true
		}
	}
	return false
}
