package semantic

import (
	"slices"
	"strings"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindInterface
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class", "record":
		return KindClass
	case "interface":
		return KindInterface
	case "struct":
		return KindStruct
	case "enum":
		return KindEnum
	}
	return KindUnknown
}

type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessInternal
	AccessProtectedInternal
	AccessPrivateProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessInternal:
		return "internal"
	case AccessProtectedInternal:
		return "protected internal"
	case AccessPrivateProtected:
		return "private protected"
	}
	return "private"
}

// ParseAccess maps modifier keywords to an accessibility. def is returned when
// no accessibility keyword is present.
func ParseAccess(mods []string, def Access) Access {
	has := func(kw string) bool { return slices.Contains(mods, kw) }
	switch {
	case has("public"):
		return AccessPublic
	case has("protected") && has("internal"):
		return AccessProtectedInternal
	case has("private") && has("protected"):
		return AccessPrivateProtected
	case has("protected"):
		return AccessProtected
	case has("internal"):
		return AccessInternal
	case has("private"):
		return AccessPrivate
	}
	return def
}

// Param is a constructor parameter of a resolved type.
type Param struct {
	Name string
	Type string
}

// Constructor is an instance constructor signature.
type Constructor struct {
	Access Access
	Params []Param
}

// UsableFromDerived reports whether a derived type can chain to c.
func (c Constructor) UsableFromDerived() bool { return c.Access != AccessPrivate }

// TypeSymbol is the semantic view of a type.
type TypeSymbol struct {
	Name     string
	Kind     Kind
	Abstract bool
	// Base is the resolved base class, nil when there is none or it could not
	// be resolved.
	Base *TypeSymbol
	// Constructors enumerate in declaration order.
	Constructors []Constructor
}

// IsRoot reports whether t is the universal root object type.
func (t *TypeSymbol) IsRoot() bool {
	if t == nil {
		return false
	}
	switch t.Name {
	case "object", "Object", "System.Object":
		return true
	}
	return false
}

// Resolver answers the two questions the refactoring engine asks of a
// semantic model.
type Resolver interface {
	// ResolveType resolves a type reference as written in source.
	ResolveType(ref syntax.TypeRef) (*TypeSymbol, bool)
	// DeclaredType returns the symbol declared by a type declaration.
	DeclaredType(decl *syntax.TypeDecl) (*TypeSymbol, bool)
}
