package syntax

import (
	"slices"
	"strings"
)

// Span is a half-open byte range [Start, End) into the parsed source.
type Span struct {
	Start int
	End   int
}

// NoSpan marks nodes that were synthesized rather than parsed.
var NoSpan = Span{Start: -1, End: -1}

func (s Span) Valid() bool { return s.Start >= 0 && s.End >= s.Start }

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Valid() && o.Valid() && o.Start >= s.Start && o.End <= s.End
}

// Source ties a node to the text it was parsed from.
//
// Raw is the verbatim text of the node and is cleared whenever the node is
// rebuilt, so an empty Raw means the printer has to render the node from its
// structure. Leading is whatever sat between the previous sibling and the node
// (whitespace, comments, blank lines) and survives rebuilds.
type Source struct {
	Span    Span
	Leading string
	Raw     string
}

func (s Source) Origin() Source { return s }

// Synthesized reports whether the node has no parsed origin at all.
func (s Source) Synthesized() bool { return !s.Span.Valid() }

// Clean reports whether the node can be printed verbatim.
func (s Source) Clean() bool { return s.Raw != "" }

func synthesized() Source { return Source{Span: NoSpan} }

// Node is anything that lives in a Tree.
type Node interface {
	Origin() Source
}

// Member is a declaration directly inside a type body.
type Member interface {
	Node
	member()
}

// Statement is a statement inside a constructor body.
type Statement interface {
	Node
	statement()
}

const (
	KwPublic    = "public"
	KwPrivate   = "private"
	KwProtected = "protected"
	KwInternal  = "internal"
	KwStatic    = "static"
	KwReadonly  = "readonly"
	KwAbstract  = "abstract"
)

// Modifiers is the ordered modifier keyword list of a declaration.
type Modifiers []string

func (m Modifiers) Has(kw string) bool { return slices.Contains(m, kw) }

func (m Modifiers) String() string { return strings.Join(m, " ") }

// TypeRef is a type as written in source.
type TypeRef struct {
	Text string
	Span Span
}

// Simple strips namespace qualification, generic arguments, nullable and
// array suffixes: "global::Acme.Data.IRepository<Order>?" becomes "IRepository".
func (t TypeRef) Simple() string {
	s := strings.TrimSpace(t.Text)
	s = strings.TrimPrefix(s, "global::")
	if i := strings.IndexAny(s, "<["); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "?* ")
	if i := strings.LastIndexAny(s, ".:"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

func (t TypeRef) String() string { return t.Text }

// SeparatedList holds list items interleaved with separator tokens. A well
// formed list has exactly len(Items)-1 separators.
type SeparatedList[T any] struct {
	Items      []T
	Separators []string
}

func (l SeparatedList[T]) Len() int { return len(l.Items) }

// HasTrailingSeparator reports whether the list ends with a dangling separator.
func (l SeparatedList[T]) HasTrailingSeparator() bool {
	return len(l.Items) > 0 && len(l.Separators) >= len(l.Items)
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

// Variable is one declarator of a field declaration.
type Variable struct {
	Name        string
	Initializer string
}

type FieldDecl struct {
	Source
	Modifiers Modifiers
	Type      TypeRef
	Variables []Variable
	Formatted bool
}

func (*FieldDecl) member() {}

// NewField builds a single-variable field declaration.
func NewField(mods Modifiers, typ TypeRef, name string) *FieldDecl {
	return &FieldDecl{
		Source:    synthesized(),
		Modifiers: mods,
		Type:      TypeRef{Text: typ.Text, Span: NoSpan},
		Variables: []Variable{{Name: name}},
	}
}

// Name returns the first declared variable. Declarations with several
// variables are only ever reasoned about through their first one.
func (f *FieldDecl) Name() string {
	if f == nil || len(f.Variables) == 0 {
		return ""
	}
	return f.Variables[0].Name
}

// WithFormatted requests whitespace normalization by the printer.
func (f *FieldDecl) WithFormatted() *FieldDecl {
	c := *f
	c.Formatted = true
	return &c
}

// Accessor is a single get/set/init accessor of a property.
type Accessor struct {
	Keyword   string
	Modifiers Modifiers
	HasBody   bool
}

type PropertyDecl struct {
	Source
	Modifiers        Modifiers
	Type             TypeRef
	Name             string
	Accessors        []Accessor
	Initializer      string
	ExpressionBodied bool
	Locals           []string
}

func (*PropertyDecl) member() {}

// Parameter is a constructor parameter.
type Parameter struct {
	Source
	Modifiers Modifiers
	Type      TypeRef
	Name      string
	Default   string
}

func NewParameter(typ TypeRef, name string) *Parameter {
	return &Parameter{
		Source: synthesized(),
		Type:   TypeRef{Text: typ.Text, Span: NoSpan},
		Name:   name,
	}
}

// CtorInitializer is the ": base(...)" or ": this(...)" chain call.
type CtorInitializer struct {
	Keyword string
	Args    SeparatedList[string]
}

type ConstructorDecl struct {
	Source
	Modifiers   Modifiers
	Name        string
	Params      SeparatedList[*Parameter]
	ParamSpan   Span
	Initializer *CtorInitializer
	Body        *Block
	// Signature is the verbatim text from the start of the declaration up to
	// the opening brace of the body. Empty for synthesized constructors.
	Signature string
	Locals    []string
}

func (*ConstructorDecl) member() {}

func NewConstructor(name string, mods Modifiers) *ConstructorDecl {
	return &ConstructorDecl{
		Source:    synthesized(),
		Modifiers: mods,
		Name:      name,
		ParamSpan: NoSpan,
	}
}

func (c *ConstructorDecl) WithParams(params SeparatedList[*Parameter]) *ConstructorDecl {
	n := *c
	n.Raw = ""
	n.Params = params
	n.Signature = ""
	return &n
}

func (c *ConstructorDecl) WithInitializer(init *CtorInitializer) *ConstructorDecl {
	n := *c
	n.Raw = ""
	n.Initializer = init
	n.Signature = ""
	return &n
}

func (c *ConstructorDecl) WithBody(b *Block) *ConstructorDecl {
	n := *c
	n.Raw = ""
	n.Body = b
	return &n
}

// Static reports whether this is a static (type) constructor.
func (c *ConstructorDecl) Static() bool { return c.Modifiers.Has(KwStatic) }

// RawMember is any member the engine does not reason about: methods, events,
// indexers, operators, enums. It is always printed verbatim.
type RawMember struct {
	Source
	Kind   string
	Locals []string
}

func (*RawMember) member() {}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

type Block struct {
	Source
	Statements []Statement
	// Close is the verbatim text after the last statement, closing brace
	// included. Empty for synthesized blocks.
	Close string
}

func NewBlock(stmts ...Statement) *Block {
	return &Block{Source: synthesized(), Statements: stmts}
}

// Append returns a copy of b with stmts added after its last statement.
func (b *Block) Append(stmts ...Statement) *Block {
	n := *b
	n.Raw = ""
	n.Statements = append(slices.Clip(b.Statements), stmts...)
	return &n
}

type RawStatement struct {
	Source
	Locals []string
}

func (*RawStatement) statement() {}

// AssignStatement is "Target = Value;" or "this.Target = Value;".
type AssignStatement struct {
	Source
	This   bool
	Target string
	Value  string
}

func (*AssignStatement) statement() {}

func NewAssign(this bool, target, value string) *AssignStatement {
	return &AssignStatement{Source: synthesized(), This: this, Target: target, Value: value}
}

// GuardStatement throws when the named parameter is null.
type GuardStatement struct {
	Source
	Name string
}

func (*GuardStatement) statement() {}

func NewGuard(name string) *GuardStatement {
	return &GuardStatement{Source: synthesized(), Name: name}
}

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindStruct
	KindRecord
	KindEnum
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindStruct:
		return "struct"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// TypeDecl is a class-like declaration. Only types with a body can grow members.
type TypeDecl struct {
	Source
	Kind      TypeKind
	Modifiers Modifiers
	Name      string
	BaseList  []TypeRef
	// PrimaryParams are the parameters of a primary constructor, as declared
	// by records and classes in the type header. Nil when there is none.
	PrimaryParams []*Parameter
	Members       []Member
	// Header is the verbatim text up to and including the opening brace of
	// the body; Tail is everything after the last member, closing brace included.
	Header string
	Tail   string
	// Indent is the whitespace preceding the declaration on its line.
	Indent    string
	HasBody   bool
	Formatted bool
}

func (*TypeDecl) member() {}

// IsClass reports whether constructors and fields can be synthesized into t.
func (t *TypeDecl) IsClass() bool {
	return t != nil && t.HasBody && (t.Kind == KindClass || t.Kind == KindRecord)
}

func (t *TypeDecl) withMembers(members []Member) *TypeDecl {
	n := *t
	n.Raw = ""
	n.Members = members
	return &n
}

// AddMembers appends members after the existing ones.
func (t *TypeDecl) AddMembers(members ...Member) *TypeDecl {
	return t.withMembers(append(slices.Clip(t.Members), members...))
}

// InsertMember inserts m at index i.
func (t *TypeDecl) InsertMember(i int, m Member) *TypeDecl {
	return t.withMembers(slices.Insert(slices.Clone(t.Members), i, m))
}

// ReplaceMember swaps old for m. It reports false when old is not a direct member.
func (t *TypeDecl) ReplaceMember(old, m Member) (*TypeDecl, bool) {
	i := slices.IndexFunc(t.Members, func(x Member) bool { return x == old })
	if i < 0 {
		return t, false
	}
	members := slices.Clone(t.Members)
	members[i] = m
	return t.withMembers(members), true
}

// WithFormatted requests whitespace normalization by the printer.
func (t *TypeDecl) WithFormatted() *TypeDecl {
	n := *t
	n.Formatted = true
	return &n
}

// Constructors returns the instance constructors declared directly in t.
func (t *TypeDecl) Constructors() []*ConstructorDecl {
	var out []*ConstructorDecl
	for _, m := range t.Members {
		if c, ok := m.(*ConstructorDecl); ok && !c.Static() {
			out = append(out, c)
		}
	}
	return out
}
