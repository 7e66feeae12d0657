package csharp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// DefaultMaxFileSize is the largest source file Parse accepts by default.
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrInvalidContent = errors.New("invalid content")
)

var typeKinds = map[string]syntax.TypeKind{
	"class_declaration":         syntax.KindClass,
	"interface_declaration":     syntax.KindInterface,
	"struct_declaration":        syntax.KindStruct,
	"record_declaration":        syntax.KindRecord,
	"record_struct_declaration": syntax.KindStruct,
	"enum_declaration":          syntax.KindEnum,
}

var modifierKeywords = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "readonly": true, "const": true, "abstract": true,
	"sealed": true, "virtual": true, "override": true, "new": true,
	"partial": true, "async": true, "extern": true, "volatile": true,
	"unsafe": true, "required": true, "file": true,
	"ref": true, "out": true, "in": true, "params": true, "this": true,
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize sets the maximum file size the parser will accept.
func WithMaxFileSize(bytes int64) Option {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// Parser turns C# source into a syntax.Tree using the tree-sitter C# grammar.
// It is safe for concurrent use; every Parse call gets its own tree-sitter parser.
type Parser struct {
	maxFileSize int64
	log         *slog.Logger
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxFileSize: DefaultMaxFileSize,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the syntax tree of content. Source with syntax errors still
// parses; the damaged regions end up as verbatim members.
func (p *Parser) Parse(ctx context.Context, content []byte, path string) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: tree-sitter returned no root node", ErrInvalidContent)
	}
	if root.HasError() {
		p.log.Warn("source contains syntax errors", slog.String("file", path))
	}

	b := &builder{src: content}
	b.unit(root)
	return syntax.NewTree(path, string(content), b.types, b.locals), nil
}

// builder converts tree-sitter nodes into syntax nodes.
type builder struct {
	src    []byte
	types  []*syntax.TypeDecl
	locals []string
}

func (b *builder) text(n *sitter.Node) string { return n.Content(b.src) }

func (b *builder) span(n *sitter.Node) syntax.Span {
	return syntax.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (b *builder) source(n *sitter.Node, leading string) syntax.Source {
	return syntax.Source{Span: b.span(n), Leading: leading, Raw: b.text(n)}
}

func (b *builder) between(from, to uint32) string { return string(b.src[from:to]) }

// unit collects top-level types from a compilation unit or namespace body.
func (b *builder) unit(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "namespace_declaration":
			if body := bodyOf(c); body != nil {
				b.unit(body)
			}
		case "file_scoped_namespace_declaration", "declaration_list":
			b.unit(c)
		case "global_statement":
			b.locals = append(b.locals, b.declarators(c)...)
		default:
			if kind, ok := typeKinds[c.Type()]; ok {
				b.types = append(b.types, b.typeDecl(c, kind, ""))
			}
		}
	}
}

func (b *builder) typeDecl(n *sitter.Node, kind syntax.TypeKind, leading string) *syntax.TypeDecl {
	td := &syntax.TypeDecl{
		Source:    b.source(n, leading),
		Kind:      kind,
		Modifiers: b.modifiers(n),
		Indent:    b.indentOf(n),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		td.Name = b.text(name)
	}
	if bl := childOfType(n, "base_list"); bl != nil {
		td.BaseList = b.baseList(bl)
	}
	pl := n.ChildByFieldName("parameters")
	if pl == nil {
		pl = childOfType(n, "parameter_list")
	}
	if pl != nil {
		td.PrimaryParams = b.parameters(pl).Items
	}

	body := bodyOf(n)
	if body == nil || body.Type() != "declaration_list" {
		td.Header = td.Raw
		return td
	}
	td.HasBody = true
	td.Header = b.between(n.StartByte(), body.StartByte()+1)

	prev := body.StartByte() + 1
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		td.Members = append(td.Members, b.member(c, b.between(prev, c.StartByte())))
		prev = c.EndByte()
	}
	td.Tail = b.between(prev, n.EndByte())
	return td
}

func (b *builder) baseList(n *sitter.Node) []syntax.TypeRef {
	var out []syntax.TypeRef
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment", "argument_list":
			continue
		case "primary_constructor_base_type":
			if t := c.NamedChild(0); t != nil {
				out = append(out, syntax.TypeRef{Text: b.text(t), Span: b.span(t)})
			}
			continue
		}
		out = append(out, syntax.TypeRef{Text: b.text(c), Span: b.span(c)})
	}
	return out
}

func (b *builder) member(n *sitter.Node, leading string) syntax.Member {
	switch n.Type() {
	case "field_declaration":
		return b.field(n, leading)
	case "property_declaration":
		return b.property(n, leading)
	case "constructor_declaration":
		return b.constructor(n, leading)
	}
	if kind, ok := typeKinds[n.Type()]; ok {
		return b.typeDecl(n, kind, leading)
	}
	return &syntax.RawMember{
		Source: b.source(n, leading),
		Kind:   n.Type(),
		Locals: b.declarators(n),
	}
}

func (b *builder) field(n *sitter.Node, leading string) *syntax.FieldDecl {
	f := &syntax.FieldDecl{
		Source:    b.source(n, leading),
		Modifiers: b.modifiers(n),
	}
	vd := childOfType(n, "variable_declaration")
	if vd == nil {
		return f
	}
	if t := vd.ChildByFieldName("type"); t != nil {
		f.Type = b.typeRef(t)
	}
	for i := 0; i < int(vd.NamedChildCount()); i++ {
		c := vd.NamedChild(i)
		if c.Type() != "variable_declarator" {
			if f.Type.Text == "" && c.Type() != "comment" {
				f.Type = b.typeRef(c)
			}
			continue
		}
		f.Variables = append(f.Variables, syntax.Variable{
			Name:        b.identifier(c),
			Initializer: b.afterEquals(c),
		})
	}
	return f
}

func (b *builder) property(n *sitter.Node, leading string) *syntax.PropertyDecl {
	p := &syntax.PropertyDecl{
		Source:    b.source(n, leading),
		Modifiers: b.modifiers(n),
		Locals:    b.declarators(n),
	}
	if t := n.ChildByFieldName("type"); t != nil {
		p.Type = b.typeRef(t)
	}
	if name := n.ChildByFieldName("name"); name != nil {
		p.Name = b.text(name)
	}
	acc := n.ChildByFieldName("accessors")
	if acc == nil {
		acc = childOfType(n, "accessor_list")
	}
	if acc != nil {
		for i := 0; i < int(acc.NamedChildCount()); i++ {
			if a := acc.NamedChild(i); a.Type() == "accessor_declaration" {
				p.Accessors = append(p.Accessors, b.accessor(a))
			}
		}
	}
	p.ExpressionBodied = childOfType(n, "arrow_expression_clause") != nil
	p.Initializer = b.afterEquals(n)
	return p
}

func (b *builder) accessor(n *sitter.Node) syntax.Accessor {
	a := syntax.Accessor{Modifiers: b.modifiers(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "get", "set", "init", "add", "remove":
			if !c.IsNamed() {
				a.Keyword = c.Type()
			}
		case "block", "arrow_expression_clause":
			a.HasBody = true
		}
	}
	if a.Keyword == "" {
		if name := n.ChildByFieldName("name"); name != nil {
			a.Keyword = b.text(name)
		}
	}
	return a
}

func (b *builder) constructor(n *sitter.Node, leading string) *syntax.ConstructorDecl {
	c := &syntax.ConstructorDecl{
		Source:    b.source(n, leading),
		Modifiers: b.modifiers(n),
		ParamSpan: syntax.NoSpan,
	}
	if name := n.ChildByFieldName("name"); name != nil {
		c.Name = b.text(name)
	}
	params := n.ChildByFieldName("parameters")
	if params == nil {
		params = childOfType(n, "parameter_list")
	}
	if params != nil {
		c.ParamSpan = b.span(params)
		c.Params = b.parameters(params)
	}
	if init := childOfType(n, "constructor_initializer"); init != nil {
		c.Initializer = b.ctorInitializer(init)
		c.Locals = b.declarators(init)
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		body = childOfType(n, "block")
	}
	if body != nil && body.Type() == "block" {
		c.Signature = b.between(n.StartByte(), body.StartByte())
		c.Body = b.block(body)
	}
	return c
}

func (b *builder) parameters(n *sitter.Node) syntax.SeparatedList[*syntax.Parameter] {
	var list syntax.SeparatedList[*syntax.Parameter]
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "parameter":
			list.Items = append(list.Items, b.parameter(c))
		case ",":
			list.Separators = append(list.Separators, ",")
		}
	}
	return list
}

func (b *builder) parameter(n *sitter.Node) *syntax.Parameter {
	p := &syntax.Parameter{
		Source:    b.source(n, ""),
		Modifiers: b.modifiers(n),
		Default:   b.afterEquals(n),
	}
	if t := n.ChildByFieldName("type"); t != nil {
		p.Type = b.typeRef(t)
	}
	p.Name = b.identifier(n)
	return p
}

func (b *builder) ctorInitializer(n *sitter.Node) *syntax.CtorInitializer {
	init := &syntax.CtorInitializer{}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "base", "this":
			init.Keyword = c.Type()
		case "argument_list":
			for j := 0; j < int(c.ChildCount()); j++ {
				a := c.Child(j)
				switch a.Type() {
				case "argument":
					init.Args.Items = append(init.Args.Items, b.text(a))
				case ",":
					init.Args.Separators = append(init.Args.Separators, ",")
				}
			}
		}
	}
	return init
}

func (b *builder) block(n *sitter.Node) *syntax.Block {
	blk := &syntax.Block{Source: b.source(n, "")}
	prev := n.StartByte() + 1
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		blk.Statements = append(blk.Statements, &syntax.RawStatement{
			Source: b.source(c, b.between(prev, c.StartByte())),
			Locals: b.declarators(c),
		})
		prev = c.EndByte()
	}
	blk.Close = b.between(prev, n.EndByte())
	return blk
}

// modifiers returns the modifier keywords that are direct children of n.
func (b *builder) modifiers(n *sitter.Node) syntax.Modifiers {
	var mods syntax.Modifiers
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "modifier" || c.Type() == "parameter_modifier":
			mods = append(mods, strings.TrimSpace(b.text(c)))
		case !c.IsNamed() && modifierKeywords[c.Type()]:
			mods = append(mods, c.Type())
		}
	}
	return mods
}

func (b *builder) typeRef(n *sitter.Node) syntax.TypeRef {
	return syntax.TypeRef{Text: b.text(n), Span: b.span(n)}
}

// identifier returns the declared name of a declarator or parameter.
func (b *builder) identifier(n *sitter.Node) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return b.text(name)
	}
	var last string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "identifier" {
			last = b.text(c)
			if n.Type() == "variable_declarator" {
				break
			}
		}
	}
	return last
}

// afterEquals returns the initializer expression following a direct "="
// child of n, if any.
func (b *builder) afterEquals(n *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "equals_value_clause":
			return strings.TrimSpace(strings.TrimPrefix(b.text(c), "="))
		case "=":
			rest := strings.TrimSpace(b.between(c.EndByte(), n.EndByte()))
			return strings.TrimSpace(strings.TrimSuffix(rest, ";"))
		}
	}
	return ""
}

// declarators collects the names of every variable declarator below n.
func (b *builder) declarators(n *sitter.Node) []string {
	var out []string
	var walk func(*sitter.Node)
	walk = func(x *sitter.Node) {
		if x.Type() == "variable_declarator" {
			if id := b.identifier(x); id != "" {
				out = append(out, id)
			}
		}
		for i := 0; i < int(x.NamedChildCount()); i++ {
			walk(x.NamedChild(i))
		}
	}
	walk(n)
	return out
}

// indentOf returns the whitespace between the start of n's line and n.
func (b *builder) indentOf(n *sitter.Node) string {
	start := int(n.StartByte())
	lineStart := strings.LastIndexByte(string(b.src[:start]), '\n') + 1
	ws := string(b.src[lineStart:start])
	if strings.TrimSpace(ws) != "" {
		return ""
	}
	return ws
}

func bodyOf(n *sitter.Node) *sitter.Node {
	if body := n.ChildByFieldName("body"); body != nil {
		return body
	}
	return childOfType(n, "declaration_list")
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}
