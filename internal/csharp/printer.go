package csharp

import (
	"strings"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

const defaultIndentUnit = "    "

// Print renders tree as C# source. Types that were not rebuilt since parsing
// are copied verbatim, as is all text between them.
func Print(tree *syntax.Tree) string {
	src := tree.Source()
	var sb strings.Builder
	prev := 0
	for i, td := range tree.Types() {
		slot := tree.Slot(i)
		sb.WriteString(src[prev:slot.Start])
		p := printer{sb: &sb}
		p.typeDecl(td)
		prev = slot.End
	}
	sb.WriteString(src[prev:])
	return sb.String()
}

type printer struct {
	sb *strings.Builder
}

func (p *printer) write(parts ...string) {
	for _, s := range parts {
		p.sb.WriteString(s)
	}
}

func (p *printer) typeDecl(td *syntax.TypeDecl) {
	if td.Clean() {
		p.write(td.Raw)
		return
	}

	header := td.Header
	if header == "" {
		header = synthesizedHeader(td)
	}
	p.write(header)

	indent := memberIndent(td)
	unit := indentUnit(td.Indent, indent)
	afterFormatted := false
	for i, m := range td.Members {
		leading := m.Origin().Leading
		switch {
		case m.Origin().Synthesized():
			leading = "\n" + indent
			if i > 0 && !formatted(m) {
				leading = "\n" + leading
			}
		case afterFormatted && strings.HasPrefix(leading, "\n") && !strings.Contains(leading, "\n\n"):
			leading = "\n" + leading
		}
		p.write(leading)
		p.member(m, indent, unit, td.Formatted)
		afterFormatted = m.Origin().Synthesized() && formatted(m)
	}

	tail := td.Tail
	if tail == "" {
		tail = "\n" + td.Indent + "}"
	}
	p.write(tail)
}

func (p *printer) member(m syntax.Member, indent, unit string, formatted bool) {
	if m.Origin().Clean() {
		p.write(m.Origin().Raw)
		return
	}
	switch x := m.(type) {
	case *syntax.TypeDecl:
		p.typeDecl(x)
	case *syntax.FieldDecl:
		p.field(x)
	case *syntax.PropertyDecl:
		p.property(x)
	case *syntax.ConstructorDecl:
		p.constructor(x, indent, unit, formatted)
	}
}

func (p *printer) field(f *syntax.FieldDecl) {
	p.modifiers(f.Modifiers)
	p.write(f.Type.Text, " ")
	for i, v := range f.Variables {
		if i > 0 {
			p.write(", ")
		}
		p.write(v.Name)
		if v.Initializer != "" {
			p.write(" = ", v.Initializer)
		}
	}
	p.write(";")
}

func (p *printer) property(x *syntax.PropertyDecl) {
	p.modifiers(x.Modifiers)
	p.write(x.Type.Text, " ", x.Name, " {")
	for _, a := range x.Accessors {
		p.write(" ")
		p.modifiers(a.Modifiers)
		p.write(a.Keyword, ";")
	}
	p.write(" }")
	if x.Initializer != "" {
		p.write(" = ", x.Initializer, ";")
	}
}

func (p *printer) constructor(c *syntax.ConstructorDecl, indent, unit string, formatted bool) {
	if c.Signature != "" {
		p.write(c.Signature)
	} else {
		p.modifiers(c.Modifiers)
		p.write(c.Name, "(")
		for i, param := range c.Params.Items {
			p.parameter(param)
			if i < len(c.Params.Separators) {
				p.write(c.Params.Separators[i], " ")
			}
		}
		p.write(")")
		if init := c.Initializer; init != nil {
			p.write("\n", indent, unit, ": ", init.Keyword, "(")
			for i, arg := range init.Args.Items {
				p.write(arg)
				if i < len(init.Args.Separators) {
					p.write(init.Args.Separators[i], " ")
				}
			}
			p.write(")")
		}
		p.write("\n", indent)
	}
	if c.Body == nil {
		p.write(";")
		return
	}
	p.block(c.Body, indent, unit, formatted)
}

func (p *printer) parameter(x *syntax.Parameter) {
	if x.Clean() {
		p.write(x.Raw)
		return
	}
	p.modifiers(x.Modifiers)
	p.write(x.Type.Text, " ", x.Name)
	if x.Default != "" {
		p.write(" = ", x.Default)
	}
}

func (p *printer) block(b *syntax.Block, indent, unit string, formatted bool) {
	if b.Clean() {
		p.write(b.Raw)
		return
	}
	p.write("{")
	inner := statementIndent(b, indent+unit)
	for _, s := range b.Statements {
		leading := s.Origin().Leading
		if s.Origin().Synthesized() {
			leading = "\n" + inner
		}
		p.write(leading)
		p.statement(s, inner, unit)
	}
	closing := b.Close
	if closing == "" || (formatted && !strings.Contains(closing, "\n") && strings.TrimSpace(closing) == "}") {
		closing = "\n" + indent + "}"
	}
	p.write(closing)
}

func (p *printer) statement(s syntax.Statement, indent, unit string) {
	if s.Origin().Clean() {
		p.write(s.Origin().Raw)
		return
	}
	switch x := s.(type) {
	case *syntax.AssignStatement:
		if x.This {
			p.write("this.")
		}
		p.write(x.Target, " = ", x.Value, ";")
	case *syntax.GuardStatement:
		p.write("if (", x.Name, " == null)\n", indent, unit,
			`throw new ArgumentNullException("`, strings.TrimPrefix(x.Name, "@"), `");`)
	}
}

func (p *printer) modifiers(m syntax.Modifiers) {
	if len(m) > 0 {
		p.write(m.String(), " ")
	}
}

func synthesizedHeader(td *syntax.TypeDecl) string {
	var sb strings.Builder
	if len(td.Modifiers) > 0 {
		sb.WriteString(td.Modifiers.String() + " ")
	}
	sb.WriteString(td.Kind.String() + " " + td.Name)
	for i, b := range td.BaseList {
		if i == 0 {
			sb.WriteString(" : ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(b.Text)
	}
	sb.WriteString("\n" + td.Indent + "{")
	return sb.String()
}

func formatted(m syntax.Member) bool {
	switch x := m.(type) {
	case *syntax.FieldDecl:
		return x.Formatted
	case *syntax.TypeDecl:
		return x.Formatted
	}
	return false
}

// memberIndent takes the indentation of the first parsed member that starts
// on its own line, falling back to one unit deeper than the type itself.
func memberIndent(td *syntax.TypeDecl) string {
	for _, m := range td.Members {
		if m.Origin().Synthesized() {
			continue
		}
		if ws, ok := lastLineIndent(m.Origin().Leading); ok {
			return ws
		}
	}
	return td.Indent + unitOf(td.Indent)
}

func statementIndent(b *syntax.Block, fallback string) string {
	for _, s := range b.Statements {
		if s.Origin().Synthesized() {
			continue
		}
		if ws, ok := lastLineIndent(s.Origin().Leading); ok {
			return ws
		}
	}
	return fallback
}

// lastLineIndent returns the text after the final newline of leading when it
// is pure whitespace.
func lastLineIndent(leading string) (string, bool) {
	i := strings.LastIndexByte(leading, '\n')
	if i < 0 {
		return "", false
	}
	ws := leading[i+1:]
	if strings.TrimSpace(ws) != "" {
		return "", false
	}
	return ws, true
}

func indentUnit(outer, inner string) string {
	if len(inner) > len(outer) && strings.HasPrefix(inner, outer) {
		return inner[len(outer):]
	}
	return unitOf(outer)
}

func unitOf(indent string) string {
	if strings.Contains(indent, "\t") {
		return "\t"
	}
	return defaultIndentUnit
}
