package refactor

import (
	"fmt"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// FieldStyle is the naming convention of an introduced field.
type FieldStyle int

const (
	// UnderscoreStyle names the field _param and assigns "_param = param;".
	UnderscoreStyle FieldStyle = iota
	// ThisStyle reuses the parameter name and assigns "this.param = param;".
	ThisStyle
)

// FieldName is the identifier the style gives the field backing param.
func (s FieldStyle) FieldName(param string) string {
	if s == UnderscoreStyle {
		return "_" + bareName(param)
	}
	return param
}

// Label is the action title offered for param.
func (s FieldStyle) Label(param string) string {
	if s == UnderscoreStyle {
		return fmt.Sprintf("Introduce and initialize field '%s'", s.FieldName(param))
	}
	return fmt.Sprintf("Introduce and initialize field 'this.%s'", param)
}

// CanIntroduceField reports whether a field can be introduced for param of
// ctor inside owner at all, regardless of naming collisions.
func CanIntroduceField(owner *syntax.TypeDecl, ctor *syntax.ConstructorDecl, param *syntax.Parameter) bool {
	return owner.IsClass() && ctor != nil && ctor.Body != nil && param != nil && bareName(param.Name) != ""
}

// IntroduceField returns owner with a private read-only field backing param
// inserted as its first member and an initializing assignment appended to the
// body of ctor. The new field and the type are marked for formatting.
func IntroduceField(owner *syntax.TypeDecl, ctor *syntax.ConstructorDecl, param *syntax.Parameter, style FieldStyle) *syntax.TypeDecl {
	name := style.FieldName(param.Name)
	assign := syntax.NewAssign(style == ThisStyle, name, param.Name)

	updated, _ := owner.ReplaceMember(ctor, ctor.WithBody(ctor.Body.Append(assign)))

	field := syntax.NewField(
		syntax.Modifiers{syntax.KwPrivate, syntax.KwReadonly},
		param.Type,
		name,
	).WithFormatted()

	return updated.InsertMember(0, field).WithFormatted()
}
