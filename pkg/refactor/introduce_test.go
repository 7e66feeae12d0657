package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

func introduceFixture() (*syntax.TypeDecl, *syntax.ConstructorDecl, *syntax.Parameter) {
	param := &syntax.Parameter{
		Source: syntax.Source{Span: syntax.Span{Start: 20, End: 34}, Raw: "ILogger logger"},
		Type:   syntax.TypeRef{Text: "ILogger<Worker>"},
		Name:   "logger",
	}
	existing := &syntax.RawStatement{Source: syntax.Source{Span: syntax.Span{Start: 40, End: 50}, Leading: "\n        ", Raw: "Init();"}}
	ctor := &syntax.ConstructorDecl{
		Source:    syntax.Source{Span: syntax.Span{Start: 10, End: 60}, Raw: "public Worker(ILogger logger) { Init(); }"},
		Modifiers: mods("public"),
		Name:      "Worker",
		Params:    syntax.SeparatedList[*syntax.Parameter]{Items: []*syntax.Parameter{param}},
		ParamSpan: syntax.Span{Start: 19, End: 35},
		Body: &syntax.Block{
			Source:     syntax.Source{Span: syntax.Span{Start: 36, End: 60}, Raw: "{ Init(); }"},
			Statements: []syntax.Statement{existing},
			Close:      "\n    }",
		},
		Signature: "public Worker(ILogger logger)\n    ",
	}
	method := &syntax.RawMember{Source: syntax.Source{Span: syntax.Span{Start: 61, End: 70}, Raw: "void Init() {}"}}
	return classDecl("Worker", ctor, method), ctor, param
}

func TestIntroduceField(t *testing.T) {
	tests := []struct {
		name   string
		style  FieldStyle
		field  string
		assign string
		label  string
	}{
		{
			name:   "underscore",
			style:  UnderscoreStyle,
			field:  "_logger",
			assign: "_logger = logger",
			label:  "Introduce and initialize field '_logger'",
		},
		{
			name:   "this",
			style:  ThisStyle,
			field:  "logger",
			assign: "this.logger = logger",
			label:  "Introduce and initialize field 'this.logger'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, ctor, param := introduceFixture()
			require.True(t, CanIntroduceField(owner, ctor, param))
			assert.Equal(t, tt.label, tt.style.Label(param.Name))

			got := IntroduceField(owner, ctor, param, tt.style)

			require.Len(t, got.Members, 3)
			assert.True(t, got.Formatted)

			f, ok := got.Members[0].(*syntax.FieldDecl)
			require.True(t, ok, "first member is the new field")
			assert.Equal(t, syntax.Modifiers{"private", "readonly"}, f.Modifiers)
			assert.Equal(t, "ILogger<Worker>", f.Type.Text)
			assert.Equal(t, tt.field, f.Name())
			assert.True(t, f.Formatted)
			assert.True(t, IsCandidateField(f))

			c, ok := got.Members[1].(*syntax.ConstructorDecl)
			require.True(t, ok)
			assert.Equal(t, []string{"Init();", tt.assign}, render(c.Body.Statements))
			assert.Equal(t, ctor.Signature, c.Signature, "signature of the edited constructor is kept")
			assert.Same(t, param, c.Params.Items[0])
			assert.Same(t, owner.Members[1], got.Members[2], "other members are shared")

			assert.Len(t, ctor.Body.Statements, 1, "input constructor is untouched")
		})
	}
}

func TestCanIntroduceField(t *testing.T) {
	owner, ctor, param := introduceFixture()

	iface := *owner
	iface.Kind = syntax.KindInterface
	assert.False(t, CanIntroduceField(&iface, ctor, param))

	strct := *owner
	strct.Kind = syntax.KindStruct
	assert.False(t, CanIntroduceField(&strct, ctor, param))

	noBody := *ctor
	noBody.Body = nil
	assert.False(t, CanIntroduceField(owner, &noBody, param))

	assert.False(t, CanIntroduceField(owner, ctor, &syntax.Parameter{Name: "@"}))
	assert.False(t, CanIntroduceField(nil, ctor, param))
}

func TestFieldStyleName(t *testing.T) {
	assert.Equal(t, "_event", UnderscoreStyle.FieldName("@event"))
	assert.Equal(t, "@event", ThisStyle.FieldName("@event"))
	assert.Equal(t, "_logger", UnderscoreStyle.FieldName("logger"))
}
