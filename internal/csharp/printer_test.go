package csharp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

func TestPrintUnchangedIsVerbatim(t *testing.T) {
	for _, src := range []string{
		sample,
		"",
		"// only a comment\n",
		"class A{}class B{}",
		"namespace N;\r\n\r\npublic class Worker\r\n{\r\n\tprivate readonly ILogger logger;\r\n}\r\n",
	} {
		assert.Equal(t, src, Print(parse(t, src)))
	}
}

func TestPrintSynthesizedMembers(t *testing.T) {
	tree := parse(t, "class Worker\n{\n}\n")
	worker := tree.Types()[0]

	p1 := syntax.NewParameter(syntax.TypeRef{Text: "ILogger"}, "logger")
	p2 := syntax.NewParameter(syntax.TypeRef{Text: "IClock"}, "clock")
	ctor := syntax.NewConstructor("Worker", syntax.Modifiers{"public"}).
		WithParams(syntax.SeparatedList[*syntax.Parameter]{Items: []*syntax.Parameter{p1, p2}, Separators: []string{","}}).
		WithInitializer(&syntax.CtorInitializer{Keyword: "base", Args: syntax.SeparatedList[string]{Items: []string{"clock"}}}).
		WithBody(syntax.NewBlock(
			syntax.NewGuard("logger"),
			syntax.NewAssign(true, "logger", "logger"),
		))
	field := syntax.NewField(syntax.Modifiers{"private", "readonly"}, syntax.TypeRef{Text: "IClock"}, "_clock")

	updated, ok := syntax.Replace(tree, worker, worker.AddMembers(field, ctor))
	require.True(t, ok)

	const want = `class Worker
{
    private readonly IClock _clock;

    public Worker(ILogger logger, IClock clock)
        : base(clock)
    {
        if (logger == null)
            throw new ArgumentNullException("logger");
        this.logger = logger;
    }
}
`
	if diff := cmp.Diff(want, Print(updated)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	guard := syntax.NewConstructor("Worker", nil).WithBody(syntax.NewBlock(syntax.NewGuard("@event")))
	updated, ok = syntax.Replace(tree, worker, worker.AddMembers(guard))
	require.True(t, ok)
	out := Print(updated)
	assert.Contains(t, out, `if (@event == null)`)
	assert.Contains(t, out, `throw new ArgumentNullException("event");`)
}

func TestPrintRebuiltTypeKeepsTrivia(t *testing.T) {
	const src = `class Worker
{
	// the logger
	private readonly ILogger logger;   // trailing

	void Run() { }
}
`
	tree := parse(t, src)
	worker := tree.Types()[0]
	ctor := syntax.NewConstructor("Worker", syntax.Modifiers{"public"}).WithBody(syntax.NewBlock(syntax.NewAssign(true, "logger", "logger")))
	updated, ok := syntax.Replace(tree, worker, worker.AddMembers(ctor))
	require.True(t, ok)

	const want = `class Worker
{
	// the logger
	private readonly ILogger logger;   // trailing

	void Run() { }

	public Worker()
	{
		this.logger = logger;
	}
}
`
	if diff := cmp.Diff(want, Print(updated)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintFormattedMovesClosingBrace(t *testing.T) {
	const src = "class Worker\n{\n    Worker(ILogger logger) { }\n}\n"
	tree := parse(t, src)
	worker := tree.Types()[0]
	ctor := worker.Members[0].(*syntax.ConstructorDecl)

	edited := ctor.WithBody(ctor.Body.Append(syntax.NewAssign(false, "_logger", "logger")))
	updated, ok := worker.ReplaceMember(ctor, edited)
	require.True(t, ok)
	field := syntax.NewField(syntax.Modifiers{"private", "readonly"}, syntax.TypeRef{Text: "ILogger"}, "_logger").WithFormatted()
	updated = updated.InsertMember(0, field).WithFormatted()

	out, ok := syntax.Replace(tree, worker, updated)
	require.True(t, ok)

	const want = "class Worker\n{\n    private readonly ILogger _logger;\n\n    Worker(ILogger logger) {\n        _logger = logger;\n    }\n}\n"
	if diff := cmp.Diff(want, Print(out)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintOnlyTouchesEditedType(t *testing.T) {
	const src = "class A\n{\n  readonly  ILogger   a ;\n}\n\nclass B\n{\n    readonly ILogger b;\n}\n"
	tree := parse(t, src)
	b := tree.Types()[1]
	updated, ok := syntax.Replace(tree, b, b.AddMembers(syntax.NewConstructor("B", nil).WithBody(syntax.NewBlock())))
	require.True(t, ok)

	out := Print(updated)
	assert.True(t, strings.HasPrefix(out, "class A\n{\n  readonly  ILogger   a ;\n}\n\nclass B\n{\n    readonly ILogger b;\n\n    B()\n    {\n    }\n}\n"), out)
}
