package csharp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/ctorinject/pkg/syntax"
)

const sample = `using System;

namespace Acme.Workers
{
    // Processes the queue.
    public sealed class Worker : ServiceBase, IDisposable
    {
        private readonly ILogger<Worker> logger;
        private static readonly int limit = 10, spare;
        protected IClock Clock { get; }
        public IStore Store { get; private set; } = null;
        public int Count => 1;

        public Worker(ILogger<Worker> logger, IClock clock = null) : base(clock, 1)
        {
            var started = true;
            this.logger = logger;
        }

        static Worker() { }

        public void Run()
        {
            int ticks = 0;
        }

        private class Nested
        {
            readonly IClock inner;
        }
    }

    public interface IStore { void Save(); }

    internal struct Point { int x; }
}
`

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := NewParser().Parse(context.Background(), []byte(src), "Worker.cs")
	require.NoError(t, err)
	return tree
}

func TestParseDeclarations(t *testing.T) {
	tree := parse(t, sample)
	require.Len(t, tree.Types(), 3)

	worker, store, point := tree.Types()[0], tree.Types()[1], tree.Types()[2]
	assert.Equal(t, "Worker", worker.Name)
	assert.Equal(t, syntax.KindClass, worker.Kind)
	assert.Equal(t, syntax.Modifiers{"public", "sealed"}, worker.Modifiers)
	assert.Equal(t, []string{"ServiceBase", "IDisposable"}, []string{worker.BaseList[0].Text, worker.BaseList[1].Text})
	assert.Equal(t, "    ", worker.Indent)
	assert.True(t, worker.IsClass())
	assert.True(t, strings.HasSuffix(worker.Header, "{"))
	assert.True(t, strings.HasSuffix(worker.Tail, "}"))

	assert.Equal(t, syntax.KindInterface, store.Kind)
	assert.False(t, store.IsClass())
	assert.Equal(t, syntax.KindStruct, point.Kind)
	assert.False(t, point.IsClass())

	require.Len(t, worker.Members, 9)

	logger := worker.Members[0].(*syntax.FieldDecl)
	assert.Equal(t, syntax.Modifiers{"private", "readonly"}, logger.Modifiers)
	assert.Equal(t, "ILogger<Worker>", logger.Type.Text)
	assert.Equal(t, "logger", logger.Name())
	assert.Equal(t, "\n        ", logger.Leading)
	assert.Equal(t, "private readonly ILogger<Worker> logger;", logger.Raw)

	limit := worker.Members[1].(*syntax.FieldDecl)
	assert.Equal(t, []syntax.Variable{{Name: "limit", Initializer: "10"}, {Name: "spare"}}, limit.Variables)

	clock := worker.Members[2].(*syntax.PropertyDecl)
	assert.Equal(t, "Clock", clock.Name)
	assert.Equal(t, "IClock", clock.Type.Text)
	assert.Equal(t, []syntax.Accessor{{Keyword: "get"}}, clock.Accessors)
	assert.Empty(t, clock.Initializer)

	st := worker.Members[3].(*syntax.PropertyDecl)
	require.Len(t, st.Accessors, 2)
	assert.Equal(t, syntax.Modifiers{"private"}, st.Accessors[1].Modifiers)
	assert.Equal(t, "null", st.Initializer)

	count := worker.Members[4].(*syntax.PropertyDecl)
	assert.True(t, count.ExpressionBodied)

	ctor := worker.Members[5].(*syntax.ConstructorDecl)
	assert.Equal(t, "Worker", ctor.Name)
	require.Equal(t, 2, ctor.Params.Len())
	assert.Equal(t, []string{","}, ctor.Params.Separators)
	assert.Equal(t, "logger", ctor.Params.Items[0].Name)
	assert.Equal(t, "ILogger<Worker>", ctor.Params.Items[0].Type.Text)
	assert.Equal(t, "null", ctor.Params.Items[1].Default)
	assert.Equal(t, "ILogger<Worker> logger", ctor.Params.Items[0].Raw)
	assert.Equal(t, "(ILogger<Worker> logger, IClock clock = null)", sample[ctor.ParamSpan.Start:ctor.ParamSpan.End])
	require.NotNil(t, ctor.Initializer)
	assert.Equal(t, "base", ctor.Initializer.Keyword)
	assert.Equal(t, []string{"clock", "1"}, ctor.Initializer.Args.Items)
	require.NotNil(t, ctor.Body)
	assert.Len(t, ctor.Body.Statements, 2)
	assert.Equal(t, "\n        }", ctor.Body.Close)
	assert.True(t, strings.HasPrefix(ctor.Signature, "public Worker("))
	assert.True(t, strings.HasSuffix(ctor.Signature, "\n        "))

	static := worker.Members[6].(*syntax.ConstructorDecl)
	assert.True(t, static.Static())
	assert.Len(t, worker.Constructors(), 1)

	run := worker.Members[7].(*syntax.RawMember)
	assert.Equal(t, "method_declaration", run.Kind)
	assert.Equal(t, []string{"ticks"}, run.Locals)

	nested := worker.Members[8].(*syntax.TypeDecl)
	assert.Equal(t, "Nested", nested.Name)
	assert.Equal(t, "        ", nested.Indent)
	inner := nested.Members[0].(*syntax.FieldDecl)
	assert.Equal(t, syntax.Modifiers{"readonly"}, inner.Modifiers)

	for _, name := range []string{"logger", "limit", "spare", "started", "ticks", "inner", "x"} {
		assert.True(t, tree.DeclaresVariable(name), name)
	}
	for _, name := range []string{"clock", "_logger", "Clock"} {
		assert.False(t, tree.DeclaresVariable(name), name)
	}
}

func TestParseFindsParameter(t *testing.T) {
	tree := parse(t, sample)
	i := strings.Index(sample, "IClock clock = null")
	p, ctor, owner := tree.FindParameter(syntax.Span{Start: i, End: i + len("IClock clock")})
	require.NotNil(t, p)
	assert.Equal(t, "clock", p.Name)
	assert.Equal(t, "Worker", ctor.Name)
	assert.Equal(t, "Worker", owner.Name)
}

func TestParseFileScopedNamespaceAndTopLevelStatements(t *testing.T) {
	const src = `namespace Acme;

public class Worker
{
    private readonly ILogger logger;
}
`
	tree := parse(t, src)
	require.Len(t, tree.Types(), 1)
	assert.Equal(t, "Worker", tree.Types()[0].Name)
	assert.Equal(t, "", tree.Types()[0].Indent)

	const script = "var _logger = 1;\nConsole.WriteLine(_logger);\n\nclass Worker\n{\n    Worker(ILogger logger) { }\n}\n"
	tree = parse(t, script)
	assert.True(t, tree.DeclaresVariable("_logger"))
	require.Len(t, tree.Types(), 1)
}

func TestParseRejects(t *testing.T) {
	_, err := NewParser(WithMaxFileSize(8)).Parse(context.Background(), []byte("class Worker { }"), "big.cs")
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = NewParser().Parse(context.Background(), []byte{'c', 0xff, 0xfe}, "bad.cs")
	require.ErrorIs(t, err, ErrInvalidContent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewParser().Parse(ctx, []byte("class Worker { }"), "x.cs")
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseToleratesSyntaxErrors(t *testing.T) {
	const src = "class Worker\n{\n    private readonly ILogger logger;\n    void Broken( {\n}\n"
	tree := parse(t, src)
	assert.Equal(t, src, Print(tree))
}

func TestParsePrimaryConstructor(t *testing.T) {
	const src = "public abstract record ServiceBase(IClock Clock, ILogger Logger);\n\npublic class Worker\n{\n}\n"
	tree := parse(t, src)
	require.Len(t, tree.Types(), 2)

	base := tree.Types()[0]
	assert.Equal(t, syntax.KindRecord, base.Kind)
	require.Len(t, base.PrimaryParams, 2)
	assert.Equal(t, "IClock", base.PrimaryParams[0].Type.Text)
	assert.Equal(t, "Clock", base.PrimaryParams[0].Name)
	assert.Equal(t, "Logger", base.PrimaryParams[1].Name)
	assert.Empty(t, base.Members)

	assert.Nil(t, tree.Types()[1].PrimaryParams)
	assert.Equal(t, src, Print(tree))
}
