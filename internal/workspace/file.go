package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cmmoran/ctorinject/internal/csharp"
	"github.com/cmmoran/ctorinject/pkg/catalog"
	"github.com/cmmoran/ctorinject/pkg/refactor"
	"github.com/cmmoran/ctorinject/pkg/semantic"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// ErrNotFound is returned when a position does not exist in the document.
var ErrNotFound = errors.New("position not found")

// File is a C# document on disk. The first Tree call reads and parses it;
// later calls return the same snapshot until the file is written.
type File struct {
	path     string
	parser   *csharp.Parser
	catalogs []*catalog.Catalog

	mu      sync.Mutex
	content []byte
	tree    *syntax.Tree
	model   *semantic.Index
}

var _ refactor.Document = (*File)(nil)

type Option func(*File)

func WithParser(p *csharp.Parser) Option { return func(f *File) { f.parser = p } }

// WithCatalogs adds type catalogs consulted after the built-in one.
func WithCatalogs(c ...*catalog.Catalog) Option {
	return func(f *File) { f.catalogs = append(f.catalogs, c...) }
}

// WithContent makes the file use content instead of reading path.
func WithContent(content []byte) Option { return func(f *File) { f.content = content } }

func Open(path string, opts ...Option) *File {
	f := &File{path: path}
	for _, opt := range opts {
		opt(f)
	}
	if f.parser == nil {
		f.parser = csharp.NewParser()
	}
	return f
}

func (f *File) Path() string { return f.path }

func (f *File) Tree(ctx context.Context) (*syntax.Tree, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.treeLocked(ctx)
}

func (f *File) treeLocked(ctx context.Context) (*syntax.Tree, error) {
	if f.tree != nil {
		return f.tree, nil
	}
	if f.content == nil {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		f.content = data
	}
	tree, err := f.parser.Parse(ctx, f.content, f.path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	f.tree = tree
	return tree, nil
}

// SemanticModel indexes the current tree against the built-in catalog and the
// configured ones.
func (f *File) SemanticModel(ctx context.Context) (semantic.Resolver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tree, err := f.treeLocked(ctx)
	if err != nil {
		return nil, err
	}
	if f.model == nil {
		f.model = semantic.NewIndex(tree, append([]*catalog.Catalog{catalog.Default()}, f.catalogs...)...)
	}
	return f.model, nil
}

// Write renders tree over the file and resets the cached snapshot.
func (f *File) Write(tree *syntax.Tree) error {
	out := csharp.Print(tree)
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(f.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(f.path, []byte(out), mode); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	f.mu.Lock()
	f.content, f.tree, f.model = []byte(out), nil, nil
	f.mu.Unlock()
	return nil
}

// Position selects a span either by byte offset or by 1-based line and column.
type Position struct {
	Offset int
	Length int
	Line   int
	Col    int
}

// Span resolves pos against the file's source.
func (f *File) Span(ctx context.Context, pos Position) (syntax.Span, error) {
	tree, err := f.Tree(ctx)
	if err != nil {
		return syntax.NoSpan, err
	}
	src := tree.Source()
	start := pos.Offset
	if pos.Line > 0 {
		if start, err = lineColOffset(src, pos.Line, pos.Col); err != nil {
			return syntax.NoSpan, err
		}
	}
	end := start + max(pos.Length, 0)
	if start < 0 || end > len(src) {
		return syntax.NoSpan, fmt.Errorf("%w: span [%d, %d) outside %d bytes", ErrNotFound, start, end, len(src))
	}
	return syntax.Span{Start: start, End: end}, nil
}

func lineColOffset(src string, line, col int) (int, error) {
	if col < 1 {
		col = 1
	}
	cur := 1
	for i := 0; i <= len(src); i++ {
		if cur == line {
			off := i + col - 1
			if off > len(src) {
				break
			}
			return off, nil
		}
		if i < len(src) && src[i] == '\n' {
			cur++
		}
	}
	return 0, fmt.Errorf("%w: line %d column %d", ErrNotFound, line, col)
}

// LineOf returns the 1-based line of offset in src.
func LineOf(src string, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
		}
	}
	return line
}

// LoadCatalogs reads every catalog in paths.
func LoadCatalogs(paths []string) ([]*catalog.Catalog, error) {
	out := make([]*catalog.Catalog, 0, len(paths))
	for _, p := range paths {
		c, err := catalog.Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
