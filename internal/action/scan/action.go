package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/ctorinject/internal/csharp"
	"github.com/cmmoran/ctorinject/internal/workspace"
	"github.com/cmmoran/ctorinject/pkg/catalog"
	"github.com/cmmoran/ctorinject/pkg/refactor"
	"github.com/cmmoran/ctorinject/pkg/syntax"
)

// Finding is a member or constructor parameter with at least one refactoring.
type Finding struct {
	File    string   `yaml:"file" json:"file"`
	Line    int      `yaml:"line" json:"line"`
	Offset  int      `yaml:"offset" json:"offset"`
	Type    string   `yaml:"type" json:"type"`
	Member  string   `yaml:"member" json:"member"`
	Actions []string `yaml:"actions" json:"actions"`
}

// Report collects the findings of a scan in path order.
type Report struct {
	Files    int       `yaml:"files" json:"files"`
	Findings []Finding `yaml:"findings" json:"findings"`
	Errors   []string  `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// Options configure a scan.
type Options struct {
	Paths       []string
	Concurrency int
	Catalogs    []*catalog.Catalog
	Parser      *csharp.Parser
	Logger      *slog.Logger
}

// Generate scans every .cs file below opts.Paths. Files that cannot be read or
// parsed are recorded in Report.Errors; only cancellation aborts the scan.
func Generate(ctx context.Context, engine *refactor.Engine, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Parser == nil {
		opts.Parser = csharp.NewParser(csharp.WithLogger(log))
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	files, err := workspace.Collect(opts.Paths)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make([][]Finding, len(files))
		report  = &Report{Files: len(files)}
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, path := range files {
		eg.Go(func() error {
			found, err := scanFile(egCtx, engine, workspace.Open(path,
				workspace.WithParser(opts.Parser),
				workspace.WithCatalogs(opts.Catalogs...),
			))
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("skipping file", "file", path, "error", err)
				mu.Lock()
				report.Errors = append(report.Errors, err.Error())
				mu.Unlock()
				return nil
			}
			results[i] = found
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	for _, found := range results {
		report.Findings = append(report.Findings, found...)
	}
	sort.Strings(report.Errors)
	return report, nil
}

func scanFile(ctx context.Context, engine *refactor.Engine, file *workspace.File) ([]Finding, error) {
	tree, err := file.Tree(ctx)
	if err != nil {
		return nil, err
	}

	type probe struct {
		owner  *syntax.TypeDecl
		member string
		span   syntax.Span
	}
	var probes []probe
	tree.Walk(func(owner *syntax.TypeDecl, m syntax.Member) bool {
		switch x := m.(type) {
		case *syntax.FieldDecl:
			probes = append(probes, probe{owner, x.Name(), x.Span})
		case *syntax.PropertyDecl:
			probes = append(probes, probe{owner, x.Name, x.Span})
		case *syntax.ConstructorDecl:
			for _, p := range x.Params.Items {
				probes = append(probes, probe{owner, x.Name + "(" + p.Name + ")", p.Span})
			}
		}
		return true
	})

	var out []Finding
	for _, p := range probes {
		actions, err := engine.ComputeActions(ctx, file, p.span)
		if err != nil {
			return nil, err
		}
		if len(actions) == 0 {
			continue
		}
		f := Finding{
			File:   file.Path(),
			Line:   workspace.LineOf(tree.Source(), p.span.Start),
			Offset: p.span.Start,
			Type:   p.owner.Name,
			Member: p.member,
		}
		for _, a := range actions {
			f.Actions = append(f.Actions, a.Title)
		}
		out = append(out, f)
	}
	return out, nil
}

// YAML renders the report as a YAML document.
func (r *Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// Text writes one line per finding.
func (r *Report) Text(w io.Writer) error {
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "%s:%d: %s.%s: %s\n", f.File, f.Line, f.Type, f.Member, strings.Join(f.Actions, "; ")); err != nil {
			return err
		}
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "error: %s\n", e); err != nil {
			return err
		}
	}
	return nil
}
