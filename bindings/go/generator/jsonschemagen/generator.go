package jsonschemagen

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// Realm is the logging realm of the generator.
const Realm = "generator"

type Generator struct {
	assembler *Assembler
	baseURI   string
	workers   int
}

type Option func(*Generator)

// WithWorkers limits the number of components assembled concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithBaseURI prefixes the $id of every generated document.
func WithBaseURI(uri string) Option {
	return func(g *Generator) {
		g.baseURI = uri
	}
}

func New(types TypeResolver, constraints ConstraintResolver, opts ...Option) *Generator {
	g := &Generator{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(g)
	}
	g.assembler = NewAssembler(types, constraints, g.baseURI)
	return g
}

// BaseURI is the prefix of the $id of generated documents.
func (g *Generator) BaseURI() string {
	return g.baseURI
}

// Common returns the common library with the generator's base URI applied.
func (g *Generator) Common() *JSONSchemaDraft202012 {
	common := BuildCommonLibrary()
	common.ID = g.baseURI + CommonDocument
	return common
}

// Standalone assembles the document of a single component.
func (g *Generator) Standalone(c *descriptor.ComponentDescriptor) Result {
	return g.assembler.Assemble(c)
}

// Generate assembles all components concurrently. The returned documents are
// sorted by canonical name and the enums they declare are consistent with
// each other: a component whose enum conflicts with an enum of the same name
// declared by a component earlier in that order is dropped and reported as
// failed. The error is only non-nil when ctx is cancelled.
func (g *Generator) Generate(ctx context.Context, components []*descriptor.ComponentDescriptor) ([]*Document, *Report, error) {
	results := make([]Result, len(components))

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, c := range components {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = g.assembler.Assemble(c)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	sortResults(results)

	report := NewReport()
	pool := NewEnumPool()
	docs := make([]*Document, 0, len(results))
	for _, res := range results {
		if res.OK() {
			if err := pool.Add(res.Document); err != nil {
				res.Err = err
			}
		}
		report.Record(res)
		if !res.OK() {
			slog.WarnContext(ctx, "component skipped", "component", res.Component, "error", res.Err, "realm", Realm)
			continue
		}
		for _, s := range res.Skipped {
			slog.DebugContext(ctx, "generic argument skipped", "component", res.Component, "argument", s.Argument, "error", s.Err, "realm", Realm)
		}
		docs = append(docs, res.Document)
	}

	slog.InfoContext(ctx, "components assembled",
		"succeeded", report.Succeeded(), "failed", report.Failed(), "enums", pool.Len(), "realm", Realm)
	return docs, report, nil
}
