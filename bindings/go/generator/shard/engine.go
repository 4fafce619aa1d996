package shard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/shard/internal/bimap"
)

// Realm is the logging realm of the sharding engine.
const Realm = "shard"

// ErrDuplicateComponent marks a document whose canonical name was already placed.
var ErrDuplicateComponent = errors.New("component placed twice")

type schema = jsonschemagen.JSONSchemaDraft202012

// Assignment records where a component was placed.
type Assignment struct {
	Component  string   `json:"component"`
	Definition string   `json:"definition"`
	Bucket     int      `json:"bucket"`
	File       string   `json:"file"`
	Variants   []string `json:"variants,omitempty"`
	Enums      []string `json:"enums,omitempty"`
}

// Corpus is the complete sharded output of a generation run.
type Corpus struct {
	Common      *schema
	Components  map[int]*schema
	Enums       map[int]*schema
	Index       *schema
	Assignments []Assignment
}

// NamedDocument is a document together with its file name.
type NamedDocument struct {
	Name   string
	Schema *schema
}

// Documents lists all documents of the corpus sorted by file name.
func (c *Corpus) Documents() []NamedDocument {
	var docs []NamedDocument
	if c.Common != nil {
		docs = append(docs, NamedDocument{Name: jsonschemagen.CommonDocument, Schema: c.Common})
	}
	for b, s := range c.Components {
		docs = append(docs, NamedDocument{Name: ComponentFile(b), Schema: s})
	}
	for b, s := range c.Enums {
		docs = append(docs, NamedDocument{Name: EnumFile(b), Schema: s})
	}
	if c.Index != nil {
		docs = append(docs, NamedDocument{Name: IndexFile, Schema: c.Index})
	}
	slices.SortFunc(docs, func(a, b NamedDocument) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return docs
}

// Engine partitions assembled documents into shards.
type Engine struct {
	baseURI string
}

func New(baseURI string) *Engine {
	return &Engine{baseURI: baseURI}
}

// Partition places every document in the component shard of the bucket of
// its canonical name and every enum it declares in the enum shard of the
// bucket of the enum's definition name. Documents that would overwrite a
// different component's definition in the same bucket, or whose enums
// conflict with already placed ones, are left out and recorded as failed in
// report. The first document by canonical name wins. Repeated documents of an
// already placed component are skipped.
func (e *Engine) Partition(ctx context.Context, common *schema, docs []*jsonschemagen.Document, report *jsonschemagen.Report) (*Corpus, error) {
	ordered := slices.Clone(docs)
	slices.SortStableFunc(ordered, func(a, b *jsonschemagen.Document) int {
		return cmp.Compare(a.CanonicalName, b.CanonicalName)
	})

	owners := map[int]*bimap.Map[string, string]{}
	placed := map[string]Assignment{}
	pool := jsonschemagen.NewEnumPool()
	corpus := &Corpus{
		Common:     common,
		Components: map[int]*schema{},
		Enums:      map[int]*schema{},
	}

	for _, doc := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := Bucket(doc.CanonicalName)
		names, ok := owners[b]
		if !ok {
			names = bimap.New[string, string]()
			owners[b] = names
		}
		if def, dup := names.GetByValue(doc.CanonicalName); dup {
			slog.WarnContext(ctx, "component skipped", "component", doc.CanonicalName,
				"error", fmt.Errorf("%w as %s in %s", ErrDuplicateComponent, def, ComponentFile(b)), "realm", Realm)
			continue
		}
		if owner, taken := names.Get(doc.Definition); taken {
			err := fmt.Errorf("%w: %s is already defined by %s in %s",
				jsonschemagen.ErrDefinitionConflict, doc.Definition, owner, ComponentFile(b))
			e.reject(ctx, report, doc, err)
			continue
		}
		if err := pool.Add(doc); err != nil {
			e.reject(ctx, report, doc, err)
			continue
		}
		names.Set(doc.Definition, doc.CanonicalName)

		target, ok := corpus.Components[b]
		if !ok {
			target = e.shardDocument(ComponentFile(b),
				fmt.Sprintf("Component shard %03d", b),
				fmt.Sprintf("Component definitions whose canonical name hashes to bucket %d.", b))
			corpus.Components[b] = target
		}
		target.Defs[doc.Definition] = placeDefinition(doc)
		placed[doc.CanonicalName] = Assignment{
			Component:  doc.CanonicalName,
			Definition: doc.Definition,
			Bucket:     b,
			File:       ComponentFile(b),
			Variants:   slices.Clone(doc.Variants),
			Enums:      slices.Clone(doc.Enums),
		}
		slog.DebugContext(ctx, "component placed", "component", doc.CanonicalName, "bucket", b, "bucketSize", names.Len(), "realm", Realm)
	}

	for _, name := range pool.Names() {
		enum, _ := pool.Get(name)
		b := Bucket(name)
		target, ok := corpus.Enums[b]
		if !ok {
			target = e.shardDocument(EnumFile(b),
				fmt.Sprintf("Enum shard %03d", b),
				fmt.Sprintf("Enum definitions whose name hashes to bucket %d.", b))
			corpus.Enums[b] = target
		}
		target.Defs[name] = enum.DeepCopy()
	}

	for _, b := range slices.Sorted(maps.Keys(owners)) {
		for _, canonical := range owners[b].All() {
			corpus.Assignments = append(corpus.Assignments, placed[canonical])
		}
	}
	corpus.Index = e.index(corpus.Assignments)

	slog.InfoContext(ctx, "corpus partitioned",
		"components", len(corpus.Assignments),
		"componentShards", len(corpus.Components),
		"enums", pool.Len(),
		"enumShards", len(corpus.Enums),
		"realm", Realm)
	return corpus, nil
}

func (e *Engine) reject(ctx context.Context, report *jsonschemagen.Report, doc *jsonschemagen.Document, err error) {
	slog.WarnContext(ctx, "component rejected", "component", doc.CanonicalName, "error", err, "realm", Realm)
	if report != nil {
		report.Fail(doc.CanonicalName, err)
	}
}

func (e *Engine) shardDocument(file, title, description string) *schema {
	return &schema{
		Schema:      jsonschemagen.JSONSchemaDraft202012URL,
		ID:          e.baseURI + file,
		Title:       title,
		Description: description,
		Defs:        map[string]*schema{},
	}
}

// index references every placed component, ordered by bucket and name.
func (e *Engine) index(assignments []Assignment) *schema {
	if len(assignments) == 0 {
		return nil
	}
	oneOf := make([]*schema, 0, len(assignments))
	for _, a := range assignments {
		oneOf = append(oneOf, &schema{Ref: a.File + jsonschemagen.DefsPointer + a.Definition})
	}
	return &schema{
		Schema:      jsonschemagen.JSONSchemaDraft202012URL,
		ID:          e.baseURI + IndexFile,
		Title:       "Component index",
		Description: "Accepts an instance of any generated component.",
		OneOf:       oneOf,
	}
}

// placeDefinition turns a standalone document into a shard definition: the
// document keywords are dropped, enums move out to the enum shards and
// variants stay nested below the definition. $comment records the owning
// canonical name.
func placeDefinition(doc *jsonschemagen.Document) *schema {
	def := doc.Schema.DeepCopy()
	def.Schema = ""
	def.ID = ""
	def.Comment = doc.CanonicalName
	for _, name := range doc.Enums {
		delete(def.Defs, name)
	}
	if len(def.Defs) == 0 {
		def.Defs = nil
	}

	enums := setOf(doc.Enums)
	variants := setOf(doc.Variants)
	def.Walk(func(s *schema) {
		name, ok := jsonschemagen.LocalDefinition(s.Ref)
		if !ok {
			return
		}
		switch {
		case enums[name]:
			s.Ref = EnumFile(Bucket(name)) + jsonschemagen.DefsPointer + name
		case variants[name]:
			s.Ref = jsonschemagen.DefsPointer + doc.Definition + "/$defs/" + name
		}
	})
	return def
}

func setOf(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
