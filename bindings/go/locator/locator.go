package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/singleflight"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/shard"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// Realm is the logging realm of the locator.
const Realm = "locator"

// DefaultCacheSize is the number of shards and compiled definitions kept
// in memory unless configured otherwise.
const DefaultCacheSize = 128

// ErrDefinitionNotFound is returned when the shard computed for a type does
// not contain a definition for it. Generation and lookup disagree on naming
// or hashing in that case; it is not a problem of the validated document.
var ErrDefinitionNotFound = errors.New("definition not found")

// Location is where the definition that validates a component type lives.
type Location struct {
	ComponentType string `json:"componentType"`
	CanonicalName string `json:"canonicalName"`
	Bucket        int    `json:"bucket"`
	File          string `json:"file"`
	Definition    string `json:"definition"`
	// Variant is the nested definition of a generic instantiation.
	Variant string `json:"variant,omitempty"`
	// Fallback is set when a generic type is validated by the definition
	// of its arity form because no variant matches its arguments.
	Fallback bool `json:"fallback,omitempty"`
}

// Pointer is the JSON pointer of the definition within File.
func (l Location) Pointer() string {
	p := jsonschemagen.DefsPointer + l.Definition
	if l.Variant != "" {
		p += "/$defs/" + l.Variant
	}
	return p
}

func (l Location) String() string {
	return l.File + l.Pointer()
}

// Locator finds and compiles the definitions that validate component
// instances. Shards are read from an fs.FS that must not change while the
// Locator is in use. A Locator is safe for concurrent use.
type Locator struct {
	fsys    fs.FS
	shards  *expirable.LRU[string, *shardIndex]
	schemas *expirable.LRU[string, *jsonschema.Schema]
	group   singleflight.Group
}

type options struct {
	size int
	ttl  time.Duration
}

type Option func(*options)

// WithCacheSize bounds the number of cached shards and compiled definitions.
// Zero means unbounded.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.size = n
		}
	}
}

// WithCacheTTL expires cached entries after d. Zero keeps them until evicted.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.ttl = d
		}
	}
}

// New returns a Locator reading the corpus from fsys.
func New(fsys fs.FS, opts ...Option) *Locator {
	o := &options{size: DefaultCacheSize}
	for _, opt := range opts {
		opt(o)
	}
	return &Locator{
		fsys:    fsys,
		shards:  expirable.NewLRU[string, *shardIndex](o.size, nil, o.ttl),
		schemas: expirable.NewLRU[string, *jsonschema.Schema](o.size, nil, o.ttl),
	}
}

// shardIndex lists the definitions of one component shard, the component
// owning each of them and the variants nested under each of them.
type shardIndex struct {
	url  string
	defs map[string]shardDefinition
}

type shardDefinition struct {
	owner    string
	variants map[string]struct{}
}

// lookup returns the definition called name if it belongs to canonical.
// Definitions without a recorded owner belong to any component.
func (idx *shardIndex) lookup(name, canonical string) (shardDefinition, bool) {
	def, ok := idx.defs[name]
	if !ok || (def.owner != "" && def.owner != canonical) {
		return shardDefinition{}, false
	}
	return def, true
}

// Locate computes the bucket of componentType and finds its definition in
// that bucket's shard. A definition only matches when it is owned by the
// canonical name of componentType. Concrete types are looked up by their
// simple name.
// Generic types are looked up as the variant named after their arguments
// inside the definition of their arity form, or as that definition itself
// when no such variant exists.
func (l *Locator) Locate(ctx context.Context, componentType string) (*Location, error) {
	it, err := runtime.ParseInstanceType(componentType)
	if err != nil {
		return nil, err
	}
	canonical := it.CanonicalName()
	b := shard.Bucket(canonical)
	loc := &Location{
		ComponentType: componentType,
		CanonicalName: canonical,
		Bucket:        b,
		File:          shard.ComponentFile(b),
	}

	idx, err := l.shard(ctx, loc.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDefinitionNotFound, componentType, err)
	}

	if !it.IsGeneric() {
		loc.Definition = it.SimpleName()
		if _, ok := idx.lookup(loc.Definition, canonical); !ok {
			return nil, fmt.Errorf("%w: %s has no definition %s in %s", ErrDefinitionNotFound, componentType, loc.Definition, loc.File)
		}
		return loc, nil
	}

	loc.Definition = descriptor.ArityDefinitionName(it.SimpleName(), it.Arity())
	def, ok := idx.lookup(loc.Definition, canonical)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no definition %s in %s", ErrDefinitionNotFound, componentType, loc.Definition, loc.File)
	}
	if len(it.Arguments) > 0 {
		variant := descriptor.VariantDefinitionName(it.SimpleName(), it.Arguments...)
		if _, ok := def.variants[variant]; ok {
			loc.Variant = variant
			return loc, nil
		}
	}
	loc.Fallback = true
	slog.DebugContext(ctx, "falling back to arity definition", "componentType", componentType, "definition", loc.Definition, "realm", Realm)
	return loc, nil
}

func (l *Locator) shard(ctx context.Context, file string) (*shardIndex, error) {
	if idx, ok := l.shards.Get(file); ok {
		return idx, nil
	}
	v, err, _ := l.group.Do("shard:"+file, func() (any, error) {
		slog.DebugContext(ctx, "loading shard", "file", file, "realm", Realm)
		raw, err := fs.ReadFile(l.fsys, file)
		if err != nil {
			return nil, err
		}
		var doc struct {
			ID   string `json:"$id"`
			Defs map[string]struct {
				Comment string                     `json:"$comment"`
				Defs    map[string]json.RawMessage `json:"$defs"`
			} `json:"$defs"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse shard %s: %w", file, err)
		}
		idx := &shardIndex{
			url:  documentURL(file, doc.ID),
			defs: make(map[string]shardDefinition, len(doc.Defs)),
		}
		for name, def := range doc.Defs {
			variants := make(map[string]struct{}, len(def.Defs))
			for v := range def.Defs {
				variants[v] = struct{}{}
			}
			idx.defs[name] = shardDefinition{owner: def.Comment, variants: variants}
		}
		l.shards.Add(file, idx)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*shardIndex), nil
}

// Schema returns the compiled definition at loc.
func (l *Locator) Schema(ctx context.Context, loc *Location) (*jsonschema.Schema, error) {
	key := loc.String()
	if s, ok := l.schemas.Get(key); ok {
		return s, nil
	}
	idx, err := l.shard(ctx, loc.File)
	if err != nil {
		return nil, err
	}
	v, err, _ := l.group.Do("schema:"+key, func() (any, error) {
		slog.DebugContext(ctx, "compiling definition", "location", key, "realm", Realm)
		c := jsonschema.NewCompiler()
		c.UseLoader(&fsLoader{fsys: l.fsys})
		s, err := c.Compile(idx.url + loc.Pointer())
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", key, err)
		}
		l.schemas.Add(key, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*jsonschema.Schema), nil
}
