package universe

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

var scheme = runtime.NewScheme()

func init() {
	scheme.MustRegisterWithAlias(&descriptor.Manifest{}, descriptor.ManifestTypeV1)
}

// Load reads all manifests matching the given glob patterns from fsys and
// builds a Universe from them. Manifests are decoded concurrently and merged
// in path order so that the result does not depend on scheduling.
func Load(ctx context.Context, fsys fs.FS, patterns ...string) (*Universe, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid manifest pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no manifest matches %q", pattern)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	slog.InfoContext(ctx, "loading manifests", "count", len(paths), "realm", Realm)

	manifests := make([]*descriptor.Manifest, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := readManifest(fsys, p)
			if err != nil {
				return fmt.Errorf("failed to read manifest %s: %w", p, err)
			}
			manifests[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u := New()
	// all type tables first so that components can reference types declared
	// in any manifest
	for _, m := range manifests {
		for _, t := range m.Types {
			if err := u.AddType(t); err != nil {
				return nil, err
			}
		}
	}
	for i, m := range manifests {
		if err := u.AddManifest(&descriptor.Manifest{Type: m.Type, Components: m.Components}); err != nil {
			return nil, fmt.Errorf("failed to add manifest %s: %w", paths[i], err)
		}
	}

	slog.InfoContext(ctx, "universe loaded", "components", u.Len(), "realm", Realm)
	return u, nil
}

// readManifest decodes a single manifest file.
func readManifest(fsys fs.FS, path string) (*descriptor.Manifest, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obj, err := scheme.Decode(f)
	if err != nil {
		return nil, err
	}
	m, ok := obj.(*descriptor.Manifest)
	if !ok {
		return nil, fmt.Errorf("unexpected document type %s", obj.GetType())
	}
	return m, nil
}
