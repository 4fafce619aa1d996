// Package universe indexes the component and type descriptors a host exports
// and resolves type names against them.
package universe

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// Universe represents all component and value types known to the generator.
//
//   - types maps each qualified type name (with and without module prefix) to its descriptor.
//   - components maps each canonical component name to its descriptor.
//
// A Universe is safe for concurrent reads once loading has finished.
type Universe struct {
	mu         sync.RWMutex
	types      map[string]descriptor.TypeDescriptor
	components map[string]*descriptor.ComponentDescriptor
}

// New creates an empty Universe.
func New() *Universe {
	return &Universe{
		types:      map[string]descriptor.TypeDescriptor{},
		components: map[string]*descriptor.ComponentDescriptor{},
	}
}

// AddType registers a named type. The first registration of a name wins.
func (u *Universe) AddType(t descriptor.TypeDescriptor) error {
	if t.Name == "" {
		return fmt.Errorf("type without name")
	}
	if t.Kind == "" {
		t.Kind = descriptor.KindOpaqueObject
	}
	if t.Kind == descriptor.KindEnum && len(t.EnumValues) == 0 {
		slog.Warn("enum type declares no values", "type", t.TypeString(), "realm", Realm)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	for _, key := range typeKeys(t) {
		if _, exists := u.types[key]; exists {
			continue
		}
		u.types[key] = t
	}
	return nil
}

// AddComponent registers a component. Components are keyed by canonical name
// and a later registration of the same name is rejected.
func (u *Universe) AddComponent(c *descriptor.ComponentDescriptor) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("component without name")
	}
	key := c.CanonicalName()

	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.components[key]; exists {
		return fmt.Errorf("component %q is already registered", key)
	}
	u.components[key] = c
	return nil
}

// AddManifest registers all types of m and then all of its components with
// their field types resolved against the universe.
func (u *Universe) AddManifest(m *descriptor.Manifest) error {
	for _, t := range m.Types {
		if err := u.AddType(t); err != nil {
			return err
		}
	}
	for i := range m.Components {
		c := m.Components[i]
		c.Fields = slices.Clone(c.Fields)
		var params []string
		if c.IsGeneric() {
			params = c.ParameterNames()
		}
		for j := range c.Fields {
			c.Fields[j].Type = u.resolveField(c.Fields[j].Type, params)
		}
		if err := u.AddComponent(&c); err != nil {
			slog.Warn("skipping duplicate component", "component", c.CanonicalName(), "error", err, "realm", Realm)
		}
	}
	return nil
}

// Components returns all components sorted by canonical name.
func (u *Universe) Components() []*descriptor.ComponentDescriptor {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := slices.Collect(maps.Values(u.components))
	slices.SortFunc(out, func(a, b *descriptor.ComponentDescriptor) int {
		return cmp.Compare(a.CanonicalName(), b.CanonicalName())
	})
	return out
}

// LookupComponent finds a component by canonical name, by declared type
// ("[Mod]Mod.ValueField<bool>" finds "Mod.ValueField`1") or by unique
// qualified name.
func (u *Universe) LookupComponent(name string) (*descriptor.ComponentDescriptor, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if c, ok := u.components[name]; ok {
		return c, true
	}
	if it, err := runtime.ParseInstanceType(name); err == nil {
		if c, ok := u.components[it.CanonicalName()]; ok {
			return c, true
		}
	}
	var found *descriptor.ComponentDescriptor
	for _, c := range u.components {
		if c.BaseName() != name && c.TypeString() != name {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = c
	}
	return found, found != nil
}

// Len returns the number of registered components.
func (u *Universe) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.components)
}

func typeKeys(t descriptor.TypeDescriptor) []string {
	if t.Module == "" {
		return []string{t.Name}
	}
	return []string{t.QualifiedName(), t.Name}
}
