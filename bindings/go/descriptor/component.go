package descriptor

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// ComponentDescriptor describes a component type.
//
// Name is the qualified name without module prefix. Generic components may
// be named in arity form ("Mod.ValueField`1") or by their base name with
// Parameters listing the parameter names.
type ComponentDescriptor struct {
	Name        string            `json:"name"`
	Module      string            `json:"module,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []FieldDescriptor `json:"fields,omitempty"`
	Generic     bool              `json:"generic,omitempty"`
	Parameters  []string          `json:"parameters,omitempty"`
	// AllowedArguments enumerates the type arguments a generic component may be
	// instantiated with. Each entry holds one comma separated argument per
	// parameter. A nil list means the set is unknown.
	AllowedArguments []string `json:"allowedArguments,omitempty"`
}

// IsGeneric reports whether the component declares generic parameters.
func (c *ComponentDescriptor) IsGeneric() bool {
	return c.Generic || len(c.Parameters) > 0 || strings.Contains(c.Name, runtime.ArityMarker)
}

// BaseName is the qualified name without arity marker.
func (c *ComponentDescriptor) BaseName() string {
	return runtime.StripArity(c.Name)
}

// SimpleName is the last segment of the base name.
func (c *ComponentDescriptor) SimpleName() string {
	return runtime.SimpleName(c.Name)
}

// Arity is the number of generic parameters, 0 for concrete components.
func (c *ComponentDescriptor) Arity() int {
	if !c.IsGeneric() {
		return 0
	}
	if len(c.Parameters) > 0 {
		return len(c.Parameters)
	}
	if n := runtime.ArityOf(c.Name); n > 0 {
		return n
	}
	return 1
}

// ParameterNames returns the declared parameter names or synthesizes "T"
// (single parameter) and "T1".."TN" otherwise.
func (c *ComponentDescriptor) ParameterNames() []string {
	if len(c.Parameters) > 0 {
		return slices.Clone(c.Parameters)
	}
	n := c.Arity()
	if n == 1 {
		return []string{"T"}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = "T" + strconv.Itoa(i+1)
	}
	return names
}

// TypeString is the declared type of concrete instances, "[Module]Name".
func (c *ComponentDescriptor) TypeString() string {
	return runtime.QualifiedName(c.Module, c.BaseName())
}

// CanonicalName is the name the component is hashed and reported under.
// Concrete components use their module qualified name, generic components
// their arity form without module.
func (c *ComponentDescriptor) CanonicalName() string {
	if c.IsGeneric() {
		return runtime.ArityName(c.BaseName(), c.Arity())
	}
	return c.TypeString()
}

// DefinitionName is the key of the component's definition inside a shard.
func (c *ComponentDescriptor) DefinitionName() string {
	if c.IsGeneric() {
		return ArityDefinitionName(c.SimpleName(), c.Arity())
	}
	return c.SimpleName()
}

// InstanceTypeString renders the declared type of an instantiation.
func (c *ComponentDescriptor) InstanceTypeString(args []TypeDescriptor) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.TypeString())
	}
	return c.TypeString() + "<" + strings.Join(parts, ",") + ">"
}

// EmittedFields returns the fields that appear in the component's schema:
// members inherited from the component envelope are dropped, duplicates keep
// their first declaration and the result is sorted by name.
func (c *ComponentDescriptor) EmittedFields() []FieldDescriptor {
	seen := make(map[string]struct{}, len(c.Fields))
	out := make([]FieldDescriptor, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Name == "" || IsEnvelopeMember(f.Name) {
			continue
		}
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b FieldDescriptor) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Instantiate binds the generic parameters to args and returns the resulting
// concrete component.
func (c *ComponentDescriptor) Instantiate(args []TypeDescriptor) (*ComponentDescriptor, error) {
	params := c.ParameterNames()
	if len(args) != len(params) {
		return nil, fmt.Errorf("%s expects %d type arguments, got %d", c.CanonicalName(), len(params), len(args))
	}
	bindings := make(map[string]TypeDescriptor, len(params))
	for i, p := range params {
		bindings[p] = args[i]
	}
	out := &ComponentDescriptor{
		Name:        c.BaseName(),
		Module:      c.Module,
		Description: c.Description,
		Fields:      make([]FieldDescriptor, len(c.Fields)),
	}
	for i, f := range c.Fields {
		f.Type = f.Type.Substitute(bindings)
		out.Fields[i] = f
	}
	return out, nil
}

// ArityDefinitionName names the container definition of a generic component,
// as in "ValueField_1".
func ArityDefinitionName(simpleName string, arity int) string {
	return simpleName + "_" + strconv.Itoa(arity)
}

// VariantDefinitionName names the definition of one instantiation of a
// generic component, as in "ValueField_bool" or "Pair_int_nullable_float3".
func VariantDefinitionName(simpleName string, arguments ...string) string {
	parts := make([]string, 0, len(arguments)+1)
	parts = append(parts, simpleName)
	for _, arg := range arguments {
		parts = append(parts, runtime.ArgumentSimpleName(arg))
	}
	return strings.Join(parts, "_")
}
