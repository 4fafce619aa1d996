package universe

import (
	"log/slog"
	"slices"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// Realm is the logging realm of the universe.
const Realm = "universe"

// ResolveTypeName resolves a type name as written in a generic argument list
// ("bool", "[Mod]Mod.Blend", "[Mod]Mod.Pair<int,float3>?") to a descriptor.
func (u *Universe) ResolveTypeName(name string) (descriptor.TypeDescriptor, bool) {
	it, err := runtime.ParseInstanceType(name)
	if err != nil {
		return descriptor.TypeDescriptor{}, false
	}

	var t descriptor.TypeDescriptor
	if common, ok := descriptor.LookupCommonValueType(it.Name); ok && it.Module == "" && len(it.Arguments) == 0 {
		t = common
	} else {
		u.mu.RLock()
		named, ok := u.types[runtime.QualifiedName(it.Module, it.Name)]
		u.mu.RUnlock()
		if !ok {
			return descriptor.TypeDescriptor{}, false
		}
		t = named.Clone()
		if len(it.Arguments) > 0 {
			args := make([]descriptor.TypeDescriptor, 0, len(it.Arguments))
			for _, arg := range it.Arguments {
				resolved, ok := u.ResolveTypeName(arg)
				if !ok {
					return descriptor.TypeDescriptor{}, false
				}
				args = append(args, resolved)
			}
			t.Arguments = args
		}
	}
	t.Nullable = it.Nullable
	return t, true
}

// AllowedArguments returns the declared argument list of a generic component
// and whether it is known at all.
func (u *Universe) AllowedArguments(c *descriptor.ComponentDescriptor) ([]string, bool) {
	return slices.Clone(c.AllowedArguments), c.AllowedArguments != nil
}

// resolveField completes a field type as read from a manifest: references
// into the type table are replaced by the named type, untyped names are
// matched against generic parameters, common value types and the type table,
// and everything left over becomes an opaque object.
func (u *Universe) resolveField(t descriptor.TypeDescriptor, params []string) descriptor.TypeDescriptor {
	nullable := t.Nullable
	args := t.Arguments

	switch {
	case t.Ref != "":
		resolved, ok := u.ResolveTypeName(t.Ref)
		if !ok {
			slog.Warn("unresolved type reference", "ref", t.Ref, "realm", Realm)
			resolved = opaque(t.Ref)
		}
		t = resolved
	case t.Kind == "" && slices.Contains(params, t.Name):
		t.Kind = descriptor.KindGenericParameter
	case t.Kind == "":
		if resolved, ok := u.ResolveTypeName(runtime.QualifiedName(t.Module, t.Name)); ok {
			t = resolved
		} else {
			t.Kind = descriptor.KindOpaqueObject
		}
	}

	if len(args) > 0 {
		resolvedArgs := make([]descriptor.TypeDescriptor, len(args))
		for i, arg := range args {
			resolvedArgs[i] = u.resolveField(arg, params)
		}
		t.Arguments = resolvedArgs
	}
	t.Nullable = t.Nullable || nullable
	t.Ref = ""
	return t
}

func opaque(name string) descriptor.TypeDescriptor {
	it, err := runtime.ParseInstanceType(name)
	if err != nil {
		return descriptor.TypeDescriptor{Name: name, Kind: descriptor.KindOpaqueObject}
	}
	return descriptor.TypeDescriptor{Name: it.Name, Module: it.Module, Kind: descriptor.KindOpaqueObject, Nullable: it.Nullable}
}
