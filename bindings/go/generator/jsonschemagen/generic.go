package jsonschemagen

import (
	"fmt"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// expand builds one variant per allowed argument entry and a oneOf over them.
// Entries that cannot be resolved are skipped and returned. The schema is nil
// when no entry produced a variant.
func (a *Assembler) expand(c *descriptor.ComponentDescriptor, allowed []string, defs *Definitions) (*JSONSchemaDraft202012, []SkippedArgument) {
	arity := c.Arity()
	var (
		oneOf   []*JSONSchemaDraft202012
		skipped []SkippedArgument
	)
	for _, entry := range allowed {
		args, err := a.resolveArguments(entry, arity)
		if err != nil {
			skipped = append(skipped, SkippedArgument{Argument: entry, Err: err})
			continue
		}

		names := make([]string, 0, len(args))
		for _, arg := range args {
			names = append(names, arg.TypeString())
		}
		name := descriptor.VariantDefinitionName(c.SimpleName(), names...)
		if _, exists := defs.variants[name]; exists {
			skipped = append(skipped, SkippedArgument{Argument: entry, Err: fmt.Errorf("%w %s", ErrDuplicateVariant, name)})
			continue
		}

		instance, err := c.Instantiate(args)
		if err != nil {
			skipped = append(skipped, SkippedArgument{Argument: entry, Err: err})
			continue
		}
		componentType := &JSONSchemaDraft202012{Const: c.InstanceTypeString(args)}
		defs.addVariant(name, &JSONSchemaDraft202012{
			Title:       name,
			Description: fmt.Sprintf("%s instantiated with %s.", c.CanonicalName(), entry),
			AllOf:       componentAllOf(instance, componentType, defs),
		})
		oneOf = append(oneOf, &JSONSchemaDraft202012{Ref: LocalRef(name)})
	}
	if len(oneOf) == 0 {
		return nil, skipped
	}
	return a.document(c, describe(c), &JSONSchemaDraft202012{OneOf: oneOf}), skipped
}

// resolveArguments resolves one allowed argument entry, a comma separated
// list with one type name per generic parameter.
func (a *Assembler) resolveArguments(entry string, arity int) ([]descriptor.TypeDescriptor, error) {
	parts, err := runtime.SplitTypeArguments(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnresolvedArgument, err)
	}
	if len(parts) != arity {
		return nil, fmt.Errorf("%w: %d of %d", ErrArgumentArity, len(parts), arity)
	}
	args := make([]descriptor.TypeDescriptor, 0, len(parts))
	for _, p := range parts {
		t, ok := a.types.ResolveTypeName(p)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedArgument, p)
		}
		args = append(args, t)
	}
	return args, nil
}
