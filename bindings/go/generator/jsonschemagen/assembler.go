package jsonschemagen

import (
	"fmt"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// TypeResolver maps a type argument name back to a descriptor.
type TypeResolver interface {
	ResolveTypeName(name string) (descriptor.TypeDescriptor, bool)
}

// ConstraintResolver yields the legal type arguments of a generic component.
// The boolean is false when the set is not known.
type ConstraintResolver interface {
	AllowedArguments(c *descriptor.ComponentDescriptor) ([]string, bool)
}

// Assembler builds the schema document of a single component.
type Assembler struct {
	types       TypeResolver
	constraints ConstraintResolver
	baseURI     string
}

func NewAssembler(types TypeResolver, constraints ConstraintResolver, baseURI string) *Assembler {
	return &Assembler{types: types, constraints: constraints, baseURI: baseURI}
}

// Assemble builds the document of c. Concrete components get an allOf
// schema, generic components with a known argument list a oneOf over their
// variants and all other generic components a pattern schema.
func (a *Assembler) Assemble(c *descriptor.ComponentDescriptor) Result {
	res := Result{Component: c.CanonicalName()}
	defs := NewDefinitions()

	var root *JSONSchemaDraft202012
	if !c.IsGeneric() {
		root = a.concrete(c, defs)
	} else {
		if args, known := a.constraints.AllowedArguments(c); known {
			root, res.Skipped = a.expand(c, args, defs)
			if root == nil {
				res.Skipped = append(res.Skipped, SkippedArgument{Argument: "*", Err: ErrNoVariant})
			}
		}
		if root == nil {
			defs = NewDefinitions()
			root = a.pattern(c, defs)
		}
	}
	if err := defs.Err(); err != nil {
		res.Err = fmt.Errorf("failed to assemble %s: %w", res.Component, err)
		return res
	}

	root.Defs = defs.all()
	res.Document = &Document{
		Component:     c,
		CanonicalName: res.Component,
		Definition:    c.DefinitionName(),
		Schema:        root,
		Enums:         defs.EnumNames(),
		Variants:      defs.VariantNames(),
	}
	return res
}

func (a *Assembler) concrete(c *descriptor.ComponentDescriptor, defs *Definitions) *JSONSchemaDraft202012 {
	return a.document(c, describe(c), &JSONSchemaDraft202012{
		AllOf: componentAllOf(c, &JSONSchemaDraft202012{Const: c.TypeString()}, defs),
	})
}

// pattern accepts any instantiation of a generic component. Members whose
// type still depends on a parameter degrade to permissive fragments.
func (a *Assembler) pattern(c *descriptor.ComponentDescriptor, defs *Definitions) *JSONSchemaDraft202012 {
	componentType := &JSONSchemaDraft202012{Type: Types("string"), Pattern: GenericTypePattern(c)}
	return a.document(c, describe(c)+" Accepts any instantiation.", &JSONSchemaDraft202012{
		AllOf: componentAllOf(c, componentType, defs),
	})
}

func (a *Assembler) document(c *descriptor.ComponentDescriptor, description string, body *JSONSchemaDraft202012) *JSONSchemaDraft202012 {
	body.Schema = JSONSchemaDraft202012URL
	body.ID = a.baseURI + StandaloneFileName(c)
	body.Title = c.SimpleName()
	body.Description = description
	return body
}

// componentAllOf combines the component envelope with the component type
// and its members.
func componentAllOf(c *descriptor.ComponentDescriptor, componentType *JSONSchemaDraft202012, defs *Definitions) []*JSONSchemaDraft202012 {
	fields := c.EmittedFields()
	props := make(map[string]*JSONSchemaDraft202012, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = Classify(f, defs)
		required = append(required, f.Name)
	}

	memberAllOf := []*JSONSchemaDraft202012{{Ref: CommonRef(ComponentMembersDefinition)}}
	if len(props) > 0 {
		memberAllOf = append(memberAllOf, &JSONSchemaDraft202012{
			Properties: props,
			Required:   required,
		})
	}

	return []*JSONSchemaDraft202012{
		{Ref: CommonRef(ComponentDefinition)},
		{
			Type: Types("object"),
			Properties: map[string]*JSONSchemaDraft202012{
				PropertyComponentType: componentType,
				PropertyMembers:       {Type: Types("object"), AllOf: memberAllOf},
			},
			Required: []string{PropertyComponentType, PropertyMembers},
		},
	}
}

func describe(c *descriptor.ComponentDescriptor) string {
	if c.Description != "" {
		return c.Description
	}
	if c.IsGeneric() {
		return fmt.Sprintf("Component %s with %d type parameters.", c.CanonicalName(), c.Arity())
	}
	return "Component " + c.CanonicalName() + "."
}
