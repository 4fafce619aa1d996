package jsonschemagen

import (
	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// refFunc renders a reference to a common library definition. Inside the
// common library it is LocalRef, everywhere else CommonRef.
type refFunc func(name string) string

// builtinEnvelopes returns the envelope definitions every member and
// component schema builds upon.
func builtinEnvelopes() map[string]*JSONSchemaDraft202012 {
	return map[string]*JSONSchemaDraft202012{
		MemberDefinition: {
			Title:       MemberDefinition,
			Description: "Envelope shared by every component member.",
			Type:        Types("object"),
			Properties: map[string]*JSONSchemaDraft202012{
				PropertyID:    {Type: Types("string")},
				PropertyType:  {Type: Types("string")},
				PropertyValue: {},
			},
			Required: []string{PropertyID, PropertyType},
		},
		ComponentDefinition: {
			Title:       ComponentDefinition,
			Description: "Envelope shared by every component instance.",
			Type:        Types("object"),
			Properties: map[string]*JSONSchemaDraft202012{
				PropertyID:            {Type: Types("string")},
				PropertyReferenceOnly: {Type: Types("boolean")},
			},
			Required: []string{PropertyID},
		},
		ReferenceDefinition: {
			Title:       ReferenceDefinition,
			Description: "Member pointing at another object by identifier.",
			AllOf:       []*JSONSchemaDraft202012{{Ref: LocalRef(MemberDefinition)}},
			Properties: map[string]*JSONSchemaDraft202012{
				PropertyType:       {Const: ReferenceTag},
				PropertyTargetID:   {Type: Types("string", "null")},
				PropertyTargetType: {Type: Types("string")},
			},
			Required: []string{PropertyType, PropertyTargetID, PropertyTargetType},
		},
		ListDefinition: {
			Title:       ListDefinition,
			Description: "Member holding an ordered list of elements.",
			AllOf:       []*JSONSchemaDraft202012{{Ref: LocalRef(MemberDefinition)}},
			Properties: map[string]*JSONSchemaDraft202012{
				PropertyType:     {Const: ListTag},
				PropertyElements: {Type: Types("array")},
			},
			Required: []string{PropertyType, PropertyElements},
		},
		EmptyDefinition: {
			Title:       EmptyDefinition,
			Description: "Write-only member that never stores a value.",
			AllOf:       []*JSONSchemaDraft202012{{Ref: LocalRef(MemberDefinition)}},
			Properties: map[string]*JSONSchemaDraft202012{
				PropertyType: {Const: EmptyTag},
			},
			Required: []string{PropertyType},
			Not:      &JSONSchemaDraft202012{Required: []string{PropertyValue}},
		},
		ComponentMembersDefinition: componentMembers(),
	}
}

// componentMembers describes the members every component inherits.
func componentMembers() *JSONSchemaDraft202012 {
	props := map[string]*JSONSchemaDraft202012{}
	var required []string
	for _, f := range descriptor.EnvelopeMembers() {
		props[f.Name] = &JSONSchemaDraft202012{Ref: LocalRef(ValueDefinitionName(f.Type.Name, f.Type.Nullable))}
		required = append(required, f.Name)
	}
	return &JSONSchemaDraft202012{
		Title:       ComponentMembersDefinition,
		Description: "Members owned by the component envelope.",
		Type:        Types("object"),
		Properties:  props,
		Required:    required,
	}
}

// valueEnvelope wraps a value shape into a member carrying tag as its type.
// Nullable envelopes accept null and do not require the value key.
func valueEnvelope(tag string, shape *JSONSchemaDraft202012, nullable bool, ref refFunc) *JSONSchemaDraft202012 {
	value := shape
	required := []string{PropertyType, PropertyValue}
	if nullable {
		value = &JSONSchemaDraft202012{AnyOf: []*JSONSchemaDraft202012{shape, {Type: Types("null")}}}
		required = []string{PropertyType}
	}
	return &JSONSchemaDraft202012{
		AllOf: []*JSONSchemaDraft202012{{Ref: ref(MemberDefinition)}},
		Properties: map[string]*JSONSchemaDraft202012{
			PropertyType:  {Const: tag},
			PropertyValue: value,
		},
		Required: required,
	}
}

// referenceEnvelope is a reference member whose target is fixed to targetType.
func referenceEnvelope(targetType string, ref refFunc) *JSONSchemaDraft202012 {
	return &JSONSchemaDraft202012{
		AllOf: []*JSONSchemaDraft202012{{Ref: ref(ReferenceDefinition)}},
		Properties: map[string]*JSONSchemaDraft202012{
			PropertyTargetType: {Const: targetType},
		},
	}
}

// listEnvelope is a list member whose elements satisfy element.
func listEnvelope(element *JSONSchemaDraft202012) *JSONSchemaDraft202012 {
	return &JSONSchemaDraft202012{
		AllOf: []*JSONSchemaDraft202012{{Ref: CommonRef(ListDefinition)}},
		Properties: map[string]*JSONSchemaDraft202012{
			PropertyElements: {Type: Types("array"), Items: element},
		},
	}
}

// permissive is the fallback for members whose shape cannot be determined.
func permissive(description string) *JSONSchemaDraft202012 {
	return &JSONSchemaDraft202012{
		Type:        Types("object"),
		Description: description,
	}
}
