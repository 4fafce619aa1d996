package jsonschemagen

import (
	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// BuildCommonLibrary returns the common library document: value envelopes for
// every common value type in plain and nullable form, drive references to
// fields of those types and the shared member and component envelopes.
//
// The result only depends on the fixed catalogue of common value types and
// is therefore identical on every call.
func BuildCommonLibrary() *JSONSchemaDraft202012 {
	defs := builtinEnvelopes()
	for _, t := range descriptor.CommonValueTypes() {
		for _, nullable := range []bool{false, true} {
			t.Nullable = nullable
			defs[ValueDefinitionName(t.Name, nullable)] = valueEnvelope(t.TypeString(), ValueShape(t), nullable, LocalRef)
		}
		t.Nullable = false
		defs[FieldRefDefinitionName(t.Name)] = referenceEnvelope(TargetTypeName(t, descriptor.WrapperDrivenField), LocalRef)
	}
	return &JSONSchemaDraft202012{
		Schema:      JSONSchemaDraft202012URL,
		ID:          CommonDocument,
		Title:       "Common value types",
		Description: "Value shapes and envelopes shared by all component schemas.",
		Defs:        defs,
	}
}
