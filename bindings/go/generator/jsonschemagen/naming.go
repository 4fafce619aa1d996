package jsonschemagen

import (
	"regexp"
	"strings"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

const (
	// CommonDocument is the file name of the common library.
	CommonDocument = "common.schema.json"
	// DocumentSuffix is appended to the definition name of standalone documents.
	DocumentSuffix = ".schema.json"
	DefsPointer    = "#/$defs/"
)

// Envelope definitions of the common library.
const (
	MemberDefinition           = "Member"
	ComponentDefinition        = "Component"
	ComponentMembersDefinition = "ComponentMembers"
	ReferenceDefinition        = "Reference"
	ListDefinition             = "List"
	EmptyDefinition            = "Empty"
)

// Discriminator values of non-value members.
const (
	ReferenceTag = "reference"
	ListTag      = "list"
	EmptyTag     = "empty"
)

// Property names of instance documents.
const (
	PropertyID            = "id"
	PropertyType          = "$type"
	PropertyValue         = "value"
	PropertyTargetID      = "targetId"
	PropertyTargetType    = "targetType"
	PropertyElements      = "elements"
	PropertyComponentType = "componentType"
	PropertyMembers       = "members"
	PropertyReferenceOnly = "isReferenceOnly"
)

// ValueDefinitionName names the value envelope of a common value type, as in
// "float3_value" or "nullable_float3_value".
func ValueDefinitionName(name string, nullable bool) string {
	if nullable {
		return "nullable_" + name + "_value"
	}
	return name + "_value"
}

// FieldRefDefinitionName names the drive reference to a field of a common
// value type, as in "Field_float3_ref".
func FieldRefDefinitionName(name string) string {
	return "Field_" + name + "_ref"
}

// EnumDefinitionName names the value envelope of an enum. Nullable uses of an
// enum get their own definition.
func EnumDefinitionName(t descriptor.TypeDescriptor) string {
	name := t.SimpleName() + "_value"
	if t.Nullable {
		return "nullable_" + name
	}
	return name
}

// StandaloneFileName is the file a component is written to in standalone mode.
func StandaloneFileName(c *descriptor.ComponentDescriptor) string {
	return c.DefinitionName() + DocumentSuffix
}

// GenericTypePattern matches every instantiation of a generic component,
// as in `^\[Mod\]Mod\.ValueField<.+>$`.
func GenericTypePattern(c *descriptor.ComponentDescriptor) string {
	return "^" + regexp.QuoteMeta(c.TypeString()) + "<.+>$"
}

// LocalDefinition extracts the top level definition name of a local
// reference "#/$defs/Name[/...]".
func LocalDefinition(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, DefsPointer)
	if !ok || rest == "" {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "/")
	return name, true
}
