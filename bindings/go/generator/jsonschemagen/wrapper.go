package jsonschemagen

import (
	"fmt"
	"maps"
	"slices"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// Definitions collects the local definitions a component document needs
// besides the common library: enum envelopes and generic variants.
type Definitions struct {
	enums    map[string]*JSONSchemaDraft202012
	variants map[string]*JSONSchemaDraft202012
	err      error
}

func NewDefinitions() *Definitions {
	return &Definitions{
		enums:    map[string]*JSONSchemaDraft202012{},
		variants: map[string]*JSONSchemaDraft202012{},
	}
}

// addEnum registers an enum envelope. Registering the same name twice with a
// different schema records an ErrDefinitionConflict.
func (d *Definitions) addEnum(name string, s *JSONSchemaDraft202012) {
	existing, ok := d.enums[name]
	if !ok {
		d.enums[name] = s
		return
	}
	if d.err != nil {
		return
	}
	same, err := SameSchema(existing, s)
	if err != nil {
		d.err = err
		return
	}
	if !same {
		d.err = fmt.Errorf("%w: enum %q", ErrDefinitionConflict, name)
	}
}

func (d *Definitions) addVariant(name string, s *JSONSchemaDraft202012) {
	d.variants[name] = s
}

// EnumNames returns the names of the collected enum definitions in order.
func (d *Definitions) EnumNames() []string {
	return slices.Sorted(maps.Keys(d.enums))
}

// VariantNames returns the names of the collected variants in order.
func (d *Definitions) VariantNames() []string {
	return slices.Sorted(maps.Keys(d.variants))
}

// Err returns the first conflict found while collecting.
func (d *Definitions) Err() error {
	return d.err
}

// all merges enums and variants into one $defs map, nil when empty.
func (d *Definitions) all() map[string]*JSONSchemaDraft202012 {
	if len(d.enums)+len(d.variants) == 0 {
		return nil
	}
	out := make(map[string]*JSONSchemaDraft202012, len(d.enums)+len(d.variants))
	maps.Copy(out, d.enums)
	maps.Copy(out, d.variants)
	return out
}

// TargetTypeName is the type a reference member declares as its target:
// the type itself for object references, IAssetProvider<T> for assets and
// IField<T> for drives.
func TargetTypeName(t descriptor.TypeDescriptor, w descriptor.WrapperKind) string {
	switch w {
	case descriptor.WrapperAssetReference, descriptor.WrapperAssetList:
		return descriptor.AssetProviderTypeName + "<" + t.TypeString() + ">"
	case descriptor.WrapperDrivenField, descriptor.WrapperDriveReference:
		return descriptor.FieldTypeName + "<" + t.TypeString() + ">"
	default:
		return t.TypeString()
	}
}

// Classify returns the schema fragment for one member. It never fails:
// members whose shape cannot be determined get a permissive fragment.
// Enum envelopes the fragment refers to are added to defs.
func Classify(field descriptor.FieldDescriptor, defs *Definitions) *JSONSchemaDraft202012 {
	t := field.Type
	switch field.Wrapper {
	case descriptor.WrapperValue:
		return valueFragment(t, defs)
	case descriptor.WrapperObjectReference, descriptor.WrapperAssetReference,
		descriptor.WrapperDrivenField, descriptor.WrapperDriveReference:
		return referenceFragment(t, field.Wrapper)
	case descriptor.WrapperValueList, descriptor.WrapperFieldList:
		return listEnvelope(valueFragment(t, defs))
	case descriptor.WrapperReferenceList:
		return listEnvelope(referenceFragment(t, descriptor.WrapperObjectReference))
	case descriptor.WrapperAssetList:
		return listEnvelope(referenceFragment(t, descriptor.WrapperAssetReference))
	case descriptor.WrapperRawOutput:
		return &JSONSchemaDraft202012{Ref: CommonRef(EmptyDefinition)}
	default:
		return permissive(fmt.Sprintf("member %s has unsupported wrapper %q", field.Name, field.Wrapper))
	}
}

func valueFragment(t descriptor.TypeDescriptor, defs *Definitions) *JSONSchemaDraft202012 {
	switch {
	case t.ContainsGenericParameter():
		return permissive("value of unresolved generic type " + t.TypeString())
	case t.Kind == descriptor.KindEnum:
		if len(t.EnumValues) == 0 {
			return permissive("enum " + t.TypeString() + " without values")
		}
		name := EnumDefinitionName(t)
		defs.addEnum(name, enumEnvelope(t))
		return &JSONSchemaDraft202012{Ref: LocalRef(name)}
	case t.IsCommon():
		return &JSONSchemaDraft202012{Ref: CommonRef(ValueDefinitionName(t.Name, t.Nullable))}
	}
	if shape := ValueShape(t); shape != nil {
		return valueEnvelope(t.TypeString(), shape, t.Nullable, CommonRef)
	}
	return permissive("value of unresolvable type " + t.TypeString())
}

func referenceFragment(t descriptor.TypeDescriptor, w descriptor.WrapperKind) *JSONSchemaDraft202012 {
	if t.ContainsGenericParameter() {
		return &JSONSchemaDraft202012{
			Ref:         CommonRef(ReferenceDefinition),
			Description: "reference to unresolved generic type " + t.TypeString(),
		}
	}
	if (w == descriptor.WrapperDrivenField || w == descriptor.WrapperDriveReference) && t.IsCommon() && !t.Nullable {
		return &JSONSchemaDraft202012{Ref: CommonRef(FieldRefDefinitionName(t.Name))}
	}
	return referenceEnvelope(TargetTypeName(t, w), CommonRef)
}
