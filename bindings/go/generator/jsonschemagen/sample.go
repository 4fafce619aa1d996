package jsonschemagen

import (
	"fmt"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// SampleInstance builds a minimal instance document of c that satisfies the
// schema generated for it. Generic components need one argument per
// parameter. References are left unset and lists empty.
func SampleInstance(c *descriptor.ComponentDescriptor, args ...descriptor.TypeDescriptor) (map[string]any, error) {
	componentType := c.TypeString()
	if c.IsGeneric() {
		instance, err := c.Instantiate(args)
		if err != nil {
			return nil, err
		}
		componentType = c.InstanceTypeString(args)
		c = instance
	}

	ids := &sampleIDs{}
	members := map[string]any{}
	for _, f := range descriptor.EnvelopeMembers() {
		members[f.Name] = sampleMember(f, ids)
	}
	for _, f := range c.EmittedFields() {
		members[f.Name] = sampleMember(f, ids)
	}
	return map[string]any{
		PropertyID:            ids.next(),
		PropertyReferenceOnly: false,
		PropertyComponentType: componentType,
		PropertyMembers:       members,
	}, nil
}

type sampleIDs struct {
	n int
}

func (s *sampleIDs) next() string {
	s.n++
	return fmt.Sprintf("ID%X", s.n)
}

func sampleMember(f descriptor.FieldDescriptor, ids *sampleIDs) map[string]any {
	t := f.Type
	switch f.Wrapper {
	case descriptor.WrapperValue:
		return sampleValueMember(t, ids)
	case descriptor.WrapperObjectReference, descriptor.WrapperAssetReference,
		descriptor.WrapperDrivenField, descriptor.WrapperDriveReference:
		return map[string]any{
			PropertyID:         ids.next(),
			PropertyType:       ReferenceTag,
			PropertyTargetID:   nil,
			PropertyTargetType: TargetTypeName(t, f.Wrapper),
		}
	case descriptor.WrapperValueList, descriptor.WrapperFieldList,
		descriptor.WrapperReferenceList, descriptor.WrapperAssetList:
		return map[string]any{
			PropertyID:       ids.next(),
			PropertyType:     ListTag,
			PropertyElements: []any{},
		}
	case descriptor.WrapperRawOutput:
		return map[string]any{
			PropertyID:   ids.next(),
			PropertyType: EmptyTag,
		}
	default:
		return map[string]any{PropertyID: ids.next(), PropertyType: string(f.Wrapper)}
	}
}

func sampleValueMember(t descriptor.TypeDescriptor, ids *sampleIDs) map[string]any {
	m := map[string]any{
		PropertyID:   ids.next(),
		PropertyType: t.TypeString(),
	}
	switch {
	case t.ContainsGenericParameter():
	case t.Nullable:
		m[PropertyValue] = nil
	case t.Kind == descriptor.KindEnum:
		if len(t.EnumValues) > 0 {
			m[PropertyValue] = t.EnumValues[0]
		}
	default:
		if v, ok := sampleValue(t); ok {
			m[PropertyValue] = v
		}
	}
	return m
}

func sampleValue(t descriptor.TypeDescriptor) (any, bool) {
	switch t.Kind {
	case descriptor.KindPrimitive:
		return samplePrimitive(t.Name)
	case descriptor.KindVector, descriptor.KindQuaternion:
		elem, n := t.Shape()
		axes := quaternionAxes
		if t.Kind == descriptor.KindVector {
			axes = vectorAxes[:clamp(n)]
		}
		return sampleObject(elem, axes)
	case descriptor.KindColor:
		v, ok := sampleObject("float", colorComponents)
		if ok && t.HasProfile {
			v["profile"] = descriptor.ColorProfiles[1]
		}
		return v, ok
	case descriptor.KindMatrix:
		elem, n := t.Shape()
		zero, ok := samplePrimitive(elem)
		if !ok {
			return nil, false
		}
		rows := make([]any, n)
		for i := range rows {
			row := make([]any, n)
			for j := range row {
				row[j] = zero
			}
			rows[i] = row
		}
		return rows, true
	default:
		return nil, false
	}
}

func sampleObject(elem string, keys []string) (map[string]any, bool) {
	zero, ok := samplePrimitive(elem)
	if !ok {
		return nil, false
	}
	v := make(map[string]any, len(keys))
	for _, k := range keys {
		v[k] = zero
	}
	return v, true
}

func samplePrimitive(name string) (any, bool) {
	switch name {
	case "bool":
		return false, true
	case "byte", "ushort", "uint", "ulong", "sbyte", "short", "int", "long", "float", "double", "decimal":
		return 0, true
	case "char":
		return "a", true
	case "string":
		return "", true
	case "Uri":
		return "https://example.com/", true
	case "DateTime":
		return "2024-01-01T00:00:00Z", true
	case "TimeSpan":
		return "00:00:00", true
	default:
		return nil, false
	}
}
