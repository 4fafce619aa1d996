package jsonschemagen

import (
	"math"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

var (
	vectorAxes      = []string{"x", "y", "z", "w"}
	quaternionAxes  = []string{"x", "y", "z", "w"}
	colorComponents = []string{"r", "g", "b", "a"}
)

// timeSpanPattern matches the constant ("c") time span format [-][d.]hh:mm:ss[.fffffff].
const timeSpanPattern = `^-?(\d+\.)?\d{2}:\d{2}:\d{2}(\.\d{1,7})?$`

// ValueShape returns the schema of the raw value of t, or nil when the type
// has no structural shape (enums, opaque objects, generic parameters).
func ValueShape(t descriptor.TypeDescriptor) *JSONSchemaDraft202012 {
	switch t.Kind {
	case descriptor.KindPrimitive:
		return primitiveShape(t.Name)
	case descriptor.KindVector:
		elem, n := t.Shape()
		return objectShape(elem, vectorAxes[:clamp(n)])
	case descriptor.KindQuaternion:
		elem, _ := t.Shape()
		return objectShape(elem, quaternionAxes)
	case descriptor.KindColor:
		s := objectShape("float", colorComponents)
		if s != nil && t.HasProfile {
			profiles := make([]any, 0, len(descriptor.ColorProfiles))
			for _, p := range descriptor.ColorProfiles {
				profiles = append(profiles, p)
			}
			s.Properties["profile"] = &JSONSchemaDraft202012{Type: Types("string"), Enum: profiles}
			s.Required = append(s.Required, "profile")
		}
		return s
	case descriptor.KindMatrix:
		elem, n := t.Shape()
		return matrixShape(elem, n)
	default:
		return nil
	}
}

func primitiveShape(name string) *JSONSchemaDraft202012 {
	switch name {
	case "bool":
		return &JSONSchemaDraft202012{Type: Types("boolean")}
	case "byte":
		return uintWithRange(math.MaxUint8)
	case "ushort":
		return uintWithRange(math.MaxUint16)
	case "uint":
		return uintWithRange(math.MaxUint32)
	case "ulong":
		return &JSONSchemaDraft202012{Type: Types("integer"), Minimum: Ptr(float64(0))}
	case "sbyte":
		return intWithRange(math.MinInt8, math.MaxInt8)
	case "short":
		return intWithRange(math.MinInt16, math.MaxInt16)
	case "int":
		return intWithRange(math.MinInt32, math.MaxInt32)
	case "long":
		return &JSONSchemaDraft202012{Type: Types("integer")}
	case "float", "double", "decimal":
		return &JSONSchemaDraft202012{Type: Types("number")}
	case "char":
		return &JSONSchemaDraft202012{Type: Types("string"), MinLength: Ptr(1), MaxLength: Ptr(1)}
	case "string":
		return &JSONSchemaDraft202012{Type: Types("string")}
	case "Uri":
		return &JSONSchemaDraft202012{Type: Types("string"), Format: "uri-reference"}
	case "DateTime":
		return &JSONSchemaDraft202012{Type: Types("string"), Format: "date-time"}
	case "TimeSpan":
		return &JSONSchemaDraft202012{Type: Types("string"), Pattern: timeSpanPattern}
	default:
		return nil
	}
}

func objectShape(element string, keys []string) *JSONSchemaDraft202012 {
	if primitiveShape(element) == nil || len(keys) == 0 {
		return nil
	}
	props := make(map[string]*JSONSchemaDraft202012, len(keys))
	for _, k := range keys {
		props[k] = primitiveShape(element)
	}
	return &JSONSchemaDraft202012{
		Type:                 Types("object"),
		Properties:           props,
		Required:             append([]string(nil), keys...),
		AdditionalProperties: &SchemaOrBool{Bool: Ptr(false)},
	}
}

// matrixShape describes an n by n matrix as an array of n rows.
func matrixShape(element string, n int) *JSONSchemaDraft202012 {
	if primitiveShape(element) == nil || n <= 0 {
		return nil
	}
	return &JSONSchemaDraft202012{
		Type: Types("array"),
		Items: &JSONSchemaDraft202012{
			Type:     Types("array"),
			Items:    primitiveShape(element),
			MinItems: Ptr(n),
			MaxItems: Ptr(n),
		},
		MinItems: Ptr(n),
		MaxItems: Ptr(n),
	}
}

func uintWithRange(maximum uint64) *JSONSchemaDraft202012 {
	return &JSONSchemaDraft202012{
		Type:    Types("integer"),
		Minimum: Ptr(float64(0)),
		Maximum: Ptr(float64(maximum)),
	}
}

func intWithRange(minimum, maximum int64) *JSONSchemaDraft202012 {
	return &JSONSchemaDraft202012{
		Type:    Types("integer"),
		Minimum: Ptr(float64(minimum)),
		Maximum: Ptr(float64(maximum)),
	}
}

func clamp(n int) int {
	return max(0, min(n, len(vectorAxes)))
}
