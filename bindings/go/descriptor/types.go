// Package descriptor holds the host-independent description of component
// types and the value types their members carry.
package descriptor

import (
	"slices"
	"strconv"
	"strings"

	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// Kind classifies the value carried by a TypeDescriptor.
type Kind string

const (
	KindPrimitive        Kind = "primitive"
	KindEnum             Kind = "enum"
	KindVector           Kind = "vector"
	KindQuaternion       Kind = "quaternion"
	KindColor            Kind = "color"
	KindMatrix           Kind = "matrix"
	KindOpaqueObject     Kind = "opaqueObject"
	KindGenericParameter Kind = "genericParameter"
)

// IsValue reports whether values of the kind have a structural JSON shape
// that can be described without further type information.
func (k Kind) IsValue() bool {
	switch k {
	case KindPrimitive, KindVector, KindQuaternion, KindColor, KindMatrix:
		return true
	default:
		return false
	}
}

// WrapperKind is the storage wrapper a component member uses to hold its value.
type WrapperKind string

const (
	WrapperValue           WrapperKind = "Value"
	WrapperObjectReference WrapperKind = "ObjectReference"
	WrapperAssetReference  WrapperKind = "AssetReference"
	WrapperDrivenField     WrapperKind = "DrivenField"
	WrapperDriveReference  WrapperKind = "DriveReference"
	WrapperValueList       WrapperKind = "ValueList"
	WrapperReferenceList   WrapperKind = "ReferenceList"
	WrapperAssetList       WrapperKind = "AssetList"
	WrapperFieldList       WrapperKind = "FieldList"
	WrapperRawOutput       WrapperKind = "RawOutput"
)

// TypeDescriptor describes the type of a value.
//
// Name is the qualified name without module prefix ("Mod.Blend", "float3").
// Generic instantiations carry their resolved Arguments.
type TypeDescriptor struct {
	Name   string `json:"name,omitempty"`
	Module string `json:"module,omitempty"`
	Kind   Kind   `json:"kind,omitempty" jsonschema:"enum=primitive,enum=enum,enum=vector,enum=quaternion,enum=color,enum=matrix,enum=opaqueObject,enum=genericParameter"`
	// Element is the element primitive of vectors, quaternions and matrices.
	Element string `json:"element,omitempty"`
	// Dimension is the component count of vectors and the row count of square matrices.
	Dimension int `json:"dimension,omitempty" jsonschema:"minimum=0,maximum=4"`
	// HasProfile marks colors that carry a color profile.
	HasProfile bool `json:"hasProfile,omitempty"`
	Nullable   bool `json:"nullable,omitempty"`
	// Flags marks enums whose values combine.
	Flags      bool             `json:"flags,omitempty"`
	EnumValues []string         `json:"enumValues,omitempty"`
	Arguments  []TypeDescriptor `json:"arguments,omitempty"`
	// Ref names a type declared in the manifest's type table instead of
	// describing it inline.
	Ref string `json:"ref,omitempty"`
}

// QualifiedName is the name with the module prefix, without arguments.
func (t TypeDescriptor) QualifiedName() string {
	return runtime.QualifiedName(t.Module, t.Name)
}

// TypeString renders the type the way instances declare it, as in
// "[Mod]Mod.Pair<int,float3>?".
func (t TypeDescriptor) TypeString() string {
	var sb strings.Builder
	sb.WriteString(t.QualifiedName())
	if len(t.Arguments) > 0 {
		args := make([]string, 0, len(t.Arguments))
		for _, arg := range t.Arguments {
			args = append(args, arg.TypeString())
		}
		sb.WriteByte('<')
		sb.WriteString(strings.Join(args, ","))
		sb.WriteByte('>')
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

func (t TypeDescriptor) String() string {
	return t.TypeString()
}

// SimpleName is the last segment of the name.
func (t TypeDescriptor) SimpleName() string {
	return runtime.SimpleName(t.Name)
}

// IsCommon reports whether the type is one of the shared value types that
// live in the common library.
func (t TypeDescriptor) IsCommon() bool {
	if t.Module != "" || len(t.Arguments) > 0 || !t.Kind.IsValue() {
		return false
	}
	return IsCommonValueType(t.Name)
}

// ContainsGenericParameter reports whether the type or any of its arguments is
// an unbound generic parameter.
func (t TypeDescriptor) ContainsGenericParameter() bool {
	if t.Kind == KindGenericParameter {
		return true
	}
	return slices.ContainsFunc(t.Arguments, TypeDescriptor.ContainsGenericParameter)
}

// Substitute replaces generic parameters by the bound types. Nullability of
// the parameter use site is kept.
func (t TypeDescriptor) Substitute(bindings map[string]TypeDescriptor) TypeDescriptor {
	if t.Kind == KindGenericParameter {
		bound, ok := bindings[t.Name]
		if !ok {
			return t
		}
		bound = bound.Clone()
		bound.Nullable = bound.Nullable || t.Nullable
		return bound
	}
	out := t.Clone()
	for i := range out.Arguments {
		out.Arguments[i] = out.Arguments[i].Substitute(bindings)
	}
	return out
}

// Clone returns a deep copy.
func (t TypeDescriptor) Clone() TypeDescriptor {
	out := t
	out.EnumValues = slices.Clone(t.EnumValues)
	if t.Arguments != nil {
		out.Arguments = make([]TypeDescriptor, len(t.Arguments))
		for i, arg := range t.Arguments {
			out.Arguments[i] = arg.Clone()
		}
	}
	return out
}

// Shape returns the element primitive and dimension of vectors, quaternions
// and matrices, falling back to the conventional names ("float3", "doubleQ",
// "float4x4") when they are not set explicitly.
func (t TypeDescriptor) Shape() (element string, dimension int) {
	element, dimension = t.Element, t.Dimension
	if element != "" && dimension > 0 {
		return element, dimension
	}
	switch t.Kind {
	case KindQuaternion:
		return strings.TrimSuffix(t.Name, "Q"), 4
	case KindMatrix:
		rows, _, _ := strings.Cut(t.Name, "x")
		return splitTrailingNumber(rows)
	case KindVector:
		return splitTrailingNumber(t.Name)
	}
	return element, dimension
}

func splitTrailingNumber(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, 0
	}
	return s[:i], n
}

// FieldDescriptor describes one member of a component.
type FieldDescriptor struct {
	Name    string         `json:"name"`
	Wrapper WrapperKind    `json:"wrapper" jsonschema:"enum=Value,enum=ObjectReference,enum=AssetReference,enum=DrivenField,enum=DriveReference,enum=ValueList,enum=ReferenceList,enum=AssetList,enum=FieldList,enum=RawOutput"`
	Type    TypeDescriptor `json:"type"`
}
