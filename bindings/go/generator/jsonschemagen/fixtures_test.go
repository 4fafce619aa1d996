package jsonschemagen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/generator/universe"
)

var (
	floatType  = descriptor.TypeDescriptor{Name: "float", Kind: descriptor.KindPrimitive}
	boolType   = descriptor.TypeDescriptor{Name: "bool", Kind: descriptor.KindPrimitive}
	float3Type = descriptor.TypeDescriptor{Name: "float3", Kind: descriptor.KindVector, Element: "float", Dimension: 3}
	blendType  = descriptor.TypeDescriptor{Name: "Mod.Blend", Module: "Mod", Kind: descriptor.KindEnum, EnumValues: []string{"Add", "Multiply"}}
	slotType   = descriptor.TypeDescriptor{Name: "FrooxEngine.Slot", Module: "FrooxEngine", Kind: descriptor.KindOpaqueObject}
	clipType   = descriptor.TypeDescriptor{Name: "FrooxEngine.AudioClip", Module: "FrooxEngine", Kind: descriptor.KindOpaqueObject}
	paramT     = descriptor.TypeDescriptor{Name: "T", Kind: descriptor.KindGenericParameter}
)

func audioOutput() *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:        "Mod.AudioOutput",
		Module:      "Mod",
		Description: "Plays audio.",
		Fields: []descriptor.FieldDescriptor{
			{Name: "Volume", Wrapper: descriptor.WrapperValue, Type: floatType},
			{Name: "Pitch", Wrapper: descriptor.WrapperValue, Type: floatType},
			{Name: "Offset", Wrapper: descriptor.WrapperValue, Type: float3Type},
			{Name: "Blend", Wrapper: descriptor.WrapperValue, Type: blendType},
			{Name: "Source", Wrapper: descriptor.WrapperObjectReference, Type: slotType},
			{Name: "Clip", Wrapper: descriptor.WrapperAssetReference, Type: clipType},
			{Name: "Drive", Wrapper: descriptor.WrapperDrivenField, Type: float3Type},
			{Name: "Targets", Wrapper: descriptor.WrapperReferenceList, Type: slotType},
			{Name: "Samples", Wrapper: descriptor.WrapperValueList, Type: floatType},
			{Name: "Output", Wrapper: descriptor.WrapperRawOutput, Type: floatType},
			{Name: "Enabled", Wrapper: descriptor.WrapperValue, Type: boolType},
		},
	}
}

func valueField(allowed ...string) *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:             "Mod.ValueField`1",
		Module:           "Mod",
		AllowedArguments: allowed,
		Fields: []descriptor.FieldDescriptor{
			{Name: "Value", Wrapper: descriptor.WrapperValue, Type: paramT},
			{Name: "Driver", Wrapper: descriptor.WrapperDriveReference, Type: paramT},
		},
	}
}

func newUniverse(t *testing.T, components ...*descriptor.ComponentDescriptor) *universe.Universe {
	t.Helper()
	r := require.New(t)
	u := universe.New()
	for _, typ := range []descriptor.TypeDescriptor{blendType, slotType, clipType} {
		r.NoError(u.AddType(typ))
	}
	for _, c := range components {
		r.NoError(u.AddComponent(c))
	}
	return u
}
