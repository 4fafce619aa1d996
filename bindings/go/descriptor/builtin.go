package descriptor

import (
	"cmp"
	"slices"
	"strconv"
	"sync"
)

const (
	// FieldTypeName is the interface drive targets are typed with, as in "IField<float3>".
	FieldTypeName = "IField"
	// AssetProviderTypeName is the interface asset references are typed with.
	AssetProviderTypeName = "IAssetProvider"
)

// ColorProfiles are the profiles a profiled color may carry.
var ColorProfiles = []string{"Linear", "sRGB", "sRGBAlpha"}

var (
	primitiveNames = []string{
		"bool", "byte", "ushort", "uint", "ulong", "sbyte", "short", "int", "long",
		"float", "double", "decimal", "char", "string", "Uri", "DateTime", "TimeSpan",
	}
	vectorElements = []string{"bool", "int", "uint", "long", "ulong", "float", "double"}
	realElements   = []string{"float", "double"}
)

var commonValueTypes = sync.OnceValues(func() ([]TypeDescriptor, map[string]TypeDescriptor) {
	var all []TypeDescriptor
	for _, name := range primitiveNames {
		all = append(all, TypeDescriptor{Name: name, Kind: KindPrimitive})
	}
	for _, elem := range vectorElements {
		for n := 2; n <= 4; n++ {
			all = append(all, TypeDescriptor{Name: elem + strconv.Itoa(n), Kind: KindVector, Element: elem, Dimension: n})
		}
	}
	for _, elem := range realElements {
		all = append(all, TypeDescriptor{Name: elem + "Q", Kind: KindQuaternion, Element: elem, Dimension: 4})
		for n := 2; n <= 4; n++ {
			name := elem + strconv.Itoa(n) + "x" + strconv.Itoa(n)
			all = append(all, TypeDescriptor{Name: name, Kind: KindMatrix, Element: elem, Dimension: n})
		}
	}
	all = append(all,
		TypeDescriptor{Name: "color", Kind: KindColor, Element: "float", Dimension: 4},
		TypeDescriptor{Name: "colorX", Kind: KindColor, Element: "float", Dimension: 4, HasProfile: true},
	)
	slices.SortFunc(all, func(a, b TypeDescriptor) int {
		return cmp.Compare(a.Name, b.Name)
	})
	byName := make(map[string]TypeDescriptor, len(all))
	for _, t := range all {
		byName[t.Name] = t
	}
	return all, byName
})

// CommonValueTypes returns the value types shared by all components, sorted by name.
func CommonValueTypes() []TypeDescriptor {
	all, _ := commonValueTypes()
	return slices.Clone(all)
}

// LookupCommonValueType returns the common value type with the given name.
func LookupCommonValueType(name string) (TypeDescriptor, bool) {
	_, byName := commonValueTypes()
	t, ok := byName[name]
	return t, ok
}

func IsCommonValueType(name string) bool {
	_, ok := LookupCommonValueType(name)
	return ok
}

var envelopeMembers = []FieldDescriptor{
	{Name: "Enabled", Wrapper: WrapperValue, Type: TypeDescriptor{Name: "bool", Kind: KindPrimitive}},
	{Name: "UpdateOrder", Wrapper: WrapperValue, Type: TypeDescriptor{Name: "int", Kind: KindPrimitive}},
	{Name: "persistent", Wrapper: WrapperValue, Type: TypeDescriptor{Name: "bool", Kind: KindPrimitive}},
}

// EnvelopeMembers are the members every component inherits from the shared
// component envelope.
func EnvelopeMembers() []FieldDescriptor {
	return slices.Clone(envelopeMembers)
}

func IsEnvelopeMember(name string) bool {
	return slices.ContainsFunc(envelopeMembers, func(f FieldDescriptor) bool {
		return f.Name == name
	})
}
