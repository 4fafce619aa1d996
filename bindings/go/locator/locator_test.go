package locator_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/shard"
	"github.com/componentschema/componentschema/bindings/go/generator/universe"
	"github.com/componentschema/componentschema/bindings/go/generator/writer"
	"github.com/componentschema/componentschema/bindings/go/locator"
)

const baseURI = "https://schemas.example.com/v1/"

var (
	floatType = descriptor.TypeDescriptor{Name: "float", Kind: descriptor.KindPrimitive}
	blendType = descriptor.TypeDescriptor{Name: "Mod.Blend", Module: "Mod", Kind: descriptor.KindEnum, EnumValues: []string{"Add", "Multiply"}}
	slotType  = descriptor.TypeDescriptor{Name: "FrooxEngine.Slot", Module: "FrooxEngine", Kind: descriptor.KindOpaqueObject}
	paramT    = descriptor.TypeDescriptor{Name: "T", Kind: descriptor.KindGenericParameter}
)

func commonType(t *testing.T, name string) descriptor.TypeDescriptor {
	t.Helper()
	typ, ok := descriptor.LookupCommonValueType(name)
	require.True(t, ok, name)
	return typ
}

func audioOutput(t *testing.T) *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:   "Mod.AudioOutput",
		Module: "Mod",
		Fields: []descriptor.FieldDescriptor{
			{Name: "Volume", Wrapper: descriptor.WrapperValue, Type: floatType},
			{Name: "Pitch", Wrapper: descriptor.WrapperValue, Type: floatType},
			{Name: "Offset", Wrapper: descriptor.WrapperValue, Type: commonType(t, "float3")},
			{Name: "Tint", Wrapper: descriptor.WrapperValue, Type: commonType(t, "colorX")},
			{Name: "Blend", Wrapper: descriptor.WrapperValue, Type: blendType},
			{Name: "Source", Wrapper: descriptor.WrapperObjectReference, Type: slotType},
			{Name: "Drive", Wrapper: descriptor.WrapperDrivenField, Type: commonType(t, "float3")},
			{Name: "Targets", Wrapper: descriptor.WrapperReferenceList, Type: slotType},
			{Name: "Output", Wrapper: descriptor.WrapperRawOutput, Type: floatType},
		},
	}
}

func valueField() *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:             "Mod.ValueField`1",
		Module:           "Mod",
		AllowedArguments: []string{"bool", "int", "float3", "[Mod]Mod.Blend", "[Mod]Mod.Unknown"},
		Fields: []descriptor.FieldDescriptor{
			{Name: "Value", Wrapper: descriptor.WrapperValue, Type: paramT},
			{Name: "Driver", Wrapper: descriptor.WrapperDriveReference, Type: paramT},
		},
	}
}

// dynamic has no known argument list and is generated as a pattern schema.
func dynamic() *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:   "Mod.Dynamic`1",
		Module: "Mod",
		Fields: []descriptor.FieldDescriptor{
			{Name: "Value", Wrapper: descriptor.WrapperValue, Type: paramT},
			{Name: "Scale", Wrapper: descriptor.WrapperValue, Type: floatType},
		},
	}
}

// corpusFS generates the corpus for the test components and serves it the
// way it is written to disk.
func corpusFS(t *testing.T, base string) fstest.MapFS {
	t.Helper()
	fsys, report := corpusOf(t, base, audioOutput(t), valueField(), dynamic())
	require.Zero(t, report.Failed())
	return fsys
}

func corpusOf(t *testing.T, base string, components ...*descriptor.ComponentDescriptor) (fstest.MapFS, *jsonschemagen.Report) {
	t.Helper()
	r := require.New(t)
	u := universe.New()
	r.NoError(u.AddType(blendType))
	r.NoError(u.AddType(slotType))
	for _, c := range components {
		r.NoError(u.AddComponent(c))
	}
	g := jsonschemagen.New(u, u, jsonschemagen.WithBaseURI(base))
	docs, report, err := g.Generate(t.Context(), u.Components())
	r.NoError(err)
	corpus, err := shard.New(base).Partition(t.Context(), g.Common(), docs, report)
	r.NoError(err)

	fsys := fstest.MapFS{}
	for _, d := range corpus.Documents() {
		raw, err := writer.Marshal(d.Schema)
		r.NoError(err)
		fsys[d.Name] = &fstest.MapFile{Data: raw}
	}
	return fsys, report
}

func sample(t *testing.T, c *descriptor.ComponentDescriptor, args ...descriptor.TypeDescriptor) map[string]any {
	t.Helper()
	instance, err := jsonschemagen.SampleInstance(c, args...)
	require.NoError(t, err)
	return instance
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func members(instance map[string]any) map[string]any {
	return instance[jsonschemagen.PropertyMembers].(map[string]any)
}

func TestLocateConcrete(t *testing.T) {
	r := require.New(t)
	l := locator.New(corpusFS(t, baseURI))

	loc, err := l.Locate(t.Context(), "[Mod]Mod.AudioOutput")
	r.NoError(err)
	r.Equal(&locator.Location{
		ComponentType: "[Mod]Mod.AudioOutput",
		CanonicalName: "[Mod]Mod.AudioOutput",
		Bucket:        169,
		File:          "components_169.schema.json",
		Definition:    "AudioOutput",
	}, loc)
	r.Equal("#/$defs/AudioOutput", loc.Pointer())
}

func TestLocateGeneric(t *testing.T) {
	tests := []struct {
		componentType string
		variant       string
	}{
		{"[Mod]Mod.ValueField<bool>", "ValueField_bool"},
		{"[Mod]Mod.ValueField<int>", "ValueField_int"},
		{"[Mod]Mod.ValueField<float3>", "ValueField_float3"},
		{"[Mod]Mod.ValueField<[Mod]Mod.Blend>", "ValueField_Blend"},
	}
	l := locator.New(corpusFS(t, baseURI))
	for _, tc := range tests {
		t.Run(tc.componentType, func(t *testing.T) {
			r := require.New(t)
			loc, err := l.Locate(t.Context(), tc.componentType)
			r.NoError(err)
			r.Equal("Mod.ValueField`1", loc.CanonicalName)
			r.Equal(192, loc.Bucket)
			r.Equal("ValueField_1", loc.Definition)
			r.Equal(tc.variant, loc.Variant)
			r.False(loc.Fallback)
			r.Equal("#/$defs/ValueField_1/$defs/"+tc.variant, loc.Pointer())
		})
	}
}

func TestLocateFallsBackToArityDefinition(t *testing.T) {
	r := require.New(t)
	l := locator.New(corpusFS(t, baseURI))

	loc, err := l.Locate(t.Context(), "[Mod]Mod.Dynamic<bool>")
	r.NoError(err)
	r.Equal("Dynamic_1", loc.Definition)
	r.Empty(loc.Variant)
	r.True(loc.Fallback)

	loc, err = l.Locate(t.Context(), "[Mod]Mod.ValueField<string>")
	r.NoError(err)
	r.Equal("ValueField_1", loc.Definition)
	r.True(loc.Fallback)

	loc, err = l.Locate(t.Context(), "Mod.ValueField`1")
	r.NoError(err)
	r.Equal("#/$defs/ValueField_1", loc.Pointer())
}

func TestLocateNotFound(t *testing.T) {
	l := locator.New(corpusFS(t, baseURI))
	for _, componentType := range []string{
		"[Mod]Mod.Missing",
		// the module prefix is part of a concrete canonical name
		"Mod.AudioOutput",
		"[Mod]Mod.ValueField<int,int>",
	} {
		t.Run(componentType, func(t *testing.T) {
			_, err := l.Locate(t.Context(), componentType)
			require.ErrorIs(t, err, locator.ErrDefinitionNotFound)
		})
	}
}

func TestLocateRequiresOwningComponent(t *testing.T) {
	r := require.New(t)
	mirrored := audioOutput(t)
	mirrored.Name = "doM.AudioOutput"
	r.Equal(shard.Bucket("[Mod]Mod.AudioOutput"), shard.Bucket(mirrored.CanonicalName()))

	fsys, report := corpusOf(t, baseURI, audioOutput(t), mirrored)
	r.Equal(1, report.Failed())
	l := locator.New(fsys)

	loc, err := l.Locate(t.Context(), "[Mod]Mod.AudioOutput")
	r.NoError(err)
	r.Equal("AudioOutput", loc.Definition)

	_, err = l.Locate(t.Context(), "[Mod]doM.AudioOutput")
	r.ErrorIs(err, locator.ErrDefinitionNotFound)

	instance := sample(t, mirrored)
	result, err := l.Validate(t.Context(), encode(t, instance))
	r.ErrorIs(err, locator.ErrDefinitionNotFound)
	r.Nil(result)
}

func TestRoundTrip(t *testing.T) {
	for name, base := range map[string]string{"absolute ids": baseURI, "relative ids": ""} {
		t.Run(name, func(t *testing.T) {
			l := locator.New(corpusFS(t, base))
			instances := map[string]map[string]any{
				"concrete":  sample(t, audioOutput(t)),
				"bool":      sample(t, valueField(), commonType(t, "bool")),
				"int":       sample(t, valueField(), commonType(t, "int")),
				"float3":    sample(t, valueField(), commonType(t, "float3")),
				"enum":      sample(t, valueField(), blendType),
				"pattern":   sample(t, dynamic(), commonType(t, "float")),
				"nullable":  sample(t, dynamic(), descriptor.TypeDescriptor{Name: "int", Kind: descriptor.KindPrimitive, Nullable: true}),
				"reference": sample(t, dynamic(), slotType),
			}
			for name, instance := range instances {
				t.Run(name, func(t *testing.T) {
					r := require.New(t)
					result, err := l.Validate(t.Context(), encode(t, instance))
					r.NoError(err)
					r.Empty(result.Issues)
					r.True(result.Valid)
					r.Equal(instance[jsonschemagen.PropertyComponentType], result.ComponentType)
					r.NotNil(result.Location)
				})
			}
		})
	}
}

func TestValidateReportsSchemaViolations(t *testing.T) {
	l := locator.New(corpusFS(t, baseURI))
	tests := []struct {
		name     string
		mutate   func(m map[string]any)
		location string
	}{
		{
			name: "wrong value type",
			mutate: func(m map[string]any) {
				m["Volume"].(map[string]any)[jsonschemagen.PropertyValue] = "loud"
			},
			location: "/members/Volume/value",
		},
		{
			name:     "missing member",
			mutate:   func(m map[string]any) { delete(m, "Pitch") },
			location: "/members",
		},
		{
			name: "value on raw output",
			mutate: func(m map[string]any) {
				m["Output"].(map[string]any)[jsonschemagen.PropertyValue] = 1
			},
			location: "/members/Output",
		},
		{
			name: "unknown enum value",
			mutate: func(m map[string]any) {
				m["Blend"].(map[string]any)[jsonschemagen.PropertyValue] = "Screen"
			},
			location: "/members/Blend/value",
		},
		{
			name: "wrong reference target",
			mutate: func(m map[string]any) {
				m["Source"].(map[string]any)[jsonschemagen.PropertyTargetType] = "[FrooxEngine]FrooxEngine.User"
			},
			location: "/members/Source/targetType",
		},
		{
			name: "missing vector axis",
			mutate: func(m map[string]any) {
				delete(m["Offset"].(map[string]any)[jsonschemagen.PropertyValue].(map[string]any), "z")
			},
			location: "/members/Offset/value",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)
			instance := sample(t, audioOutput(t))
			tc.mutate(members(instance))

			result, err := l.Validate(t.Context(), encode(t, instance))
			r.NoError(err)
			r.False(result.Valid)
			r.NotEmpty(result.Issues)
			var locations []string
			for _, issue := range result.Issues {
				r.NotEmpty(issue.Message)
				r.NotEmpty(issue.KeywordLocation)
				locations = append(locations, issue.InstanceLocation)
			}
			r.Contains(locations, tc.location)
		})
	}
}

func TestValidateRejectsVariantOutsideAllowedArguments(t *testing.T) {
	r := require.New(t)
	l := locator.New(corpusFS(t, baseURI))

	instance := sample(t, valueField(), commonType(t, "string"))
	result, err := l.Validate(t.Context(), encode(t, instance))
	r.NoError(err)
	r.True(result.Location.Fallback)
	r.False(result.Valid)
}

func TestValidateMalformedDocuments(t *testing.T) {
	tests := map[string]struct {
		doc      string
		location string
	}{
		"truncated":         {doc: `{"componentType": "[Mod]Mod.AudioOutput"`},
		"not an object":     {doc: `[1, 2]`},
		"no component type": {doc: `{"id": "ID1", "members": {}}`, location: "/componentType"},
		"null":              {doc: `null`, location: "/componentType"},
		"bad component type": {
			doc:      `{"componentType": "[Mod]Mod.ValueField<int"}`,
			location: "/componentType",
		},
	}
	l := locator.New(corpusFS(t, baseURI))
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)
			result, err := l.Validate(t.Context(), []byte(tc.doc))
			r.NoError(err)
			r.False(result.Valid)
			r.Len(result.Issues, 1)
			r.Equal(tc.location, result.Issues[0].InstanceLocation)
			r.Nil(result.Location)
		})
	}
}

func TestValidateUnknownTypeIsSetupError(t *testing.T) {
	r := require.New(t)
	l := locator.New(corpusFS(t, baseURI))
	instance := sample(t, audioOutput(t))
	instance[jsonschemagen.PropertyComponentType] = "[Mod]Mod.Missing"

	result, err := l.Validate(t.Context(), encode(t, instance))
	r.ErrorIs(err, locator.ErrDefinitionNotFound)
	r.Nil(result)
}

func TestValidateConcurrently(t *testing.T) {
	r := require.New(t)
	l := locator.New(corpusFS(t, baseURI), locator.WithCacheSize(1))

	docs := [][]byte{
		encode(t, sample(t, audioOutput(t))),
		encode(t, sample(t, valueField(), commonType(t, "bool"))),
		encode(t, sample(t, valueField(), blendType)),
		encode(t, sample(t, dynamic(), commonType(t, "float3"))),
	}
	var eg errgroup.Group
	for i := range 64 {
		doc := docs[i%len(docs)]
		eg.Go(func() error {
			result, err := l.Validate(t.Context(), doc)
			if err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("document %d is invalid: %v", i, result.Issues)
			}
			return nil
		})
	}
	r.NoError(eg.Wait())
}
