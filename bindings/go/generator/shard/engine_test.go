package shard_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
	"github.com/componentschema/componentschema/bindings/go/generator/jsonschemagen"
	"github.com/componentschema/componentschema/bindings/go/generator/shard"
	"github.com/componentschema/componentschema/bindings/go/generator/universe"
)

var (
	floatType = descriptor.TypeDescriptor{Name: "float", Kind: descriptor.KindPrimitive}
	blendType = descriptor.TypeDescriptor{Name: "Mod.Blend", Module: "Mod", Kind: descriptor.KindEnum, EnumValues: []string{"Add", "Multiply"}}
	paramT    = descriptor.TypeDescriptor{Name: "T", Kind: descriptor.KindGenericParameter}
)

func audioOutput(namespace string) *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:   namespace + ".AudioOutput",
		Module: "Mod",
		Fields: []descriptor.FieldDescriptor{
			{Name: "Volume", Wrapper: descriptor.WrapperValue, Type: floatType},
			{Name: "Blend", Wrapper: descriptor.WrapperValue, Type: blendType},
		},
	}
}

func valueField() *descriptor.ComponentDescriptor {
	return &descriptor.ComponentDescriptor{
		Name:             "Mod.ValueField`1",
		Module:           "Mod",
		AllowedArguments: []string{"bool", "int", "float3", "[Mod]Mod.Blend"},
		Fields: []descriptor.FieldDescriptor{
			{Name: "Value", Wrapper: descriptor.WrapperValue, Type: paramT},
		},
	}
}

func partition(t *testing.T, components ...*descriptor.ComponentDescriptor) (*shard.Corpus, *jsonschemagen.Report) {
	t.Helper()
	r := require.New(t)
	u := universe.New()
	r.NoError(u.AddType(blendType))
	for _, c := range components {
		r.NoError(u.AddComponent(c))
	}
	g := jsonschemagen.New(u, u)
	docs, report, err := g.Generate(t.Context(), u.Components())
	r.NoError(err)
	corpus, err := shard.New("").Partition(t.Context(), g.Common(), docs, report)
	r.NoError(err)
	return corpus, report
}

func TestPartitionPlacesConcreteComponentInItsBucketOnly(t *testing.T) {
	r := require.New(t)
	corpus, report := partition(t, audioOutput("Mod"), valueField())
	r.Equal(2, report.Succeeded())

	r.Len(corpus.Components, 2)
	for b, s := range corpus.Components {
		_, ok := s.Defs["AudioOutput"]
		r.Equal(b == 169, ok, "bucket %d", b)
	}

	def := corpus.Components[169].Defs["AudioOutput"]
	r.Empty(def.Schema)
	r.Empty(def.ID)
	r.Nil(def.Defs)

	raw, err := json.Marshal(def)
	r.NoError(err)
	r.Contains(string(raw), `"$ref":"enums_097.schema.json#/$defs/Blend_value"`)
	r.Contains(string(raw), `"$ref":"common.schema.json#/$defs/float_value"`)
	r.NotContains(string(raw), `"#/$defs/Blend_value"`)

	r.Contains(corpus.Enums, 97)
	r.Contains(corpus.Enums[97].Defs, "Blend_value")
	r.Len(corpus.Enums, 1)
}

func TestPartitionNestsGenericVariants(t *testing.T) {
	r := require.New(t)
	corpus, _ := partition(t, valueField())

	b := shard.Bucket("Mod.ValueField`1")
	r.Len(corpus.Components, 1)
	def := corpus.Components[b].Defs["ValueField_1"]
	r.NotNil(def)
	r.Len(def.OneOf, 4)
	r.Equal("#/$defs/ValueField_1/$defs/ValueField_bool", def.OneOf[0].Ref)
	for _, name := range []string{"ValueField_bool", "ValueField_int", "ValueField_float3", "ValueField_Blend"} {
		r.Contains(def.Defs, name)
	}
	r.NotContains(def.Defs, "Blend_value")

	raw, err := json.Marshal(def.Defs["ValueField_Blend"])
	r.NoError(err)
	r.Contains(string(raw), "enums_097.schema.json#/$defs/Blend_value")

	r.Equal([]shard.Assignment{{
		Component:  "Mod.ValueField`1",
		Definition: "ValueField_1",
		Bucket:     b,
		File:       shard.ComponentFile(b),
		Variants:   []string{"ValueField_Blend", "ValueField_bool", "ValueField_float3", "ValueField_int"},
		Enums:      []string{"Blend_value"},
	}}, corpus.Assignments)
}

func TestPartitionRejectsDefinitionCollision(t *testing.T) {
	r := require.New(t)
	first, second := audioOutput("Mod"), audioOutput("doM")
	r.Equal(shard.Bucket(first.CanonicalName()), shard.Bucket(second.CanonicalName()))

	corpus, report := partition(t, second, first)
	r.Len(corpus.Assignments, 1)
	r.Equal("[Mod]Mod.AudioOutput", corpus.Assignments[0].Component)

	r.Equal(1, report.Failed())
	failure := report.Failures()[0]
	r.Equal("[Mod]doM.AudioOutput", failure.Component)
	r.Contains(failure.Reason, "AudioOutput is already defined by [Mod]Mod.AudioOutput")
}

func TestPartitionRecordsOwner(t *testing.T) {
	r := require.New(t)
	corpus, _ := partition(t, audioOutput("Mod"), valueField())

	r.Equal("[Mod]Mod.AudioOutput", corpus.Components[169].Defs["AudioOutput"].Comment)
	r.Equal("Mod.ValueField`1", corpus.Components[192].Defs["ValueField_1"].Comment)
	r.Empty(corpus.Enums[97].Defs["Blend_value"].Comment)
}

func TestPartitionSkipsRepeatedComponent(t *testing.T) {
	r := require.New(t)
	u := universe.New()
	r.NoError(u.AddType(blendType))
	r.NoError(u.AddComponent(audioOutput("Mod")))
	g := jsonschemagen.New(u, u)
	docs, report, err := g.Generate(t.Context(), u.Components())
	r.NoError(err)
	r.Len(docs, 1)

	corpus, err := shard.New("").Partition(t.Context(), g.Common(), append(docs, docs[0]), report)
	r.NoError(err)
	r.Len(corpus.Assignments, 1)
	r.Equal("[Mod]Mod.AudioOutput", corpus.Assignments[0].Component)
	r.Zero(report.Failed())
	r.Equal(1, report.Succeeded())
}

func TestPartitionOrdersAssignmentsByBucketAndDefinition(t *testing.T) {
	r := require.New(t)
	corpus, _ := partition(t, valueField(), audioOutput("Mod"))

	r.Len(corpus.Assignments, 2)
	r.Equal(169, corpus.Assignments[0].Bucket)
	r.Equal("AudioOutput", corpus.Assignments[0].Definition)
	r.Equal(192, corpus.Assignments[1].Bucket)
	r.Equal("ValueField_1", corpus.Assignments[1].Definition)
}

func TestIndex(t *testing.T) {
	r := require.New(t)
	corpus, _ := partition(t, audioOutput("Mod"), valueField())

	r.NotNil(corpus.Index)
	r.Equal(shard.IndexFile, corpus.Index.ID)
	var refs []string
	for _, s := range corpus.Index.OneOf {
		refs = append(refs, s.Ref)
	}
	r.Equal([]string{
		"components_169.schema.json#/$defs/AudioOutput",
		"components_192.schema.json#/$defs/ValueField_1",
	}, refs)

	empty, err := shard.New("").Partition(t.Context(), nil, nil, nil)
	r.NoError(err)
	r.Nil(empty.Index)
	r.Empty(empty.Documents())
}

func TestDocuments(t *testing.T) {
	r := require.New(t)
	corpus, _ := partition(t, audioOutput("Mod"), valueField())

	var names []string
	for _, d := range corpus.Documents() {
		names = append(names, d.Name)
		r.NotEmpty(d.Schema.Schema, d.Name)
		r.NotEmpty(d.Schema.ID, d.Name)
		r.NotEmpty(d.Schema.Title, d.Name)
		r.NotEmpty(d.Schema.Description, d.Name)
	}
	r.Equal([]string{
		"common.schema.json",
		"components_169.schema.json",
		"components_192.schema.json",
		"enums_097.schema.json",
		"index.schema.json",
	}, names)
}

func TestPartitionIsByteIdentical(t *testing.T) {
	r := require.New(t)
	render := func() string {
		corpus, _ := partition(t, audioOutput("Mod"), valueField())
		var sb strings.Builder
		for _, d := range corpus.Documents() {
			raw, err := json.Marshal(d.Schema)
			r.NoError(err)
			sb.WriteString(d.Name)
			sb.Write(raw)
		}
		raw, err := json.Marshal(corpus.Assignments)
		r.NoError(err)
		sb.Write(raw)
		return sb.String()
	}
	r.Equal(render(), render())
}
