package generate_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/require"

	"github.com/componentschema/componentschema/cli/cmd/internal/test"
)

func TestGenerateShards(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	manifest := test.WriteManifest(t, dir)
	out := filepath.Join(dir, "schemas")

	output, err := test.Output(t, "generate", "shards",
		"--manifest", manifest,
		"--output", out,
		"--base-uri", "https://schemas.example.com/",
		"--report", "json")
	r.NoError(err)

	var summary struct {
		Succeeded   int `json:"succeeded"`
		Failed      int `json:"failed"`
		Assignments []struct {
			Component string   `json:"component"`
			Bucket    int      `json:"bucket"`
			Variants  []string `json:"variants"`
		} `json:"assignments"`
		Files []struct {
			Name   string `json:"name"`
			Digest string `json:"digest"`
		} `json:"files"`
	}
	r.NoError(json.Unmarshal([]byte(output), &summary))
	r.Equal(2, summary.Succeeded)
	r.Zero(summary.Failed)
	r.Len(summary.Assignments, 2)

	byComponent := map[string]int{}
	for _, a := range summary.Assignments {
		byComponent[a.Component] = a.Bucket
		if a.Component == "Mod.ValueField`1" {
			r.Len(a.Variants, 3)
		}
	}
	r.Equal(169, byComponent["[Mod]Mod.AudioOutput"])

	r.Len(summary.Files, 6)
	for _, f := range summary.Files {
		r.FileExists(filepath.Join(out, f.Name))
		r.True(strings.HasPrefix(f.Digest, "sha256:"), f.Digest)
	}

	for _, name := range []string{"common.schema.json", "components_169.schema.json", "enums_097.schema.json", "index.schema.json", "shards.json"} {
		r.FileExists(filepath.Join(out, name))
	}

	raw, err := os.ReadFile(filepath.Join(out, "index.schema.json"))
	r.NoError(err)
	var index map[string]any
	r.NoError(json.Unmarshal(raw, &index))
	r.Equal("https://schemas.example.com/index.schema.json", index["$id"])
}

func TestGenerateShardsTableReport(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	manifest := test.WriteManifest(t, dir)

	output, err := test.Output(t, "generate", "shards", "--manifest", manifest, "--output", filepath.Join(dir, "schemas"))
	r.NoError(err)
	r.Contains(output, "COMPONENT")
	r.Contains(output, "[Mod]Mod.AudioOutput")
	r.Contains(output, "components_169.schema.json#/$defs/AudioOutput")
	r.Contains(output, "2 components generated into 2 component shards and 1 enum shards, 0 failed, 0 warnings")
}

func TestGenerateShardsIsStable(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	manifest := test.WriteManifest(t, dir)

	read := func(out string) map[string][]byte {
		entries, err := os.ReadDir(out)
		r.NoError(err)
		files := map[string][]byte{}
		for _, e := range entries {
			data, err := os.ReadFile(filepath.Join(out, e.Name()))
			r.NoError(err)
			files[e.Name()] = data
		}
		return files
	}

	first, second := filepath.Join(dir, "first"), filepath.Join(dir, "second")
	_, err := test.Output(t, "generate", "shards", "--manifest", manifest, "--output", first, "--workers", "1")
	r.NoError(err)
	_, err = test.Output(t, "generate", "shards", "--manifest", manifest, "--output", second, "--workers", "8")
	r.NoError(err)
	r.Equal(read(first), read(second))
}

func TestGenerateShardsFromConfig(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	test.WriteManifest(t, dir)
	out := filepath.Join(dir, "configured")
	config := test.WriteFile(t, dir, "config.yaml", []byte(`
type: generator.config.componentschema.dev/v1
baseURI: https://configured.example.com/
manifests:
  - `+filepath.Join(dir, "*.manifest.yaml")+`
output: `+out+`
logging:
  rules:
    - realm: shard
      level: debug
`))

	var logs bytes.Buffer
	_, err := test.Run(t,
		test.WithArgs("generate", "shards", "--config", config, "--logformat", "json"),
		test.WithErrorOutput(&logs),
	)
	r.NoError(err)
	r.Contains(logs.String(), `"msg":"component placed"`)

	raw, err := os.ReadFile(filepath.Join(out, "common.schema.json"))
	r.NoError(err)
	r.Contains(string(raw), `"$id": "https://configured.example.com/common.schema.json"`)
}

func TestGenerateShardsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{name: "no matching manifest", args: []string{"--manifest", filepath.Join(dir, "*.yaml"), "--output", dir}},
		{name: "invalid report format", args: []string{"--manifest", filepath.Join(dir, "*.yaml"), "--report", "xml"}},
		{name: "unexpected argument", args: []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := test.Output(t, append([]string{"generate", "shards"}, tt.args...)...)
			require.Error(t, err)
		})
	}
}

func TestGenerateComponent(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	manifest := test.WriteManifest(t, dir)
	out := filepath.Join(dir, "standalone")

	output, err := test.Output(t, "generate", "component", "[Mod]Mod.AudioOutput", "--manifest", manifest, "--output", out)
	r.NoError(err)
	path := filepath.Join(out, "AudioOutput.schema.json")
	r.Equal(path+"\n", output)

	raw, err := os.ReadFile(path)
	r.NoError(err)
	var doc struct {
		Defs map[string]any `json:"$defs"`
	}
	r.NoError(json.Unmarshal(raw, &doc))
	r.Contains(doc.Defs, "Blend_value")
	r.FileExists(filepath.Join(out, "common.schema.json"))

	schema, err := jsonschema.NewCompiler().Compile(path)
	r.NoError(err)
	instance, err := test.Output(t, "generate", "sample", "[Mod]Mod.AudioOutput", "--manifest", manifest)
	r.NoError(err)
	v, err := jsonschema.UnmarshalJSON(strings.NewReader(instance))
	r.NoError(err)
	r.NoError(schema.Validate(v))

	_, err = test.Output(t, "generate", "component", "Mod.Missing", "--manifest", manifest, "--output", out)
	r.ErrorContains(err, `component "Mod.Missing" not found`)
}

func TestGenerateSample(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	manifest := test.WriteManifest(t, dir)
	schemas := filepath.Join(dir, "schemas")
	_, err := test.Output(t, "generate", "shards", "--manifest", manifest, "--output", schemas)
	r.NoError(err)

	var files []string
	for name, componentType := range map[string]string{
		"audio.json": "[Mod]Mod.AudioOutput",
		"field.json": "[Mod]Mod.ValueField<[Mod]Mod.Blend>",
	} {
		output, err := test.Output(t, "generate", "sample", componentType, "--manifest", manifest)
		r.NoError(err)
		var instance struct {
			ComponentType string         `json:"componentType"`
			Members       map[string]any `json:"members"`
		}
		r.NoError(json.Unmarshal([]byte(output), &instance))
		r.Equal(componentType, instance.ComponentType)
		r.NotEmpty(instance.Members)
		files = append(files, test.WriteFile(t, dir, name, []byte(output)))
	}

	_, err = test.Output(t, "validate", files[0], files[1], "--schemas", schemas)
	r.NoError(err)

	_, err = test.Output(t, "generate", "sample", "[Mod]Mod.ValueField<[Mod]Mod.Missing>", "--manifest", manifest)
	r.ErrorContains(err, `unknown generic argument "[Mod]Mod.Missing"`)
	_, err = test.Output(t, "generate", "sample", "[Mod]Mod.Missing", "--manifest", manifest)
	r.ErrorContains(err, `component "[Mod]Mod.Missing" not found`)
}

func TestGenerateCommon(t *testing.T) {
	r := require.New(t)
	out := t.TempDir()

	_, err := test.Output(t, "generate", "common", "--output", out)
	r.NoError(err)

	raw, err := os.ReadFile(filepath.Join(out, "common.schema.json"))
	r.NoError(err)
	var doc struct {
		Defs map[string]any `json:"$defs"`
	}
	r.NoError(json.Unmarshal(raw, &doc))
	r.Contains(doc.Defs, "float_value")
	r.Contains(doc.Defs, "nullable_float3_value")
}

func TestGenerateSchemas(t *testing.T) {
	for _, tt := range []struct {
		command string
		title   string
	}{
		{command: "manifest-schema", title: "Component manifest"},
		{command: "config-schema", title: "Generator configuration"},
	} {
		t.Run(tt.command, func(t *testing.T) {
			r := require.New(t)
			output, err := test.Output(t, "generate", tt.command)
			r.NoError(err)
			var schema map[string]any
			r.NoError(json.Unmarshal([]byte(output), &schema))
			r.Equal(tt.title, schema["title"])
		})
	}
}
