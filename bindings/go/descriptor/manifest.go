package descriptor

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/componentschema/componentschema/bindings/go/runtime"
)

const (
	ManifestType    = "manifest.componentschema.dev"
	ManifestVersion = "v1"
)

var ManifestTypeV1 = runtime.NewType(ManifestType, ManifestVersion)

// Manifest is the serialized form of a component universe as exported from
// a host. Types declared in Types can be referenced from fields by name.
type Manifest struct {
	Type       runtime.Type          `json:"type"`
	Types      []TypeDescriptor      `json:"types,omitempty"`
	Components []ComponentDescriptor `json:"components,omitempty"`
}

var _ interface {
	runtime.Typed
	runtime.JSONSchemaIntrospectable
} = &Manifest{}

func (m *Manifest) GetType() runtime.Type {
	return m.Type
}

var manifestSchema = sync.OnceValues(func() ([]byte, error) {
	return json.MarshalIndent(ManifestJSONSchema(), "", "  ")
})

// JSONSchema returns the JSON schema manifests are validated against.
func (m *Manifest) JSONSchema() []byte {
	data, err := manifestSchema()
	if err != nil {
		panic(err)
	}
	return data
}

// ManifestJSONSchema reflects the manifest schema.
func ManifestJSONSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{}
	s := r.Reflect(&Manifest{})
	s.Title = "Component manifest"
	s.Description = "Component and type descriptors exported from a host."
	return s
}
