package runtime

// JSONSchemaIntrospectable defines a type that can provide its JSON Schema
// representation as a raw byte slice. Documents implementing it are validated
// against that schema by Scheme.Decode before they are unmarshalled.
type JSONSchemaIntrospectable interface {
	// JSONSchema returns the JSON Schema for the implementing type.
	// If implemented, MUST return a valid JSON Schema.
	JSONSchema() []byte
}
