package runtime

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const introspectedSchemaURL = "introspected.schema.json"

// ValidateJSON validates the JSON document doc against the JSON schema in schema.
func ValidateJSON(schema, doc []byte) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return fmt.Errorf("failed to parse json schema: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(introspectedSchemaURL, schemaDoc); err != nil {
		return fmt.Errorf("failed to add json schema resource: %w", err)
	}
	compiled, err := c.Compile(introspectedSchemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile json schema: %w", err)
	}
	return compiled.Validate(instance)
}
