package jsonschemagen

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

const JSONSchemaDraft202012URL = "https://json-schema.org/draft/2020-12/schema"

///////////////////////////////////////////////////////////////////////////////
// JSON Schema model
///////////////////////////////////////////////////////////////////////////////

// JSONSchemaDraft202012 is the subset of JSON Schema draft 2020-12 the
// generator emits. Struct field order is the serialization order of keywords.
type JSONSchemaDraft202012 struct {
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Comment     string `json:"$comment,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type    TypeList `json:"type,omitempty"`
	Const   any      `json:"const,omitempty"`
	Enum    []any    `json:"enum,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Format  string   `json:"format,omitempty"`

	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`

	Properties           map[string]*JSONSchemaDraft202012 `json:"properties,omitempty"`
	Required             []string                          `json:"required,omitempty"`
	AdditionalProperties *SchemaOrBool                     `json:"additionalProperties,omitempty"`

	Items    *JSONSchemaDraft202012 `json:"items,omitempty"`
	MinItems *int                   `json:"minItems,omitempty"`
	MaxItems *int                   `json:"maxItems,omitempty"`

	AllOf []*JSONSchemaDraft202012 `json:"allOf,omitempty"`
	AnyOf []*JSONSchemaDraft202012 `json:"anyOf,omitempty"`
	OneOf []*JSONSchemaDraft202012 `json:"oneOf,omitempty"`
	Not   *JSONSchemaDraft202012   `json:"not,omitempty"`

	Defs map[string]*JSONSchemaDraft202012 `json:"$defs,omitempty"`
}

// TypeList is the "type" keyword. A single type is serialized as a string,
// several as an array.
type TypeList []string

func Types(types ...string) TypeList {
	return types
}

func (t TypeList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

func (t *TypeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TypeList{single}
		return nil
	}
	var multiple []string
	if err := json.Unmarshal(data, &multiple); err != nil {
		return fmt.Errorf("type must be a string or an array of strings: %w", err)
	}
	*t = multiple
	return nil
}

type SchemaOrBool struct {
	Schema *JSONSchemaDraft202012
	Bool   *bool
}

func (s *SchemaOrBool) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		return json.Marshal(s.Bool)
	}
	return json.Marshal(s.Schema)
}

func (s *SchemaOrBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.Bool, s.Schema = &b, nil
		return nil
	}
	s.Bool = nil
	s.Schema = &JSONSchemaDraft202012{}
	return json.Unmarshal(data, s.Schema)
}

func Ptr[T any](v T) *T {
	return &v
}

// LocalRef points at a definition of the same document.
func LocalRef(name string) string {
	return DefsPointer + name
}

// CommonRef points at a definition of the common library.
func CommonRef(name string) string {
	return CommonDocument + DefsPointer + name
}

///////////////////////////////////////////////////////////////////////////////
// Traversal
///////////////////////////////////////////////////////////////////////////////

// Walk calls fn for s and every schema nested below it, parents first.
func (s *JSONSchemaDraft202012) Walk(fn func(*JSONSchemaDraft202012)) {
	if s == nil {
		return
	}
	fn(s)
	for _, key := range slices.Sorted(maps.Keys(s.Properties)) {
		s.Properties[key].Walk(fn)
	}
	if s.AdditionalProperties != nil {
		s.AdditionalProperties.Schema.Walk(fn)
	}
	s.Items.Walk(fn)
	for _, sub := range s.AllOf {
		sub.Walk(fn)
	}
	for _, sub := range s.AnyOf {
		sub.Walk(fn)
	}
	for _, sub := range s.OneOf {
		sub.Walk(fn)
	}
	s.Not.Walk(fn)
	for _, key := range slices.Sorted(maps.Keys(s.Defs)) {
		s.Defs[key].Walk(fn)
	}
}

// DeepCopy returns an independent copy of s.
func (s *JSONSchemaDraft202012) DeepCopy() *JSONSchemaDraft202012 {
	if s == nil {
		return nil
	}
	out := *s
	out.Enum = slices.Clone(s.Enum)
	out.Required = slices.Clone(s.Required)
	out.Type = slices.Clone(s.Type)
	out.MinLength = clonePtr(s.MinLength)
	out.MaxLength = clonePtr(s.MaxLength)
	out.Minimum = clonePtr(s.Minimum)
	out.Maximum = clonePtr(s.Maximum)
	out.MinItems = clonePtr(s.MinItems)
	out.MaxItems = clonePtr(s.MaxItems)
	out.Properties = copyMap(s.Properties)
	out.Defs = copyMap(s.Defs)
	if s.AdditionalProperties != nil {
		out.AdditionalProperties = &SchemaOrBool{
			Schema: s.AdditionalProperties.Schema.DeepCopy(),
			Bool:   clonePtr(s.AdditionalProperties.Bool),
		}
	}
	out.Items = s.Items.DeepCopy()
	out.AllOf = copySlice(s.AllOf)
	out.AnyOf = copySlice(s.AnyOf)
	out.OneOf = copySlice(s.OneOf)
	out.Not = s.Not.DeepCopy()
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyMap(in map[string]*JSONSchemaDraft202012) map[string]*JSONSchemaDraft202012 {
	if in == nil {
		return nil
	}
	out := make(map[string]*JSONSchemaDraft202012, len(in))
	for k, v := range in {
		out[k] = v.DeepCopy()
	}
	return out
}

func copySlice(in []*JSONSchemaDraft202012) []*JSONSchemaDraft202012 {
	if in == nil {
		return nil
	}
	out := make([]*JSONSchemaDraft202012, len(in))
	for i, v := range in {
		out[i] = v.DeepCopy()
	}
	return out
}
