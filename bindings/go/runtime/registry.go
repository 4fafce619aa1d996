package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"sync"

	"sigs.k8s.io/yaml"
)

// Scheme is a dynamic registry for Typed documents.
type Scheme struct {
	mu    sync.RWMutex
	types map[Type]Typed
}

// NewScheme creates a new registry.
func NewScheme() *Scheme {
	return &Scheme{
		types: make(map[Type]Typed),
	}
}

func (r *Scheme) RegisterWithAlias(prototype Typed, types ...Type) error {
	if t := reflect.TypeOf(prototype); t == nil || t.Kind() != reflect.Pointer {
		return fmt.Errorf("prototype %T must be a pointer to a struct", prototype)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, typ := range types {
		if _, exists := r.types[typ]; exists {
			return fmt.Errorf("type %q is already registered", typ)
		}
		r.types[typ] = prototype
	}
	return nil
}

func (r *Scheme) MustRegisterWithAlias(prototype Typed, types ...Type) {
	if err := r.RegisterWithAlias(prototype, types...); err != nil {
		panic(err)
	}
}

func (r *Scheme) IsRegistered(typ Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.types[typ]
	return exists
}

// Types lists the registered types in sorted order.
func (r *Scheme) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.types))
}

// NewObject creates a new empty instance of the document registered for typ.
func (r *Scheme) NewObject(typ Type) (Typed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	proto, exists := r.types[typ]
	if !exists {
		return nil, fmt.Errorf("unsupported type: %s", typ)
	}
	t := reflect.TypeOf(proto)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflect.New(t).Interface().(Typed), nil //nolint:forcetypeassert // we know the type of object
}

// Decode reads a YAML or JSON document, creates the object registered for its
// "type" field and unmarshals the document into it. Objects that describe
// themselves with a JSON schema are validated against it first.
func (r *Scheme) Decode(data io.Reader) (Typed, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	jsonData, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert document to json: %w", err)
	}

	header := struct {
		Type Type `json:"type"`
	}{}
	if err := json.Unmarshal(jsonData, &header); err != nil {
		return nil, fmt.Errorf("failed to read document type: %w", err)
	}
	if header.Type.IsEmpty() {
		return nil, fmt.Errorf("document does not declare a type")
	}

	obj, err := r.NewObject(header.Type)
	if err != nil {
		return nil, err
	}
	if introspectable, ok := obj.(JSONSchemaIntrospectable); ok {
		if err := ValidateJSON(introspectable.JSONSchema(), jsonData); err != nil {
			return nil, fmt.Errorf("%s document is invalid: %w", header.Type, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return nil, fmt.Errorf("failed to decode %s document: %w", header.Type, err)
	}
	return obj, nil
}
