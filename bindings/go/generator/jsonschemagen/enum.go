package jsonschemagen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

// enumEnvelope is the value envelope of an enum type. Flag enums accept a
// comma separated combination of their values.
func enumEnvelope(t descriptor.TypeDescriptor) *JSONSchemaDraft202012 {
	var shape *JSONSchemaDraft202012
	if t.Flags {
		quoted := make([]string, 0, len(t.EnumValues))
		for _, v := range t.EnumValues {
			quoted = append(quoted, regexp.QuoteMeta(v))
		}
		alt := "(" + strings.Join(quoted, "|") + ")"
		shape = &JSONSchemaDraft202012{Type: Types("string"), Pattern: "^" + alt + "(, " + alt + ")*$"}
	} else {
		values := make([]any, 0, len(t.EnumValues))
		for _, v := range t.EnumValues {
			values = append(values, v)
		}
		shape = &JSONSchemaDraft202012{Type: Types("string"), Enum: values}
	}
	s := valueEnvelope(t.TypeString(), shape, t.Nullable, CommonRef)
	s.Title = EnumDefinitionName(t)
	s.Description = "Values of " + t.QualifiedName() + "."
	return s
}

// CanonicalJSON serializes s in RFC 8785 canonical form, so that two schemas
// are structurally identical exactly when their canonical bytes are equal.
func CanonicalJSON(s *JSONSchemaDraft202012) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize schema: %w", err)
	}
	return canonical, nil
}

// SameSchema reports whether a and b serialize to the same canonical bytes.
func SameSchema(a, b *JSONSchemaDraft202012) (bool, error) {
	ca, err := CanonicalJSON(a)
	if err != nil {
		return false, err
	}
	cb, err := CanonicalJSON(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

// EnumPool merges the enum definitions of all generated documents into one
// set keyed by definition name.
type EnumPool struct {
	entries map[string]pooledEnum
}

type pooledEnum struct {
	schema    *JSONSchemaDraft202012
	canonical []byte
	owner     string
}

func NewEnumPool() *EnumPool {
	return &EnumPool{entries: map[string]pooledEnum{}}
}

// Add merges the enums of doc. Either all of them are added or, if one of them
// conflicts with an enum of the same name already in the pool, none and an
// ErrDefinitionConflict is returned.
func (p *EnumPool) Add(doc *Document) error {
	pending := make(map[string]pooledEnum, len(doc.Enums))
	for _, name := range doc.Enums {
		s, ok := doc.Schema.Defs[name]
		if !ok {
			return fmt.Errorf("document %s lists enum %q without a definition", doc.CanonicalName, name)
		}
		canonical, err := CanonicalJSON(s)
		if err != nil {
			return err
		}
		if existing, ok := p.entries[name]; ok && !bytes.Equal(existing.canonical, canonical) {
			return fmt.Errorf("%w: enum %q of %s differs from the one of %s",
				ErrDefinitionConflict, name, doc.CanonicalName, existing.owner)
		}
		pending[name] = pooledEnum{schema: s, canonical: canonical, owner: doc.CanonicalName}
	}
	for name, e := range pending {
		if _, ok := p.entries[name]; !ok {
			p.entries[name] = e
		}
	}
	return nil
}

// Names returns the pooled enum names in order.
func (p *EnumPool) Names() []string {
	return slices.Sorted(maps.Keys(p.entries))
}

func (p *EnumPool) Get(name string) (*JSONSchemaDraft202012, bool) {
	e, ok := p.entries[name]
	return e.schema, ok
}

func (p *EnumPool) Len() int {
	return len(p.entries)
}
