package runtime

import (
	"fmt"
	"strings"
)

// Typed is any document that is defined by a versioned type.
type Typed interface {
	// GetType returns the documents type and version
	GetType() Type
}

// Type identifies a versioned document kind such as a manifest or a
// configuration file. It is rendered as "name/version".
type Type string

func NewType(name, version string) Type {
	return Type(fmt.Sprintf("%s/%s", name, version))
}

// ParseType parses a "name/version" string.
func ParseType(typ string) (Type, error) {
	name, version, found := strings.Cut(typ, "/")
	if !found || strings.Contains(version, "/") {
		return "", fmt.Errorf("invalid type %q, not exactly name+version", typ)
	}
	if name == "" {
		return "", fmt.Errorf("invalid type %q, missing name", typ)
	}
	if version == "" {
		return "", fmt.Errorf("invalid type %q, missing version", typ)
	}
	return NewType(name, version), nil
}

func (t Type) String() string {
	return string(t)
}

func (t Type) GetType() Type {
	return t
}

func (t Type) IsEmpty() bool {
	return t == ""
}

func (t Type) GetName() string {
	name, _, _ := strings.Cut(string(t), "/")
	return name
}

func (t Type) GetVersion() string {
	_, version, _ := strings.Cut(string(t), "/")
	return version
}
