package runtime

import (
	"encoding/json"
	"fmt"
)

// Raw is a serialized component instance whose declared component type has been
// read but whose members are left undecoded.
type Raw struct {
	ComponentType string `json:"componentType"`
	Data          []byte `json:"-"`
}

var _ interface {
	json.Marshaler
	json.Unmarshaler
} = &Raw{}

func (u *Raw) MarshalJSON() ([]byte, error) {
	return u.Data, nil
}

func (u *Raw) UnmarshalJSON(data []byte) error {
	t := &struct {
		ComponentType *string `json:"componentType"`
	}{}
	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("could not unmarshal data into raw: %w", err)
	}
	if t.ComponentType == nil {
		return ErrMissingComponentType
	}
	u.ComponentType = *t.ComponentType
	u.Data = append(u.Data[:0], data...)
	return nil
}

// InstanceType parses the declared component type.
func (u *Raw) InstanceType() (InstanceType, error) {
	return ParseInstanceType(u.ComponentType)
}
