package store

import (
	"fmt"

	"github.com/roach88/scenectx/internal/value"
)

// marshalValue converts a value to its kind tag and canonical JSON TEXT.
func marshalValue(v value.Value) (kind string, data string, err error) {
	if v == nil {
		return "", "", fmt.Errorf("marshal value: nil value")
	}
	b, err := value.Marshal(v)
	if err != nil {
		return "", "", fmt.Errorf("marshal value: %w", err)
	}
	return v.Kind().String(), string(b), nil
}

// unmarshalValue decodes a stored value and checks it against its kind column.
func unmarshalValue(kind, data string) (value.Value, error) {
	v, err := value.Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	if v.Kind().String() != kind {
		return nil, fmt.Errorf("unmarshal value: kind column %q does not match payload kind %q", kind, v.Kind())
	}
	return v, nil
}
