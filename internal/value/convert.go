package value

import (
	"errors"
	"fmt"
	"slices"
)

// UnsupportedError reports a Go value that has no Value representation.
type UnsupportedError struct {
	GoType string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported value type: %s", e.GoType)
}

// IsUnsupported returns true if err is, or wraps, an UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// FromGo converts a Go value into a Value.
//
// Accepted inputs are bool, every signed and unsigned integer width that
// fits int64, float32, float64, string, slices of those, and existing
// Values. Slices are always copied, so the result never aliases caller
// storage. Anything else returns *UnsupportedError.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return Clone(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint:
		if uint64(val) > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of int64 range: %w", val, &UnsupportedError{GoType: "uint"})
		}
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of int64 range: %w", val, &UnsupportedError{GoType: "uint64"})
		}
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []bool:
		return BoolArray(slices.Clone(val)), nil
	case []int:
		out := make(IntArray, len(val))
		for i, n := range val {
			out[i] = int64(n)
		}
		return out, nil
	case []int32:
		out := make(IntArray, len(val))
		for i, n := range val {
			out[i] = int64(n)
		}
		return out, nil
	case []int64:
		return IntArray(slices.Clone(val)), nil
	case []float32:
		out := make(FloatArray, len(val))
		for i, f := range val {
			out[i] = float64(f)
		}
		return out, nil
	case []float64:
		return FloatArray(slices.Clone(val)), nil
	case []string:
		return StringArray(slices.Clone(val)), nil
	case []any:
		return fromAnySlice(val)
	case nil:
		return nil, &UnsupportedError{GoType: "nil"}
	default:
		return nil, &UnsupportedError{GoType: fmt.Sprintf("%T", v)}
	}
}

// MustFromGo is like FromGo but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFromGo(v any) Value {
	val, err := FromGo(v)
	if err != nil {
		panic(err)
	}
	return val
}

// fromAnySlice converts a heterogeneous-typed slice (as produced by YAML or
// JSON decoders) into a homogeneous array. All elements must convert to
// the same scalar kind; an empty slice becomes an empty StringArray.
func fromAnySlice(elems []any) (Value, error) {
	if len(elems) == 0 {
		return StringArray{}, nil
	}

	scalars := make([]Value, len(elems))
	for i, e := range elems {
		sv, err := FromGo(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		if sv.Kind().IsArray() {
			return nil, fmt.Errorf("[%d]: nested arrays: %w", i, &UnsupportedError{GoType: "[]any"})
		}
		scalars[i] = sv
	}

	kind := scalars[0].Kind()
	for i, sv := range scalars {
		if sv.Kind() != kind {
			return nil, fmt.Errorf("[%d]: mixed %s and %s elements: %w", i, kind, sv.Kind(), &UnsupportedError{GoType: "[]any"})
		}
	}

	switch kind {
	case KindBool:
		out := make(BoolArray, len(scalars))
		for i, sv := range scalars {
			out[i] = bool(sv.(Bool))
		}
		return out, nil
	case KindInt:
		out := make(IntArray, len(scalars))
		for i, sv := range scalars {
			out[i] = int64(sv.(Int))
		}
		return out, nil
	case KindFloat:
		out := make(FloatArray, len(scalars))
		for i, sv := range scalars {
			out[i] = float64(sv.(Float))
		}
		return out, nil
	default:
		out := make(StringArray, len(scalars))
		for i, sv := range scalars {
			out[i] = string(sv.(String))
		}
		return out, nil
	}
}

// ToGo returns the plain Go form of v. Arrays are copied out.
func ToGo(v Value) any {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case BoolArray:
		return slices.Clone([]bool(val))
	case IntArray:
		return slices.Clone([]int64(val))
	case FloatArray:
		return slices.Clone([]float64(val))
	case StringArray:
		return slices.Clone([]string(val))
	default:
		return nil
	}
}
