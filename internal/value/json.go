package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Marshal encodes v in the kind-tagged JSON envelope, {"<kind>": payload}.
// The envelope is the canonical encoding. It is lossless: Unmarshal returns
// a value Equal to v, including strings that are not NFC or not valid UTF-8.
func Marshal(v Value) ([]byte, error) {
	return MarshalCanonical(v)
}

// Unmarshal decodes a kind-tagged JSON envelope produced by Marshal.
// Integers must be integral, and floats may use the "NaN", "+Inf" and
// "-Inf" string forms.
func Unmarshal(data []byte) (Value, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("value envelope: %w", err)
	}
	if len(env) != 1 {
		return nil, fmt.Errorf("value envelope must have exactly one key, got %d", len(env))
	}

	for name, payload := range env {
		kind, ok := ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown value kind %q", name)
		}
		v, err := unmarshalPayload(kind, payload)
		if err != nil {
			return nil, fmt.Errorf("%s payload: %w", kind, err)
		}
		return v, nil
	}
	panic("unreachable")
}

func unmarshalPayload(kind Kind, payload json.RawMessage) (Value, error) {
	switch kind {
	case KindBool:
		var b bool
		err := json.Unmarshal(payload, &b)
		return Bool(b), err
	case KindInt:
		n, err := decodeInt(payload)
		return Int(n), err
	case KindFloat:
		f, err := decodeFloat(payload)
		return Float(f), err
	case KindString:
		s, err := unmarshalCanonicalString(payload)
		return String(s), err
	case KindBoolArray:
		var arr []bool
		if err := json.Unmarshal(payload, &arr); err != nil {
			return nil, err
		}
		return BoolArray(nonNil(arr)), nil
	case KindIntArray:
		raws, err := decodeRawArray(payload)
		if err != nil {
			return nil, err
		}
		out := make(IntArray, len(raws))
		for i, raw := range raws {
			if out[i], err = decodeInt(raw); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return out, nil
	case KindFloatArray:
		raws, err := decodeRawArray(payload)
		if err != nil {
			return nil, err
		}
		out := make(FloatArray, len(raws))
		for i, raw := range raws {
			if out[i], err = decodeFloat(raw); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return out, nil
	case KindStringArray:
		raws, err := decodeRawArray(payload)
		if err != nil {
			return nil, err
		}
		out := make(StringArray, len(raws))
		for i, raw := range raws {
			if out[i], err = unmarshalCanonicalString(raw); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func decodeRawArray(payload json.RawMessage) ([]json.RawMessage, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

func decodeInt(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, err
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("not an integer: %s", n)
	}
	return i, nil
}

func decodeFloat(raw json.RawMessage) (float64, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		switch s {
		case "NaN":
			return math.NaN(), nil
		case "+Inf":
			return math.Inf(1), nil
		case "-Inf":
			return math.Inf(-1), nil
		default:
			return 0, fmt.Errorf("invalid float string %q", s)
		}
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}
