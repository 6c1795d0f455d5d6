package value

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Pair is a named value, the unit of canonical object encoding.
type Pair struct {
	Name  string
	Value Value
}

// MarshalCanonical produces the canonical JSON encoding of v.
// This is the ONLY serialization that should be used for content hashes.
//
// Every value is wrapped in a one-key object naming its kind, so values of
// different kinds never share an encoding:
//
//	Int(3)                -> {"int":3}
//	Float(3)              -> {"float":3}
//	StringArray{"a","b"}  -> {"string_array":["a","b"]}
//
// Strings are encoded byte for byte and never HTML escaped. Floats use the
// shortest round-trip form, -0 is written as 0, and non-finite floats are
// written as the strings "NaN", "+Inf" and "-Inf".
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCanonicalPairs encodes pairs as a canonical JSON object with keys
// in RFC 8785 order (UTF-16 code units), independent of the input order.
// Duplicate names are an error.
func MarshalCanonicalPairs(pairs []Pair) ([]byte, error) {
	sorted := slices.Clone(pairs)
	slices.SortFunc(sorted, func(a, b Pair) int {
		return compareKeysRFC8785(a.Name, b.Name)
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range sorted {
		if i > 0 {
			if sorted[i-1].Name == p.Name {
				return nil, fmt.Errorf("duplicate key %q", p.Name)
			}
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(p.Name)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", p.Name, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		if err := writeCanonical(&buf, p.Value); err != nil {
			return nil, fmt.Errorf("value for key %q: %w", p.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v Value) error {
	if v == nil {
		return fmt.Errorf("nil value has no canonical encoding")
	}

	buf.WriteString(`{"`)
	buf.WriteString(v.Kind().String())
	buf.WriteString(`":`)

	switch val := v.(type) {
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		buf.WriteString(canonicalFloat(float64(val)))
	case String:
		s, err := marshalCanonicalString(string(val))
		if err != nil {
			return err
		}
		buf.Write(s)
	case BoolArray:
		writeArray(buf, val, func(b bool) string { return strconv.FormatBool(b) })
	case IntArray:
		writeArray(buf, val, func(n int64) string { return strconv.FormatInt(n, 10) })
	case FloatArray:
		writeArray(buf, val, canonicalFloat)
	case StringArray:
		buf.WriteByte('[')
		for i, s := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			sb, err := marshalCanonicalString(s)
			if err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(sb)
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown value type: %T", v)
	}

	buf.WriteByte('}')
	return nil
}

func writeArray[T any](buf *bytes.Buffer, elems []T, format func(T) string) {
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(format(e))
	}
	buf.WriteByte(']')
}

// canonicalFloat formats f for hashing. Non-finite values become quoted
// strings since JSON has no literal for them.
func canonicalFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return `"NaN"`
	case math.IsInf(f, 1):
		return `"+Inf"`
	case math.IsInf(f, -1):
		return `"-Inf"`
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// Go's default string comparison uses UTF-8 which produces a different
// order for characters outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	if c := slices.Compare(a16, b16); c != 0 {
		return c
	}
	// Distinct invalid UTF-8 keys can share runes; fall back to bytes
	return strings.Compare(a, b)
}

// marshalCanonicalString encodes s as a JSON string, byte for byte, so two
// strings share an encoding only when they are equal. Valid UTF-8 is copied
// literally apart from quote, backslash and control characters. Each byte of
// an invalid sequence is written as the lone surrogate escape \udc80-\udcff,
// which no valid UTF-8 text produces.
func marshalCanonicalString(s string) ([]byte, error) {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			buf = fmt.Appendf(buf, `\udc%02x`, s[i])
		case r == '"':
			buf = append(buf, `\"`...)
		case r == '\\':
			buf = append(buf, `\\`...)
		case r == '\n':
			buf = append(buf, `\n`...)
		case r == '\r':
			buf = append(buf, `\r`...)
		case r == '\t':
			buf = append(buf, `\t`...)
		case r < 0x20:
			buf = fmt.Appendf(buf, `\u%04x`, r)
		default:
			buf = append(buf, s[i:i+size]...)
		}
		i += size
	}
	return append(buf, '"'), nil
}

// unmarshalCanonicalString decodes a JSON string written by
// marshalCanonicalString. Lone \udc80-\udcff escapes decode back to the raw
// byte; other JSON escapes decode as usual.
func unmarshalCanonicalString(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("expected a JSON string, got %s", raw)
	}
	data := raw[1 : len(raw)-1]

	var b strings.Builder
	b.Grow(len(data))
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '"':
			return "", fmt.Errorf("unescaped quote at offset %d", i)
		case c < 0x20:
			return "", fmt.Errorf("control character at offset %d", i)
		case c != '\\':
			b.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(data) {
			return "", fmt.Errorf("truncated escape at offset %d", i)
		}
		esc := data[i+1]
		i += 2
		switch esc {
		case '"', '\\', '/':
			b.WriteByte(esc)
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r, ok := hex4(data[i:])
			if !ok {
				return "", fmt.Errorf("invalid \\u escape at offset %d", i-2)
			}
			i += 4
			switch {
			case utf16.IsSurrogate(r) && r < 0xdc00:
				if len(data) >= i+6 && data[i] == '\\' && data[i+1] == 'u' {
					if lo, ok := hex4(data[i+2:]); ok && lo >= 0xdc00 && lo <= 0xdfff {
						b.WriteRune(utf16.DecodeRune(r, lo))
						i += 6
						continue
					}
				}
				b.WriteRune(utf8.RuneError)
			case r >= 0xdc80 && r <= 0xdcff:
				b.WriteByte(byte(r - 0xdc00))
			case utf16.IsSurrogate(r):
				b.WriteRune(utf8.RuneError)
			default:
				b.WriteRune(r)
			}
		default:
			return "", fmt.Errorf("invalid escape \\%c at offset %d", esc, i-2)
		}
	}
	return b.String(), nil
}

func hex4(data []byte) (rune, bool) {
	if len(data) < 4 {
		return 0, false
	}
	n, err := strconv.ParseUint(string(data[:4]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
