package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"bool", Bool(false), `{"bool":false}`},
		{"int", Int(3), `{"int":3}`},
		{"float integral", Float(3), `{"float":3}`},
		{"float fraction", Float(10.5), `{"float":10.5}`},
		{"negative zero", Float(math.Copysign(0, -1)), `{"float":0}`},
		{"nan", Float(math.NaN()), `{"float":"NaN"}`},
		{"positive inf", Float(math.Inf(1)), `{"float":"+Inf"}`},
		{"negative inf", Float(math.Inf(-1)), `{"float":"-Inf"}`},
		{"string", String("apple"), `{"string":"apple"}`},
		{"string array", StringArray{"a", "b"}, `{"string_array":["a","b"]}`},
		{"int array", IntArray{1, -2}, `{"int_array":[1,-2]}`},
		{"float array", FloatArray{0.5, math.NaN()}, `{"float_array":[0.5,"NaN"]}`},
		{"bool array", BoolArray{true}, `{"bool_array":[true]}`},
		{"empty array", IntArray{}, `{"int_array":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical(String("<a & b>"))
	require.NoError(t, err)
	assert.Equal(t, `{"string":"<a & b>"}`, string(got))
}

func TestMarshalCanonicalStringsByteExact(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"decomposed vs precomposed", "e\u0301", "\u00e9"},
		{"distinct invalid bytes", "\xff", "\xfe"},
		{"invalid byte vs replacement char", "\xff", "\ufffd"},
		{"invalid byte vs its escape text", "\xff", `\udcff`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ja, err := MarshalCanonical(String(tt.a))
			require.NoError(t, err)
			jb, err := MarshalCanonical(String(tt.b))
			require.NoError(t, err)
			assert.NotEqual(t, string(ja), string(jb))

			ka, err := MarshalCanonicalPairs([]Pair{{tt.a, Int(1)}})
			require.NoError(t, err)
			kb, err := MarshalCanonicalPairs([]Pair{{tt.b, Int(1)}})
			require.NoError(t, err)
			assert.NotEqual(t, string(ka), string(kb), "names")
		})
	}
}

func TestMarshalCanonicalStringEscapes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"q\"b\\", `"q\"b\\"`},
		{"a\nb\tc\rd", `"a\nb\tc\rd"`},
		{"\x01", `"\u0001"`},
		{"a\xffb", `"a\udcffb"`},
		{"\u00e9", "\"\u00e9\""},
		{"\ufffd", "\"\ufffd\""},
	}

	for _, tt := range tests {
		got, err := marshalCanonicalString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got), "input %q", tt.in)
	}
}

func TestMarshalCanonicalPairsInvalidKeysOrderIndependent(t *testing.T) {
	// Both names decode to U+FFFD rune-wise, so ordering falls back to bytes
	a := MustHashPairs(DomainContext, []Pair{{"\xff", Int(1)}, {"\xfe", Int(2)}})
	b := MustHashPairs(DomainContext, []Pair{{"\xfe", Int(2)}, {"\xff", Int(1)}})
	assert.Equal(t, a, b)
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	got, err := MarshalCanonical(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "{\"string\":\"a\u2028b\u2029c\"}", string(got))

	// A literal backslash followed by the text u2028 must stay escaped
	got, err = MarshalCanonical(String(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `{"string":"\\u2028"}`, string(got))
}

func TestMarshalCanonicalNil(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
}

func TestMarshalCanonicalPairsOrderIndependent(t *testing.T) {
	a := []Pair{
		{"frame", Float(1)},
		{"b", String("bear")},
		{"a", String("apple")},
	}
	b := []Pair{
		{"a", String("apple")},
		{"frame", Float(1)},
		{"b", String("bear")},
	}

	ja, err := MarshalCanonicalPairs(a)
	require.NoError(t, err)
	jb, err := MarshalCanonicalPairs(b)
	require.NoError(t, err)

	assert.Equal(t, string(ja), string(jb))
	assert.Equal(t, `{"a":{"string":"apple"},"b":{"string":"bear"},"frame":{"float":1}}`, string(ja))
	assert.Equal(t, "frame", a[0].Name, "input slice must not be reordered")
}

func TestMarshalCanonicalPairsDuplicate(t *testing.T) {
	_, err := MarshalCanonicalPairs([]Pair{{"a", Int(1)}, {"a", Int(2)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestCompareKeysRFC8785(t *testing.T) {
	// U+FFFD is a single UTF-16 unit (0xFFFD); U+1F600 encodes as the
	// surrogate pair 0xD83D 0xDE00, so it sorts first in UTF-16 but
	// last in UTF-8 byte order.
	assert.Equal(t, -1, compareKeysRFC8785("\U0001F600", "\uFFFD"))
	assert.Equal(t, 1, compareKeysRFC8785("b", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "aa"))
	assert.Equal(t, 0, compareKeysRFC8785("same", "same"))
}
