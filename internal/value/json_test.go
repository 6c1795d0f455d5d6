package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalEnvelope(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"int", `{"int":42}`, Int(42)},
		{"float", `{"float":2.5}`, Float(2.5)},
		{"float integral", `{"float":20}`, Float(20)},
		{"string", `{"string":"hi"}`, String("hi")},
		{"bool", `{"bool":true}`, Bool(true)},
		{"string array", `{"string_array":["a","b"]}`, StringArray{"a", "b"}},
		{"int array", `{"int_array":[1,2]}`, IntArray{1, 2}},
		{"float array", `{"float_array":[0.5,"+Inf"]}`, FloatArray{0.5, math.Inf(1)}},
		{"empty bool array", `{"bool_array":[]}`, BoolArray{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.in))
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %#v", got)
		})
	}
}

func TestUnmarshalNaN(t *testing.T) {
	got, err := Unmarshal([]byte(`{"float":"NaN"}`))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(got.(Float))))
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"not json", `nope`, "value envelope"},
		{"two keys", `{"int":1,"float":2}`, "exactly one key"},
		{"empty object", `{}`, "exactly one key"},
		{"unknown kind", `{"map":{}}`, "unknown value kind"},
		{"fractional int", `{"int":1.5}`, "not an integer"},
		{"bad float string", `{"float":"huge"}`, "invalid float string"},
		{"wrong payload", `{"string":3}`, "string payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMarshalUnmarshalPreservesKind(t *testing.T) {
	// Float(20) and Int(20) must not collapse into one another
	for _, v := range []Value{Float(20), Int(20)} {
		data, err := Marshal(v)
		require.NoError(t, err)
		got, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, v.Kind(), got.Kind())
		assert.True(t, Equal(v, got))
	}
}

func TestMarshalUnmarshalStringsLossless(t *testing.T) {
	values := []Value{
		String("e\u0301"),
		String("\u00e9"),
		String("\xff\xfe"),
		String("a\xc3"),
		String("\ufffd"),
		String(`\udcff`),
		String("tab\tquote\"\x00"),
		String("a\u2028b"),
		StringArray{"e\u0301", "\xff", ""},
	}

	for _, v := range values {
		data, err := Marshal(v)
		require.NoError(t, err)
		got, err := Unmarshal(data)
		require.NoError(t, err, "envelope %s", data)
		assert.True(t, Equal(v, got), "%#v round-tripped to %#v", v, got)
	}
}

func TestUnmarshalStandardEscapes(t *testing.T) {
	got, err := Unmarshal([]byte(`{"string":"\u00e9\ud83d\ude00\/\b"}`))
	require.NoError(t, err)
	assert.Equal(t, String("\u00e9\U0001F600/\b"), got)
}
