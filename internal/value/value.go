package value

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Value is a sealed interface representing the supported value kinds.
// Only Bool, Int, Float, String, BoolArray, IntArray, FloatArray and
// StringArray implement it.
type Value interface {
	Kind() Kind
	value() // Sealed - only these types implement it
}

// Kind identifies the payload type of a Value. A value's kind never
// changes after construction.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBoolArray
	KindIntArray
	KindFloatArray
	KindStringArray
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindString:      "string",
	KindBoolArray:   "bool_array",
	KindIntArray:    "int_array",
	KindFloatArray:  "float_array",
	KindStringArray: "string_array",
}

// String returns the snake_case kind name used in encodings and messages.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if Kind(i) != KindInvalid && name == s {
			return Kind(i), true
		}
	}
	return KindInvalid, false
}

// IsArray reports whether k is one of the array kinds.
func (k Kind) IsArray() bool {
	return k >= KindBoolArray && k <= KindStringArray
}

// Bool represents a boolean value.
type Bool bool

// Int represents an integer value. Always int64.
type Int int64

// Float represents a floating point value. Always float64.
type Float float64

// String represents a string value.
type String string

// BoolArray is a homogeneous array of booleans.
type BoolArray []bool

// IntArray is a homogeneous array of integers.
type IntArray []int64

// FloatArray is a homogeneous array of floats.
type FloatArray []float64

// StringArray is a homogeneous array of strings.
type StringArray []string

func (Bool) value()        {}
func (Int) value()         {}
func (Float) value()       {}
func (String) value()      {}
func (BoolArray) value()   {}
func (IntArray) value()    {}
func (FloatArray) value()  {}
func (StringArray) value() {}

func (Bool) Kind() Kind        { return KindBool }
func (Int) Kind() Kind         { return KindInt }
func (Float) Kind() Kind       { return KindFloat }
func (String) Kind() Kind      { return KindString }
func (BoolArray) Kind() Kind   { return KindBoolArray }
func (IntArray) Kind() Kind    { return KindIntArray }
func (FloatArray) Kind() Kind  { return KindFloatArray }
func (StringArray) Kind() Kind { return KindStringArray }

// Equal reports whether a and b have the same kind and structurally equal
// payloads. NaN compares equal to NaN so that Equal agrees with the
// canonical encoding; -0 and +0 compare equal for the same reason.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case Float:
		return floatEqual(float64(av), float64(b.(Float)))
	case String:
		return av == b.(String)
	case BoolArray:
		return slices.Equal(av, b.(BoolArray))
	case IntArray:
		return slices.Equal(av, b.(IntArray))
	case FloatArray:
		return slices.EqualFunc(av, b.(FloatArray), floatEqual)
	case StringArray:
		return slices.Equal(av, b.(StringArray))
	default:
		return false
	}
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// Clone returns a deep copy of v. Scalars are immutable and returned as-is;
// arrays get a fresh backing slice. A nil array stays nil.
func Clone(v Value) Value {
	switch val := v.(type) {
	case BoolArray:
		return BoolArray(slices.Clone([]bool(val)))
	case IntArray:
		return IntArray(slices.Clone([]int64(val)))
	case FloatArray:
		return FloatArray(slices.Clone([]float64(val)))
	case StringArray:
		return StringArray(slices.Clone([]string(val)))
	default:
		return v
	}
}

// Format returns the plain string form of v, as used by template
// substitution. Array elements are joined with single spaces.
func Format(v Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case Bool:
		return strconv.FormatBool(bool(val))
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return formatFloat(float64(val))
	case String:
		return string(val)
	case BoolArray:
		return joinFormatted(val, strconv.FormatBool)
	case IntArray:
		return joinFormatted(val, func(n int64) string { return strconv.FormatInt(n, 10) })
	case FloatArray:
		return joinFormatted(val, formatFloat)
	case StringArray:
		return strings.Join(val, " ")
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFormatted[T any](elems []T, format func(T) string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = format(e)
	}
	return strings.Join(parts, " ")
}

// Len returns the element count of an array value and 1 for scalars.
func Len(v Value) int {
	switch val := v.(type) {
	case BoolArray:
		return len(val)
	case IntArray:
		return len(val)
	case FloatArray:
		return len(val)
	case StringArray:
		return len(val)
	case nil:
		return 0
	default:
		return 1
	}
}
