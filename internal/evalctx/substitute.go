package evalctx

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/scenectx/internal/value"
)

// Substitutions selects which token families Substitute expands.
type Substitutions uint

const (
	// VariableSubstitutions expands $name and ${name}.
	VariableSubstitutions Substitutions = 1 << iota
	// FrameSubstitutions expands runs of # into the zero-padded frame.
	FrameSubstitutions

	NoSubstitutions  Substitutions = 0
	AllSubstitutions               = VariableSubstitutions | FrameSubstitutions
)

// Substitute expands every token family in template. See SubstituteWith.
func (c *Context) Substitute(template string) string {
	return c.SubstituteWith(template, AllSubstitutions)
}

// Substitute is shorthand for c.Substitute(template).
func Substitute(c *Context, template string) string {
	return c.Substitute(template)
}

// SubstituteWith expands the selected token families in a single
// left-to-right pass:
//
//	$name    name is the longest run of letters, digits and underscores
//	${name}  name is everything up to the closing brace
//	###      frame, truncated to an integer and zero padded to the run length
//
// Variables resolve to value.Format of the entry, or "" when absent. A $
// followed by neither an identifier character nor { is copied literally.
// If any ${ has no closing brace the whole result is "".
func (c *Context) SubstituteWith(template string, subs Substitutions) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		ch := template[i]
		switch {
		case ch == '$' && subs&VariableSubstitutions != 0:
			i++
			if i < len(template) && template[i] == '{' {
				end := strings.IndexByte(template[i+1:], '}')
				if end < 0 {
					return ""
				}
				b.WriteString(c.formatVariable(template[i+1 : i+1+end]))
				i += end + 2
				continue
			}

			j := i
			for j < len(template) && isIdentByte(template[j]) {
				j++
			}
			if j == i {
				b.WriteByte('$')
				continue
			}
			b.WriteString(c.formatVariable(template[i:j]))
			i = j

		case ch == '#' && subs&FrameSubstitutions != 0:
			j := i
			for j < len(template) && template[j] == '#' {
				j++
			}
			b.WriteString(padFrame(c.Frame(), j-i))
			i = j

		default:
			b.WriteByte(ch)
			i++
		}
	}

	return b.String()
}

func (c *Context) formatVariable(name string) string {
	v, ok := c.store.Get(name)
	if !ok {
		return ""
	}
	return value.Format(v)
}

func isIdentByte(ch byte) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9')
}

// padFrame formats the integer part of frame with at least width digits.
// Negative frames keep their sign in front of the padding. Frames too large
// for int64 keep all their digits; NaN and infinities are written as "NaN",
// "+Inf" and "-Inf" without padding.
func padFrame(frame float64, width int) string {
	if math.IsNaN(frame) || math.IsInf(frame, 0) {
		return strconv.FormatFloat(frame, 'f', -1, 64)
	}
	n := math.Trunc(frame)
	if n == 0 {
		// drops the sign of -0
		n = 0
	}
	digits := strconv.FormatFloat(n, 'f', 0, 64)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	if pad := width - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return sign + digits
}

// HasSubstitutions reports whether template contains anything Substitute
// would expand.
func HasSubstitutions(template string) bool {
	return strings.ContainsAny(template, "$#")
}
