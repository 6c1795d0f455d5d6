package preset

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/scenectx/internal/value"
)

// Unnormalized returns the names of entries whose name or string value is
// not in Unicode NFC. Context hashes compare strings byte for byte, so "e"
// followed by U+0301 and the precomposed U+00E9 are different keys even
// though they render the same.
func Unnormalized(entries []Entry) []string {
	var names []string
	for _, e := range entries {
		if !norm.NFC.IsNormalString(e.Name) || !isNFC(e.Value) {
			names = append(names, e.Name)
		}
	}
	return names
}

func isNFC(v value.Value) bool {
	switch val := v.(type) {
	case value.String:
		return norm.NFC.IsNormalString(string(val))
	case value.StringArray:
		for _, s := range val {
			if !norm.NFC.IsNormalString(s) {
				return false
			}
		}
	}
	return true
}
