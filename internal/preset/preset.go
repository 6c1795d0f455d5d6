package preset

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/scenectx/internal/evalctx"
	"github.com/roach88/scenectx/internal/value"
)

// Entry is one named value from a preset.
type Entry struct {
	Name  string
	Value value.Value
}

// Load reads the preset at path. The format is chosen by extension:
// .yaml and .yml for YAML, .cue for CUE. Entries are returned in file
// order.
func Load(path string) ([]Entry, error) {
	var parse func(data []byte, filename string) ([]Entry, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = ParseYAML
	case ".cue":
		parse = ParseCUE
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("unknown preset format %q (want .yaml, .yml or .cue)", filepath.Ext(path)),
			File:    path,
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: "read preset", File: path, Err: err}
	}
	return parse(data, path)
}

// Apply sets each entry on c in order. It stops at the first entry c
// rejects; entries before it stay applied. Entries that are not NFC are
// applied as written, with a warning.
func Apply(c *evalctx.Context, entries []Entry) error {
	for _, name := range Unnormalized(entries) {
		slog.Warn("preset entry is not NFC normalized; it will not match its composed form", "name", name)
	}
	for _, e := range entries {
		if err := c.Set(e.Name, e.Value); err != nil {
			return &LoadError{
				Code:    ErrCodeApplyFailed,
				Message: fmt.Sprintf("apply %q", e.Name),
				Err:     err,
			}
		}
	}
	return nil
}

// ParseAssignment parses a command-line assignment of the form
// name=value. The value is read as a YAML flow scalar or list, so 3 is an
// int, 2.5 a float, true a bool and [a, b] a string list. A value that is
// not a scalar or list in YAML terms (empty, a comment such as ###, a
// mapping, a syntax error, a null) is kept as the literal string.
func ParseAssignment(s string) (Entry, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Entry{}, &LoadError{
			Code:    ErrCodeInvalidAssignment,
			Message: fmt.Sprintf("assignment %q must have the form name=value", s),
		}
	}

	v, err := parseYAMLValue([]byte(raw))
	if err != nil {
		v = value.String(raw)
	}
	return Entry{Name: name, Value: v}, nil
}
