package preset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scenectx/internal/value"
)

// ParseYAML parses a YAML preset. filename is used for error positions.
// An empty document yields no entries.
func ParseYAML(data []byte, filename string) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "parse YAML", File: filename, Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []Entry{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &LoadError{
			Code:    ErrCodeNotMapping,
			Message: "preset must be a mapping of names to values",
			File:    filename,
			Line:    root.Line,
			Column:  root.Column,
		}
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, node := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, &LoadError{
				Code:    ErrCodeParseFailed,
				Message: "entry names must be non-empty scalars",
				File:    filename,
				Line:    key.Line,
				Column:  key.Column,
			}
		}

		v, err := yamlValue(node)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeUnsupportedValue,
				Message: fmt.Sprintf("entry %q", key.Value),
				File:    filename,
				Line:    node.Line,
				Column:  node.Column,
				Err:     err,
			}
		}
		entries = append(entries, Entry{Name: key.Value, Value: v})
	}
	return entries, nil
}

// parseYAMLValue parses a lone YAML scalar or list such as the right side
// of an assignment.
func parseYAMLValue(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	return yamlValue(doc.Content[0])
}

func yamlValue(node *yaml.Node) (value.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return yamlScalar(node)

	case yaml.SequenceNode:
		elems := make([]any, len(node.Content))
		for i, child := range node.Content {
			if child.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("list element %d: only scalars are allowed in lists", i)
			}
			sv, err := yamlScalar(child)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			elems[i] = value.ToGo(sv)
		}
		return value.FromGo(promoteNumbers(elems))

	case yaml.AliasNode:
		return yamlValue(node.Alias)

	default:
		return nil, fmt.Errorf("nested mappings are not supported")
	}
}

func yamlScalar(node *yaml.Node) (value.Value, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("null has no value")
	}
	return value.FromGo(v)
}

// promoteNumbers turns the ints of a list that also holds floats into
// floats. Other lists are returned unchanged.
func promoteNumbers(elems []any) []any {
	hasFloat := false
	for _, e := range elems {
		switch e.(type) {
		case float64:
			hasFloat = true
		case int64:
		default:
			return elems
		}
	}
	if !hasFloat {
		return elems
	}
	out := make([]any, len(elems))
	for i, e := range elems {
		if n, ok := e.(int64); ok {
			out[i] = float64(n)
		} else {
			out[i] = e
		}
	}
	return out
}
