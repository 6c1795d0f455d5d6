// Package preset loads named Context values from YAML or CUE files and
// from name=value assignments.
//
// A preset file is a single top-level mapping. Each field becomes one
// Context entry, applied in file order:
//
//	# shot.yaml
//	shot: sh010
//	frame: 1001
//	layers: [beauty, depth]
//
// Values must be scalars (bool, int, float, string) or lists of one scalar
// kind. Lists that mix ints and floats become float lists. Anything else,
// including nested mappings and nulls, is rejected with a *LoadError that
// carries the file position.
package preset
