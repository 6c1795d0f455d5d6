package preset

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/scenectx/internal/value"
)

// ParseCUE parses a CUE preset. Every regular field of the top-level
// struct must be concrete. filename is used for error positions.
func ParseCUE(data []byte, filename string) ([]Entry, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(data, cue.Filename(filename))
	if err := root.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, "compile CUE", filename, err)
	}

	if root.IncompleteKind() != cue.StructKind {
		return nil, &LoadError{
			Code:    ErrCodeNotMapping,
			Message: "preset must be a struct of names to values",
			File:    filename,
		}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "iterate fields", File: filename, Err: err}
	}

	entries := []Entry{}
	for iter.Next() {
		name := iter.Label()
		field := iter.Value()

		v, err := cueValue(field)
		if err != nil {
			le := cueLoadError(ErrCodeUnsupportedValue, fmt.Sprintf("entry %q", name), filename, err)
			if pos := field.Pos(); pos.IsValid() {
				le.Line, le.Column = pos.Line(), pos.Column()
			}
			return nil, le
		}
		entries = append(entries, Entry{Name: name, Value: v})
	}
	return entries, nil
}

// cueLoadError wraps a CUE error, taking the position of its first
// underlying error when there is one.
func cueLoadError(code, message, filename string, err error) *LoadError {
	le := &LoadError{Code: code, Message: message, File: filename, Err: err}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		if positions := cueerrors.Positions(errs[0]); len(positions) > 0 && positions[0].IsValid() {
			le.Line, le.Column = positions[0].Line(), positions[0].Column()
		}
	}
	return le
}

func cueValue(v cue.Value) (value.Value, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	switch v.Kind() {
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		elems := []any{}
		for i := 0; iter.Next(); i++ {
			sv, err := cueScalar(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			elems = append(elems, value.ToGo(sv))
		}
		return value.FromGo(promoteNumbers(elems))
	default:
		return cueScalar(v)
	}
}

func cueScalar(v cue.Value) (value.Value, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		return value.Bool(b), err
	case cue.IntKind:
		n, err := v.Int64()
		return value.Int(n), err
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		return value.Float(f), err
	case cue.StringKind:
		s, err := v.String()
		return value.String(s), err
	case cue.NullKind:
		return nil, fmt.Errorf("null has no value")
	default:
		return nil, fmt.Errorf("unsupported CUE kind %s", v.Kind())
	}
}
