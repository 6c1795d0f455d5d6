package preset

import (
	"errors"
	"fmt"
)

// Error code constants.
const (
	ErrCodeReadFailed        = "E201" // File could not be read
	ErrCodeParseFailed       = "E202" // YAML or CUE syntax error
	ErrCodeNotMapping        = "E203" // Top level is not a mapping
	ErrCodeUnsupportedValue  = "E204" // Value has no Context representation
	ErrCodeUnknownFormat     = "E205" // Unrecognized file extension
	ErrCodeInvalidAssignment = "E206" // Malformed name=value
	ErrCodeApplyFailed       = "E207" // Context rejected an entry
)

// LoadError reports a preset that could not be loaded or applied.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int // 1-based; 0 when unknown
	Column  int
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, msg)
	default:
		return msg
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Code returns the LoadError code of err, or "" if err is not a LoadError.
func Code(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
