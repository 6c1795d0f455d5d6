package memo

import (
	"errors"
	"fmt"
)

// Error reports a failed Compute.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Node is the node being computed.
	Node string

	// CacheKey is the Hash of the evaluation Context.
	CacheKey string

	// Chain lists the nodes being computed when the error occurred,
	// outermost first. Set for cycle and depth errors.
	Chain []string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes memo errors.
type ErrorCode string

const (
	// ErrCodeComputeFailed indicates the compute function returned an error.
	ErrCodeComputeFailed ErrorCode = "COMPUTE_FAILED"

	// ErrCodeNilResult indicates the compute function returned a nil value
	// without an error.
	ErrCodeNilResult ErrorCode = "NIL_RESULT"

	// ErrCodeCycleDetected indicates a node depends on itself under the
	// same Context.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"

	// ErrCodeDepthExceeded indicates nested computes exceeded the limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeStoreFailed indicates the result store could not be read.
	ErrCodeStoreFailed ErrorCode = "STORE_FAILED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: node %q", e.Code, e.Node)
	if len(e.Chain) > 0 {
		msg += fmt.Sprintf(" (chain=%v)", e.Chain)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsCycleError returns true if err is, or wraps, a cycle error.
func IsCycleError(err error) bool {
	return hasCode(err, ErrCodeCycleDetected)
}

// IsDepthError returns true if err is, or wraps, a depth error.
func IsDepthError(err error) bool {
	return hasCode(err, ErrCodeDepthExceeded)
}

// IsComputeError returns true if err is, or wraps, a compute failure.
func IsComputeError(err error) bool {
	return hasCode(err, ErrCodeComputeFailed)
}

func hasCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}
