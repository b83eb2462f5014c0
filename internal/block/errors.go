package block

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors identifying which field failed validation.
// Use errors.Is against a returned error to test for them.
var (
	ErrInvalidID      = errors.New("invalid id")
	ErrInvalidBlockID = errors.New("invalid blockid")
	ErrInvalidType    = errors.New("invalid type")
	ErrInvalidData    = errors.New("invalid data")
	ErrInvalidProps   = errors.New("invalid props")
)

var fieldSentinels = map[string]error{
	"id":      ErrInvalidID,
	"blockid": ErrInvalidBlockID,
	"type":    ErrInvalidType,
	"data":    ErrInvalidData,
	"props":   ErrInvalidProps,
}

// ValidationError reports a failed check on a single block field.
// Errs holds every sub-error found for that field, so several invalid
// prop keys and values come back together as one error.
type ValidationError struct {
	Field string // "id", "blockid", "type", "data" or "props"
	Check string // the sub-check that failed, e.g. "format", "required", "key"
	Errs  []error
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "block %s: %s check failed", e.Field, e.Check)
	if len(e.Errs) > 0 {
		msgs := make([]string, len(e.Errs))
		for i, err := range e.Errs {
			msgs[i] = err.Error()
		}
		sb.WriteString(": ")
		sb.WriteString(strings.Join(msgs, "; "))
	}
	return sb.String()
}

// Unwrap exposes the sub-errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Errs
}

// Is matches the sentinel for the failing field.
func (e *ValidationError) Is(target error) bool {
	sentinel, ok := fieldSentinels[e.Field]
	return ok && target == sentinel
}

func newValidationError(field, check string, errs ...error) *ValidationError {
	return &ValidationError{Field: field, Check: check, Errs: errs}
}
