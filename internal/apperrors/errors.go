package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both a missing record and a record the caller does
// not own; handlers decide whether to surface 403 or 404 so existence
// is not leaked through the distinction.
var ErrNotFound = errors.New("not found")

// GenericMessage is the only wording a persistence failure may expose
// to a caller.
const GenericMessage = "An unexpected error occurred. Please try again later."

// ValidationError reports malformed or missing attributes with
// field-level detail. It is returned before any write is attempted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid attribute(s)", len(e.Fields))
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Invalid is the one-field shorthand.
func Invalid(field, msg string) error {
	v := NewValidation()
	v.Add(field, msg)
	return v
}

// PersistenceError wraps a failed store operation. The wrapped error is
// for logs only; callers see GenericMessage.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// MaximumReachedError signals that an application already carries the
// maximum number of task selections; it carries the application id so
// the caller can offer to edit the existing application.
type MaximumReachedError struct {
	ApplicationID int64
	Message       string
}

func (e *MaximumReachedError) Error() string {
	if e.Message == "" {
		return "maximum number of task selections reached"
	}
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
