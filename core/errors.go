package core

import "github.com/pkg/errors"

// FieldError reports a validation failure on a single form field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a request-level validation failure, carrying either a
// single message (eg. a rejection relayed from the identity backend) or
// per-field errors for the login and registration forms.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks a state the gateway cannot serve from, eg. session tokens
// that can no longer be signed. The HTTP error handler stops the server when
// one surfaces.
type shutdown struct {
	reason string
}

func NewShutdownError(reason string) error {
	return &shutdown{reason: reason}
}

func (s shutdown) Error() string {
	return s.reason
}

// IsShutdown reports whether a shutdown error is in the error's chain.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
