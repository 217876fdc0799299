package siteerr

import (
	"errors"
	"fmt"
)

// Kind separates errors that abort a run from validation results that only
// mark part of the site as failed.
type Kind string

const (
	Fatal            Kind = "fatal"
	ValidationFailed Kind = "validation"
)

var (
	ErrUnclassifiedLink   = errors.New("unclassified link")
	ErrDuplicateSection   = errors.New("duplicate section")
	ErrMissingPage        = errors.New("page data missing")
	ErrUnknownPage        = errors.New("unknown page number")
	ErrAssemblyIncomplete = errors.New("site assembly not finished")
	ErrInconsistentModule = errors.New("inconsistent module metadata")
	ErrFigureNotFound     = errors.New("figure not found")
	ErrTableNotFound      = errors.New("table not found")
	ErrOutputExists       = errors.New("output directory exists")
)

// Error is the error type returned by assembly and rendering.
type Error struct {
	Kind    Kind
	Message *string
	Err     error
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	if e.Message != nil {
		msg += ": " + *e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// Fatalf builds a fatal error around a sentinel.
func Fatalf(sentinel error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: Fatal, Message: &msg, Err: sentinel}
}

// Validationf builds a validation failure around a sentinel.
func Validationf(sentinel error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: ValidationFailed, Message: &msg, Err: sentinel}
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// carry no kind are treated as fatal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return Fatal
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == Fatal
}
