// Package apperr holds the error taxonomy shared by the engine, the store and the HTTP layer.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// Unknown is any error that was not classified by the service.
	Unknown Kind = iota
	// Validation marks missing or malformed call parameters.
	Validation
	// NotFound marks a reference to an id that does not exist.
	NotFound
	// Storage marks a failed read or commit; the surrounding transaction was rolled back.
	Storage
	// ImportFormat marks an unreadable upload or one without usable rows.
	ImportFormat
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not found"
	case Storage:
		return "storage"
	case ImportFormat:
		return "import format"
	}
	return "unknown"
}

// Error is a classified error with a message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Cause returns the wrapped error so errors.Cause can walk through it.
func (e *Error) Cause() error { return e.Err }

// Unwrap supports errors.Is and errors.As from the standard library.
func (e *Error) Unwrap() error { return e.Err }

// Validationf returns a Validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf returns a NotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// ImportFormatf returns an ImportFormat error.
func ImportFormatf(format string, args ...any) error {
	return &Error{Kind: ImportFormat, Message: fmt.Sprintf(format, args...)}
}

// WrapImportFormat classifies err as an ImportFormat error.
func WrapImportFormat(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ImportFormat, Message: message, Err: err}
}

// WrapStorage classifies err as a Storage error unless it already carries a kind.
func WrapStorage(err error, message string) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != Unknown {
		return err
	}
	return &Error{Kind: Storage, Message: message, Err: errors.WithStack(err)}
}

// KindOf returns the kind of the first classified error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Message returns the client-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == Storage {
			return e.Message
		}
		return e.Error()
	}
	return err.Error()
}
