package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the workflow returns to its callers.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "NotFound"
	KindIllegalTransition   ErrorKind = "IllegalTransition"
	KindVendorNotAllotted   ErrorKind = "VendorNotAllotted"
	KindInvalidSelection    ErrorKind = "InvalidSelection"
	KindExplanationRequired ErrorKind = "ExplanationRequired"
	KindValidation          ErrorKind = "ValidationError"
	KindConflict            ErrorKind = "Conflict"
	KindUnavailable         ErrorKind = "Unavailable"
)

// Error is a tagged workflow failure. Err optionally carries the collaborator
// error that caused it.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a tagged error.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags a collaborator error.
func Wrap(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
