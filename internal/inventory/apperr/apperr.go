// Package apperr classifies inventory errors into the kinds the HTTP boundary
// maps to status codes, and carries the fixed message for each failure
// condition.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized // reserved, no producer yet
)

// Fixed messages logged and rendered for each failure condition.
const (
	MsgNotFound      = "Not Found Error: The product with the given Id was not found in the inventory."
	MsgNullObject    = "Null Object Error: The product cannot be null"
	MsgNullParameter = "Null Parameter Error: The filter or paging parameters cannot be null"
	MsgInvalidID     = "Invalid Id Error: The provided Id does not match the product's Id"
	MsgDuplication   = "Duplication Error: The product with same name and brand already exists in the inventory."
	MsgInvalidPaging = "Invalid Paging Error: The pageNumber and pageSize must be positive"
)

// Error is a classified error. The cause carries a captured stack which the
// boundary renders as the stackTrace diagnostic of the response body.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error of the given kind, capturing the call stack.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: pkgerrors.New(message)}
}

// Wrap classifies an underlying error, capturing the call stack if the cause
// does not already carry one.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: pkgerrors.WithStack(cause)}
}

// NotFound returns the not-found error with its fixed message.
func NotFound() *Error {
	return New(KindNotFound, MsgNotFound)
}

// Validation returns a validation error with the given message.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Internal classifies an unexpected error.
func Internal(cause error) *Error {
	return Wrap(KindInternal, "Internal Server Error", cause)
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err. Unclassified errors
// surface their own text, matching the boundary behavior of rendering the
// raised error's message.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Diagnostic renders the cause with its captured stack for the stackTrace
// field of the error body.
func Diagnostic(err error) string {
	var e *Error
	if errors.As(err, &e) && e.cause != nil {
		return fmt.Sprintf("%+v", e.cause)
	}
	return fmt.Sprintf("%+v", err)
}

// HTTPStatus maps an error kind to its status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
