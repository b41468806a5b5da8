// Package apperr provides coded errors shared by the fetch, parse and HTTP layers.
//
// Services return *Error values (or wrap them); handlers map them to HTTP statuses:
//
//	var e *apperr.Error
//	if apperr.As(err, &e) {
//		status = e.HTTPStatus()
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Is = errors.Is
	As = errors.As
)

// Code is a machine-readable error category.
type Code string

const (
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeAccessDenied  Code = "ACCESS_DENIED"
	CodeNotFound      Code = "NOT_FOUND"
	CodeUpstream      Code = "UPSTREAM"
	CodeInvalidFormat Code = "INVALID_FORMAT"
	CodeInternal      Code = "INTERNAL"
)

// HTTPStatus returns the status code a handler should answer with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstream, CodeInvalidFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a code and a user-facing message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinel errors for use with errors.Is().
var (
	ErrInvalidInput  = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrAccessDenied  = &Error{Code: CodeAccessDenied, Message: "access denied"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUpstream      = &Error{Code: CodeUpstream, Message: "upstream failure"}
	ErrInvalidFormat = &Error{Code: CodeInvalidFormat, Message: "invalid format"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

func InvalidInput(msg string) *Error {
	return &Error{Code: CodeInvalidInput, Message: msg}
}

func AccessDenied(msg string) *Error {
	return &Error{Code: CodeAccessDenied, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Upstream(msg string) *Error {
	return &Error{Code: CodeUpstream, Message: msg}
}

func InvalidFormat(msg string) *Error {
	return &Error{Code: CodeInvalidFormat, Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// StatusOf returns the HTTP status for err, 500 when err carries no code.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
