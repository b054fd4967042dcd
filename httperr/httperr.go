// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httperr defines the protocol level faults which carry an HTTP
// status code through the request pipeline.
package httperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags the variant of a protocol fault.
type Kind int

const (
	// KindBadRequest covers malformed request lines and any other parse failure.
	KindBadRequest Kind = iota + 1
	KindMethodNotAllowed
	KindVersionNotSupported
	// KindHandlingFailed wraps a fault raised by a handler which was not
	// itself a protocol fault.
	KindHandlingFailed
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindMethodNotAllowed:
		return "MethodNotAllowed"
	case KindVersionNotSupported:
		return "HttpVersionNotSupported"
	case KindHandlingFailed:
		return "HandlingFailed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// StatusCode returns the response status a fault of this kind maps to.
func (k Kind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return 400
	case KindMethodNotAllowed:
		return 405
	case KindVersionNotSupported:
		return 505
	default:
		return 500
	}
}

// Error is a classified protocol fault.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string

	// FirstLine is the best known request line, empty if the fault
	// happened before one was read.
	FirstLine string

	// Method is set for KindMethodNotAllowed.
	Method string

	// Allowed lists the supported methods for KindMethodNotAllowed.
	Allowed []string

	// URI is set for KindHandlingFailed.
	URI string

	Cause error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts a protocol fault from err's chain.
func As(err error) (*Error, bool) {
	var herr *Error
	if !errors.As(err, &herr) {
		return nil, false
	}
	return herr, true
}

// BadRequest wraps an unclassified parse failure.
func BadRequest(cause error, firstLine string) *Error {
	msg := "Error on parsing HTTP request"
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &Error{
		Kind:       KindBadRequest,
		StatusCode: KindBadRequest.StatusCode(),
		Message:    msg,
		FirstLine:  firstLine,
		Cause:      cause,
	}
}

// VersionNotSupported reports a request line naming an unsupported protocol version.
func VersionNotSupported(supported, firstLine string) *Error {
	return &Error{
		Kind:       KindVersionNotSupported,
		StatusCode: KindVersionNotSupported.StatusCode(),
		Message:    fmt.Sprintf("This server only supports %s protocol", supported),
		FirstLine:  firstLine,
	}
}

// MethodNotAllowed reports a method outside of allowed.
func MethodNotAllowed(method string, allowed []string, firstLine string) *Error {
	return &Error{
		Kind:       KindMethodNotAllowed,
		StatusCode: KindMethodNotAllowed.StatusCode(),
		Message: fmt.Sprintf(
			"Only [%s] are supported. But the current method is %s",
			strings.Join(allowed, ", "),
			method,
		),
		FirstLine: firstLine,
		Method:    method,
		Allowed:   allowed,
	}
}

// HandlingFailed wraps a handler fault for uri.
func HandlingFailed(uri string, cause error) *Error {
	msg := "Handle request: " + uri + " failed"
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &Error{
		Kind:       KindHandlingFailed,
		StatusCode: KindHandlingFailed.StatusCode(),
		Message:    msg,
		URI:        uri,
		Cause:      cause,
	}
}

// New returns a fault with an explicit status code. Handlers use it to
// abort with a specific status, e.g. New(404, "no such file").
func New(statusCode int, message string) *Error {
	return &Error{
		Kind:       KindHandlingFailed,
		StatusCode: statusCode,
		Message:    message,
	}
}
