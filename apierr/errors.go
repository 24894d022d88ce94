package apierr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers and the retry policy can branch on it.
type Kind int

const (
	// KindUnknown is the zero value for errors that carry no classification.
	KindUnknown Kind = iota
	// KindConnection covers transport failures: unreachable host, refused
	// connection, socket errors, and transport-level timeouts.
	KindConnection
	// KindHTTPStatus covers non-2xx responses; carries status code and body.
	KindHTTPStatus
	// KindAPI covers well-formed envelopes with Success=false, and missing
	// response payloads.
	KindAPI
	// KindParse covers malformed or unexpected JSON shapes.
	KindParse
	// KindCanceled covers caller-initiated cancellation.
	KindCanceled
	// KindDisposed covers calls issued after the client was closed.
	KindDisposed
	// KindCircuitOpen covers calls rejected by an open circuit breaker.
	KindCircuitOpen
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindHTTPStatus:
		return "http_status"
	case KindAPI:
		return "api"
	case KindParse:
		return "parse"
	case KindCanceled:
		return "canceled"
	case KindDisposed:
		return "disposed"
	case KindCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Error is the typed failure carried inside every Result.
type Error struct {
	Kind    Kind
	Message string
	// StatusCode is set for KindHTTPStatus failures.
	StatusCode int
	// Body holds the raw response body for KindHTTPStatus failures.
	Body string

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a classified error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// HTTPStatus creates a status-code failure carrying the raw body.
func HTTPStatus(code int, body string) *Error {
	return &Error{
		Kind:       KindHTTPStatus,
		Message:    fmt.Sprintf("unexpected status %d", code),
		StatusCode: code,
		Body:       body,
	}
}

// KindOf extracts the classification from an error chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether the error chain carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable reports whether a failure is worth retrying. Connection,
// HTTP-status, and logical API failures may resolve on their own; parse
// failures, cancellation, disposed clients, and open circuits never do.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindConnection, KindHTTPStatus, KindAPI:
		return true
	default:
		return false
	}
}
