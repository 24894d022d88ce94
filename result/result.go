// Package result provides the discriminated success/failure outcome type
// propagated through every layer of the client.
package result

import (
	"errors"

	"github.com/astrokit/ninaclient/apierr"
)

// ErrNoValue is returned when reading the value of a failed result.
var ErrNoValue = errors.New("result holds no value")

// Result is either a value or an error, never both. The zero value is a
// failure carrying a nil error; construct results with Ok or Err.
type Result[T any] struct {
	ok    bool
	value T
	err   error
}

// Ok constructs a successful result.
func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// Err constructs a failed result.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Errf constructs a failed result from a classified error.
func Errf[T any](kind apierr.Kind, format string, args ...any) Result[T] {
	return Result[T]{err: apierr.Newf(kind, format, args...)}
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the value, or ErrNoValue (wrapping the failure) when the
// result is a failure. Failures never yield a zero-value success.
func (r Result[T]) Value() (T, error) {
	if !r.ok {
		var zero T
		if r.err != nil {
			return zero, r.err
		}
		return zero, ErrNoValue
	}
	return r.value, nil
}

// Err returns the failure, or nil for a success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return ErrNoValue
	}
	return r.err
}

// Kind returns the failure classification, or KindUnknown for a success.
func (r Result[T]) Kind() apierr.Kind {
	if r.ok {
		return apierr.KindUnknown
	}
	return apierr.KindOf(r.err)
}

// Map adapts a successful result to another type; failures pass through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Err[U](r.Err())
	}
	return Ok(fn(r.value))
}
