package stream

import (
	"errors"
	"log/slog"
	"sync/atomic"
)

// StreamError is the error delivered to observers. It wraps the cause
// raised upstream exactly once, however many stages it went through.
type StreamError struct {
	Cause error
}

func (e *StreamError) Error() string {
	if e.Cause == nil {
		return "stream: error"
	}
	return "stream: " + e.Cause.Error()
}

func (e *StreamError) Unwrap() error { return e.Cause }

func wrap(err error) error {
	var se *StreamError
	if errors.As(err, &se) {
		return err
	}
	return &StreamError{Cause: err}
}

var unhandled atomic.Pointer[func(error)]

func init() {
	SetUnhandledErrorHandler(nil)
}

func logUnhandled(err error) {
	slog.Error("stream: unhandled error", "err", err)
}

// SetUnhandledErrorHandler sets the function receiving errors that reach a
// Funcs observer without an OnError callback, and returns the previous one.
// A nil fn restores the default, which logs the error with slog.
func SetUnhandledErrorHandler(fn func(error)) (prev func(error)) {
	if fn == nil {
		fn = logUnhandled
	}

	if p := unhandled.Swap(&fn); p != nil {
		prev = *p
	}
	return prev
}

func reportUnhandled(err error) {
	(*unhandled.Load())(err)
}
