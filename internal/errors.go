package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrCycleDetected is matched by every *CycleError.
	ErrCycleDetected = errors.New("reactor: cycle detected")

	// ErrSchedulerReentrancy is matched by every *ReentrancyError.
	ErrSchedulerReentrancy = errors.New("reactor: task wrote to its own dependency")

	// ErrDisposed is matched by every *DisposedError.
	ErrDisposed = errors.New("reactor: use of disposed node")

	// ErrFlushLimit is reported when chained task writes keep the scheduler
	// busy for more passes than the runtime allows.
	ErrFlushLimit = errors.New("reactor: flush did not settle")
)

// CycleError is returned when a derived cell re-enters its own evaluation,
// or when a cell is written while a derived cell depending on it evaluates.
type CycleError struct {
	// Node is the label of the node where the cycle closed.
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v at %s", ErrCycleDetected, e.Node)
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// ReentrancyError is returned when a task writes a cell it depends on.
type ReentrancyError struct {
	Task string
	Cell string
}

func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("%v: %s wrote %s", ErrSchedulerReentrancy, e.Task, e.Cell)
}

func (e *ReentrancyError) Unwrap() error { return ErrSchedulerReentrancy }

// DisposedError is returned by operations on a disposed task or derived cell.
type DisposedError struct {
	Node string
	Op   string
}

func (e *DisposedError) Error() string {
	return fmt.Sprintf("%v: %s on %s", ErrDisposed, e.Op, e.Node)
}

func (e *DisposedError) Unwrap() error { return ErrDisposed }

// PanicError wraps a recovered panic value that was not an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("reactor: panic: %v", e.Value)
}

// asError turns a recovered panic value into an error.
func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return &PanicError{Value: v}
}
