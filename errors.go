package reactor

import "github.com/AnatoleLucet/reactor/internal"

var (
	// ErrCycleDetected is matched by every *CycleError.
	ErrCycleDetected = internal.ErrCycleDetected

	// ErrSchedulerReentrancy is matched by every *ReentrancyError.
	ErrSchedulerReentrancy = internal.ErrSchedulerReentrancy

	// ErrDisposed is matched by every *DisposedError.
	ErrDisposed = internal.ErrDisposed

	// ErrFlushLimit is reported to the error sink when tasks keep re-triggering
	// each other past the runtime's pass limit.
	ErrFlushLimit = internal.ErrFlushLimit
)

type (
	// CycleError reports a derived cell re-entering its own evaluation, or a
	// write to a cell a running derived cell depends on.
	CycleError = internal.CycleError

	// ReentrancyError reports a task writing one of its own dependencies.
	ReentrancyError = internal.ReentrancyError

	// DisposedError reports an operation on a disposed task or derived cell.
	DisposedError = internal.DisposedError

	// PanicError wraps a non-error value a task panicked with.
	PanicError = internal.PanicError
)
