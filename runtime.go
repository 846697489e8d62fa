package reactor

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/AnatoleLucet/reactor/internal"
)

// Runtime owns a reactive graph. Every goroutine gets its own runtime on
// first use; NewRuntime creates one explicitly, to be bound with Run.
type Runtime struct {
	rt *internal.Runtime
}

type RuntimeOption = internal.Option

// Stats are cumulative counters of a runtime.
type Stats = internal.Stats

// WithErrorSink sets the function receiving task panics that no owner
// handled. The default logs them with slog.
func WithErrorSink(fn func(error)) RuntimeOption {
	return internal.WithErrorSink(fn)
}

// WithMaxFlushPasses bounds how many times one tick re-runs tasks triggered
// by other tasks' writes.
func WithMaxFlushPasses(n int) RuntimeOption {
	return internal.WithMaxFlushPasses(n)
}

// WithTracer emits a "reactor.flush" span for every tick.
func WithTracer(tracer trace.Tracer) RuntimeOption {
	return internal.WithTracer(tracer)
}

// WithTickHook calls fn with the runtime counters after every tick, on the
// runtime's goroutine.
func WithTickHook(fn func(Stats)) RuntimeOption {
	return internal.WithTickHook(fn)
}

func NewRuntime(opts ...RuntimeOption) *Runtime {
	return &Runtime{internal.NewRuntime(opts...)}
}

// Current returns the calling goroutine's runtime.
func Current() *Runtime {
	return &Runtime{internal.Default()}
}

// Release forgets the calling goroutine's default runtime. Goroutines that
// used the package-level constructors call it before exiting; the next use
// on the same goroutine starts a fresh runtime.
func Release() {
	internal.Release()
}

// Run binds the runtime to the calling goroutine while fn runs, so the
// package-level constructors create their nodes in it.
func (r *Runtime) Run(fn func()) {
	restore := internal.Bind(r.rt)
	defer restore()

	fn()
}

// Batch groups the writes made by fn into a single tick of this runtime.
func (r *Runtime) Batch(fn func()) {
	r.rt.Batch(fn)
}

// Stats returns a snapshot of the runtime counters.
func (r *Runtime) Stats() Stats {
	return r.rt.Stats()
}
