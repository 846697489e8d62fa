package internal

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultMaxFlushPasses bounds how many times a flush re-drains the task
// queue when tasks keep writing cells read by other tasks.
const DefaultMaxFlushPasses = 1000

// Stats are cumulative counters of a runtime.
type Stats struct {
	Ticks              uint64
	DerivedEvaluations uint64
	TaskRuns           uint64
	TaskPanics         uint64
	RejectedWrites     uint64
}

// Runtime is a single-threaded reactive graph: its cells, derived cells and
// tasks must be driven from one goroutine at a time.
type Runtime struct {
	tracker   *Tracker
	batcher   *Batcher
	scheduler *Scheduler
	tasks     *TaskQueue
	settled   *SettledQueue

	ids   uint64
	stats Stats

	maxPasses int
	sink      func(error)
	tracer    trace.Tracer
	hooks     []func(Stats)
}

type Option func(*Runtime)

// WithErrorSink sets where task panics without an OnError handler go.
func WithErrorSink(fn func(error)) Option {
	return func(r *Runtime) { r.sink = fn }
}

// WithMaxFlushPasses bounds chained task re-runs within one flush.
func WithMaxFlushPasses(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithTracer emits one span per flush.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runtime) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithTickHook calls fn with the runtime counters after every tick.
func WithTickHook(fn func(Stats)) Option {
	return func(r *Runtime) {
		if fn != nil {
			r.hooks = append(r.hooks, fn)
		}
	}
}

func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		tracker:   NewTracker(),
		batcher:   NewBatcher(),
		scheduler: NewScheduler(),
		tasks:     NewTaskQueue(),
		settled:   NewSettledQueue(),

		maxPasses: DefaultMaxFlushPasses,
		sink:      logError,
		tracer:    noop.NewTracerProvider().Tracer(""),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func logError(err error) {
	slog.Error("reactor: uncaught task error", "err", err)
}

func (r *Runtime) nextID() uint64 {
	r.ids++
	return r.ids
}

func (r *Runtime) report(err error) {
	if r.sink != nil {
		r.sink(err)
	}
}

// Report hands err to the runtime's error sink.
func (r *Runtime) Report(err error) {
	r.report(err)
}

// Schedule marks the tick dirty and flushes it unless a batch is open.
func (r *Runtime) Schedule() {
	r.scheduler.Schedule()

	if !r.batcher.IsBatching() {
		r.Flush()
	}
}

// Flush settles derived cells and runs pending tasks, pass after pass, until
// no task is left.
func (r *Runtime) Flush() {
	ran := r.scheduler.Run(func() {
		_, span := r.tracer.Start(context.Background(), "reactor.flush")
		defer span.End()

		passes, runs := 0, 0
		limited := false
		for {
			for r.tasks.Len() > 0 {
				if passes == r.maxPasses {
					r.tasks.Clear()
					r.report(ErrFlushLimit)
					span.RecordError(ErrFlushLimit)
					limited = true
					break
				}
				passes++

				pass := r.tasks.Drain()

				// derived cells settle before any task observes them
				for _, t := range pass {
					t.settle()
				}

				for _, t := range pass {
					if t.flush() {
						runs++
					}
				}
			}

			// settled callbacks may write cells; their tasks run in this tick
			r.settled.Run()
			if limited {
				r.tasks.Clear()
				break
			}
			if r.tasks.Len() == 0 {
				break
			}
		}

		span.SetAttributes(
			attribute.Int("reactor.passes", passes),
			attribute.Int("reactor.tasks", runs),
		)
	})

	if ran && len(r.hooks) > 0 {
		stats := r.Stats()
		for _, hook := range r.hooks {
			hook(stats)
		}
	}
}

// OnSettled registers fn to run once at the end of the next flush.
func (r *Runtime) OnSettled(fn func()) {
	r.settled.Enqueue(fn)
}

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

// OnCleanup registers fn on the current owner, if any.
func (r *Runtime) OnCleanup(fn func()) {
	if owner := r.CurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}

// Detached runs fn without a current owner, so the nodes it creates
// outlive the running task or owner.
func (r *Runtime) Detached(fn func()) {
	r.tracker.RunWithOwner(nil, fn)
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) Stats() Stats {
	s := r.stats
	s.Ticks = r.scheduler.Ticks()
	return s
}
