package reactor

import (
	"errors"

	"github.com/AnatoleLucet/reactor/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type config[T any] struct {
	equal func(a, b T) bool
	name  string
}

// Option configures a cell or a derived cell.
type Option[T any] func(*config[T])

// Equals overrides the change-detection policy of a cell or derived cell.
// By default values of comparable types are compared with ==, and every
// write of a non-comparable value (slice, map, func) counts as a change.
func Equals[T any](fn func(a, b T) bool) Option[T] {
	return func(c *config[T]) { c.equal = fn }
}

// Name labels the node in errors and traces.
func Name[T any](name string) Option[T] {
	return func(c *config[T]) { c.name = name }
}

func newConfig[T any](opts []Option[T]) config[T] {
	var c config[T]
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config[T]) equalFunc() func(a, b any) bool {
	if c.equal == nil {
		return nil
	}

	return func(a, b any) bool { return c.equal(as[T](a), as[T](b)) }
}

type Cell[T any] struct {
	cell *internal.Cell
}

// NewCell creates your typical read/write cell.
func NewCell[T any](initial T, opts ...Option[T]) *Cell[T] {
	c := newConfig(opts)

	return &Cell[T]{
		internal.Default().NewCell(initial, c.equalFunc(), c.name),
	}
}

// Read the current value of the cell, tracking the dependency if within a derived cell or a task.
func (c *Cell[T]) Read() T {
	return as[T](c.cell.Read())
}

// Peek reads the current value without tracking it.
func (c *Cell[T]) Peek() T {
	return as[T](c.cell.Peek())
}

// Write a new value to the cell, triggering updates to any dependents.
// Writes feeding back into a running derived cell or task are rejected with
// a *CycleError or *ReentrancyError and leave the cell untouched.
func (c *Cell[T]) Write(v T) error {
	return c.cell.Write(v)
}

// Update writes fn applied to the current value. The read is not tracked.
func (c *Cell[T]) Update(fn func(T) T) error {
	return c.cell.Write(fn(c.Peek()))
}

// Version is bumped on every observable change.
func (c *Cell[T]) Version() uint64 {
	return c.cell.Version()
}

type Derived[T any] struct {
	derived *internal.Derived
}

// NewDerived creates a memoized value derived from other cells.
// It is computed lazily, on first read, and recomputed only when one of the
// cells it read during its last evaluation changed.
func NewDerived[T any](compute func() T, opts ...Option[T]) *Derived[T] {
	c := newConfig(opts)

	return &Derived[T]{
		internal.Default().NewDerived(func() any { return compute() }, c.equalFunc(), c.name),
	}
}

// Read the current value, tracking the dependency if within a derived cell or a task.
// It panics with a *CycleError if the cell re-enters its own evaluation;
// use Get to receive the error instead.
func (d *Derived[T]) Read() T {
	v, err := d.Get()
	if err != nil && !errors.Is(err, ErrDisposed) {
		panic(err)
	}
	return v
}

// Get is Read returning the evaluation error instead of panicking.
// A disposed cell returns its last value with a *DisposedError.
func (d *Derived[T]) Get() (T, error) {
	v, err := d.derived.Read()
	return as[T](v), err
}

// Dispose unlinks the cell from its dependencies.
func (d *Derived[T]) Dispose() { d.derived.Dispose() }

type Task struct {
	task *internal.Task
}

// NewTask creates a task that runs fn now, and again once per tick whenever
// one of the cells it read changed. Tasks observe derived cells only after
// they settled.
func NewTask(fn func()) *Task {
	return &Task{
		internal.Default().NewTask(fn, ""),
	}
}

// NewNamedTask is NewTask with a label used in errors and traces.
func NewNamedTask(name string, fn func()) *Task {
	return &Task{
		internal.Default().NewTask(fn, name),
	}
}

// Dispose stops the task and runs its cleanups. Safe to call more than once.
func (t *Task) Dispose() { t.task.Dispose() }

// Disposed reports whether Dispose was called.
func (t *Task) Disposed() bool { return t.task.Disposed() }

// Rerun runs the task immediately. It fails with a *DisposedError once the
// task is disposed.
func (t *Task) Rerun() error { return t.task.Rerun() }

// Batch groups multiple cell writes into a single tick,
// instead of running tasks after each write.
func Batch(fn func()) {
	internal.Default().Batch(fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.Default().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current owner is
// disposed, or before the current task re-runs.
func OnCleanup(fn func()) {
	internal.Default().OnCleanup(fn)
}

// OnSettled registers a function to be called once, at the end of the next tick.
func OnSettled(fn func()) {
	internal.Default().OnSettled(fn)
}

type Context[T any] struct {
	ctx *internal.Context
}

// NewContext creates a new reactive context with an initial value.
func NewContext[T any](initial T) *Context[T] {
	return &Context[T]{
		internal.Default().NewContext(initial),
	}
}

// Value retrieves the current value of the context,
// inheriting from parent owners if not set in the current owner.
func (c *Context[T]) Value() T {
	return as[T](c.ctx.Value())
}

// Set a new value for the context in the current owner.
func (c *Context[T]) Set(value T) {
	c.ctx.Set(value)
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner.
// An owner manages the lifecycle of reactive nodes created within its context.
func NewOwner() *Owner {
	r := internal.Default()
	o := r.NewOwner()

	if parent := r.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return &Owner{o}
}

// Run a function within the context of this owner.
// Each reactive node created within the function will be a child of this owner,
// and will be disposed when Dispose is called on this owner.
func (o *Owner) Run(fn func() error) error {
	var err error
	o.owner.Run(func() { err = fn() })
	return err
}

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Add a cleanup function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when the owner is disposed (each time Dispose is called).
func (o *Owner) OnDispose(fn func()) { o.owner.OnDispose(fn) }

// Add a function to be called when a panic occurs within this owner.
// If no error listener is registered, the panic will propagate as usual.
func (o *Owner) OnError(fn func(error)) { o.owner.OnError(fn) }
