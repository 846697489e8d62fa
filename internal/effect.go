package internal

import "fmt"

// Task is a side-effecting computation re-run once per tick when one of the
// cells it read during its last run changed.
type Task struct {
	// owns the cleanups and nodes registered during the last run
	*Owner

	rt *Runtime

	id   uint64
	name string

	fn   func()
	deps []dependency

	pending  bool
	disposed bool
}

// NewTask creates a task and runs it once to capture its dependencies.
func (r *Runtime) NewTask(fn func(), name string) *Task {
	t := &Task{
		Owner: r.NewOwner(),
		rt:    r,
		id:    r.nextID(),
		name:  name,
		fn:    fn,
	}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		parent.AddChild(t)
	}

	t.run()

	return t
}

func (t *Task) markStale() {
	if t.pending || t.disposed {
		return
	}

	t.pending = true
	t.rt.tasks.Enqueue(t)
}

// settle brings the derived dependencies up to date without running the task.
func (t *Task) settle() {
	for _, dep := range t.deps {
		if err := dep.src.refresh(); err != nil {
			return
		}
	}
}

// flush runs the task if it is still pending and one of its dependencies
// actually changed. It reports whether the task ran.
func (t *Task) flush() bool {
	if !t.pending || t.disposed {
		return false
	}
	t.pending = false

	if dirty, _ := changed(t.deps); !dirty {
		return false
	}

	t.run()
	return true
}

// run executes the task as a batch: writes made by the task are flushed
// once it returns and its new dependencies are linked.
func (t *Task) run() {
	r := t.rt

	r.batcher.Batch(func() {
		// cleanups and children of the previous run
		t.Owner.Dispose()

		col := &collector{sub: t}
		err := r.tracker.run(t.Owner, col, t.fn)

		if t.disposed {
			// disposed from within its own run
			unlink(t, col.deps)
			return
		}

		relink(t, t.deps, col.deps)
		t.deps = col.deps

		r.stats.TaskRuns++
		if err != nil {
			r.stats.TaskPanics++
			if !t.Owner.handleError(err) {
				r.report(err)
			}
		}
	}, r.Flush)
}

// Rerun forces the task to run now, outside of any tick.
func (t *Task) Rerun() error {
	if t.disposed {
		return &DisposedError{Node: t.label(), Op: "rerun"}
	}

	t.pending = false
	t.run()
	return nil
}

// Dispose unlinks the task and runs its cleanups. A disposed task never runs
// again, even if it was already enqueued.
func (t *Task) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.pending = false

	unlink(t, t.deps)
	t.deps = nil
	t.Owner.Dispose()
	t.Owner.Detach(t)
}

func (t *Task) Disposed() bool { return t.disposed }

func (t *Task) label() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("task#%d", t.id)
}
