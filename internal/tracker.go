package internal

import "errors"

type frameKind int

const (
	// frameCompute collects dependencies for a derived cell or a task.
	frameCompute frameKind = iota
	// frameOwner only changes the owner; tracking passes through it.
	frameOwner
	// frameUntracked stops dependency collection for everything above it.
	frameUntracked
)

// collector gathers the dependencies read during one evaluation.
type collector struct {
	sub  subscriber
	deps []dependency

	// failed is set when a cycle was detected through this evaluation.
	failed error
}

func (c *collector) add(src source) {
	// fast path: same source read twice in a row
	if n := len(c.deps); n > 0 && c.deps[n-1].src == src {
		return
	}
	if dependsOn(c.deps, src) {
		return
	}

	c.deps = append(c.deps, dependency{src: src, version: src.ver()})
}

type frame struct {
	kind  frameKind
	owner *Owner
	col   *collector
}

// Tracker is the evaluation-context stack of a runtime.
// Each derived evaluation or task run pushes a frame; reads consult the
// frames to register themselves as dependencies.
type Tracker struct {
	stack []frame
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) push(f frame) {
	t.stack = append(t.stack, f)
}

func (t *Tracker) pop() {
	t.stack = t.stack[:len(t.stack)-1]
}

// CurrentOwner returns the owner new nodes should attach to, if any.
func (t *Tracker) CurrentOwner() *Owner {
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1].owner
}

func (t *Tracker) collector() *collector {
	for i := len(t.stack) - 1; i >= 0; i-- {
		switch f := t.stack[i]; f.kind {
		case frameUntracked:
			return nil
		case frameCompute:
			return f.col
		}
	}
	return nil
}

// Track registers src as a dependency of the running computation.
func (t *Tracker) Track(src source) {
	if col := t.collector(); col != nil {
		col.add(src)
	}
}

// evaluate runs fn inside a compute frame. A cycle detected through this
// frame turns into the returned error; any other panic propagates.
func (t *Tracker) evaluate(owner *Owner, col *collector, fn func() any) (value any, err error) {
	t.push(frame{kind: frameCompute, owner: owner, col: col})
	defer func() {
		t.pop()

		if r := recover(); r != nil {
			if e, ok := r.(error); ok && col.failed != nil && errors.Is(e, ErrCycleDetected) {
				err = col.failed
				return
			}
			panic(r)
		}

		if col.failed != nil {
			err = col.failed
		}
	}()

	return fn(), nil
}

// run is evaluate for side-effecting computations: every panic is recovered
// and returned as an error.
func (t *Tracker) run(owner *Owner, col *collector, fn func()) (err error) {
	t.push(frame{kind: frameCompute, owner: owner, col: col})
	defer func() {
		t.pop()

		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	fn()
	return nil
}

// RunWithOwner runs fn with owner as the current owner.
func (t *Tracker) RunWithOwner(owner *Owner, fn func()) {
	t.push(frame{kind: frameOwner, owner: owner})
	defer t.pop()

	fn()
}

// RunUntracked runs fn without recording any dependency.
func (t *Tracker) RunUntracked(fn func()) {
	t.push(frame{kind: frameUntracked, owner: t.CurrentOwner()})
	defer t.pop()

	fn()
}

// fail marks every evaluation on the stack as failed, so none of them
// memoizes a value computed from a partial read.
func (t *Tracker) fail(node subscriber) error {
	err := &CycleError{Node: node.label()}

	for _, f := range t.stack {
		if f.col != nil && f.col.failed == nil {
			f.col.failed = err
		}
	}

	return err
}

// checkWrite rejects writes that would feed back into a running computation.
func (t *Tracker) checkWrite(c *Cell) error {
	for i := len(t.stack) - 1; i >= 0; i-- {
		col := t.stack[i].col
		if col == nil {
			continue
		}

		switch sub := col.sub.(type) {
		case *Derived:
			if reaches(c, col.deps, sub.deps) {
				return &CycleError{Node: c.label()}
			}
		case *Task:
			if reaches(c, col.deps, sub.deps) {
				return &ReentrancyError{Task: sub.label(), Cell: c.label()}
			}
		}
	}

	return nil
}

// reaches reports whether c is one of deps, directly or through the
// dependencies of derived cells.
func reaches(c *Cell, deps ...[]dependency) bool {
	seen := make(map[source]struct{})

	var walk func(deps []dependency) bool
	walk = func(deps []dependency) bool {
		for _, dep := range deps {
			if dep.src == source(c) {
				return true
			}
			if _, ok := seen[dep.src]; ok {
				continue
			}
			seen[dep.src] = struct{}{}

			if d, ok := dep.src.(*Derived); ok && walk(d.deps) {
				return true
			}
		}
		return false
	}

	for _, d := range deps {
		if walk(d) {
			return true
		}
	}
	return false
}
