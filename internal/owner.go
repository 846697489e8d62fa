package internal

import (
	"slices"
)

type Disposable interface {
	Dispose()
}

// ownedNode is a disposable that carries its own owner: owners, derived
// cells and tasks.
type ownedNode interface {
	Disposable
	self() *Owner
}

// Owner manages the lifecycle of the nodes created while it is current.
type Owner struct {
	rt *Runtime

	// cleanup functions to be called once, on the next disposal
	cleanups []func()

	// functions called on every disposal
	disposers []func()

	// panic handlers
	catchers []func(error)

	// context values set under this owner
	values map[*Context]any

	parent   *Owner
	children []Disposable
}

func (r *Runtime) NewOwner() *Owner {
	return &Owner{rt: r}
}

func (o *Owner) self() *Owner { return o }

// Run fn with o as the current owner. A panic is handed to the nearest
// OnError handler up the owner chain, and re-raised if there is none.
func (o *Owner) Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if !o.handleError(asError(r)) {
				panic(r)
			}
		}
	}()

	o.rt.tracker.RunWithOwner(o, fn)
}

func (o *Owner) AddChild(child ownedNode) {
	child.self().parent = o
	o.children = append(o.children, child)
}

func (o *Owner) removeChild(child Disposable) {
	if i := slices.Index(o.children, child); i >= 0 {
		o.children = slices.Delete(o.children, i, i+1)
	}
}

// Detach removes node, which owns o, from o's parent.
func (o *Owner) Detach(node Disposable) {
	if o.parent != nil {
		o.parent.removeChild(node)
		o.parent = nil
	}
}

// Dispose disposes the children, newest first, then runs the cleanups.
func (o *Owner) Dispose() {
	o.DisposeChildren()

	cleanups := o.cleanups
	o.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}

	for _, fn := range o.disposers {
		fn()
	}
}

func (o *Owner) DisposeChildren() {
	children := o.children
	o.children = nil

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
}

// OnCleanup registers fn to run once, on the next disposal.
func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

// OnDispose registers fn to run on every disposal.
func (o *Owner) OnDispose(fn func()) {
	o.disposers = append(o.disposers, fn)
}

// OnError registers a handler for panics raised under this owner.
func (o *Owner) OnError(fn func(error)) {
	o.catchers = append(o.catchers, fn)
}

// handleError hands err to the nearest owner with handlers.
func (o *Owner) handleError(err error) bool {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catch := range owner.catchers {
			catch(err)
		}
		return true
	}

	return false
}
