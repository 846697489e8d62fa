package internal

import "fmt"

// Derived is a memoized value computed from other cells. Its dependency set
// is rebuilt on every evaluation.
type Derived struct {
	// owns the nodes created during the last evaluation
	*Owner

	rt *Runtime

	id   uint64
	name string

	compute func() any
	equal   func(a, b any) bool

	value   any
	version uint64

	deps []dependency
	subs subscribers

	stale      bool
	evaluated  bool
	evaluating bool
	disposed   bool
}

// NewDerived creates a derived cell. Nothing is computed until the first read.
func (r *Runtime) NewDerived(compute func() any, equal func(a, b any) bool, name string) *Derived {
	if equal == nil {
		equal = Equal
	}

	d := &Derived{
		Owner:   r.NewOwner(),
		rt:      r,
		id:      r.nextID(),
		name:    name,
		compute: compute,
		equal:   equal,
		stale:   true,
	}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		parent.AddChild(d)
	}

	return d
}

// Read returns the up-to-date value, tracking the dependency if within a
// computation. A cycle through this cell is returned as an error and leaves
// the cell stale.
func (d *Derived) Read() (any, error) {
	if d.disposed {
		return d.value, &DisposedError{Node: d.label(), Op: "read"}
	}

	if err := d.refresh(); err != nil {
		return d.value, err
	}

	d.rt.tracker.Track(d)
	return d.value, nil
}

func (d *Derived) markStale() {
	if d.stale || d.disposed {
		return
	}

	d.stale = true
	d.subs.markStale()
}

func (d *Derived) refresh() error {
	if d.evaluating {
		return d.rt.tracker.fail(d)
	}
	if !d.stale || d.disposed {
		return nil
	}

	if d.evaluated {
		dirty, err := changed(d.deps)
		if err != nil {
			return err
		}
		if !dirty {
			d.stale = false
			return nil
		}
	}

	return d.evaluate()
}

func (d *Derived) evaluate() error {
	r := d.rt

	d.Owner.DisposeChildren()

	col := &collector{sub: d}

	d.evaluating = true
	value, err := func() (any, error) {
		defer func() { d.evaluating = false }()
		return r.tracker.evaluate(d.Owner, col, d.compute)
	}()
	if err != nil {
		// keep the previous edges so a later write still reaches this cell
		return err
	}

	r.stats.DerivedEvaluations++

	relink(d, d.deps, col.deps)
	d.deps = col.deps
	d.stale = false

	if !d.evaluated || !d.equal(d.value, value) {
		d.value = value
		d.version++
	}
	d.evaluated = true

	return nil
}

// Dispose unlinks the cell from its dependencies. Subsequent reads return
// the last value along with a *DisposedError.
func (d *Derived) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true

	unlink(d, d.deps)
	d.deps = nil
	d.Owner.Dispose()
	d.Owner.Detach(d)
}

func (d *Derived) Disposed() bool { return d.disposed }

// Version returns how many observable changes the cell went through.
func (d *Derived) Version() uint64 { return d.version }

func (d *Derived) addSub(sub subscriber)    { d.subs.add(sub) }
func (d *Derived) removeSub(sub subscriber) { d.subs.remove(sub) }
func (d *Derived) ver() uint64              { return d.version }

func (d *Derived) label() string {
	if d.name != "" {
		return d.name
	}
	return fmt.Sprintf("derived#%d", d.id)
}
