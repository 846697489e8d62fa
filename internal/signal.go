package internal

import "fmt"

// Cell is a versioned mutable value with dependent tracking.
type Cell struct {
	rt *Runtime

	id   uint64
	name string

	value   any
	version uint64
	equal   func(a, b any) bool

	subs subscribers
}

func (r *Runtime) NewCell(initial any, equal func(a, b any) bool, name string) *Cell {
	if equal == nil {
		equal = Equal
	}

	return &Cell{
		rt:    r,
		id:    r.nextID(),
		name:  name,
		value: initial,
		equal: equal,
	}
}

// Read the current value, tracking the dependency if within a computation.
func (c *Cell) Read() any {
	c.rt.tracker.Track(c)
	return c.value
}

// Peek reads the current value without tracking.
func (c *Cell) Peek() any {
	return c.value
}

// Write stores v if it differs from the current value, marks dependents
// stale and flushes the tick unless a batch is open.
func (c *Cell) Write(v any) error {
	r := c.rt

	if err := r.tracker.checkWrite(c); err != nil {
		r.stats.RejectedWrites++
		return err
	}

	if c.equal(c.value, v) {
		return nil
	}

	c.value = v
	c.version++

	c.subs.markStale()
	r.Schedule()

	return nil
}

// Version returns how many observable changes the cell went through.
func (c *Cell) Version() uint64 { return c.version }

// Runtime returns the runtime the cell belongs to.
func (c *Cell) Runtime() *Runtime { return c.rt }

func (c *Cell) addSub(sub subscriber)    { c.subs.add(sub) }
func (c *Cell) removeSub(sub subscriber) { c.subs.remove(sub) }
func (c *Cell) refresh() error           { return nil }
func (c *Cell) ver() uint64              { return c.version }

func (c *Cell) label() string {
	if c.name != "" {
		return c.name
	}
	return fmt.Sprintf("cell#%d", c.id)
}
