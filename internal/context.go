package internal

// Context is a value scoped to an owner subtree.
type Context struct {
	rt      *Runtime
	initial any
}

func (r *Runtime) NewContext(initial any) *Context {
	return &Context{rt: r, initial: initial}
}

// Value returns the value set on the nearest owner, or the initial value.
func (c *Context) Value() any {
	for o := c.rt.CurrentOwner(); o != nil; o = o.parent {
		if v, ok := o.values[c]; ok {
			return v
		}
	}

	return c.initial
}

// Set stores v on the current owner. Without an owner the call is a no-op.
func (c *Context) Set(v any) {
	o := c.rt.CurrentOwner()
	if o == nil {
		return
	}

	if o.values == nil {
		o.values = make(map[*Context]any)
	}
	o.values[c] = v
}
