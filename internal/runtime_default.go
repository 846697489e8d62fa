//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// goroutine id -> *Runtime
var runtimes sync.Map

// Default returns the runtime bound to the calling goroutine, creating it on
// first use.
func Default() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r, _ := runtimes.LoadOrStore(gid, NewRuntime())
	return r.(*Runtime)
}

// Bind makes r the calling goroutine's runtime and returns a function
// restoring the previous binding.
func Bind(r *Runtime) (restore func()) {
	gid := goid.Get()

	prev, had := runtimes.Load(gid)
	runtimes.Store(gid, r)

	return func() {
		if had {
			runtimes.Store(gid, prev)
		} else {
			runtimes.Delete(gid)
		}
	}
}

// Release forgets the calling goroutine's runtime.
func Release() {
	runtimes.Delete(goid.Get())
}
