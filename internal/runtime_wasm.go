//go:build wasm

package internal

import "sync"

var (
	once    sync.Once
	current *Runtime
)

// Default returns the process runtime; wasm programs run on a single thread.
func Default() *Runtime {
	once.Do(func() {
		current = NewRuntime()
	})

	return current
}

func Bind(r *Runtime) (restore func()) {
	prev := Default()
	current = r

	return func() { current = prev }
}

func Release() {
	current = NewRuntime()
}
