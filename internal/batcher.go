package internal

// Batcher defers flushes while batches are open. Batches nest; only closing
// the outermost one completes the batch.
type Batcher struct {
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn inside a batch and calls onComplete when the outermost batch
// closes, even if fn panicked.
func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		if b.depth--; b.depth > 0 || onComplete == nil {
			return
		}
		onComplete()
	}()

	fn()
}

// Batch runs fn as a single tick: writes are visible immediately but tasks
// run once, after the outermost batch returns.
func (r *Runtime) Batch(fn func()) {
	r.batcher.Batch(fn, r.Flush)
}
