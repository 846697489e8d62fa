package clock

import (
	"context"
	"sync"
	"time"
)

// Real is a wall-time clock. Callbacks may be scheduled from any goroutine
// but only run on the goroutine calling Run.
type Real struct {
	start time.Time

	mu    sync.Mutex
	seq   uint64
	queue timerQueue

	wake chan struct{}
}

var _ Clock = (*Real)(nil)

func NewReal() *Real {
	return &Real{
		start: time.Now(),
		wake:  make(chan struct{}, 1),
	}
}

func (r *Real) Now() time.Duration {
	return time.Since(r.start)
}

func (r *Real) ScheduleAt(at time.Duration, fn func()) Timer {
	r.mu.Lock()
	r.seq++
	e := &entry{at: at, seq: r.seq, fn: fn}
	r.queue.insert(e)
	r.mu.Unlock()

	r.notify()

	return timer{e: e, stop: r.remove}
}

func (r *Real) ScheduleAfter(d time.Duration, fn func()) Timer {
	return r.ScheduleAt(r.Now()+d, fn)
}

func (r *Real) remove(e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.queue.remove(e)
}

func (r *Real) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of scheduled callbacks.
func (r *Real) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.queue.Len()
}

// Run fires callbacks as they fall due until ctx is done, and returns the
// context's error.
func (r *Real) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.mu.Lock()
		now := r.Now()
		e := r.queue.popDue(now)
		next := r.queue.peek()
		r.mu.Unlock()

		if e != nil {
			e.fn()
			continue
		}

		var t *time.Timer
		var fire <-chan time.Time
		if next != nil {
			t = time.NewTimer(next.at - now)
			fire = t.C
		}

		select {
		case <-ctx.Done():
		case <-r.wake:
		case <-fire:
		}

		if t != nil {
			t.Stop()
		}
	}
}
