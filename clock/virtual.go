package clock

import "time"

// Virtual is a clock whose time only moves when told to. It makes timing
// deterministic in tests and simulations.
//
// A Virtual clock is not safe for concurrent use.
type Virtual struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

var _ Clock = (*Virtual)(nil)

func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Now() time.Duration {
	return v.now
}

func (v *Virtual) ScheduleAt(at time.Duration, fn func()) Timer {
	if at < v.now {
		at = v.now
	}

	v.seq++
	e := &entry{at: at, seq: v.seq, fn: fn}
	v.queue.insert(e)

	return timer{e: e, stop: v.queue.remove}
}

func (v *Virtual) ScheduleAfter(d time.Duration, fn func()) Timer {
	return v.ScheduleAt(v.now+d, fn)
}

// AdvanceTo moves the clock to t, firing every callback due on the way,
// including the ones scheduled by callbacks fired during the advance.
// Moving backwards is a no-op.
func (v *Virtual) AdvanceTo(t time.Duration) {
	for {
		e := v.queue.popDue(t)
		if e == nil {
			break
		}

		v.now = e.at
		e.fn()
	}

	if t > v.now {
		v.now = t
	}
}

// Advance moves the clock forward by d.
func (v *Virtual) Advance(d time.Duration) {
	v.AdvanceTo(v.now + d)
}

// Pending returns the number of scheduled callbacks.
func (v *Virtual) Pending() int {
	return v.queue.Len()
}

// RunAll fires callbacks until none is left, moving the clock to each one's
// time. It never returns while a callback keeps rescheduling itself.
func (v *Virtual) RunAll() {
	for {
		e := v.queue.peek()
		if e == nil {
			return
		}

		v.AdvanceTo(e.at)
	}
}
