// Package clock schedules callbacks on a logical or wall-time axis.
//
// Time is measured as a time.Duration elapsed since the clock was created.
// Callbacks due at the same instant fire in the order they were scheduled.
package clock

import "time"

// Clock schedules callbacks. Implementations run every callback on a single
// goroutine, so callbacks may freely touch reactive cells.
type Clock interface {
	// Now returns the time elapsed since the clock started.
	Now() time.Duration

	// ScheduleAt runs fn once the clock reaches at. A time in the past is
	// treated as now.
	ScheduleAt(at time.Duration, fn func()) Timer

	// ScheduleAfter runs fn once d elapsed.
	ScheduleAfter(d time.Duration, fn func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the callback was still
	// pending.
	Stop() bool
}
