package stream

import (
	"time"

	"github.com/AnatoleLucet/reactor/clock"
)

// Of emits values synchronously, then completes.
func Of[T any](values ...T) Stream[T] {
	return New(func(s *Subscriber[T]) func() {
		for _, v := range values {
			if s.Closed() {
				return nil
			}
			s.Next(v)
		}

		s.Complete()
		return nil
	})
}

// Empty completes immediately.
func Empty[T any]() Stream[T] {
	return New(func(s *Subscriber[T]) func() {
		s.Complete()
		return nil
	})
}

// Fail errors immediately with err.
func Fail[T any](err error) Stream[T] {
	return New(func(s *Subscriber[T]) func() {
		s.Error(err)
		return nil
	})
}

// Never emits nothing and never terminates.
func Never[T any]() Stream[T] {
	return New(func(*Subscriber[T]) func() { return nil })
}

// Interval emits 0, 1, 2... every period, starting one period after
// subscription.
func Interval(clk clock.Clock, period time.Duration) Stream[int] {
	return New(func(s *Subscriber[int]) func() {
		var timer clock.Timer
		n := 0

		var tick func()
		tick = func() {
			i := n
			n++
			timer = clk.ScheduleAfter(period, tick)
			s.Next(i)
		}
		timer = clk.ScheduleAfter(period, tick)

		return func() { timer.Stop() }
	})
}

// After emits v once d elapsed, then completes.
func After[T any](clk clock.Clock, d time.Duration, v T) Stream[T] {
	return New(func(s *Subscriber[T]) func() {
		timer := clk.ScheduleAfter(d, func() {
			s.Next(v)
			s.Complete()
		})

		return func() { timer.Stop() }
	})
}
