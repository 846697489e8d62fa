package stream

import (
	"time"

	"github.com/AnatoleLucet/reactor/clock"
)

type debounceConfig struct {
	flush bool
}

type DebounceOption func(*debounceConfig)

// FlushOnComplete makes Debounce emit the pending value when the source
// completes, instead of dropping it.
func FlushOnComplete() DebounceOption {
	return func(c *debounceConfig) { c.flush = true }
}

// Debounce forwards a value only once window elapsed without a newer one.
func Debounce[T any](s Stream[T], clk clock.Clock, window time.Duration, opts ...DebounceOption) Stream[T] {
	var cfg debounceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return New(func(out *Subscriber[T]) func() {
		var (
			timer   clock.Timer
			pending T
		)

		stop := func() bool {
			if timer == nil {
				return false
			}
			t := timer
			timer = nil
			return t.Stop()
		}

		s.subscribe(out.Subscription, Funcs[T]{
			OnNext: func(v T) {
				stop()
				pending = v
				timer = clk.ScheduleAfter(window, func() {
					timer = nil
					out.Next(pending)
				})
			},
			OnError: func(err error) {
				stop()
				out.Error(err)
			},
			OnComplete: func() {
				if stop() && cfg.flush {
					out.Next(pending)
				}
				out.Complete()
			},
		})

		return func() { stop() }
	})
}

// Delay shifts every value by d. Completion is delayed until the pending
// values were emitted; errors are forwarded immediately.
func Delay[T any](s Stream[T], clk clock.Clock, d time.Duration) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		timers := map[uint64]clock.Timer{}
		var seq uint64
		done := false

		s.subscribe(out.Subscription, Funcs[T]{
			OnNext: func(v T) {
				seq++
				id := seq
				timers[id] = clk.ScheduleAfter(d, func() {
					delete(timers, id)
					out.Next(v)
					if done && len(timers) == 0 {
						out.Complete()
					}
				})
			},
			OnError: out.Error,
			OnComplete: func() {
				done = true
				if len(timers) == 0 {
					out.Complete()
				}
			},
		})

		return func() {
			for id, t := range timers {
				t.Stop()
				delete(timers, id)
			}
		}
	})
}
