package stream

import "slices"

type teardown struct {
	fn    func()
	child *Subscription
}

// Subscription is the live link between one stream execution and its
// observer. Disposing it stops the execution and releases its resources.
type Subscription struct {
	closed bool

	parent    *Subscription
	teardowns []teardown
}

// Closed reports whether the subscription was disposed.
func (s *Subscription) Closed() bool {
	return s.closed
}

// Add registers fn to run on disposal. On a disposed subscription fn runs
// immediately.
func (s *Subscription) Add(fn func()) {
	if fn == nil {
		return
	}
	if s.closed {
		fn()
		return
	}

	s.teardowns = append(s.teardowns, teardown{fn: fn})
}

// link makes child part of s: disposing s disposes child, and a disposed
// child removes itself from s.
func (s *Subscription) link(child *Subscription) {
	if s.closed {
		child.Dispose()
		return
	}

	child.parent = s
	s.teardowns = append(s.teardowns, teardown{child: child})
}

func (s *Subscription) unlink(child *Subscription) {
	i := slices.IndexFunc(s.teardowns, func(t teardown) bool { return t.child == child })
	if i >= 0 {
		s.teardowns = slices.Delete(s.teardowns, i, i+1)
	}
}

// Dispose runs the teardowns in reverse registration order. Only the first
// call has an effect, including calls made from within a teardown.
func (s *Subscription) Dispose() {
	if s.closed {
		return
	}
	s.closed = true

	if s.parent != nil {
		s.parent.unlink(s)
		s.parent = nil
	}

	teardowns := s.teardowns
	s.teardowns = nil

	for i := len(teardowns) - 1; i >= 0; i-- {
		if t := teardowns[i]; t.child != nil {
			t.child.Dispose()
		} else {
			t.fn()
		}
	}
}

// Subscriber is the observer handed to a producer. It forwards events to
// the downstream observer until the first terminal event or disposal, and
// drops everything after.
type Subscriber[T any] struct {
	*Subscription

	observer Observer[T]
	stopped  bool
}

func newSubscriber[T any](o Observer[T]) *Subscriber[T] {
	return &Subscriber[T]{
		Subscription: &Subscription{},
		observer:     o,
	}
}

// Closed reports whether the subscriber stopped accepting events.
// Synchronous producers poll it to stop early.
func (s *Subscriber[T]) Closed() bool {
	return s.stopped || s.closed
}

func (s *Subscriber[T]) Next(v T) {
	if s.Closed() {
		return
	}
	s.observer.Next(v)
}

// Error delivers err, wrapped in a *StreamError, then disposes the
// subscription.
func (s *Subscriber[T]) Error(err error) {
	if s.Closed() {
		return
	}
	s.stopped = true

	s.observer.Error(wrap(err))
	s.Dispose()
}

// Complete delivers the completion, then disposes the subscription.
func (s *Subscriber[T]) Complete() {
	if s.Closed() {
		return
	}
	s.stopped = true

	s.observer.Complete()
	s.Dispose()
}
