// Package stream implements lazy push streams.
//
// A Stream is an inert recipe: nothing happens until it is subscribed, and
// every subscription runs the recipe again. Stages and combinators are plain
// functions from streams to streams. Time-based stages take a clock.Clock so
// they can run on virtual time.
//
// Streams follow the single-threaded model of the reactor package: a stream
// execution, its timers and its observers run on one goroutine.
package stream

// Observer receives the events of a stream: any number of values, then at
// most one of Error or Complete.
type Observer[T any] interface {
	Next(v T)
	Error(err error)
	Complete()
}

// Funcs adapts callbacks to an Observer. Nil callbacks are skipped, except
// for errors: without OnError they go to the unhandled error handler.
type Funcs[T any] struct {
	OnNext     func(v T)
	OnError    func(err error)
	OnComplete func()
}

func (f Funcs[T]) Next(v T) {
	if f.OnNext != nil {
		f.OnNext(v)
	}
}

func (f Funcs[T]) Error(err error) {
	if f.OnError != nil {
		f.OnError(err)
		return
	}
	reportUnhandled(err)
}

func (f Funcs[T]) Complete() {
	if f.OnComplete != nil {
		f.OnComplete()
	}
}

// Producer starts one execution of a stream, emitting through s, and
// returns its teardown (or nil).
type Producer[T any] func(s *Subscriber[T]) (teardown func())

type Stream[T any] struct {
	produce Producer[T]
}

func New[T any](produce Producer[T]) Stream[T] {
	return Stream[T]{produce: produce}
}

// Subscribe starts a new execution of the stream delivering to o.
func (s Stream[T]) Subscribe(o Observer[T]) *Subscription {
	return s.subscribe(nil, o)
}

// SubscribeFunc is Subscribe with a Next callback only.
func (s Stream[T]) SubscribeFunc(next func(v T)) *Subscription {
	return s.subscribe(nil, Funcs[T]{OnNext: next})
}

// subscribe links the new execution to parent before producing, so a
// synchronous producer stops as soon as parent is disposed.
func (s Stream[T]) subscribe(parent *Subscription, o Observer[T]) *Subscription {
	sub := newSubscriber(o)
	if parent != nil {
		parent.link(sub.Subscription)
	}

	if s.produce != nil && !sub.Closed() {
		sub.Add(s.produce(sub))
	}

	return sub.Subscription
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
