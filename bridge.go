package reactor

import (
	"github.com/AnatoleLucet/reactor/internal"
	"github.com/AnatoleLucet/reactor/stream"
)

// Readable is a reactive value: a *Cell or a *Derived.
type Readable[T any] interface {
	Read() T
}

// Watch turns a reactive value into a stream. Each subscription runs a task
// emitting the current value, then every new one once its tick settled.
// Disposing the subscription disposes the task.
func Watch[T any](src Readable[T]) stream.Stream[T] {
	return stream.New(func(s *stream.Subscriber[T]) func() {
		rt := internal.Default()

		var task *internal.Task
		rt.Detached(func() {
			task = rt.NewTask(func() {
				v := src.Read()
				rt.Untrack(func() { s.Next(v) })
			}, "watch")
		})

		return task.Dispose
	})
}

// FromStream subscribes to s and mirrors its values into a new cell.
// Created under an owner, the subscription is disposed with it.
// Rejected writes go to the runtime error sink; stream errors to the
// stream package's unhandled error handler.
func FromStream[T any](s stream.Stream[T], initial T, opts ...Option[T]) (*Cell[T], *stream.Subscription) {
	cell := NewCell(initial, opts...)
	rt := cell.cell.Runtime()

	sub := s.Subscribe(stream.Funcs[T]{
		OnNext: func(v T) {
			if err := cell.Write(v); err != nil {
				rt.Report(err)
			}
		},
	})
	rt.OnCleanup(sub.Dispose)

	return cell, sub
}
