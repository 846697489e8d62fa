package stream

import "slices"

type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// JoinLatest emits the latest value of every source each time one of them
// emits, once all of them emitted at least once. It completes when every
// source completed, and fails as soon as one fails.
func JoinLatest[T any](sources ...Stream[T]) Stream[[]T] {
	return New(func(out *Subscriber[[]T]) func() {
		n := len(sources)
		if n == 0 {
			out.Complete()
			return nil
		}

		values := make([]T, n)
		has := make([]bool, n)
		seen, completed := 0, 0

		for i, src := range sources {
			if out.Closed() {
				break
			}

			src.subscribe(out.Subscription, Funcs[T]{
				OnNext: func(v T) {
					values[i] = v
					if !has[i] {
						has[i] = true
						seen++
					}
					if seen == n {
						out.Next(slices.Clone(values))
					}
				},
				OnError: out.Error,
				OnComplete: func() {
					completed++
					if completed == n {
						out.Complete()
					}
				},
			})
		}

		return nil
	})
}

func erase[T any](s Stream[T]) Stream[any] {
	return Map(s, func(v T) any { return v })
}

// JoinLatest2 is JoinLatest over two streams of different types.
func JoinLatest2[A, B any](a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	return Map(JoinLatest(erase(a), erase(b)), func(vs []any) Pair[A, B] {
		return Pair[A, B]{as[A](vs[0]), as[B](vs[1])}
	})
}

// JoinLatest3 is JoinLatest over three streams of different types.
func JoinLatest3[A, B, C any](a Stream[A], b Stream[B], c Stream[C]) Stream[Triple[A, B, C]] {
	return Map(JoinLatest(erase(a), erase(b), erase(c)), func(vs []any) Triple[A, B, C] {
		return Triple[A, B, C]{as[A](vs[0]), as[B](vs[1]), as[C](vs[2])}
	})
}

// Merge forwards the values of every source as they come. It completes
// when every source completed, and fails as soon as one fails.
func Merge[T any](sources ...Stream[T]) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		n := len(sources)
		if n == 0 {
			out.Complete()
			return nil
		}

		completed := 0
		for _, src := range sources {
			if out.Closed() {
				break
			}

			src.subscribe(out.Subscription, Funcs[T]{
				OnNext:  out.Next,
				OnError: out.Error,
				OnComplete: func() {
					completed++
					if completed == n {
						out.Complete()
					}
				},
			})
		}

		return nil
	})
}

type inner struct {
	sub  *Subscription
	done bool
}

// SwitchLatest maps every value of s to a stream with project and mirrors
// only the latest one: the previous inner stream is disposed before the
// next is subscribed. It completes once s and the active inner stream
// both completed.
func SwitchLatest[T, R any](s Stream[T], project func(T) Stream[R]) Stream[R] {
	return New(func(out *Subscriber[R]) func() {
		var active *inner
		outerDone := false

		s.subscribe(out.Subscription, Funcs[T]{
			OnNext: func(v T) {
				if active != nil && active.sub != nil {
					active.sub.Dispose()
				}

				in := &inner{}
				active = in

				in.sub = project(v).subscribe(out.Subscription, Funcs[R]{
					OnNext:  out.Next,
					OnError: out.Error,
					OnComplete: func() {
						in.done = true
						if active == in && outerDone {
							out.Complete()
						}
					},
				})
			},
			OnError: out.Error,
			OnComplete: func() {
				outerDone = true
				if active == nil || active.done {
					out.Complete()
				}
			},
		})

		return nil
	})
}
