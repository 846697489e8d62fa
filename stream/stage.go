package stream

// pipe subscribes to s on behalf of out, forwarding terminal events.
func pipe[T, R any](s Stream[T], out *Subscriber[R], next func(v T)) {
	s.subscribe(out.Subscription, Funcs[T]{
		OnNext:     next,
		OnError:    out.Error,
		OnComplete: out.Complete,
	})
}

// Map transforms every value with fn.
func Map[T, R any](s Stream[T], fn func(T) R) Stream[R] {
	return New(func(out *Subscriber[R]) func() {
		pipe(s, out, func(v T) { out.Next(fn(v)) })
		return nil
	})
}

// TryMap is Map with a fallible fn. The first error fn returns terminates
// the stream with that error.
func TryMap[T, R any](s Stream[T], fn func(T) (R, error)) Stream[R] {
	return New(func(out *Subscriber[R]) func() {
		pipe(s, out, func(v T) {
			r, err := fn(v)
			if err != nil {
				out.Error(err)
				return
			}
			out.Next(r)
		})
		return nil
	})
}

// Filter forwards the values keep returns true for.
func Filter[T any](s Stream[T], keep func(T) bool) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		pipe(s, out, func(v T) {
			if keep(v) {
				out.Next(v)
			}
		})
		return nil
	})
}

// Tap calls fn with every value before forwarding it.
func Tap[T any](s Stream[T], fn func(T)) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		pipe(s, out, func(v T) {
			fn(v)
			out.Next(v)
		})
		return nil
	})
}

// Take forwards the first n values, then completes and unsubscribes.
func Take[T any](s Stream[T], n int) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		if n <= 0 {
			out.Complete()
			return nil
		}

		seen := 0
		pipe(s, out, func(v T) {
			seen++
			out.Next(v)
			if seen == n {
				out.Complete()
			}
		})
		return nil
	})
}

// StartWith emits values before the values of s.
func StartWith[T any](s Stream[T], values ...T) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		for _, v := range values {
			if out.Closed() {
				return nil
			}
			out.Next(v)
		}

		pipe(s, out, out.Next)
		return nil
	})
}

// Fold emits the accumulator after each value, starting from seed.
func Fold[T, A any](s Stream[T], seed A, fn func(acc A, v T) A) Stream[A] {
	return New(func(out *Subscriber[A]) func() {
		acc := seed
		pipe(s, out, func(v T) {
			acc = fn(acc, v)
			out.Next(acc)
		})
		return nil
	})
}

// Distinct drops values equal to the last forwarded one.
func Distinct[T comparable](s Stream[T]) Stream[T] {
	return DistinctFunc(s, func(a, b T) bool { return a == b })
}

// DistinctFunc is Distinct with a custom equality.
func DistinctFunc[T any](s Stream[T], equal func(a, b T) bool) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		var last T
		has := false

		pipe(s, out, func(v T) {
			if has && equal(last, v) {
				return
			}
			last, has = v, true
			out.Next(v)
		})
		return nil
	})
}

// CatchErr replaces a failed stream with the one handler returns for the
// error.
func CatchErr[T any](s Stream[T], handler func(err error) Stream[T]) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		s.subscribe(out.Subscription, Funcs[T]{
			OnNext: out.Next,
			OnError: func(err error) {
				pipe(handler(err), out, out.Next)
			},
			OnComplete: out.Complete,
		})
		return nil
	})
}

// Retry resubscribes to s when it fails, up to n times in total, and then
// forwards the last error.
func Retry[T any](s Stream[T], n int) Stream[T] {
	return New(func(out *Subscriber[T]) func() {
		retries := 0

		var attempt func()
		attempt = func() {
			s.subscribe(out.Subscription, Funcs[T]{
				OnNext: out.Next,
				OnError: func(err error) {
					if retries >= n || out.Closed() {
						out.Error(err)
						return
					}
					retries++
					attempt()
				},
				OnComplete: out.Complete,
			})
		}
		attempt()

		return nil
	})
}
