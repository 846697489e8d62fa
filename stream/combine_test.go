package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AnatoleLucet/reactor/clock"
)

func TestJoinLatest(t *testing.T) {
	t.Run("emits once every source emitted", func(t *testing.T) {
		a := NewHub[int]()
		b := NewHub[string]()
		rec := &recorder[Pair[int, string]]{}

		JoinLatest2(a.Stream(), b.Stream()).Subscribe(rec)

		a.Next(1)
		assert.Empty(t, rec.values)

		b.Next("x")
		a.Next(2)

		assert.Equal(t, []Pair[int, string]{
			{1, "x"},
			{2, "x"},
		}, rec.values)
	})

	t.Run("three sources", func(t *testing.T) {
		a := NewValueHub(1)
		b := NewValueHub("b")
		c := NewValueHub(true)
		rec := &recorder[Triple[int, string, bool]]{}

		JoinLatest3(a.Stream(), b.Stream(), c.Stream()).Subscribe(rec)
		c.Next(false)

		assert.Equal(t, []Triple[int, string, bool]{
			{1, "b", true},
			{1, "b", false},
		}, rec.values)
	})

	t.Run("emitted slices are not shared", func(t *testing.T) {
		a := NewHub[int]()
		b := NewHub[int]()
		rec := &recorder[[]int]{}

		JoinLatest(a.Stream(), b.Stream()).Subscribe(rec)
		a.Next(1)
		b.Next(2)
		a.Next(3)

		assert.Equal(t, [][]int{{1, 2}, {3, 2}}, rec.values)
	})

	t.Run("completes when every source completed", func(t *testing.T) {
		a := NewHub[int]()
		b := NewHub[int]()
		rec := &recorder[[]int]{}

		JoinLatest(a.Stream(), b.Stream()).Subscribe(rec)

		a.Next(1)
		b.Next(1)
		a.Complete()
		assert.Equal(t, 0, rec.completed)

		b.Next(2)
		b.Complete()

		assert.Equal(t, [][]int{{1, 1}, {1, 2}}, rec.values)
		assert.Equal(t, 1, rec.completed)
	})

	t.Run("fails as soon as one source fails", func(t *testing.T) {
		a := NewHub[int]()
		b := NewHub[int]()
		rec := &recorder[[]int]{}

		JoinLatest(a.Stream(), b.Stream()).Subscribe(rec)
		a.Error(errBoom)

		if assert.Len(t, rec.errs, 1) {
			assert.ErrorIs(t, rec.errs[0], errBoom)
		}
		assert.Equal(t, 0, b.Observers())
	})

	t.Run("no source completes right away", func(t *testing.T) {
		rec := &recorder[[]int]{}

		JoinLatest[int]().Subscribe(rec)

		assert.Equal(t, 1, rec.completed)
	})
}

func TestMerge(t *testing.T) {
	a := NewHub[int]()
	b := NewHub[int]()
	rec := &recorder[int]{}

	Merge(a.Stream(), b.Stream()).Subscribe(rec)

	a.Next(1)
	b.Next(2)
	a.Next(3)
	a.Complete()
	assert.Equal(t, 0, rec.completed)

	b.Complete()

	assert.Equal(t, []int{1, 2, 3}, rec.values)
	assert.Equal(t, 1, rec.completed)
}

func TestSwitchLatest(t *testing.T) {
	t.Run("only the latest inner stream is observed", func(t *testing.T) {
		clk := clock.NewVirtual()
		requests := NewHub[string]()
		rec := &recorder[string]{}

		responses := map[string]Stream[string]{
			"req1": After(clk, 1000*time.Millisecond, "A"),
			"req2": After(clk, 300*time.Millisecond, "B"),
		}

		SwitchLatest(requests.Stream(), func(req string) Stream[string] {
			return responses[req]
		}).Subscribe(rec)

		requests.Next("req1")
		clk.AdvanceTo(200 * time.Millisecond)
		requests.Next("req2")
		clk.AdvanceTo(1200 * time.Millisecond)

		assert.Equal(t, []string{"B"}, rec.values)
		assert.Equal(t, 0, clk.Pending())
	})

	t.Run("keeps at most one inner subscription", func(t *testing.T) {
		outer := NewHub[int]()
		active, peak, disposed := 0, 0, 0

		SwitchLatest(outer.Stream(), func(int) Stream[int] {
			return New(func(s *Subscriber[int]) func() {
				active++
				peak = max(peak, active)
				return func() {
					active--
					disposed++
				}
			})
		}).Subscribe(&recorder[int]{})

		for i := range 5 {
			outer.Next(i)
		}

		assert.Equal(t, 1, peak)
		assert.Equal(t, 1, active)
		assert.Equal(t, 4, disposed)
	})

	t.Run("completes after the outer and the active inner", func(t *testing.T) {
		outer := NewHub[int]()
		inner := NewHub[int]()
		rec := &recorder[int]{}

		SwitchLatest(outer.Stream(), func(int) Stream[int] {
			return inner.Stream()
		}).Subscribe(rec)

		outer.Next(1)
		outer.Complete()
		assert.Equal(t, 0, rec.completed)

		inner.Next(10)
		inner.Complete()

		assert.Equal(t, []int{10}, rec.values)
		assert.Equal(t, 1, rec.completed)
	})

	t.Run("completes with the outer when no inner is active", func(t *testing.T) {
		rec := &recorder[int]{}

		SwitchLatest(Of(1, 2), func(v int) Stream[int] {
			return Of(v * 10)
		}).Subscribe(rec)

		assert.Equal(t, []int{10, 20}, rec.values)
		assert.Equal(t, 1, rec.completed)
	})

	t.Run("inner errors fail the stream", func(t *testing.T) {
		rec := &recorder[int]{}

		SwitchLatest(Of(1), func(int) Stream[int] {
			return Fail[int](errBoom)
		}).Subscribe(rec)

		if assert.Len(t, rec.errs, 1) {
			assert.ErrorIs(t, rec.errs[0], errBoom)
		}
		assert.Equal(t, 0, rec.completed)
	})
}
