package reactor

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		count := NewCell(0)
		assert.Equal(t, 0, count.Read())

		assert.NoError(t, count.Write(10))
		assert.Equal(t, 10, count.Read())
	})

	t.Run("write from another goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		count := NewCell(0)

		wg.Go(func() {
			count.Write(count.Read() + 1)
		})

		wg.Wait()
		assert.Equal(t, 1, count.Read())
	})

	t.Run("zero values", func(t *testing.T) {
		err := NewCell[error](nil)
		assert.Nil(t, err.Read())

		err.Write(errors.New("oops"))
		assert.EqualError(t, err.Read(), "oops")

		err.Write(nil)
		assert.Nil(t, err.Read())
	})

	t.Run("update", func(t *testing.T) {
		count := NewCell(1)

		count.Update(func(c int) int { return c + 1 })
		count.Update(func(c int) int { return c * 10 })

		assert.Equal(t, 20, count.Read())
	})

	t.Run("equal writes do not bump the version", func(t *testing.T) {
		count := NewCell(1)

		count.Write(1)
		assert.Equal(t, uint64(0), count.Version())

		count.Write(2)
		count.Write(2)
		assert.Equal(t, uint64(1), count.Version())
	})

	t.Run("non comparable values always change", func(t *testing.T) {
		log := []int{}

		items := NewCell([]int{1})
		NewTask(func() {
			log = append(log, len(items.Read()))
		})

		items.Write([]int{1})

		assert.Equal(t, []int{1, 1}, log)
	})

	t.Run("custom equality", func(t *testing.T) {
		log := []int{}

		items := NewCell([]int{1}, Equals(func(a, b []int) bool { return len(a) == len(b) }))
		NewTask(func() {
			log = append(log, len(items.Read()))
		})

		items.Write([]int{2})
		items.Write([]int{2, 3})

		assert.Equal(t, []int{1, 2}, log)
	})

	t.Run("peek does not track", func(t *testing.T) {
		runs := 0

		count := NewCell(0)
		NewTask(func() {
			count.Peek()
			runs++
		})

		count.Write(1)

		assert.Equal(t, 1, runs)
	})
}
