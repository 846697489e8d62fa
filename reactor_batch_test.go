package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatch(t *testing.T) {
	t.Run("batches multiple writes", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)

		NewTask(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		Batch(func() {
			count.Write(10)
			count.Write(20)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("batches multiple cells", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)
		double := NewCell(0)

		NewTask(func() {
			log = append(log, fmt.Sprintf("count %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "count cleanup")
			})
		})

		NewTask(func() {
			log = append(log, fmt.Sprintf("double %d", double.Read()))

			OnCleanup(func() {
				log = append(log, "double cleanup")
			})
		})

		Batch(func() {
			count.Write(10)
			double.Write(count.Read() * 2)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"count 0",
			"double 0",
			"updated",
			"count cleanup",
			"count 10",
			"double cleanup",
			"double 20",
		}, log)
	})

	t.Run("nested batches", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)

		NewTask(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		Batch(func() {
			count.Write(10)
			Batch(func() {
				count.Write(20)
			})
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"changed 0",
			"updated",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("task runs once for many dependencies", func(t *testing.T) {
		runs := 0

		a := NewCell(0)
		b := NewCell(0)
		sum := NewDerived(func() int { return a.Read() + b.Read() })

		NewTask(func() {
			a.Read()
			b.Read()
			sum.Read()
			runs++
		})

		Batch(func() {
			a.Write(1)
			b.Write(2)
			a.Write(3)
		})

		assert.Equal(t, 2, runs)
		assert.Equal(t, 5, sum.Read())
	})

	t.Run("writes are visible inside the batch", func(t *testing.T) {
		count := NewCell(0)
		double := NewDerived(func() int { return count.Read() * 2 })

		Batch(func() {
			count.Write(4)
			assert.Equal(t, 4, count.Read())
			assert.Equal(t, 8, double.Read())
		})
	})

	t.Run("explicit runtime counts ticks", func(t *testing.T) {
		rt := NewRuntime()

		var count *Cell[int]
		rt.Run(func() {
			count = NewCell(0)
			NewTask(func() { count.Read() })
		})

		before := rt.Stats()
		rt.Batch(func() {
			count.Write(1)
			count.Write(2)
		})
		after := rt.Stats()

		assert.Equal(t, before.Ticks+1, after.Ticks)
		assert.Equal(t, before.TaskRuns+1, after.TaskRuns)
	})
}
