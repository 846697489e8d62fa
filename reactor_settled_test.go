package reactor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnSettled(t *testing.T) {
	t.Run("runs when flush finishes", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)

		NewTask(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		count.Write(10)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 10",
			"settled",
		}, log)
	})

	t.Run("waits for chained tasks", func(t *testing.T) {
		log := []string{}

		a := NewCell(0)
		b := NewCell(0)

		NewTask(func() {
			log = append(log, fmt.Sprintf("A changed %d", a.Read()))

			b.Write(a.Read() * 2)

			OnCleanup(func() {
				log = append(log, "A cleanup")
			})
		})

		NewTask(func() {
			log = append(log, fmt.Sprintf("B changed %d", b.Read()))

			OnCleanup(func() {
				log = append(log, "B cleanup")
			})
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		a.Write(10)

		assert.Equal(t, []string{
			"A changed 0",
			"B changed 0",
			"A cleanup",
			"A changed 10",
			"B cleanup",
			"B changed 20",
			"settled",
		}, log)
	})

	t.Run("runs once", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)
		NewTask(func() {
			log = append(log, fmt.Sprintf("changed %d", count.Read()))

			OnCleanup(func() {
				log = append(log, "cleanup")
			})
		})

		OnSettled(func() {
			log = append(log, "settled")
		})

		count.Write(10)
		count.Write(20)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 10",
			"settled",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("runs after a batch", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)

		Batch(func() {
			OnSettled(func() {
				log = append(log, fmt.Sprintf("settled %d", count.Peek()))
			})

			count.Write(1)
			count.Write(2)
		})

		assert.Equal(t, []string{"settled 2"}, log)
	})

	t.Run("tasks see writes made by settled callbacks", func(t *testing.T) {
		log := []string{}

		a := NewCell(0)
		b := NewCell(0)

		NewTask(func() {
			log = append(log, fmt.Sprintf("b=%d", b.Read()))
		})

		OnSettled(func() {
			b.Write(42)
		})

		a.Write(1)

		assert.Equal(t, []string{"b=0", "b=42"}, log)
	})

	t.Run("sees settled derived values", func(t *testing.T) {
		log := []string{}

		price := NewCell(10)
		qty := NewCell(1)
		total := NewDerived(func() int { return price.Read() * qty.Read() })

		OnSettled(func() {
			log = append(log, fmt.Sprintf("total %d", total.Read()))
		})

		Batch(func() {
			price.Write(12)
			qty.Write(3)
		})

		assert.Equal(t, []string{"total 36"}, log)
	})

	t.Run("callbacks registered while settling wait for the next tick", func(t *testing.T) {
		log := []string{}

		count := NewCell(0)

		OnSettled(func() {
			log = append(log, "first")

			OnSettled(func() {
				log = append(log, "second")
			})
		})

		count.Write(1)
		assert.Equal(t, []string{"first"}, log)

		count.Write(2)
		assert.Equal(t, []string{"first", "second"}, log)
	})

	t.Run("belongs to the runtime it was registered in", func(t *testing.T) {
		log := []string{}

		rt := NewRuntime()

		var count *Cell[int]
		rt.Run(func() {
			count = NewCell(0)

			OnSettled(func() {
				log = append(log, fmt.Sprintf("settled %d", count.Peek()))
			})
		})

		NewCell(0).Write(1)
		assert.Empty(t, log)

		count.Write(7)
		assert.Equal(t, []string{"settled 7"}, log)
		assert.Equal(t, uint64(1), rt.Stats().Ticks)
	})
}
