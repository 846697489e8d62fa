package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal(t *testing.T) {
	t.Run("runs callbacks on the run goroutine", func(t *testing.T) {
		clk := NewReal()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log := []string{}

		clk.ScheduleAfter(2*time.Millisecond, func() {
			log = append(log, "second")
			cancel()
		})
		clk.ScheduleAfter(time.Millisecond, func() {
			log = append(log, "first")
		})

		err := clk.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"first", "second"}, log)
	})

	t.Run("wakes up for callbacks scheduled from elsewhere", func(t *testing.T) {
		clk := NewReal()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		go func() {
			time.Sleep(5 * time.Millisecond)
			clk.ScheduleAfter(0, cancel)
		}()

		err := clk.Run(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("stopped callbacks never run", func(t *testing.T) {
		clk := NewReal()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fired := false
		timer := clk.ScheduleAfter(time.Millisecond, func() { fired = true })
		assert.True(t, timer.Stop())
		assert.Equal(t, 0, clk.Pending())

		clk.ScheduleAfter(10*time.Millisecond, cancel)
		clk.Run(ctx)

		assert.False(t, fired)
	})
}
