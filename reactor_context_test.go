package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	t.Run("store value", func(t *testing.T) {
		ctx := NewContext(0)
		assert.Equal(t, 0, ctx.Value())

		ctx.Set(42)
		assert.Equal(t, 0, ctx.Value()) // still zero, no owner to hold the value
	})

	t.Run("inherit value from parent owner", func(t *testing.T) {
		ctx := NewContext("default")

		parent := NewOwner()
		err := parent.Run(func() error {
			ctx.Set("parent value")

			return NewOwner().Run(func() error {
				assert.Equal(t, "parent value", ctx.Value())
				return nil
			})
		})
		assert.NoError(t, err)

		assert.Equal(t, "default", ctx.Value())
	})

	t.Run("tasks see the context of their owner", func(t *testing.T) {
		log := []string{}

		role := NewContext("guest")
		count := NewCell(0)

		o := NewOwner()
		o.Run(func() error {
			role.Set("admin")

			NewTask(func() {
				count.Read()
				log = append(log, role.Value())
			})
			return nil
		})

		count.Write(1)

		assert.Equal(t, []string{"admin", "admin"}, log)
	})
}
