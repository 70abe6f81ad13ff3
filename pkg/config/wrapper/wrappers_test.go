package wrapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	ctx := context.Background()

	m := memory.NewConfig(nil)
	c := NewBoolConfig(m, true)

	assert.True(t, c.Get(ctx))

	m.SetValue(false)
	assert.False(t, c.Get(ctx))

	m.SetValue([]byte("true"))
	assert.True(t, c.Get(ctx))

	m.SetValue([]byte("not-a-bool"))
	val, err := c.GetSafe(ctx)
	assert.Error(t, err)
	assert.True(t, val)

	m.SetValue(123)
	val, err = c.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.True(t, val)

	m.SetValue(false)
	m.InduceErrors()
	val, err = c.GetSafe(ctx)
	assert.Error(t, err)
	assert.True(t, val)

	m.StopInducingErrors()
	val, err = c.GetSafe(ctx)
	require.NoError(t, err)
	assert.False(t, val)

	m.ClearValue()
	assert.True(t, c.Get(ctx))
}

func TestStringConfig(t *testing.T) {
	ctx := context.Background()

	m := memory.NewConfig(nil)
	c := NewStringConfig(m, "default")

	assert.Equal(t, "default", c.Get(ctx))

	m.SetValue("override")
	assert.Equal(t, "override", c.Get(ctx))

	m.SetValue([]byte("bytes"))
	assert.Equal(t, "bytes", c.Get(ctx))

	m.SetValue(1.5)
	val, err := c.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, "bytes", val)

	m.ClearValue()
	assert.Equal(t, "default", c.Get(ctx))
}
