package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/config"
)

func TestConfig_Lifecycle(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(true)

	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, val)

	for _, tc := range []struct {
		update   func()
		expected interface{}
		err      error
	}{
		{func() { c.SetValue("platform") }, "platform", nil},
		{c.ClearValue, nil, config.ErrNoValue},
		{c.InduceErrors, nil, errDeveloperInduced},
		{c.StopInducingErrors, nil, config.ErrNoValue},
		{func() { c.SetValue(false) }, false, nil},
		{c.Shutdown, nil, config.ErrShutdown},
	} {
		tc.update()

		val, err := c.Get(ctx)
		assert.Equal(t, tc.err, err)
		assert.Equal(t, tc.expected, val)
	}
}
