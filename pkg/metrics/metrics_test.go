package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoApplication(t *testing.T) {
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordCount(ctx, "count", 1)
		RecordDuration(ctx, "duration", time.Second)
		RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})

		tracer := TraceMethodCall(ctx, "package", "Method")
		assert.Nil(t, tracer)
		tracer.AddAttribute("key", "value")
		tracer.AddAttributes(map[string]interface{}{"key": "value"})
		tracer.OnError(errors.New("error"))
		tracer.End()
	})

	var app *newrelic.Application
	assert.NotPanics(t, func() {
		RecordCount(NewContext(ctx, app), "count", 1)
	})
}

func TestDisabledApplication(t *testing.T) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("fee-router-test"),
		newrelic.ConfigEnabled(false),
	)
	require.NoError(t, err)
	defer app.Shutdown(time.Second)

	ctx := NewContext(context.Background(), app)

	assert.NotPanics(t, func() {
		RecordCount(ctx, "count", 1)
		RecordDuration(ctx, "duration", time.Second)
		RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})
	})

	txn := app.StartTransaction("test")
	defer txn.End()

	tracer := TraceMethodCall(newrelic.NewContext(ctx, txn), "package", "Method")
	require.NotNil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.OnError(errors.New("error"))
	tracer.End()
}
