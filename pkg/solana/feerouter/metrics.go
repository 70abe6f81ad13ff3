package feerouter

import (
	"context"

	"github.com/pkg/errors"

	"github.com/code-payments/fee-router/pkg/metrics"
)

const (
	metricsStructName = "feerouter.processor"

	invocationEventName        = "FeeRouterInvocation"
	splitVolumeMetricName      = "FeeRouter/split_volume"
	platformFeeMetricName      = "FeeRouter/platform_fee"
	failedInvocationMetricName = "FeeRouter/failed_invocations"
)

func recordInvocationEvent(ctx context.Context, instruction string, result *Result, err error) {
	kvPairs := map[string]interface{}{
		"instruction": instruction,
		"success":     err == nil,
	}

	if result != nil {
		kvPairs["user_amount"] = result.Amounts.UserAmount
		kvPairs["platform_fee"] = result.Amounts.PlatformFee
		kvPairs["already_initialized"] = result.AlreadyInitialized
	}

	var typed *Error
	if errors.As(err, &typed) {
		kvPairs["error_code"] = uint32(typed.Code)
		kvPairs["stage"] = typed.Stage.String()
		kvPairs["partial"] = typed.Partial()
	}

	metrics.RecordEvent(ctx, invocationEventName, kvPairs)
}

func recordSplitMetrics(ctx context.Context, amounts SplitAmounts) {
	total, _ := amounts.Total()
	metrics.RecordCount(ctx, splitVolumeMetricName, total)
	metrics.RecordCount(ctx, platformFeeMetricName, amounts.PlatformFee)
}

func recordFailedInvocation(ctx context.Context) {
	metrics.RecordCount(ctx, failedInvocationMetricName, 1)
}
