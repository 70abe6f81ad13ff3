package feerouter

import (
	"github.com/code-payments/fee-router/pkg/config"
	"github.com/code-payments/fee-router/pkg/config/env"
	"github.com/code-payments/fee-router/pkg/config/memory"
	"github.com/code-payments/fee-router/pkg/config/wrapper"
)

const (
	envConfigPrefix = "FEE_ROUTER_"

	// Rejects splits whose platform fee disagrees with PlatformFeeBps
	EnforceFeeRateConfigEnvName = envConfigPrefix + "ENFORCE_FEE_RATE"
	defaultEnforceFeeRate       = false

	// Base58 address the platform fee must be paid to. Empty accepts any.
	PlatformWalletConfigEnvName = envConfigPrefix + "PLATFORM_WALLET"
	defaultPlatformWallet       = ""
)

type conf struct {
	enforceFeeRate config.Bool
	platformWallet config.String
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			enforceFeeRate: env.NewBoolConfig(EnforceFeeRateConfigEnvName, defaultEnforceFeeRate),
			platformWallet: env.NewStringConfig(PlatformWalletConfigEnvName, defaultPlatformWallet),
		}
	}
}

type testOverrides struct {
	enforceFeeRate bool
	platformWallet string
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			enforceFeeRate: wrapper.NewBoolConfig(memory.NewConfig(overrides.enforceFeeRate), defaultEnforceFeeRate),
			platformWallet: wrapper.NewStringConfig(memory.NewConfig(overrides.platformWallet), defaultPlatformWallet),
		}
	}
}
