package feerouter

import (
	"github.com/shopspring/decimal"
)

// FeeInfo is a display oriented breakdown of a split in fiat terms
type FeeInfo struct {
	PlatformFee   decimal.Decimal
	UserAmount    decimal.Decimal
	FeePercentage decimal.Decimal
}

// FormatFeeInfo breaks a fiat amount down into the platform fee and the user's
// share at PlatformFeeBps, each rounded to cents
func FormatFeeInfo(amount decimal.Decimal) FeeInfo {
	rate := decimal.New(PlatformFeeBps, 0).Div(decimal.New(BasisPoints, 0))

	platformFee := amount.Mul(rate)
	userAmount := amount.Sub(platformFee)

	return FeeInfo{
		PlatformFee:   platformFee.Round(2),
		UserAmount:    userAmount.Round(2),
		FeePercentage: decimal.New(PlatformFeeBps, -2),
	}
}
