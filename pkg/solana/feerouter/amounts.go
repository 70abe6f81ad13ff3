package feerouter

import (
	"math/bits"
)

const (
	SplitInstructionArgsSize = (8 + // user_amount
		8) // platform_fee
)

// SplitAmounts is the partition of a value between the user and the platform,
// in the smallest unit of the currency or token
type SplitAmounts struct {
	UserAmount  uint64
	PlatformFee uint64
}

// Total returns the combined amount and whether it fits in a u64
func (s SplitAmounts) Total() (uint64, bool) {
	total, carry := bits.Add64(s.UserAmount, s.PlatformFee, 0)
	return total, carry == 0
}

// MatchesFeeRate returns whether the platform fee is exactly the fee rate's
// share of the total
func (s SplitAmounts) MatchesFeeRate(feeBps uint64) bool {
	total, ok := s.Total()
	if !ok {
		return false
	}

	expected, err := ComputeSplit(total, feeBps)
	if err != nil {
		return false
	}
	return expected == s
}

// ComputeSplit partitions total so that the platform fee is
// floor(total * feeBps / BasisPoints) and the user gets the remainder
func ComputeSplit(total, feeBps uint64) (SplitAmounts, error) {
	if feeBps > BasisPoints {
		return SplitAmounts{}, ErrInvalidFeeRate
	}

	// total * feeBps / BasisPoints never exceeds total, so the high word of
	// the product is always below BasisPoints
	hi, lo := bits.Mul64(total, feeBps)
	fee, _ := bits.Div64(hi, lo, BasisPoints)

	return SplitAmounts{
		UserAmount:  total - fee,
		PlatformFee: fee,
	}, nil
}

// CalculatePlatformFee returns the platform's share of total at PlatformFeeBps
func CalculatePlatformFee(total uint64) uint64 {
	split, _ := ComputeSplit(total, PlatformFeeBps)
	return split.PlatformFee
}

// CalculateUserAmount returns the user's share of total at PlatformFeeBps
func CalculateUserAmount(total uint64) uint64 {
	split, _ := ComputeSplit(total, PlatformFeeBps)
	return split.UserAmount
}

func parseAmount(payload []byte, offset int) (uint64, error) {
	if offset < 0 || len(payload) < offset+8 {
		return 0, ErrMalformedAmount
	}

	var amount uint64
	getUint64(payload, &amount, &offset)
	return amount, nil
}

// parseSplitAmounts decodes the user amount and platform fee at offsets 0 and
// 8. The payload must be exactly SplitInstructionArgsSize bytes.
func parseSplitAmounts(payload []byte) (SplitAmounts, error) {
	if len(payload) > SplitInstructionArgsSize {
		return SplitAmounts{}, ErrInvalidInstruction
	}

	userAmount, err := parseAmount(payload, 0)
	if err != nil {
		return SplitAmounts{}, err
	}

	platformFee, err := parseAmount(payload, 8)
	if err != nil {
		return SplitAmounts{}, err
	}

	amounts := SplitAmounts{
		UserAmount:  userAmount,
		PlatformFee: platformFee,
	}
	if _, ok := amounts.Total(); !ok {
		return SplitAmounts{}, ErrAmountOverflow
	}
	return amounts, nil
}
