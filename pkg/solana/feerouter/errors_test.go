package feerouter

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/solana"
	"github.com/code-payments/fee-router/pkg/solana/token"
	"github.com/code-payments/fee-router/pkg/testutil"
)

func TestError_Is(t *testing.T) {
	err := &Error{Code: ErrorCodeAccountNotWritable, Account: "user"}
	assert.True(t, errors.Is(err, ErrAccountNotWritable))
	assert.False(t, errors.Is(err, ErrMissingRequiredSignature))
	assert.True(t, errors.Is(errors.Wrap(err, "wrapped"), ErrAccountNotWritable))
	assert.Equal(t, "fee router: account not writable: user", err.Error())

	err = newTransferError(StagePlatform, solana.InstructionErrorInsufficientFunds)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.True(t, errors.Is(err, ErrTransferFailed))
	assert.True(t, errors.Is(err, ErrTransferFailed.AtStage(StagePlatform)))
	assert.False(t, errors.Is(err, ErrInsufficientFunds.AtStage(StageUser)))
	assert.True(t, errors.Is(err, solana.InstructionErrorInsufficientFunds))
	assert.True(t, err.Partial())
	assert.Equal(t, "fee router: insufficient funds (platform): InsufficientFunds", err.Error())

	// A plain transfer failure is not an insufficient funds failure
	err = newTransferError(StageUser, errors.New("boom"))
	assert.True(t, errors.Is(err, ErrTransferFailed))
	assert.False(t, errors.Is(err, ErrInsufficientFunds))
	assert.False(t, err.Partial())
}

func TestError_AtStage(t *testing.T) {
	staged := ErrTransferFailed.AtStage(StageUser)
	assert.Equal(t, StageUser, staged.Stage)
	assert.Equal(t, StageNone, ErrTransferFailed.Stage)
}

func TestError_InstructionErrorKey(t *testing.T) {
	for _, tc := range []struct {
		err         *Error
		expectedKey solana.InstructionErrorKey
		customCode  solana.CustomError
	}{
		{ErrInvalidInstruction, solana.InstructionErrorInvalidInstructionData, 0},
		{ErrMalformedAmount, solana.InstructionErrorInvalidInstructionData, 0},
		{ErrAccountCountMismatch, solana.InstructionErrorNotEnoughAccountKeys, 0},
		{ErrMissingRequiredSignature, solana.InstructionErrorMissingRequiredSignature, 0},
		{ErrAmountOverflow, solana.InstructionErrorArithmeticOverflow, 0},
		{ErrInsufficientFunds, solana.InstructionErrorInsufficientFunds, 0},
		{ErrAccountNotWritable, solana.InstructionErrorCustom, 0x1774},
		{ErrTransferFailed, solana.InstructionErrorCustom, 0x1775},
		{ErrFeeMismatch, solana.InstructionErrorCustom, 0x1778},
		{ErrPlatformWalletMismatch, solana.InstructionErrorCustom, 0x1779},
		{ErrInvalidFeeRate, solana.InstructionErrorCustom, 0x177a},
	} {
		assert.Equal(t, tc.expectedKey, solana.ErrorKey(tc.err), tc.err.Error())

		custom := solana.GetCustomError(tc.err)
		if tc.expectedKey != solana.InstructionErrorCustom {
			assert.Nil(t, custom)
			continue
		}
		require.NotNil(t, custom)
		assert.Equal(t, tc.customCode, *custom)
	}
}

func TestError_HostErrorPropagation(t *testing.T) {
	err := newTransferError(StagePlatform, solana.InstructionErrorMissingAccount)
	assert.Equal(t, ErrorCodeTransferFailed, err.Code)
	testutil.AssertInstructionErrorKey(t, err, solana.InstructionErrorMissingAccount)

	ixnErr := solana.NewInstructionError(0, err)
	assert.Equal(t, `[0, "MissingAccount"]`, ixnErr.JSONString())

	err = newTransferError(StageUser, solana.WrapError(token.ErrorInsufficientFunds, errors.New("balance too low")))
	assert.Equal(t, ErrorCodeInsufficientFunds, err.Code)
	testutil.AssertInstructionErrorKey(t, err, solana.InstructionErrorCustom)
	testutil.AssertCustomError(t, err, token.ErrorInsufficientFunds)

	err = newTransferError(StageUser, token.ErrorOwnerMismatch)
	assert.Equal(t, ErrorCodeTransferFailed, err.Code)
	assert.Equal(t, token.ErrorOwnerMismatch, err.CustomError())

	// Unclassified host failures surface as the program's own code
	err = newTransferError(StageUser, errors.New("host unavailable"))
	testutil.AssertInstructionErrorKey(t, err, solana.InstructionErrorCustom)
	assert.Equal(t, solana.CustomError(ErrorCodeTransferFailed), err.CustomError())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "invalid instruction", ErrorCodeInvalidInstruction.String())
	assert.Equal(t, "invalid fee rate", ErrorCodeInvalidFeeRate.String())
	assert.Equal(t, "unknown error code 1", ErrorCode(1).String())

	assert.EqualValues(t, 6000, ErrorCodeInvalidInstruction)
}
