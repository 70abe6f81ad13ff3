package solana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionError_Builtin(t *testing.T) {
	e := NewInstructionError(1, errors.Wrap(InstructionErrorInsufficientFunds, "transfer failed"))

	assert.Equal(t, InstructionErrorInsufficientFunds, e.ErrorKey())
	assert.Nil(t, e.CustomError())
	assert.True(t, errors.Is(e, InstructionErrorInsufficientFunds))
	assert.Equal(t, `[1, "InsufficientFunds"]`, e.JSONString())
	assert.Equal(t, "Error processing Instruction 1: transfer failed: InsufficientFunds", e.Error())
}

func TestInstructionError_Custom(t *testing.T) {
	e := NewInstructionError(0, CustomError(3))

	assert.Equal(t, InstructionErrorCustom, e.ErrorKey())
	require.NotNil(t, e.CustomError())
	assert.Equal(t, CustomError(3), *e.CustomError())
	assert.Equal(t, `[0, {"Custom": 3}]`, e.JSONString())
}

type testCodedError struct {
	code CustomError
}

func (e testCodedError) Error() string {
	return "coded"
}

func (e testCodedError) CustomError() CustomError {
	return e.code
}

func TestInstructionError_CodedError(t *testing.T) {
	e := NewInstructionError(2, testCodedError{code: 0x1771})

	assert.Equal(t, InstructionErrorCustom, e.ErrorKey())
	require.NotNil(t, e.CustomError())
	assert.EqualValues(t, 0x1771, *e.CustomError())

	e = NewInstructionError(2, errors.New("unknown"))
	assert.Equal(t, InstructionErrorGenericError, e.ErrorKey())
	assert.Nil(t, e.CustomError())

	e = NewInstructionError(2, nil)
	assert.Empty(t, e.ErrorKey())
}

type testKeyedError struct {
	key  InstructionErrorKey
	code CustomError
}

func (e testKeyedError) Error() string {
	return "keyed"
}

func (e testKeyedError) InstructionErrorKey() InstructionErrorKey {
	return e.key
}

func (e testKeyedError) CustomError() CustomError {
	return e.code
}

func TestErrorKey_KeyedError(t *testing.T) {
	err := errors.Wrap(testKeyedError{key: InstructionErrorMissingRequiredSignature, code: 0x1773}, "validation")
	assert.Equal(t, InstructionErrorMissingRequiredSignature, ErrorKey(err))
	assert.Nil(t, GetCustomError(err))
	assert.Equal(t, `[4, "MissingRequiredSignature"]`, NewInstructionError(4, err).JSONString())

	err = testKeyedError{key: InstructionErrorCustom, code: 0x1773}
	assert.Equal(t, InstructionErrorCustom, ErrorKey(err))
	require.NotNil(t, GetCustomError(err))
	assert.EqualValues(t, 0x1773, *GetCustomError(err))
	assert.Equal(t, `[4, {"Custom": 6003}]`, NewInstructionError(4, err).JSONString())
}

func TestWrapError(t *testing.T) {
	cause := errors.New("balance too low")

	err := errors.Wrap(WrapError(InstructionErrorInsufficientFunds, cause), "transfer")
	assert.Equal(t, InstructionErrorInsufficientFunds, ErrorKey(err))
	assert.True(t, errors.Is(err, InstructionErrorInsufficientFunds))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "transfer: InsufficientFunds: balance too low", err.Error())

	err = WrapError(CustomError(4), cause)
	assert.Equal(t, InstructionErrorCustom, ErrorKey(err))
	require.NotNil(t, GetCustomError(err))
	assert.EqualValues(t, 4, *GetCustomError(err))
	assert.True(t, errors.Is(err, cause))

	assert.Equal(t, InstructionErrorMissingAccount, WrapError(InstructionErrorMissingAccount, nil))
}
