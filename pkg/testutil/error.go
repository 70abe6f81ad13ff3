package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/solana"
)

// AssertInstructionErrorKey verifies that the provided error resolves to the
// provided Solana instruction error key.
func AssertInstructionErrorKey(t *testing.T, err error, key solana.InstructionErrorKey) {
	require.Error(t, err)
	assert.Equal(t, key, solana.ErrorKey(err))
}

// AssertCustomError verifies that the provided error carries the provided
// program custom error code.
func AssertCustomError(t *testing.T, err error, code solana.CustomError) {
	require.Error(t, err)
	custom := solana.GetCustomError(err)
	require.NotNil(t, custom)
	assert.Equal(t, code, *custom)
}
