package token

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/fee-router/pkg/solana"
)

func TestGetCommand_Error(t *testing.T) {
	keys := generateKeys(t, 2)

	_, err := GetCommand(solana.NewInstruction(keys[0], []byte{byte(CommandTransfer2)}))
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	_, err = GetCommand(solana.NewInstruction(ProgramKey, nil))
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing data"))
}

func TestTransfer2(t *testing.T) {
	keys := generateKeys(t, 5)

	instruction := Transfer2(keys[0], keys[1], keys[2], keys[3], 123456789, 3)

	expectedAmount := make([]byte, 8)
	binary.LittleEndian.PutUint64(expectedAmount, 123456789)

	assert.EqualValues(t, ProgramKey, instruction.Program)
	assert.EqualValues(t, CommandTransfer2, instruction.Data[0])
	assert.EqualValues(t, expectedAmount, instruction.Data[1:9])
	assert.EqualValues(t, 3, instruction.Data[9])

	require.Len(t, instruction.Accounts, 4)

	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)

	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.False(t, instruction.Accounts[1].IsWritable)

	assert.False(t, instruction.Accounts[2].IsSigner)
	assert.True(t, instruction.Accounts[2].IsWritable)

	assert.True(t, instruction.Accounts[3].IsSigner)
	assert.False(t, instruction.Accounts[3].IsWritable)

	decompiled, err := DecompileTransfer2(instruction)
	require.NoError(t, err)
	assert.EqualValues(t, 123456789, decompiled.Amount)
	assert.EqualValues(t, 3, decompiled.Decimals)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Mint)
	assert.Equal(t, keys[2], decompiled.Destination)
	assert.Equal(t, keys[3], decompiled.Owner)

	cmd, err := GetCommand(instruction)
	require.NoError(t, err)
	assert.Equal(t, CommandTransfer2, cmd)
}

func TestDecompileTransfer2_Invalid(t *testing.T) {
	keys := generateKeys(t, 5)

	instruction := Transfer2(keys[0], keys[1], keys[2], keys[3], 1, 6)
	instruction.Data = instruction.Data[:1]
	_, err := DecompileTransfer2(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid instruction data size"))

	instruction.Accounts = instruction.Accounts[:3]
	_, err = DecompileTransfer2(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	instruction.Data[0] = byte(CommandTransfer)
	_, err = DecompileTransfer2(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[4]
	_, err = DecompileTransfer2(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestErrorCodes(t *testing.T) {
	// Codes are fixed by the token program and must not drift
	assert.EqualValues(t, 1, ErrorInsufficientFunds)
	assert.EqualValues(t, 3, ErrorMintMismatch)
	assert.EqualValues(t, 4, ErrorOwnerMismatch)
	assert.EqualValues(t, 14, ErrorOverflow)
	assert.EqualValues(t, 17, ErrorAccountFrozen)
	assert.EqualValues(t, 18, ErrorMintDecimalsMismatch)
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		keys[i] = pub
	}

	return keys
}
