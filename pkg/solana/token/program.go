package token

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/fee-router/pkg/solana"
)

// ProgramKey is the address of the token program that should be used.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

type Command byte

// Commands are the first byte of a token instruction
const (
	CommandTransfer  Command = 3
	CommandTransfer2 Command = 12

	CommandUnknown = Command(math.MaxUint8)
)

// Custom errors reported by the token program, by their on-chain code
//
// Source: https://github.com/solana-labs/solana-program-library/blob/master/token/program/src/error.rs
const (
	ErrorInsufficientFunds    solana.CustomError = 1
	ErrorMintMismatch         solana.CustomError = 3
	ErrorOwnerMismatch        solana.CustomError = 4
	ErrorInvalidInstruction   solana.CustomError = 12
	ErrorOverflow             solana.CustomError = 14
	ErrorAccountFrozen        solana.CustomError = 17
	ErrorMintDecimalsMismatch solana.CustomError = 18
)

const transfer2DataSize = 1 + 8 + 1

// GetCommand returns the token command encoded by the instruction.
func GetCommand(i solana.Instruction) (Command, error) {
	if !bytes.Equal(i.Program, ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("token instruction missing data")
	}

	return Command(i.Data[0]), nil
}

// Transfer2 returns a TransferChecked instruction, which has the token program
// verify the mint and its decimals alongside the transfer.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L230-L252
func Transfer2(source, mint, dest, owner ed25519.PublicKey, amount uint64, decimals byte) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   * Single owner/delegate
	//   0. `[writable]` The source account.
	//   1. `[]` The token mint.
	//   2. `[writable]` The destination account.
	//   3. `[signer]` The source account's owner/delegate.
	data := make([]byte, transfer2DataSize)
	data[0] = byte(CommandTransfer2)
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledTransfer2 struct {
	Source      ed25519.PublicKey
	Mint        ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey

	Amount   uint64
	Decimals byte
}

// DecompileTransfer2 parses a single owner TransferChecked instruction.
func DecompileTransfer2(i solana.Instruction) (*DecompiledTransfer2, error) {
	command, err := GetCommand(i)
	if err != nil {
		return nil, err
	}
	if command != CommandTransfer2 {
		return nil, solana.ErrIncorrectInstruction
	}

	if len(i.Accounts) != 4 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != transfer2DataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledTransfer2{
		Source:      i.Accounts[0].PublicKey,
		Mint:        i.Accounts[1].PublicKey,
		Destination: i.Accounts[2].PublicKey,
		Owner:       i.Accounts[3].PublicKey,
		Amount:      binary.LittleEndian.Uint64(i.Data[1:]),
		Decimals:    i.Data[9],
	}, nil
}
