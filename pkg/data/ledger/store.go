package ledger

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrAccountNotFound    = errors.New("ledger account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrAccountFrozen      = errors.New("ledger account is frozen")
	ErrMintMismatch       = errors.New("token account mint mismatch")
	ErrOwnerMismatch      = errors.New("token account owner mismatch")
	ErrDecimalsMismatch   = errors.New("mint decimals mismatch")
	ErrInvalidAccountKind = errors.New("invalid ledger account kind")
	ErrBalanceOverflow    = errors.New("balance overflow")
)

type Store interface {
	// Put creates or updates a ledger account
	Put(ctx context.Context, record *Record) error

	// Get gets a ledger account by address
	Get(ctx context.Context, address string) (*Record, error)

	// TransferNative moves lamports between two native accounts
	TransferNative(ctx context.Context, from, to string, amount uint64) error

	// TransferToken moves a token balance between two token accounts of the
	// provided mint. Decimals must match the mint, and authority must be the
	// source account's owner or delegate.
	TransferToken(ctx context.Context, mint, from, to string, amount uint64, decimals uint8, authority string) error

	// ExecuteInTx runs fn so that every change made through ctx is either
	// applied in full or not at all. Nested calls join the outer transaction.
	ExecuteInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ValidateNativeTransfer checks a native transfer against the current state
// of both accounts. It is shared by store implementations.
func ValidateNativeTransfer(from, to *Record, amount uint64) error {
	if from.Kind != KindNative || to.Kind != KindNative {
		return ErrInvalidAccountKind
	}
	if from.IsFrozen || to.IsFrozen {
		return ErrAccountFrozen
	}
	if from.Balance < amount {
		return ErrInsufficientFunds
	}
	if from.Address != to.Address && amount > MaxBalance-to.Balance {
		return ErrBalanceOverflow
	}
	return nil
}

// ValidateTokenTransfer checks a token transfer against the current state of
// the mint and both token accounts. It is shared by store implementations.
func ValidateTokenTransfer(mint, from, to *Record, amount uint64, decimals uint8, authority string) error {
	if mint.Kind != KindMint || from.Kind != KindToken || to.Kind != KindToken {
		return ErrInvalidAccountKind
	}
	if from.IsFrozen || to.IsFrozen {
		return ErrAccountFrozen
	}
	if from.Balance < amount {
		return ErrInsufficientFunds
	}
	if from.Mint != to.Mint || from.Mint != mint.Address {
		return ErrMintMismatch
	}
	if mint.Decimals != decimals {
		return ErrDecimalsMismatch
	}
	if !from.IsAuthority(authority) {
		return ErrOwnerMismatch
	}
	if from.Address != to.Address && amount > MaxBalance-to.Balance {
		return ErrBalanceOverflow
	}
	return nil
}
