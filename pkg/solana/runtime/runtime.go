package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fee-router/pkg/data/ledger"
	"github.com/code-payments/fee-router/pkg/metrics"
	"github.com/code-payments/fee-router/pkg/solana"
	"github.com/code-payments/fee-router/pkg/solana/system"
	"github.com/code-payments/fee-router/pkg/solana/token"
)

const (
	metricsStructName = "runtime.host"

	transactionDurationMetricName = "Runtime/transaction_duration_ms"
)

// Program is an on-ledger program the host can invoke
type Program interface {
	Process(ctx context.Context, accounts []solana.AccountMeta, data []byte) error
}

// Host simulates the ledger runtime programs execute in. Balances live in a
// ledger.Store, the system and token programs are built in, and every
// transaction is applied all-or-nothing.
type Host struct {
	log    *logrus.Entry
	ledger ledger.Store

	programsMu sync.RWMutex
	programs   map[string]Program
}

func New(store ledger.Store) *Host {
	return &Host{
		log:      logrus.StandardLogger().WithField("type", "solana/runtime"),
		ledger:   store,
		programs: make(map[string]Program),
	}
}

// RegisterProgram makes program invocable at id
func (h *Host) RegisterProgram(id ed25519.PublicKey, program Program) {
	h.programsMu.Lock()
	h.programs[base58.Encode(id)] = program
	h.programsMu.Unlock()
}

// ExecuteTransaction runs fn within a single all-or-nothing ledger transaction
func (h *Host) ExecuteTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return h.ledger.ExecuteInTx(ctx, fn)
}

// ProcessTransaction executes the instructions in order within a single
// ledger transaction. The first failure aborts the transaction, discarding
// the effects of every instruction, and is reported with its index.
func (h *Host) ProcessTransaction(ctx context.Context, instructions ...solana.Instruction) error {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ProcessTransaction")
	defer tracer.End()

	start := time.Now()
	defer func() {
		metrics.RecordDuration(ctx, transactionDurationMetricName, time.Since(start))
	}()

	fields := logrus.Fields{
		"transaction":  uuid.NewString(),
		"instructions": len(instructions),
	}
	tracer.AddAttributes(fields)

	log := h.log.WithFields(fields).WithField("method", "ProcessTransaction")

	err := h.ledger.ExecuteInTx(ctx, func(ctx context.Context) error {
		for i, ix := range instructions {
			if err := h.dispatch(ctx, ix); err != nil {
				return solana.NewInstructionError(i, err)
			}
		}
		return nil
	})
	if err != nil {
		tracer.OnError(err)

		var ixErr *solana.InstructionError
		if errors.As(err, &ixErr) {
			log.WithError(err).WithField("error_key", ixErr.JSONString()).Info("transaction failed")
		} else {
			log.WithError(err).Warn("failure executing transaction")
		}
		return err
	}

	return nil
}

// Invoke performs a cross-program invocation on behalf of a program that was
// handed callerAccounts. The instruction cannot be granted a signature or
// write access the caller does not hold.
func (h *Host) Invoke(ctx context.Context, ix solana.Instruction, callerAccounts []solana.AccountMeta) error {
	for _, requested := range ix.Accounts {
		granted, ok := findAccount(callerAccounts, requested.PublicKey)
		if !ok {
			return errors.Wrapf(solana.InstructionErrorMissingAccount, "account %s", requested.ToBase58())
		}

		if requested.IsSigner && !granted.IsSigner {
			return errors.Wrapf(solana.InstructionErrorMissingRequiredSignature, "account %s", requested.ToBase58())
		}

		if requested.IsWritable && !granted.IsWritable {
			return errors.Wrapf(solana.InstructionErrorReadonlyLamportChange, "account %s", requested.ToBase58())
		}
	}

	return h.dispatch(ctx, ix)
}

// Transfer moves lamports through the system program
func (h *Host) Transfer(ctx context.Context, from, to solana.AccountMeta, amount uint64) error {
	ix := system.Transfer(from.PublicKey, to.PublicKey, amount)
	return h.Invoke(ctx, ix, []solana.AccountMeta{from, to})
}

// TokenTransfer moves tokens through the token program's TransferChecked,
// using the mint's decimals
func (h *Host) TokenTransfer(ctx context.Context, mint, from, to solana.AccountMeta, amount uint64, authority solana.AccountMeta) error {
	mintRecord, err := h.ledger.Get(ctx, mint.ToBase58())
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return errors.Wrapf(solana.InstructionErrorMissingAccount, "mint %s", mint.ToBase58())
	} else if err != nil {
		return errors.Wrap(err, "error getting mint")
	}

	ix := token.Transfer2(from.PublicKey, mint.PublicKey, to.PublicKey, authority.PublicKey, amount, mintRecord.Decimals)
	return h.Invoke(ctx, ix, []solana.AccountMeta{mint, from, to, authority})
}

// TokenAccountOwner returns the owner recorded in a token account
func (h *Host) TokenAccountOwner(ctx context.Context, account solana.AccountMeta) (ed25519.PublicKey, error) {
	record, err := h.ledger.Get(ctx, account.ToBase58())
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errors.Wrapf(solana.InstructionErrorMissingAccount, "token account %s", account.ToBase58())
	} else if err != nil {
		return nil, errors.Wrap(err, "error getting token account")
	}

	if record.Kind != ledger.KindToken {
		return nil, errors.Wrapf(solana.InstructionErrorInvalidAccountData, "%s is not a token account", account.ToBase58())
	}

	owner, err := base58.Decode(record.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token account owner")
	}
	return owner, nil
}

func (h *Host) dispatch(ctx context.Context, ix solana.Instruction) error {
	switch {
	case bytes.Equal(ix.Program, system.ProgramKey[:]):
		return h.processSystem(ctx, ix)
	case bytes.Equal(ix.Program, token.ProgramKey):
		return h.processToken(ctx, ix)
	}

	h.programsMu.RLock()
	program, ok := h.programs[base58.Encode(ix.Program)]
	h.programsMu.RUnlock()
	if !ok {
		return errors.Wrapf(solana.InstructionErrorUnsupportedProgramID, "program %s", base58.Encode(ix.Program))
	}

	return program.Process(ctx, ix.Accounts, ix.Data)
}

func (h *Host) processSystem(ctx context.Context, ix solana.Instruction) error {
	transfer, err := system.DecompileTransfer(ix)
	if err != nil {
		return solana.WrapError(solana.InstructionErrorInvalidInstructionData, err)
	}

	if !ix.Accounts[0].IsSigner {
		return errors.Wrap(solana.InstructionErrorMissingRequiredSignature, "funding account")
	}

	err = h.ledger.TransferNative(ctx, base58.Encode(transfer.From), base58.Encode(transfer.To), transfer.Lamports)
	if err != nil {
		return solana.WrapError(systemErrorFor(err), err)
	}
	return nil
}

func (h *Host) processToken(ctx context.Context, ix solana.Instruction) error {
	transfer, err := token.DecompileTransfer2(ix)
	if err != nil {
		return solana.WrapError(token.ErrorInvalidInstruction, err)
	}

	if !ix.Accounts[3].IsSigner {
		return errors.Wrap(solana.InstructionErrorMissingRequiredSignature, "owner")
	}

	err = h.ledger.TransferToken(
		ctx,
		base58.Encode(transfer.Mint),
		base58.Encode(transfer.Source),
		base58.Encode(transfer.Destination),
		transfer.Amount,
		transfer.Decimals,
		base58.Encode(transfer.Owner),
	)
	if err != nil {
		return solana.WrapError(tokenErrorFor(err), err)
	}
	return nil
}

func systemErrorFor(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return solana.InstructionErrorInsufficientFunds
	case errors.Is(err, ledger.ErrAccountNotFound):
		return solana.InstructionErrorMissingAccount
	case errors.Is(err, ledger.ErrInvalidAccountKind), errors.Is(err, ledger.ErrAccountFrozen):
		return solana.InstructionErrorInvalidAccountData
	case errors.Is(err, ledger.ErrBalanceOverflow):
		return solana.InstructionErrorArithmeticOverflow
	}
	return solana.InstructionErrorGenericError
}

func tokenErrorFor(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return token.ErrorInsufficientFunds
	case errors.Is(err, ledger.ErrAccountFrozen):
		return token.ErrorAccountFrozen
	case errors.Is(err, ledger.ErrMintMismatch):
		return token.ErrorMintMismatch
	case errors.Is(err, ledger.ErrOwnerMismatch):
		return token.ErrorOwnerMismatch
	case errors.Is(err, ledger.ErrDecimalsMismatch):
		return token.ErrorMintDecimalsMismatch
	case errors.Is(err, ledger.ErrBalanceOverflow):
		return token.ErrorOverflow
	case errors.Is(err, ledger.ErrAccountNotFound):
		return solana.InstructionErrorMissingAccount
	case errors.Is(err, ledger.ErrInvalidAccountKind):
		return solana.InstructionErrorInvalidAccountData
	}
	return solana.InstructionErrorGenericError
}

func findAccount(accounts []solana.AccountMeta, key ed25519.PublicKey) (solana.AccountMeta, bool) {
	var found solana.AccountMeta
	var ok bool
	for _, account := range accounts {
		if !bytes.Equal(account.PublicKey, key) {
			continue
		}

		// The same account may be listed more than once, privileges are the
		// union of every listing
		found.PublicKey = account.PublicKey
		found.IsSigner = found.IsSigner || account.IsSigner
		found.IsWritable = found.IsWritable || account.IsWritable
		ok = true
	}
	return found, ok
}
