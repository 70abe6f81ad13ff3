package feerouter

import (
	"fmt"

	"github.com/code-payments/fee-router/pkg/solana"
	"github.com/code-payments/fee-router/pkg/solana/token"
)

// ErrorCode is the program's custom error code, as reported to clients when
// no builtin Solana instruction error applies
type ErrorCode uint32

const (
	// Unknown opcode, empty buffer or unexpected payload shape
	ErrorCodeInvalidInstruction ErrorCode = iota + 0x1770

	// Payload too short to decode a required amount
	ErrorCodeMalformedAmount

	// Unexpected number of accounts
	ErrorCodeAccountCountMismatch

	// Required signer did not sign
	ErrorCodeMissingRequiredSignature

	// Account that is debited or credited is not writable
	ErrorCodeAccountNotWritable

	// Underlying transfer failed
	ErrorCodeTransferFailed

	// Underlying transfer failed on a balance check
	ErrorCodeInsufficientFunds

	// User amount and platform fee do not fit in a u64
	ErrorCodeAmountOverflow

	// Platform fee disagrees with the platform fee rate
	ErrorCodeFeeMismatch

	// Platform wallet is not the configured one
	ErrorCodePlatformWalletMismatch

	// Fee rate exceeds 100%
	ErrorCodeInvalidFeeRate
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeInvalidInstruction:
		return "invalid instruction"
	case ErrorCodeMalformedAmount:
		return "malformed amount"
	case ErrorCodeAccountCountMismatch:
		return "account count mismatch"
	case ErrorCodeMissingRequiredSignature:
		return "missing required signature"
	case ErrorCodeAccountNotWritable:
		return "account not writable"
	case ErrorCodeTransferFailed:
		return "transfer failed"
	case ErrorCodeInsufficientFunds:
		return "insufficient funds"
	case ErrorCodeAmountOverflow:
		return "amount overflow"
	case ErrorCodeFeeMismatch:
		return "fee mismatch"
	case ErrorCodePlatformWalletMismatch:
		return "platform wallet mismatch"
	case ErrorCodeInvalidFeeRate:
		return "invalid fee rate"
	}
	return fmt.Sprintf("unknown error code %d", uint32(c))
}

// Stage is the transfer leg an error occurred in
type Stage uint8

const (
	StageNone Stage = iota
	StageUser
	StagePlatform
)

func (s Stage) String() string {
	switch s {
	case StageUser:
		return "user"
	case StagePlatform:
		return "platform"
	}
	return "none"
}

var (
	ErrInvalidInstruction       = &Error{Code: ErrorCodeInvalidInstruction}
	ErrMalformedAmount          = &Error{Code: ErrorCodeMalformedAmount}
	ErrAccountCountMismatch     = &Error{Code: ErrorCodeAccountCountMismatch}
	ErrMissingRequiredSignature = &Error{Code: ErrorCodeMissingRequiredSignature}
	ErrAccountNotWritable       = &Error{Code: ErrorCodeAccountNotWritable}
	ErrTransferFailed           = &Error{Code: ErrorCodeTransferFailed}
	ErrInsufficientFunds        = &Error{Code: ErrorCodeInsufficientFunds}
	ErrAmountOverflow           = &Error{Code: ErrorCodeAmountOverflow}
	ErrFeeMismatch              = &Error{Code: ErrorCodeFeeMismatch}
	ErrPlatformWalletMismatch   = &Error{Code: ErrorCodePlatformWalletMismatch}
	ErrInvalidFeeRate           = &Error{Code: ErrorCodeInvalidFeeRate}
)

// Error is a failed fee router invocation.
//
// errors.Is matches on Code, and on Stage when the target sets one. An
// ErrorCodeInsufficientFunds error also matches ErrTransferFailed.
type Error struct {
	Code ErrorCode

	// Transfer leg, for transfer failures
	Stage Stage

	// Role name of the offending account, for account validation failures
	Account string

	// Underlying failure reported by the host
	Err error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Stage != StageNone {
		msg = fmt.Sprintf("%s (%s)", msg, e.Stage)
	}
	if len(e.Account) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, e.Account)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "fee router: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Stage != StageNone && t.Stage != e.Stage {
		return false
	}

	if t.Code == e.Code {
		return true
	}
	return t.Code == ErrorCodeTransferFailed && e.Code == ErrorCodeInsufficientFunds
}

// AtStage returns a copy of the error for the provided transfer leg
func (e *Error) AtStage(stage Stage) *Error {
	cloned := *e
	cloned.Stage = stage
	return &cloned
}

// Partial returns whether the user transfer had already been applied when the
// invocation failed. Undoing it is left to the host's transaction.
func (e *Error) Partial() bool {
	return e.Stage == StagePlatform
}

// InstructionErrorKey returns the Solana instruction error key the failure is
// reported as. Transfer failures surface the host's error as is.
func (e *Error) InstructionErrorKey() solana.InstructionErrorKey {
	if e.propagatesHostError() {
		return solana.ErrorKey(e.Err)
	}

	switch e.Code {
	case ErrorCodeInvalidInstruction, ErrorCodeMalformedAmount:
		return solana.InstructionErrorInvalidInstructionData
	case ErrorCodeAccountCountMismatch:
		return solana.InstructionErrorNotEnoughAccountKeys
	case ErrorCodeMissingRequiredSignature:
		return solana.InstructionErrorMissingRequiredSignature
	case ErrorCodeInsufficientFunds:
		return solana.InstructionErrorInsufficientFunds
	case ErrorCodeAmountOverflow:
		return solana.InstructionErrorArithmeticOverflow
	}
	return solana.InstructionErrorCustom
}

// CustomError returns the custom error code reported when
// InstructionErrorKey is solana.InstructionErrorCustom
func (e *Error) CustomError() solana.CustomError {
	if e.propagatesHostError() {
		if custom := solana.GetCustomError(e.Err); custom != nil {
			return *custom
		}
	}
	return solana.CustomError(e.Code)
}

func (e *Error) propagatesHostError() bool {
	if e.Code != ErrorCodeTransferFailed && e.Code != ErrorCodeInsufficientFunds {
		return false
	}

	switch solana.ErrorKey(e.Err) {
	case "", solana.InstructionErrorGenericError:
		return false
	}
	return true
}

func newAccountError(base *Error, role AccountRole) *Error {
	return &Error{
		Code:    base.Code,
		Account: role.Name,
	}
}

func newPlatformWalletMismatch(role string) *Error {
	return &Error{
		Code:    ErrorCodePlatformWalletMismatch,
		Account: role,
	}
}

// newTransferError classifies a failed host transfer for the provided leg
func newTransferError(stage Stage, err error) *Error {
	code := ErrorCodeTransferFailed
	if isInsufficientFunds(err) {
		code = ErrorCodeInsufficientFunds
	}

	return &Error{
		Code:  code,
		Stage: stage,
		Err:   err,
	}
}

func isInsufficientFunds(err error) bool {
	switch solana.ErrorKey(err) {
	case solana.InstructionErrorInsufficientFunds:
		return true
	case solana.InstructionErrorCustom:
		custom := solana.GetCustomError(err)
		return custom != nil && *custom == token.ErrorInsufficientFunds
	}
	return false
}
