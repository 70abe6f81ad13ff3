package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// InstructionErrorKey is the string key returned in an instruction error.
//
// Source: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/instruction.rs#L23
type InstructionErrorKey string

const (
	InstructionErrorGenericError             InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument          InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData   InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData       InstructionErrorKey = "InvalidAccountData"
	InstructionErrorInsufficientFunds        InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID       InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorUninitializedAccount     InstructionErrorKey = "UninitializedAccount"
	InstructionErrorReadonlyLamportChange    InstructionErrorKey = "ReadonlyLamportChange"
	InstructionErrorNotEnoughAccountKeys     InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorCustom                   InstructionErrorKey = "Custom"
	InstructionErrorUnsupportedProgramID     InstructionErrorKey = "UnsupportedProgramId"
	InstructionErrorMissingAccount           InstructionErrorKey = "MissingAccount"
	InstructionErrorArithmeticOverflow       InstructionErrorKey = "ArithmeticOverflow"
)

// Error implements error, so that builtin failures can be returned and
// matched with errors.Is directly.
func (k InstructionErrorKey) Error() string {
	return string(k)
}

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %x", int(c))
}

// InstructionError indicates an instruction returned an error in a transaction.
type InstructionError struct {
	Index int
	Err   error
}

// NewInstructionError wraps err as the failure of the instruction at index.
func NewInstructionError(index int, err error) *InstructionError {
	return &InstructionError{
		Index: index,
		Err:   err,
	}
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

// ErrorKey returns the key the Solana runtime would report for the failure.
func (i InstructionError) ErrorKey() InstructionErrorKey {
	return ErrorKey(i.Err)
}

// JSONString renders the error the way it appears in RPC responses.
func (i InstructionError) JSONString() string {
	if e := i.CustomError(); e != nil {
		return fmt.Sprintf(`[%d, {"%s": %d}]`, i.Index, InstructionErrorCustom, *e)
	}
	return fmt.Sprintf(`[%d, "%s"]`, i.Index, i.ErrorKey())
}

// CustomError returns the program specific error code, if any.
func (i InstructionError) CustomError() *CustomError {
	return GetCustomError(i.Err)
}

type codedError struct {
	code  error
	cause error
}

// WrapError annotates cause with code, an InstructionErrorKey or CustomError,
// so the failure is reported under code while cause stays matchable through
// errors.Is and errors.As.
func WrapError(code, cause error) error {
	if cause == nil {
		return code
	}
	return &codedError{
		code:  code,
		cause: cause,
	}
}

func (e *codedError) Error() string {
	return e.code.Error() + ": " + e.cause.Error()
}

func (e *codedError) Cause() error {
	return e.cause
}

func (e *codedError) Unwrap() []error {
	return []error{e.code, e.cause}
}

// ErrorKey resolves the instruction error key for err. Errors may report their
// own key by implementing InstructionErrorKey() InstructionErrorKey.
func ErrorKey(err error) InstructionErrorKey {
	if err == nil {
		return ""
	}

	var keyer interface{ InstructionErrorKey() InstructionErrorKey }
	if errors.As(err, &keyer) {
		return keyer.InstructionErrorKey()
	}

	if findCustomError(err) != nil {
		return InstructionErrorCustom
	}

	var key InstructionErrorKey
	if errors.As(err, &key) {
		return key
	}

	return InstructionErrorGenericError
}

// GetCustomError returns the program specific error code carried by err, or
// nil when err does not resolve to InstructionErrorCustom.
func GetCustomError(err error) *CustomError {
	if ErrorKey(err) != InstructionErrorCustom {
		return nil
	}
	return findCustomError(err)
}

func findCustomError(err error) *CustomError {
	var ce CustomError
	if errors.As(err, &ce) {
		return &ce
	}

	var coder interface{ CustomError() CustomError }
	if errors.As(err, &coder) {
		ce = coder.CustomError()
		return &ce
	}

	return nil
}
