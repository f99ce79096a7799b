package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/operation"
)

// ErrDivideByZero matches (via errors.Is) the error returned when strict
// division rejects a zero divisor.
var ErrDivideByZero = operation.ErrDivideByZero

// CalcError is a recoverable failure while applying an operation.
// Engine state is unchanged when one is returned.
type CalcError struct {
	// Code identifies the error category.
	Code CalcErrorCode

	// Message is a human-readable description.
	Message string

	// Symbol is the operator whose application failed.
	Symbol string

	// First and Second are the operands that were rejected.
	First  float64
	Second float64

	err error
}

// CalcErrorCode categorizes engine errors.
type CalcErrorCode string

const (
	// ErrCodeDivideByZero indicates ÷ was applied with a zero second operand.
	ErrCodeDivideByZero CalcErrorCode = "DIVIDE_BY_ZERO"

	// ErrCodeRejected indicates a custom guard refused the operands.
	ErrCodeRejected CalcErrorCode = "REJECTED"

	// ErrCodeInvalidKeystroke indicates a journal keystroke could not be applied.
	ErrCodeInvalidKeystroke CalcErrorCode = "INVALID_KEYSTROKE"
)

// Error implements the error interface.
func (e *CalcError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%s: %s (%s %s %s)", e.Code, e.Message,
			ir.FormatNumber(e.First), e.Symbol, ir.FormatNumber(e.Second))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the guard's error, so errors.Is(err, ErrDivideByZero) works.
func (e *CalcError) Unwrap() error {
	return e.err
}

// IsDivideByZero returns true if err is a strict division failure.
// Uses errors.As to handle wrapped errors.
func IsDivideByZero(err error) bool {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeDivideByZero
	}
	return errors.Is(err, ErrDivideByZero)
}

// newOperationError wraps a guard rejection.
func newOperationError(cause error, symbol string, first, second float64) *CalcError {
	code := ErrCodeRejected
	msg := cause.Error()
	if errors.Is(cause, ErrDivideByZero) {
		code = ErrCodeDivideByZero
		msg = "division by zero"
	}
	return &CalcError{
		Code:    code,
		Message: msg,
		Symbol:  symbol,
		First:   first,
		Second:  second,
		err:     cause,
	}
}

// NewInvalidKeystrokeError creates a CalcError for an unusable journal entry.
func NewInvalidKeystrokeError(seq int64, reason string) *CalcError {
	return &CalcError{
		Code:    ErrCodeInvalidKeystroke,
		Message: fmt.Sprintf("keystroke seq=%d: %s", seq, reason),
	}
}
