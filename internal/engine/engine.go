package engine

import (
	"github.com/roach88/calcbrain/internal/operation"
)

// State names the four observable slot combinations.
type State string

const (
	StateEmpty        State = "Empty"
	StateHasValue     State = "HasValue"
	StateHasPendingOp State = "HasPendingOp"
	StateHasBoth      State = "HasBoth"
)

// Effect reports what a PerformOperation call did.
type Effect int

const (
	// EffectNoOp means state did not change.
	EffectNoOp Effect = iota
	// EffectArmed means a binary operation became pending.
	EffectArmed
	// EffectResolved means the pending operation was applied.
	EffectResolved
)

func (e Effect) String() string {
	switch e {
	case EffectArmed:
		return "Armed"
	case EffectResolved:
		return "Resolved"
	default:
		return "NoOp"
	}
}

// pendingBinaryOperation is immutable once created.
type pendingBinaryOperation struct {
	symbol       string
	op           operation.Binary
	firstOperand float64
}

// Engine is the calculator evaluation engine.
// It is not safe for concurrent use; see Locked.
type Engine struct {
	table       operation.Table
	accumulator *float64
	pending     *pendingBinaryOperation
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable replaces the operation table.
func WithTable(t operation.Table) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// WithDivisionPolicy selects the standard table for the given policy.
//
// Default: operation.DivisionStrict
func WithDivisionPolicy(p operation.DivisionPolicy) Option {
	return func(e *Engine) {
		e.table = operation.Standard(p)
	}
}

// New creates an engine with both slots empty.
func New(opts ...Option) *Engine {
	e := &Engine{
		table: operation.Standard(operation.DivisionStrict),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOperand stores v in the accumulator. It always succeeds.
func (e *Engine) SetOperand(v float64) {
	e.accumulator = &v
}

// PerformOperation applies the operation bound to symbol.
//
// Unknown symbols, binary operators with no accumulator, and = with either
// slot empty are no-ops and return nil. The only error is a guard rejection
// (strict division by zero), which leaves state unchanged.
func (e *Engine) PerformOperation(symbol string) error {
	_, err := e.Perform(symbol)
	return err
}

// Perform is PerformOperation that also reports the effect.
func (e *Engine) Perform(symbol string) (Effect, error) {
	op, ok := e.table.Lookup(symbol)
	if !ok {
		return EffectNoOp, nil
	}

	switch op := op.(type) {
	case operation.Binary:
		if e.accumulator == nil {
			return EffectNoOp, nil
		}
		// A pending operation with a second operand resolves first, so
		// chained operators evaluate left to right.
		if e.pending != nil {
			if _, err := e.resolvePending(); err != nil {
				return EffectNoOp, err
			}
		}
		e.pending = &pendingBinaryOperation{
			symbol:       symbol,
			op:           op,
			firstOperand: *e.accumulator,
		}
		e.accumulator = nil
		return EffectArmed, nil

	case operation.Equals:
		return e.resolvePending()
	}

	return EffectNoOp, nil
}

// resolvePending applies the pending operation when both slots are present.
func (e *Engine) resolvePending() (Effect, error) {
	if e.pending == nil || e.accumulator == nil {
		return EffectNoOp, nil
	}

	p := e.pending
	second := *e.accumulator
	result, err := p.op.Apply(p.firstOperand, second)
	if err != nil {
		return EffectNoOp, newOperationError(err, p.symbol, p.firstOperand, second)
	}

	e.accumulator = &result
	e.pending = nil
	return EffectResolved, nil
}

// Result returns the accumulator. ok is false if nothing has been committed.
func (e *Engine) Result() (value float64, ok bool) {
	if e.accumulator == nil {
		return 0, false
	}
	return *e.accumulator, true
}

// Pending returns the pending operation's symbol and first operand.
func (e *Engine) Pending() (symbol string, firstOperand float64, ok bool) {
	if e.pending == nil {
		return "", 0, false
	}
	return e.pending.symbol, e.pending.firstOperand, true
}

// State reports which slots are present.
func (e *Engine) State() State {
	switch {
	case e.accumulator != nil && e.pending != nil:
		return StateHasBoth
	case e.accumulator != nil:
		return StateHasValue
	case e.pending != nil:
		return StateHasPendingOp
	}
	return StateEmpty
}

// Reset empties both slots. The operation table is kept.
func (e *Engine) Reset() {
	e.accumulator = nil
	e.pending = nil
}
