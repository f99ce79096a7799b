package engine

import (
	"errors"

	"github.com/roach88/calcbrain/internal/ir"
)

// Step applies one journal keystroke and describes the resulting state.
//
// The returned Outcome has Case, Result, HasResult and Pending filled in;
// ID, KeystrokeID and Seq are left for the caller.
//
// err is a *CalcError in two situations:
//   - ErrCodeInvalidKeystroke: the keystroke was malformed; the outcome is zero
//   - a guard rejection (e.g. ErrCodeDivideByZero): the outcome is valid and
//     its Case names the failure
func (e *Engine) Step(k ir.Keystroke) (ir.Outcome, error) {
	switch k.Kind {
	case ir.KindOperand:
		v, err := ir.ParseNumber(k.Operand)
		if err != nil {
			return ir.Outcome{}, NewInvalidKeystrokeError(k.Seq, err.Error())
		}
		e.SetOperand(v)
		return e.describe(ir.CaseSet), nil

	case ir.KindOperation:
		effect, err := e.Perform(k.Symbol)
		if err != nil {
			return e.describe(caseForError(err)), err
		}
		return e.describe(caseForEffect(effect)), nil

	case ir.KindClear:
		e.Reset()
		return e.describe(ir.CaseCleared), nil
	}

	return ir.Outcome{}, NewInvalidKeystrokeError(k.Seq, "unknown kind "+k.Kind)
}

// describe snapshots the engine's slots into an outcome.
func (e *Engine) describe(outcomeCase string) ir.Outcome {
	o := ir.Outcome{Case: outcomeCase}
	if v, ok := e.Result(); ok {
		o.Result = ir.FormatNumber(v)
		o.HasResult = true
	}
	if symbol, _, ok := e.Pending(); ok {
		o.Pending = symbol
	}
	return o
}

func caseForEffect(effect Effect) string {
	switch effect {
	case EffectArmed:
		return ir.CaseArmed
	case EffectResolved:
		return ir.CaseResolved
	}
	return ir.CaseNoOp
}

func caseForError(err error) string {
	var ce *CalcError
	if errors.As(err, &ce) && ce.Code == ErrCodeDivideByZero {
		return ir.CaseDivideByZero
	}
	return ir.CaseRejected
}
