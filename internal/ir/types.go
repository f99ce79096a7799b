package ir

// Keystroke kinds.
const (
	KindOperand   = "operand"
	KindOperation = "operation"
	KindClear     = "clear" // all-clear key: both slots emptied
)

// Outcome cases. DivideByZero and Rejected are failures; a failed keystroke
// leaves engine state unchanged.
const (
	CaseSet          = "Set"          // operand stored in the accumulator
	CaseArmed        = "Armed"        // binary operator queued as pending
	CaseResolved     = "Resolved"     // pending operation applied
	CaseNoOp         = "NoOp"         // unknown symbol or premature press
	CaseDivideByZero = "DivideByZero" // strict division rejected the operands
	CaseRejected     = "Rejected"     // a custom guard rejected the operands
	CaseCleared      = "Cleared"      // engine reset to its initial state
)

// ValidCases lists every outcome case.
var ValidCases = map[string]bool{
	CaseSet:          true,
	CaseArmed:        true,
	CaseResolved:     true,
	CaseNoOp:         true,
	CaseDivideByZero: true,
	CaseRejected:     true,
	CaseCleared:      true,
}

// Session is the header of one interactive calculator run.
type Session struct {
	ID            string `json:"id"`
	Division      string `json:"division"` // "strict" or "ieee"
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// Keystroke records one call into the engine.
type Keystroke struct {
	ID        string `json:"id"` // Content-addressed hash
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`              // KindOperand, KindOperation or KindClear
	Operand   string `json:"operand,omitempty"` // FormatNumber text, operand kind only
	Symbol    string `json:"symbol,omitempty"`  // operation kind only
	Seq       int64  `json:"seq"`
}

// Outcome records what the engine did with a keystroke.
type Outcome struct {
	ID          string `json:"id"` // Content-addressed hash
	KeystrokeID string `json:"keystroke_id"`
	Case        string `json:"case"`
	Result      string `json:"result,omitempty"` // accumulator after the keystroke, FormatNumber text
	HasResult   bool   `json:"has_result"`
	Pending     string `json:"pending,omitempty"` // symbol of the pending operation, if any
	Seq         int64  `json:"seq"`
}

// Fields returns the keystroke's content as an IRObject for hashing.
func (k Keystroke) Fields() IRObject {
	obj := IRObject{
		"session_id": IRString(k.SessionID),
		"kind":       IRString(k.Kind),
		"seq":        IRInt(k.Seq),
	}
	switch k.Kind {
	case KindOperand:
		obj["operand"] = IRString(k.Operand)
	case KindOperation:
		obj["symbol"] = IRString(k.Symbol)
	}
	return obj
}

// Fields returns the outcome's observable content as an IRObject.
// KeystrokeID and Seq are excluded so replayed outcomes compare equal.
func (o Outcome) Fields() IRObject {
	obj := IRObject{
		"case":       IRString(o.Case),
		"has_result": IRBool(o.HasResult),
	}
	if o.HasResult {
		obj["result"] = IRString(o.Result)
	}
	if o.Pending != "" {
		obj["pending"] = IRString(o.Pending)
	}
	return obj
}
