package harness

import "github.com/roach88/calcbrain/internal/ir"

// Trace event types.
const (
	EventKeystroke = "keystroke"
	EventOutcome   = "outcome"
)

// TraceEvent is one journal record in a scenario trace.
// Keystroke events fill Kind, Operand and Symbol; outcome events fill Case,
// Result and Pending.
type TraceEvent struct {
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Operand string `json:"operand,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
	Case    string `json:"case,omitempty"`
	Result  string `json:"result,omitempty"`
	Pending string `json:"pending,omitempty"`
	Seq     int64  `json:"seq"`
}

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// SessionID is the fixed ID the scenario ran under.
	SessionID string `json:"session_id"`

	// Display is the display text after the last step.
	Display string `json:"display"`

	// Trace holds every keystroke and outcome in seq order.
	Trace []TraceEvent `json:"trace"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult(sessionID string) *Result {
	return &Result{
		Pass:      true,
		SessionID: sessionID,
		Trace:     []TraceEvent{},
		Errors:    []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddKeystrokeTrace appends a keystroke event.
func (r *Result) AddKeystrokeTrace(k ir.Keystroke) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    EventKeystroke,
		Kind:    k.Kind,
		Operand: k.Operand,
		Symbol:  k.Symbol,
		Seq:     k.Seq,
	})
}

// AddOutcomeTrace appends an outcome event.
func (r *Result) AddOutcomeTrace(o ir.Outcome) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    EventOutcome,
		Case:    o.Case,
		Result:  o.Result,
		Pending: o.Pending,
		Seq:     o.Seq,
	})
}

// Outcomes returns the outcome events in order.
func (r *Result) Outcomes() []TraceEvent {
	var out []TraceEvent
	for _, e := range r.Trace {
		if e.Type == EventOutcome {
			out = append(out, e)
		}
	}
	return out
}
