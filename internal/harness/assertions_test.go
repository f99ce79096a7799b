package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/store"
)

// sampleTrace is 5 + 3 = followed by an unknown key.
func sampleTrace() []TraceEvent {
	return []TraceEvent{
		{Type: EventKeystroke, Kind: ir.KindOperand, Operand: "5", Seq: 1},
		{Type: EventOutcome, Case: ir.CaseSet, Result: "5", Seq: 2},
		{Type: EventKeystroke, Kind: ir.KindOperation, Symbol: "+", Seq: 3},
		{Type: EventOutcome, Case: ir.CaseArmed, Pending: "+", Seq: 4},
		{Type: EventKeystroke, Kind: ir.KindOperand, Operand: "3", Seq: 5},
		{Type: EventOutcome, Case: ir.CaseSet, Result: "3", Pending: "+", Seq: 6},
		{Type: EventKeystroke, Kind: ir.KindOperation, Symbol: "=", Seq: 7},
		{Type: EventOutcome, Case: ir.CaseResolved, Result: "8", Seq: 8},
		{Type: EventKeystroke, Kind: ir.KindOperation, Symbol: "%", Seq: 9},
		{Type: EventOutcome, Case: ir.CaseNoOp, Result: "8", Seq: 10},
	}
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Case: ir.CaseResolved}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Symbol: "+", Case: ir.CaseArmed}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Symbol: "%"}))

	err := assertTraceContains(trace, Assertion{Symbol: "=", Case: ir.CaseNoOp})
	require.Error(t, err)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Equal(t, "symbol = with case NoOp", ae.Expected)
	assert.Contains(t, err.Error(), "[7] press = -> Resolved")
	assert.Contains(t, err.Error(), "[1] operand 5 -> Set")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Cases: []string{ir.CaseSet, ir.CaseArmed, ir.CaseResolved}}))
	assert.NoError(t, assertTraceOrder(trace, Assertion{Cases: []string{ir.CaseArmed, ir.CaseNoOp}}))

	err := assertTraceOrder(trace, Assertion{Cases: []string{ir.CaseResolved, ir.CaseArmed}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched 1 of 2, missing Armed")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Case: ir.CaseSet, Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Case: ir.CaseDivideByZero, Count: 0}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Symbol: "=", Count: 1}))

	err := assertTraceCount(trace, Assertion{Case: ir.CaseSet, Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 3 occurrences of case Set")
	assert.Contains(t, err.Error(), "Actual: 2 occurrences")
}

func TestPairSteps_IgnoresUnpairedTail(t *testing.T) {
	trace := sampleTrace()[:3]
	pairs := pairSteps(trace)
	require.Len(t, pairs, 1)
	assert.Equal(t, "5", pairs[0].keystroke.Operand)
}

// journalForState runs a short scenario and returns its store, still open.
func journalForState(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	require.NoError(t, st.WriteSession(ctx, ir.Session{ID: "s", Division: "strict", EngineVersion: ir.EngineVersion, IRVersion: ir.IRVersion}))

	k := ir.Keystroke{SessionID: "s", Kind: ir.KindOperation, Symbol: "=", Seq: 1}
	k.ID = ir.MustKeystrokeID(k)
	o := ir.Outcome{KeystrokeID: k.ID, Case: ir.CaseResolved, Result: "8", HasResult: true, Seq: 2}
	o.ID = "o1"
	require.NoError(t, st.WriteStep(ctx, k, o))
	return st
}

func TestAssertFinalState(t *testing.T) {
	st := journalForState(t)
	ctx := context.Background()

	err := assertFinalState(ctx, st, Assertion{
		Table:  "outcomes",
		Where:  map[string]any{"output_case": "Resolved"},
		Expect: map[string]any{"result": "8", "has_result": true, "seq": 2},
	})
	assert.NoError(t, err)

	err = assertFinalState(ctx, st, Assertion{
		Table:  "outcomes",
		Where:  map[string]any{"output_case": "Resolved"},
		Expect: map[string]any{"result": "9"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "result" = 9`)

	err = assertFinalState(ctx, st, Assertion{
		Table:  "outcomes",
		Where:  map[string]any{"output_case": "NoOp"},
		Expect: map[string]any{"result": "8"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row not found")

	err = assertFinalState(ctx, st, Assertion{
		Table:  "outcomes",
		Expect: map[string]any{"missing_column": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "missing_column" to exist`)
}

func TestAssertFinalState_RejectsBadIdentifiers(t *testing.T) {
	st := journalForState(t)
	ctx := context.Background()

	err := assertFinalState(ctx, st, Assertion{Table: "outcomes; DROP TABLE outcomes", Expect: map[string]any{"a": 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")

	err = assertFinalState(ctx, st, Assertion{
		Table:  "outcomes",
		Where:  map[string]any{"1=1 OR result": "x"},
		Expect: map[string]any{"a": 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column name")
}

func TestStateValuesEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"string", "8", "8", true},
		{"string bytes", "÷", []byte("÷"), true},
		{"string mismatch", "8", "9", false},
		{"int", 7, int64(7), true},
		{"int mismatch", 7, int64(8), false},
		{"bool true", true, int64(1), true},
		{"bool false", false, int64(0), true},
		{"bool mismatch", true, int64(0), false},
		{"float whole", 3.0, int64(3), true},
		{"nil", nil, nil, true},
		{"type mismatch", "7", int64(7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stateValuesEqual(tt.expected, tt.actual))
		})
	}
}

func TestBuildWhereClause_SortedKeys(t *testing.T) {
	sql, args, err := buildWhereClause(map[string]any{"seq": 2, "kind": "operation"})
	require.NoError(t, err)
	assert.Equal(t, "kind = ? AND seq = ?", sql)
	assert.Equal(t, []any{"operation", 2}, args)
}

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Trace: sampleTrace()}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Case: ir.CaseResolved},
		{Type: AssertTraceCount, Case: ir.CaseArmed, Count: 5},
		{Type: AssertFinalState, Table: "outcomes", Expect: map[string]any{"a": 1}},
		{Type: "bogus"},
	}, nil)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "trace_count")
	assert.Contains(t, errs[1], "final_state requires database context")
	assert.Contains(t, errs[2], `unknown assertion type "bogus"`)
}
