package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/roach88/calcbrain/internal/ir"
)

func TestWriteSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := createTestSession(t, s, "session-1")

	got, err := s.ReadSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if got != want {
		t.Errorf("ReadSession() = %+v, want %+v", got, want)
	}

	// second write is ignored
	if err := s.WriteSession(ctx, want); err != nil {
		t.Errorf("duplicate WriteSession() should be ignored: %v", err)
	}
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadSession(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadSession() error = %v, want sql.ErrNoRows", err)
	}
}

func TestWriteSession_RejectsUnknownDivision(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteSession(context.Background(), ir.Session{ID: "x", Division: "lenient", EngineVersion: "0", IRVersion: "1"})
	if err == nil {
		t.Error("expected CHECK constraint error for unknown division")
	}
}

func TestWriteStep_RequiresSession(t *testing.T) {
	s := createTestStore(t)

	k := createTestKeystroke("k1", "no-such-session", ir.KindOperand, "5", 1)
	o := createTestOutcome("o1", "k1", ir.CaseSet, "5", 2)
	if err := s.WriteStep(context.Background(), k, o); err == nil {
		t.Error("expected foreign key error for unknown session")
	}
}

func TestWriteStep_SeqUniquePerSession(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "session-1")

	k1 := createTestKeystroke("k1", "session-1", ir.KindOperand, "5", 1)
	o1 := createTestOutcome("o1", "k1", ir.CaseSet, "5", 2)
	if err := s.WriteStep(ctx, k1, o1); err != nil {
		t.Fatalf("WriteStep() failed: %v", err)
	}
	// same IDs: ignored
	if err := s.WriteStep(ctx, k1, o1); err != nil {
		t.Errorf("duplicate step should be ignored: %v", err)
	}
	// different keystroke, same seq: rejected, and its outcome is rolled back
	k2 := createTestKeystroke("k2", "session-1", ir.KindOperand, "6", 1)
	if err := s.WriteStep(ctx, k2, createTestOutcome("o2", "k2", ir.CaseSet, "6", 2)); err == nil {
		t.Error("expected UNIQUE(session_id, seq) violation")
	}

	outs, err := s.ReadOutcomes(ctx, "session-1")
	if err != nil {
		t.Fatalf("ReadOutcomes() failed: %v", err)
	}
	if len(outs) != 1 || outs[0].ID != "o1" {
		t.Errorf("outcomes = %+v, want only o1", outs)
	}
}

func TestWriteStep_OutcomeFailureRollsBackKeystroke(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "session-1")

	k := createTestKeystroke("k1", "session-1", ir.KindOperand, "5", 1)
	// outcome points at a keystroke that does not exist
	o := createTestOutcome("o1", "missing", ir.CaseSet, "5", 2)
	if err := s.WriteStep(ctx, k, o); err == nil {
		t.Fatal("expected foreign key error for the outcome")
	}

	keys, err := s.ReadKeystrokes(ctx, "session-1")
	if err != nil {
		t.Fatalf("ReadKeystrokes() failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("keystrokes = %+v, want none after rollback", keys)
	}
}

func TestWriteStep_AndReadBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "session-1")

	steps := []struct {
		k ir.Keystroke
		o ir.Outcome
	}{
		{createTestKeystroke("k1", "session-1", ir.KindOperand, "5", 1), createTestOutcome("o1", "k1", ir.CaseSet, "5", 2)},
		{createTestKeystroke("k2", "session-1", ir.KindOperation, "+", 3), createTestOutcome("o2", "k2", ir.CaseArmed, "", 4)},
		{createTestKeystroke("k3", "session-1", ir.KindOperand, "3", 5), createTestOutcome("o3", "k3", ir.CaseSet, "3", 6)},
		{createTestKeystroke("k4", "session-1", ir.KindOperation, "=", 7), createTestOutcome("o4", "k4", ir.CaseResolved, "8", 8)},
	}
	steps[1].o.Pending = "+"
	steps[2].o.Pending = "+"

	// write out of order; reads must come back by seq
	for _, i := range []int{2, 0, 3, 1} {
		if err := s.WriteStep(ctx, steps[i].k, steps[i].o); err != nil {
			t.Fatalf("WriteStep(%d) failed: %v", i, err)
		}
	}

	keys, err := s.ReadKeystrokes(ctx, "session-1")
	if err != nil {
		t.Fatalf("ReadKeystrokes() failed: %v", err)
	}
	outs, err := s.ReadOutcomes(ctx, "session-1")
	if err != nil {
		t.Fatalf("ReadOutcomes() failed: %v", err)
	}
	if len(keys) != 4 || len(outs) != 4 {
		t.Fatalf("got %d keystrokes, %d outcomes; want 4 each", len(keys), len(outs))
	}
	for i := range steps {
		if keys[i] != steps[i].k {
			t.Errorf("keystroke[%d] = %+v, want %+v", i, keys[i], steps[i].k)
		}
		if outs[i] != steps[i].o {
			t.Errorf("outcome[%d] = %+v, want %+v", i, outs[i], steps[i].o)
		}
	}

	o, err := s.ReadOutcome(ctx, "k4")
	if err != nil {
		t.Fatalf("ReadOutcome() failed: %v", err)
	}
	if o.Result != "8" || !o.HasResult {
		t.Errorf("ReadOutcome(k4) = %+v", o)
	}

	seq, err := s.LastSeq(ctx, "session-1")
	if err != nil {
		t.Fatalf("LastSeq() failed: %v", err)
	}
	if seq != 8 {
		t.Errorf("LastSeq() = %d, want 8", seq)
	}
}

func TestWriteStep_AtomicOnFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "session-1")

	k := createTestKeystroke("k1", "session-1", ir.KindOperand, "1", 1)
	// outcome points at a keystroke that does not exist: FK violation
	o := createTestOutcome("o1", "missing", ir.CaseSet, "1", 2)

	if err := s.WriteStep(ctx, k, o); err == nil {
		t.Fatal("expected WriteStep to fail")
	}

	keys, err := s.ReadKeystrokes(ctx, "session-1")
	if err != nil {
		t.Fatalf("ReadKeystrokes() failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("keystroke persisted despite rollback: %+v", keys)
	}
}

func TestReads_EmptySession(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	keys, err := s.ReadKeystrokes(ctx, "none")
	if err != nil || keys == nil || len(keys) != 0 {
		t.Errorf("ReadKeystrokes() = %v, %v; want empty non-nil slice", keys, err)
	}
	outs, err := s.ReadOutcomes(ctx, "none")
	if err != nil || outs == nil || len(outs) != 0 {
		t.Errorf("ReadOutcomes() = %v, %v; want empty non-nil slice", outs, err)
	}
	seq, err := s.LastSeq(ctx, "none")
	if err != nil || seq != 0 {
		t.Errorf("LastSeq() = %d, %v; want 0", seq, err)
	}
}

func TestListSessions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListSessions(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("ListSessions() on empty store = %v, %v", empty, err)
	}

	createTestSession(t, s, "b-session")
	createTestSession(t, s, "a-session")

	if err := s.WriteStep(ctx,
		createTestKeystroke("k1", "b-session", ir.KindOperand, "42", 1),
		createTestOutcome("o1", "k1", ir.CaseSet, "42", 2),
	); err != nil {
		t.Fatalf("WriteStep() failed: %v", err)
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	// insertion order, not ID order
	if sessions[0].ID != "b-session" || sessions[1].ID != "a-session" {
		t.Errorf("order = %s, %s", sessions[0].ID, sessions[1].ID)
	}
	want := SessionSummary{ID: "b-session", Division: "strict", Keystrokes: 1, LastSeq: 1, Result: "42", HasResult: true}
	if sessions[0] != want {
		t.Errorf("summary = %+v, want %+v", sessions[0], want)
	}
	if sessions[1].Keystrokes != 0 || sessions[1].HasResult {
		t.Errorf("empty session summary = %+v", sessions[1])
	}
}
