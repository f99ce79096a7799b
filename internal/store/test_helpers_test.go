package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/calcbrain/internal/ir"
)

// createTestStore creates a new store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession writes a strict-division session header.
func createTestSession(t *testing.T, s *Store, id string) ir.Session {
	t.Helper()
	sess := ir.Session{
		ID:            id,
		Division:      "strict",
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if err := s.WriteSession(context.Background(), sess); err != nil {
		t.Fatalf("WriteSession() failed: %v", err)
	}
	return sess
}

// createTestKeystroke builds an operand or operation keystroke.
// value is the operand text for operands and the symbol otherwise.
func createTestKeystroke(id, sessionID, kind, value string, seq int64) ir.Keystroke {
	k := ir.Keystroke{ID: id, SessionID: sessionID, Kind: kind, Seq: seq}
	if kind == ir.KindOperand {
		k.Operand = value
	} else {
		k.Symbol = value
	}
	return k
}

// createTestOutcome builds an outcome for a keystroke.
func createTestOutcome(id, keystrokeID, outcomeCase, result string, seq int64) ir.Outcome {
	return ir.Outcome{
		ID:          id,
		KeystrokeID: keystrokeID,
		Case:        outcomeCase,
		Result:      result,
		HasResult:   result != "",
		Seq:         seq,
	}
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
