package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/calcbrain/internal/ir"
)

// WriteSession inserts a session header.
// Uses ON CONFLICT(id) DO NOTHING - reopening an existing session is harmless.
func (s *Store) WriteSession(ctx context.Context, sess ir.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, division, engine_version, ir_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.Division,
		sess.EngineVersion,
		sess.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteStep writes a keystroke and its outcome in one transaction.
// Either both records exist afterwards or neither does. Rewriting a step
// with the same IDs is a no-op; a different keystroke at a seq the session
// already used is rejected.
func (s *Store) WriteStep(ctx context.Context, k ir.Keystroke, o ir.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write step: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := insertKeystroke(ctx, tx, k); err != nil {
		return fmt.Errorf("write step: %w", err)
	}
	if err := insertOutcome(ctx, tx, o); err != nil {
		return fmt.Errorf("write step: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write step: commit: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertKeystroke requires the keystroke's session to exist.
func insertKeystroke(ctx context.Context, db execer, k ir.Keystroke) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO keystrokes (id, session_id, kind, operand, symbol, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, k.ID, k.SessionID, k.Kind, k.Operand, k.Symbol, k.Seq)
	if err != nil {
		return fmt.Errorf("keystroke seq=%d: %w", k.Seq, err)
	}
	return nil
}

// insertOutcome stores at most one outcome per keystroke.
func insertOutcome(ctx context.Context, db execer, o ir.Outcome) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO outcomes (id, keystroke_id, output_case, result, has_result, pending, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, o.ID, o.KeystrokeID, o.Case, o.Result, o.HasResult, o.Pending, o.Seq)
	if err != nil {
		return fmt.Errorf("outcome seq=%d: %w", o.Seq, err)
	}
	return nil
}
