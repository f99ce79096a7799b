package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/calcbrain/internal/ir"
)

// SessionSummary is one line of the session listing.
type SessionSummary struct {
	ID         string `json:"id"`
	Division   string `json:"division"`
	Keystrokes int    `json:"keystrokes"`
	LastSeq    int64  `json:"last_seq"`
	Result     string `json:"result,omitempty"` // accumulator after the last keystroke
	HasResult  bool   `json:"has_result"`
}

// ReadSession retrieves a session header by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSession(ctx context.Context, id string) (ir.Session, error) {
	var sess ir.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, division, engine_version, ir_version
		FROM sessions
		WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Division, &sess.EngineVersion, &sess.IRVersion)
	if err != nil {
		return ir.Session{}, err
	}
	return sess, nil
}

// ListSessions returns a summary of every session in insertion order.
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			s.id,
			s.division,
			(SELECT COUNT(*) FROM keystrokes k WHERE k.session_id = s.id),
			(SELECT COALESCE(MAX(k.seq), 0) FROM keystrokes k WHERE k.session_id = s.id),
			COALESCE((
				SELECT o.result FROM outcomes o
				JOIN keystrokes k ON o.keystroke_id = k.id
				WHERE k.session_id = s.id
				ORDER BY o.seq DESC LIMIT 1
			), ''),
			COALESCE((
				SELECT o.has_result FROM outcomes o
				JOIN keystrokes k ON o.keystroke_id = k.id
				WHERE k.session_id = s.id
				ORDER BY o.seq DESC LIMIT 1
			), 0)
		FROM sessions s
		ORDER BY s.rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	summaries := []SessionSummary{}
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Division, &sum.Keystrokes, &sum.LastSeq, &sum.Result, &sum.HasResult); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return summaries, nil
}

// ReadKeystrokes returns a session's keystrokes with deterministic ordering:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the session has none.
func (s *Store) ReadKeystrokes(ctx context.Context, sessionID string) ([]ir.Keystroke, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, kind, operand, symbol, seq
		FROM keystrokes
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query keystrokes: %w", err)
	}
	defer rows.Close()

	keystrokes := []ir.Keystroke{}
	for rows.Next() {
		var k ir.Keystroke
		if err := rows.Scan(&k.ID, &k.SessionID, &k.Kind, &k.Operand, &k.Symbol, &k.Seq); err != nil {
			return nil, fmt.Errorf("scan keystroke: %w", err)
		}
		keystrokes = append(keystrokes, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keystrokes: %w", err)
	}

	return keystrokes, nil
}

// ReadOutcomes returns a session's outcomes in seq order.
// Returns an empty slice (not nil) if the session has none.
func (s *Store) ReadOutcomes(ctx context.Context, sessionID string) ([]ir.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.keystroke_id, o.output_case, o.result, o.has_result, o.pending, o.seq
		FROM outcomes o
		JOIN keystrokes k ON o.keystroke_id = k.id
		WHERE k.session_id = ?
		ORDER BY o.seq ASC, o.id COLLATE BINARY ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []ir.Outcome{}
	for rows.Next() {
		o, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}

	return outcomes, nil
}

// ReadOutcome retrieves the outcome recorded for a keystroke.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadOutcome(ctx context.Context, keystrokeID string) (ir.Outcome, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, keystroke_id, output_case, result, has_result, pending, seq
		FROM outcomes
		WHERE keystroke_id = ?
	`, keystrokeID)
	return scanOutcome(row)
}

// LastSeq returns the highest seq recorded for a session, or 0.
// Used to resume a session's logical clock.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(o.seq), 0)
		FROM outcomes o
		JOIN keystrokes k ON o.keystroke_id = k.id
		WHERE k.session_id = ?
	`, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}

	var keySeq int64
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM keystrokes WHERE session_id = ?
	`, sessionID).Scan(&keySeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}

	return max(seq, keySeq), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutcome(r rowScanner) (ir.Outcome, error) {
	var o ir.Outcome
	if err := r.Scan(&o.ID, &o.KeystrokeID, &o.Case, &o.Result, &o.HasResult, &o.Pending, &o.Seq); err != nil {
		if err == sql.ErrNoRows {
			return ir.Outcome{}, err
		}
		return ir.Outcome{}, fmt.Errorf("scan outcome: %w", err)
	}
	return o, nil
}
