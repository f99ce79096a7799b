// Package session records every call into a calculator engine to the journal.
//
// A Session satisfies the same Brain contract as a bare engine, so the
// keypad can drive either one. Each call is stamped with the session's
// logical clock, given a content-addressed ID, and written to the store
// together with its outcome in a single transaction.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/calcbrain/internal/engine"
	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/operation"
	"github.com/roach88/calcbrain/internal/store"
)

// Clock stamps records with increasing seq numbers.
// Implemented by engine.Clock and testutil.DeterministicClock.
type Clock interface {
	Next() int64
	Current() int64
}

// Session is a journaled engine. Not safe for concurrent use.
type Session struct {
	id       string
	division operation.DivisionPolicy
	store    *store.Store
	engine   *engine.Engine
	clock    Clock
	last     ir.Outcome

	// err is the first journal write failure; later calls still reach the
	// engine so the display stays usable.
	err error
}

type options struct {
	division operation.DivisionPolicy
	ids      engine.IDGenerator
	clock    Clock
}

// Option configures Open.
type Option func(*options)

// WithDivisionPolicy selects the division policy recorded with the session.
func WithDivisionPolicy(p operation.DivisionPolicy) Option {
	return func(o *options) {
		o.division = p
	}
}

// WithIDGenerator overrides the session ID generator (default UUIDv7).
func WithIDGenerator(g engine.IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithClock overrides the logical clock (default engine.NewClock()).
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// Open starts a new session and writes its header.
func Open(ctx context.Context, st *store.Store, opts ...Option) (*Session, error) {
	o := options{
		division: operation.DivisionStrict,
		ids:      engine.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = engine.NewClock()
	}

	sess := ir.Session{
		ID:            o.ids.Generate(),
		Division:      string(o.division),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if err := st.WriteSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	slog.Debug("session opened", "session", sess.ID, "division", sess.Division)

	return &Session{
		id:       sess.ID,
		division: o.division,
		store:    st,
		engine:   engine.New(engine.WithDivisionPolicy(o.division)),
		clock:    o.clock,
	}, nil
}

// ErrSessionNotFound is returned by Resume for an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// Resume reopens a recorded session. The engine is rebuilt by replaying the
// journal and the clock continues after the last recorded seq.
func Resume(ctx context.Context, st *store.Store, id string) (*Session, error) {
	sess, err := st.ReadSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resume %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}

	division, err := operation.ParseDivisionPolicy(sess.Division)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}

	keystrokes, err := st.ReadKeystrokes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}

	e := engine.New(engine.WithDivisionPolicy(division))
	for _, k := range keystrokes {
		if _, err := e.Step(k); err != nil && !isGuardRejection(err) {
			return nil, fmt.Errorf("resume %s: %w", id, err)
		}
	}

	lastSeq, err := st.LastSeq(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}

	slog.Debug("session resumed", "session", id, "keystrokes", len(keystrokes), "seq", lastSeq)

	return &Session{
		id:       id,
		division: division,
		store:    st,
		engine:   e,
		clock:    engine.NewClockAt(lastSeq),
	}, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Division returns the session's division policy.
func (s *Session) Division() operation.DivisionPolicy { return s.division }

// Err returns the first journal write failure, if any.
func (s *Session) Err() error { return s.err }

// SetOperand records and applies an operand.
func (s *Session) SetOperand(v float64) {
	_, _ = s.Record(context.Background(), ir.Keystroke{Kind: ir.KindOperand, Operand: ir.FormatNumber(v)})
}

// PerformOperation records and applies an operator press.
// Returns the engine's error (e.g. divide by zero) or a journal write error.
func (s *Session) PerformOperation(symbol string) error {
	_, err := s.Record(context.Background(), ir.Keystroke{Kind: ir.KindOperation, Symbol: symbol})
	return err
}

// Reset records an all-clear and empties the engine.
func (s *Session) Reset() {
	_, _ = s.Record(context.Background(), ir.Keystroke{Kind: ir.KindClear})
}

// Result returns the engine's accumulator.
func (s *Session) Result() (float64, bool) {
	return s.engine.Result()
}

// LastOutcome returns the outcome of the most recent call, if any.
func (s *Session) LastOutcome() (ir.Outcome, bool) {
	return s.last, s.last.Case != ""
}

// Record applies k to the engine and journals the keystroke and its outcome.
// SessionID, Seq and ID are filled in here.
//
// A guard rejection is journaled (Case DivideByZero/Rejected) and returned.
func (s *Session) Record(ctx context.Context, k ir.Keystroke) (ir.Outcome, error) {
	k.SessionID = s.id
	k.Seq = s.clock.Next()

	id, err := ir.KeystrokeID(k)
	if err != nil {
		return ir.Outcome{}, s.fail(fmt.Errorf("record: %w", err))
	}
	k.ID = id

	outcome, stepErr := s.engine.Step(k)
	if stepErr != nil && !isGuardRejection(stepErr) {
		return ir.Outcome{}, stepErr
	}

	outcome.KeystrokeID = k.ID
	outcome.Seq = s.clock.Next()
	outcome.ID, err = ir.OutcomeID(k.ID, outcome, outcome.Seq)
	if err != nil {
		return outcome, s.fail(fmt.Errorf("record: %w", err))
	}
	s.last = outcome

	if err := s.store.WriteStep(ctx, k, outcome); err != nil {
		return outcome, s.fail(err)
	}

	slog.Debug("keystroke recorded",
		"session", s.id,
		"seq", k.Seq,
		"kind", k.Kind,
		"symbol", k.Symbol,
		"operand", k.Operand,
		"case", outcome.Case,
	)

	return outcome, stepErr
}

func (s *Session) fail(err error) error {
	if s.err == nil {
		s.err = err
		slog.Error("journal write failed", "session", s.id, "error", err)
	}
	return err
}

// isGuardRejection reports whether err is an engine guard rejection, which
// is a normal outcome rather than a broken keystroke.
func isGuardRejection(err error) bool {
	var ce *engine.CalcError
	return errors.As(err, &ce) && ce.Code != engine.ErrCodeInvalidKeystroke
}
