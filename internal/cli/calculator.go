package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/calcbrain/internal/engine"
	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/keypad"
	"github.com/roach88/calcbrain/internal/session"
	"github.com/roach88/calcbrain/internal/store"
)

// CalcFlags are the flags shared by eval and repl.
type CalcFlags struct {
	Database string
	Division string
	Resume   string // session ID to continue; requires a database
}

// calculator is a keypad over a bare engine or a journaled session.
type calculator struct {
	display   *keypad.Display
	tokenizer *keypad.Tokenizer
	brain     keypad.Brain
	session   *session.Session
	store     *store.Store
}

// DisplayState is the calculator state reported after input.
type DisplayState struct {
	Display   string `json:"display"`
	Result    string `json:"result,omitempty"`
	HasResult bool   `json:"has_result"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (o *RootOptions) openCalculator(ctx context.Context, flags CalcFlags) (*calculator, error) {
	policy, err := o.divisionPolicy(flags.Division)
	if err != nil {
		return nil, err
	}

	c := &calculator{tokenizer: keypad.NewTokenizer(o.Config.Aliases)}

	dbPath := o.database(flags.Database)
	if dbPath == "" {
		if flags.Resume != "" {
			return nil, NewExitError(ExitCommandError, "--resume requires --db")
		}
		c.brain = engine.New(engine.WithDivisionPolicy(policy))
		c.display = keypad.New(c.brain)
		return c, nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	c.store = st

	if flags.Resume != "" {
		c.session, err = session.Resume(ctx, st, flags.Resume)
		if errors.Is(err, session.ErrSessionNotFound) {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "cannot resume", err)
		}
	} else {
		c.session, err = session.Open(ctx, st, session.WithDivisionPolicy(policy))
	}
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to start session", err)
	}

	slog.Debug("journaling session", "db", dbPath, "session", c.session.ID(), "division", c.session.Division())

	c.brain = c.session
	c.display = keypad.New(c.session)
	c.display.Refresh()
	return c, nil
}

// Enter tokenizes input and presses every key. The first rejected operation
// is returned; later keys are still pressed.
func (c *calculator) Enter(input string) error {
	return c.display.PressAll(c.tokenizer.Tokenize(input))
}

// JournalErr returns the session's first journal write failure.
func (c *calculator) JournalErr() error {
	if c.session == nil {
		return nil
	}
	return c.session.Err()
}

// State snapshots the display and the brain's result.
func (c *calculator) State(pressErr error) DisplayState {
	s := DisplayState{Display: c.display.Text()}
	if v, ok := c.brain.Result(); ok {
		s.Result = ir.FormatNumber(v)
		s.HasResult = true
	}
	if c.session != nil {
		s.SessionID = c.session.ID()
	}
	if pressErr != nil {
		s.Error = pressErr.Error()
	}
	return s
}

func (c *calculator) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// rejection converts an engine error from a key press into an ExitError.
func rejection(err error) error {
	var ce *engine.CalcError
	if errors.As(err, &ce) {
		return WrapExitError(ExitFailure, "operation rejected", err)
	}
	return WrapExitError(ExitCommandError, "calculator error", err)
}
