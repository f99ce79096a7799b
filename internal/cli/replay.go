package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/calcbrain/internal/engine"
	"github.com/roach88/calcbrain/internal/operation"
	"github.com/roach88/calcbrain/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionID     string `json:"session_id"`
	Division      string `json:"division"`
	Keystrokes    int    `json:"keystrokes"`
	Result        string `json:"result,omitempty"`
	Deterministic bool   `json:"deterministic"`
	Divergence    string `json:"divergence,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled keystrokes and verify outcomes",
		Long: `Replay journaled keystrokes through a fresh engine and verify that
every outcome matches the one recorded.

Each session is replayed with the division policy it was recorded under.

Exit codes:
  0 - All sessions replay identically
  1 - A replayed outcome diverged from the journal
  2 - Command error (database not found, unknown session, etc.)

Examples:
  calc replay --db ./calc.db
  calc replay --db ./calc.db --session 0192...
  calc replay --db ./calc.db --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay a specific session only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	var ids []string
	if opts.SessionID != "" {
		ids = []string{opts.SessionID}
	} else {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}

	for _, id := range ids {
		sr, err := replaySession(ctx, st, id)
		if err != nil {
			return err
		}
		result.Sessions = append(result.Sessions, sr)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
	}

	out := opts.formatter(cmd)
	if out.JSON() {
		var failure *CLIError
		if !result.AllDeterministic {
			failure = &CLIError{Code: ErrCodeDivergence, Message: "replay diverged from journal"}
		}
		if err := out.Result(result, failure); err != nil {
			return err
		}
	} else {
		writeReplayText(cmd, result, opts.Verbose)
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "replay diverged from journal")
	}
	return nil
}

// replaySession replays one session and compares it with the journal.
// A divergence is reported in the result, not as an error.
func replaySession(ctx context.Context, st *store.Store, id string) (ReplaySessionResult, error) {
	sess, err := st.ReadSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ReplaySessionResult{}, NewExitError(ExitCommandError, fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return ReplaySessionResult{}, WrapExitError(ExitCommandError, "failed to read session", err)
	}

	policy, err := operation.ParseDivisionPolicy(sess.Division)
	if err != nil {
		return ReplaySessionResult{}, WrapExitError(ExitCommandError, fmt.Sprintf("session %s", id), err)
	}

	keystrokes, err := st.ReadKeystrokes(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, WrapExitError(ExitCommandError, "failed to read keystrokes", err)
	}
	recorded, err := st.ReadOutcomes(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, WrapExitError(ExitCommandError, "failed to read outcomes", err)
	}

	sr := ReplaySessionResult{
		SessionID:     id,
		Division:      sess.Division,
		Keystrokes:    len(keystrokes),
		Deterministic: true,
	}

	replayed, err := engine.Replay(operation.Standard(policy), keystrokes)
	if err == nil {
		err = engine.VerifyReplay(recorded, replayed)
	}
	if err != nil {
		sr.Deterministic = false
		sr.Divergence = err.Error()
	}
	if n := len(replayed); n > 0 && replayed[n-1].HasResult {
		sr.Result = replayed[n-1].Result
	}

	slog.Debug("session replayed", "session", id, "keystrokes", len(keystrokes), "deterministic", sr.Deterministic)
	return sr, nil
}

func writeReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) {
	w := cmd.OutOrStdout()

	if result.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, s.SessionID)
		fmt.Fprintf(w, "  Keystrokes: %d\n", s.Keystrokes)
		if verbose {
			fmt.Fprintf(w, "  Division: %s\n", s.Division)
			if s.Result != "" {
				fmt.Fprintf(w, "  Result: %s\n", s.Result)
			}
		}
		if !s.Deterministic {
			fmt.Fprintf(w, "  Divergence: %s\n", s.Divergence)
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions replay identically")
		return
	}
	fmt.Fprintln(w, "✗ Replay verification failed")
}

// openExistingStore opens a journal that must already exist. store.Open
// would otherwise create an empty database at a mistyped path.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
