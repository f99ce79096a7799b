package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/calcbrain/internal/ir"
	"github.com/roach88/calcbrain/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database  string
	SessionID string
}

// HistoryStep is one keystroke of a session with its outcome.
type HistoryStep struct {
	Seq     int64  `json:"seq"`
	Key     string `json:"key"`
	Case    string `json:"case"`
	Result  string `json:"result,omitempty"`
	Pending string `json:"pending,omitempty"`
}

// SessionHistory is the trace of one journaled session.
type SessionHistory struct {
	Session ir.Session    `json:"session"`
	Steps   []HistoryStep `json:"steps"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled sessions or show one session's keystrokes",
		Long: `List journaled sessions, or with --session print every keystroke
of one session next to its outcome.

Examples:
  calc history --db ./calc.db
  calc history --db ./calc.db --session 0192...
  calc history --db ./calc.db --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runHistory(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "show a single session")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	st, err := openExistingStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	out := opts.formatter(cmd)

	if opts.SessionID == "" {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if out.JSON() {
			return out.Success(sessions)
		}
		writeSessionList(cmd.OutOrStdout(), sessions)
		return nil
	}

	hist, err := readHistory(ctx, st, opts.SessionID)
	if errors.Is(err, sql.ErrNoRows) {
		msg := fmt.Sprintf("session %s not found", opts.SessionID)
		if out.JSON() {
			_ = out.Error(ErrCodeNotFound, msg, nil)
		}
		return NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	if out.JSON() {
		return out.Success(hist)
	}
	writeSessionHistory(cmd.OutOrStdout(), hist)
	return nil
}

// readHistory pairs a session's keystrokes with their outcomes.
func readHistory(ctx context.Context, st *store.Store, id string) (SessionHistory, error) {
	sess, err := st.ReadSession(ctx, id)
	if err != nil {
		return SessionHistory{}, err
	}
	keystrokes, err := st.ReadKeystrokes(ctx, id)
	if err != nil {
		return SessionHistory{}, err
	}
	outcomes, err := st.ReadOutcomes(ctx, id)
	if err != nil {
		return SessionHistory{}, err
	}

	byKeystroke := make(map[string]ir.Outcome, len(outcomes))
	for _, o := range outcomes {
		byKeystroke[o.KeystrokeID] = o
	}

	hist := SessionHistory{Session: sess, Steps: make([]HistoryStep, 0, len(keystrokes))}
	for _, k := range keystrokes {
		step := HistoryStep{Seq: k.Seq, Key: keyLabel(k)}
		if o, ok := byKeystroke[k.ID]; ok {
			step.Case = o.Case
			step.Result = o.Result
			step.Pending = o.Pending
		}
		hist.Steps = append(hist.Steps, step)
	}
	return hist, nil
}

// keyLabel renders a keystroke the way it was entered.
func keyLabel(k ir.Keystroke) string {
	switch k.Kind {
	case ir.KindOperand:
		return k.Operand
	case ir.KindClear:
		return "AC"
	}
	return k.Symbol
}

func writeSessionList(w io.Writer, sessions []store.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tDIVISION\tKEYS\tRESULT")
	for _, s := range sessions {
		result := "-"
		if s.HasResult {
			result = s.Result
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.ID, s.Division, s.Keystrokes, result)
	}
	tw.Flush()
}

func writeSessionHistory(w io.Writer, hist SessionHistory) {
	fmt.Fprintf(w, "Session: %s (%s)\n", hist.Session.ID, hist.Session.Division)
	if len(hist.Steps) == 0 {
		fmt.Fprintln(w, "No keystrokes recorded.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tKEY\tCASE\tRESULT\tPENDING")
	for _, s := range hist.Steps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", s.Seq, s.Key, s.Case, orDash(s.Result), orDash(s.Pending))
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
