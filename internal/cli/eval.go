package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &CalcFlags{}

	cmd := &cobra.Command{
		Use:   "eval <keys>...",
		Short: "Press a key sequence and print the display",
		Long: `Press a key sequence and print the display.

Arguments are joined with spaces and split into keys; "12+3=" and
"12 + 3 =" are the same input. Evaluation is left to right.

Exit codes:
  0 - Success
  1 - An operation was rejected (e.g. divide by zero under strict division)
  2 - Command error

Examples:
  calc eval "12 + 3 ="
  calc eval 5 + 3 + 2 =
  calc eval "1 / 0 =" --division ieee
  calc eval "6 x 7 =" --db calc.db`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd.Context(), rootOpts, flags, strings.Join(args, " "), cmd)
		},
	}

	addCalcFlags(cmd, flags)
	return cmd
}

func addCalcFlags(cmd *cobra.Command, flags *CalcFlags) {
	cmd.Flags().StringVar(&flags.Database, "db", "", "journal the session to this SQLite database")
	cmd.Flags().StringVar(&flags.Division, "division", "", "division by zero policy (strict|ieee)")
	cmd.Flags().StringVar(&flags.Resume, "resume", "", "continue a journaled session by ID")
}

func runEval(ctx context.Context, opts *RootOptions, flags *CalcFlags, input string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	calc, err := opts.openCalculator(ctx, *flags)
	if err != nil {
		return err
	}
	defer calc.Close()

	pressErr := calc.Enter(input)
	if err := calc.JournalErr(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write journal", err)
	}

	out := opts.formatter(cmd)
	state := calc.State(pressErr)

	if out.JSON() {
		var failure *CLIError
		if pressErr != nil {
			failure = &CLIError{Code: ErrCodeRejected, Message: pressErr.Error()}
		}
		if err := out.Result(state, failure); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), state.Display)
		if state.SessionID != "" {
			out.VerboseLog("session %s", state.SessionID)
		}
	}

	if pressErr != nil {
		return rejection(pressErr)
	}
	return nil
}
