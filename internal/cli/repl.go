package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &CalcFlags{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive keypad on stdin",
		Long: `Read key sequences from stdin, one per line, and print the display
after each line. State carries over between lines; AC clears it.
"quit" or "exit" ends the session.

Examples:
  calc repl
  calc repl --db calc.db
  calc repl --db calc.db --resume 0192...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd.Context(), rootOpts, flags, cmd)
		},
	}

	addCalcFlags(cmd, flags)
	return cmd
}

func runREPL(ctx context.Context, opts *RootOptions, flags *CalcFlags, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	calc, err := opts.openCalculator(ctx, *flags)
	if err != nil {
		return err
	}
	defer calc.Close()

	out := opts.formatter(cmd)
	if calc.session != nil {
		out.VerboseLog("session %s", calc.session.ID())
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		pressErr := calc.Enter(line)
		if err := calc.JournalErr(); err != nil {
			return WrapExitError(ExitCommandError, "failed to write journal", err)
		}

		state := calc.State(pressErr)
		if out.JSON() {
			if err := out.Success(state); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), state.Display)
		if pressErr != nil {
			out.VerboseLog("rejected: %v", pressErr)
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return nil
}
