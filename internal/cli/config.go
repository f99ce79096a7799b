package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/calcbrain/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}

	cmd.AddCommand(newConfigValidateCommand(rootOpts))
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

func newConfigValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a CUE config file or directory",
		Long: `Validate a CUE config file or directory against the config schema.

Exit codes:
  0 - Config is valid
  2 - Config not found or invalid

Examples:
  calc config validate ./calc.cue
  calc config validate ./config/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			if err := config.Validate(args[0]); err != nil {
				code := ErrCodeConfig
				if config.IsNotFound(err) {
					code = ErrCodeNotFound
				}
				if out.JSON() {
					_ = out.Error(code, err.Error(), nil)
				}
				return WrapExitError(ExitCommandError, "invalid config", err)
			}

			if out.JSON() {
				return out.Success(map[string]any{"path": args[0], "valid": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", args[0])
			return nil
		},
	}
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration loaded from --config, or the defaults.

Examples:
  calc config show
  calc --config ./calc.cue config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			out := rootOpts.formatter(cmd)
			if out.JSON() {
				return out.Success(cfg)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "division: %s\n", cfg.Division)
			database := cfg.Database
			if database == "" {
				database = "(none)"
			}
			fmt.Fprintf(w, "database: %s\n", database)
			for _, k := range sortedAliasKeys(cfg.Aliases) {
				fmt.Fprintf(w, "alias: %s -> %s\n", k, cfg.Aliases[k])
			}
			return nil
		},
	}
}

func sortedAliasKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
