package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/resgen-dev/resgen/internal/errors"
)

// ErrStale is returned by check when generated files are out of date
var ErrStale = errors.New("generated files are out of date")

// NewCheckCommand creates the check command
func NewCheckCommand(opts *rootOptions) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify generated files are up to date",
		Long: `Run the generator without writing and list the output files that are
missing or differ from what generate would write. Exits non-zero when any
file is stale, which makes it suitable for CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gen, logger, err := opts.setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			res, err := gen.Check(ctx, cfg.Generator(), cfg.SourceDir)
			if err != nil || opts.json {
				if rerr := opts.report(cmd, "check", res, err, ""); rerr != nil {
					return rerr
				}
				if len(res.Stale) > 0 {
					return reportedError{ErrStale}
				}
				return nil
			}

			if len(res.Stale) == 0 {
				return opts.report(cmd, "check", res, nil,
					fmt.Sprintf("%s up to date in %s", plural(len(res.Files), "file"), cfg.OutputDir))
			}
			if err := opts.report(cmd, "check", res, nil, ""); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			warn := color.New(color.FgYellow, color.Bold)
			if opts.noColor {
				warn.DisableColor()
			}
			warn.Fprintf(out, "⚠️  %s out of date in %s:\n", plural(len(res.Stale), "file"), cfg.OutputDir)
			for _, f := range res.Stale {
				fmt.Fprintf(out, "  %s\n", f)
			}
			fmt.Fprintln(out, "\nRun: resgen generate")
			return reportedError{ErrStale}
		},
	}
	flags.register(cmd)

	return cmd
}
