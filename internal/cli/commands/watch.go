package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/cache"
	"github.com/resgen-dev/resgen/internal/cli/config"
	"github.com/resgen-dev/resgen/internal/generator"
	"github.com/resgen-dev/resgen/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand(opts *rootOptions) *cobra.Command {
	flags := &generateFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever resources change",
		Long: `Generate once, then watch the source directory and regenerate after every
change. Changes inside the output directory and to hidden files are ignored,
and a batch of events that leaves every resource file unchanged does not
trigger a run.

Examples:
  resgen watch
  resgen watch --type java --debounce 250ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gen, logger, err := opts.setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return opts.watch(ctx, cmd, gen, cfg, logger, debounce)
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")

	return cmd
}

// watch runs generation once and then after every effective change until ctx is done
func (o *rootOptions) watch(ctx context.Context, cmd *cobra.Command, gen *generator.Generator, cfg *config.Config, logger *zap.Logger, debounce time.Duration) error {
	if info, err := os.Stat(cfg.SourceDir); err != nil || !info.IsDir() {
		_, err := o.generate(ctx, cmd, gen, cfg)
		return err
	}

	hasher := cache.NewFileHasher()
	last, err := hasher.TakeSnapshot(ctx, cfg.SourceDir, cfg.OutputDir)
	if err != nil {
		return err
	}
	// A failed initial run is reported and watching continues
	_, _ = o.generate(ctx, cmd, gen, cfg)

	onChange := func(files []string) error {
		next, err := hasher.TakeSnapshot(ctx, cfg.SourceDir, cfg.OutputDir)
		if err != nil {
			return err
		}
		if last.Equal(next) {
			logger.Debug("no effective changes", zap.Strings("events", files))
			return nil
		}
		changed := last.Diff(next)
		last = next

		logger.Info("resources changed", zap.Strings("files", changed))
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s changed\n", plural(len(changed), "file"))
		_, _ = o.generate(ctx, cmd, gen, cfg)
		return nil
	}

	fw, err := watch.NewFileWatcher(cfg.SourceDir, onChange, watch.Options{
		Ignored:  []string{cfg.OutputDir},
		Debounce: debounce,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := fw.Start(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	banner := color.New(color.FgCyan, color.Bold)
	hint := color.New(color.FgYellow)
	if o.noColor {
		banner.DisableColor()
		hint.DisableColor()
	}
	fmt.Fprintln(out)
	banner.Fprintf(out, "👀 Watching %s\n", cfg.SourceDir)
	hint.Fprintln(out, "⌨️  Press Ctrl+C to stop")

	<-ctx.Done()

	fmt.Fprintln(out, "\nShutting down...")
	return fw.Stop()
}
