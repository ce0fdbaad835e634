package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/cli/config"
	"github.com/resgen-dev/resgen/internal/cli/ui"
	"github.com/resgen-dev/resgen/internal/generator"
)

// generateFlags are the per-run overrides of resgen.yml
type generateFlags struct {
	source     string
	output     string
	genType    string
	pkg        string
	injectDeps bool
	casing     string
	collisions string
	noAssets   bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.source, "source", "s", "", "Resource directory to scan")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Directory to write generated files to")
	cmd.Flags().StringVarP(&f.genType, "type", "t", "", "Generation type (go, java, properties)")
	cmd.Flags().StringVarP(&f.pkg, "package", "p", "", "Target package")
	cmd.Flags().BoolVar(&f.injectDeps, "inject-deps", false, "Add annotations and report the dependencies they need")
	cmd.Flags().StringVar(&f.casing, "casing", "", "Identifier casing (auto, pascal, camel, upper_snake, snake)")
	cmd.Flags().StringVar(&f.collisions, "collisions", "", "Collision policy (fail, suffix)")
	cmd.Flags().BoolVar(&f.noAssets, "no-assets", false, "Do not turn plain files into file references")
}

// apply overrides config values with the flags set on the command line
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceDir = f.source
	}
	if flags.Changed("output") {
		cfg.OutputDir = f.output
	}
	if flags.Changed("type") {
		cfg.GenerationType = f.genType
	}
	if flags.Changed("package") {
		cfg.TargetPackage = f.pkg
	}
	if flags.Changed("inject-deps") {
		cfg.InjectDependencies = f.injectDeps
	}
	if flags.Changed("casing") {
		cfg.Naming.Casing = f.casing
	}
	if flags.Changed("collisions") {
		cfg.Naming.Collisions = f.collisions
	}
	if flags.Changed("no-assets") {
		cfg.ScanAssets = !f.noAssets
	}
	return cfg.Validate()
}

// setup loads the configuration, applies flags and builds a generator
func (o *rootOptions) setup(cmd *cobra.Command, flags *generateFlags) (*config.Config, *generator.Generator, *zap.Logger, error) {
	cfg, err := o.loadConfig()
	if err == nil {
		err = flags.apply(cmd, cfg)
	}
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), configFailure(err, o.noColor))
		return nil, nil, nil, reportedError{err}
	}

	logger, err := o.logger()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, generator.New(generator.WithLogger(logger)), logger, nil
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(opts *rootOptions) *cobra.Command {
	flags := &generateFlags{}
	var list bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate resource constants",
		Long: `Scan the source directory and write one typed constant per resource.

Files whose content did not change are left untouched. If any stage fails,
nothing written by the run remains in the output directory.`,
		Example: `  resgen generate
  resgen generate --type java --package com.example.app
  resgen generate --source assets --output internal/res --casing upper_snake`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gen, logger, err := opts.setup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			res, err := opts.generate(cmd.Context(), cmd, gen, cfg)
			if err == nil && list && !opts.json {
				opts.listResources(cmd, res)
			}
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List every resource with its generated identifier")

	return cmd
}

// generate runs one generation and prints its outcome
func (o *rootOptions) generate(ctx context.Context, cmd *cobra.Command, gen *generator.Generator, cfg *config.Config) (*generator.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := gen.Generate(ctx, cfg.Generator(), cfg.SourceDir)

	var msg string
	if err == nil {
		msg = fmt.Sprintf("Generated %s in %s (%d written",
			plural(len(res.Files), "file"), cfg.OutputDir, len(res.Written))
		if n := len(res.Removed); n > 0 {
			msg += fmt.Sprintf(", %d removed", n)
		}
		msg += ")"
		for _, dep := range res.Dependencies {
			msg += "\n  requires " + dep
		}
	}
	return res, o.report(cmd, "generate", res, err, msg)
}

func configFailure(err error, noColor bool) string {
	return ui.ConfigError(err.Error(), noColor)
}
