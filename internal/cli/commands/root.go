package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/cli/config"
	"github.com/resgen-dev/resgen/internal/errors"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	verbose    bool
	json       bool
	noColor    bool
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "resgen",
		Short: "Generate typed source code from resource declarations",
		Long: color.CyanString(`resgen - resource code generator

resgen scans a resource directory and emits source files with one typed
constant per resource, so code refers to resources by name instead of by
string.

Inputs:
  • *.res.yaml / *.res.toml declaration files
  • *.properties bundles
  • any other file, as a file reference

Outputs: Go constants, Java constants, or a Java class backed by a
.properties bundle.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default resgen.yml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenerateCommand(opts))
	rootCmd.AddCommand(NewCheckCommand(opts))
	rootCmd.AddCommand(NewInitCommand(opts))
	rootCmd.AddCommand(NewWatchCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the resgen version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(out, "resgen version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// loadConfig reads the config file named by --config, or resgen.yml
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.configPath)
}

// logger builds the logger selected by --verbose and --json
func (o *rootOptions) logger() (*zap.Logger, error) {
	switch {
	case o.verbose && o.json:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	case o.verbose:
		return zap.NewDevelopment()
	case o.json:
		return zap.NewProduction()
	default:
		return zap.NewNop(), nil
	}
}

// reportedError is returned once an error has already been printed
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
			if hint := errors.FlattenHints(err); hint != "" {
				color.New(color.FgYellow).Fprintf(rootCmd.ErrOrStderr(), "💡 %s\n", hint)
			}
		}
		return err
	}
	return nil
}
