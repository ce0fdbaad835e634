package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/resgen-dev/resgen/internal/cli/config"
	"github.com/resgen-dev/resgen/internal/emitter"
	"github.com/resgen-dev/resgen/internal/errors"
)

const sampleResources = `# Resource declarations. Run "resgen generate" after editing.
resources:
  - key: app_name
    kind: STRING
    value: My App
    doc: Display name of the application
  - key: max_retries
    kind: NUMBER
    value: 3
  - key: debug
    kind: BOOLEAN
    value: false
`

type initFlags struct {
	yes   bool
	force bool
}

// initAnswers are the values collected by the init prompts
type initAnswers struct {
	SourceDir      string `survey:"source"`
	OutputDir      string `survey:"output"`
	GenerationType string `survey:"type"`
	TargetPackage  string `survey:"package"`
	InjectDeps     bool   `survey:"inject"`
}

// NewInitCommand creates the init command
func NewInitCommand(opts *rootOptions) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a resgen.yml in the current directory",
		Long: `Create a resgen.yml configuration and the resource directory it points to.

Without --yes you are prompted for each setting. When the resource directory
does not exist yet it is created with a sample declaration file.`,
		Example: `  resgen init
  resgen init --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Accept the defaults without prompting")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing resgen.yml")

	return cmd
}

func (o *rootOptions) runInit(cmd *cobra.Command, flags *initFlags) error {
	path := o.configPath
	if path == "" {
		path = config.FileNames[0]
	}

	if !flags.force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(errors.Newf("%s already exists", path), "use --force to overwrite it")
		}
	}

	cfg := config.Default()
	if !flags.yes {
		if err := askInit(cfg); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	created, err := createSourceDir(cfg.SourceDir)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen, color.Bold)
	if o.noColor {
		green.DisableColor()
	}
	green.Fprintf(out, "✓ Created %s\n", path)
	if created {
		green.Fprintf(out, "✓ Created %s\n", filepath.Join(cfg.SourceDir, "app.res.yaml"))
	}

	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  Add resources under %s\n", cfg.SourceDir)
	fmt.Fprintln(out, "  resgen generate")

	return nil
}

// askInit prompts for each setting, starting from the values in cfg
func askInit(cfg *config.Config) error {
	questions := []*survey.Question{
		{
			Name:     "source",
			Prompt:   &survey.Input{Message: "Resource directory:", Default: cfg.SourceDir},
			Validate: survey.Required,
		},
		{
			Name:     "output",
			Prompt:   &survey.Input{Message: "Output directory:", Default: cfg.OutputDir},
			Validate: survey.Required,
		},
		{
			Name: "type",
			Prompt: &survey.Select{
				Message: "Generation type:",
				Options: emitter.Types(),
				Default: cfg.GenerationType,
			},
		},
		{
			Name: "package",
			Prompt: &survey.Input{
				Message: "Target package:",
				Default: cfg.TargetPackage,
				Help:    "Dotted package name, for example com.example.app",
			},
			Validate: survey.Required,
		},
		{
			Name: "inject",
			Prompt: &survey.Confirm{
				Message: "Inject annotation dependencies?",
				Default: cfg.InjectDependencies,
			},
		},
	}

	var answers initAnswers
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.SourceDir = answers.SourceDir
	cfg.OutputDir = answers.OutputDir
	cfg.GenerationType = answers.GenerationType
	cfg.TargetPackage = answers.TargetPackage
	cfg.InjectDependencies = answers.InjectDeps
	return nil
}

// createSourceDir creates dir with a sample declaration file when it does not exist
func createSourceDir(dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, errors.Wrapf(err, "failed to create %s", dir)
	}
	sample := filepath.Join(dir, "app.res.yaml")
	if err := os.WriteFile(sample, []byte(sampleResources), 0644); err != nil {
		return false, errors.Wrapf(err, "failed to write %s", sample)
	}
	return true, nil
}
