package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/resgen-dev/resgen/internal/cli/ui"
	"github.com/resgen-dev/resgen/internal/generator"
	"github.com/resgen-dev/resgen/internal/resource"
)

// report prints a generation result and turns a failure into a reportedError.
// Non-error diagnostics go to stderr; the failure itself is printed once.
func (o *rootOptions) report(cmd *cobra.Command, command string, res *generator.Result, err error, success string) error {
	if o.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res); encErr != nil {
			return encErr
		}
		if err != nil {
			return reportedError{err}
		}
		return nil
	}

	stderr := cmd.ErrOrStderr()
	if res != nil {
		for _, d := range res.Diagnostics {
			if d.Severity == resource.SeverityError {
				continue
			}
			if d.Severity == resource.SeverityInfo && !o.verbose {
				continue
			}
			fmt.Fprint(stderr, ui.DiagnosticError(d, o.noColor))
		}
	}

	if err != nil {
		fmt.Fprint(stderr, ui.GenerationError(err, command, o.noColor))
		return reportedError{err}
	}

	if success != "" {
		ui.WriteSuccess(cmd.OutOrStdout(), success, o.noColor)
	}
	return nil
}

// listResources prints how each raw key was resolved
func (o *rootOptions) listResources(cmd *cobra.Command, res *generator.Result) {
	if res == nil || res.Resolution == nil || len(res.Resolution.Resources) == 0 {
		return
	}
	table := ui.NewTable(cmd.OutOrStdout(), o.noColor, "PACKAGE", "IDENTIFIER", "KIND", "KEY", "SOURCE")
	for _, r := range res.Resolution.Resources {
		table.AddRow(r.Package, r.Identifier, r.Declaration.Kind.String(), r.Declaration.Key, r.Declaration.Location.String())
	}
	table.Render()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
