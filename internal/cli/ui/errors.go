// Package ui formats resgen output for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resource"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Location     string
	Suggestion   string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized message with an optional suggestion and help commands
//
// Example output:
//
//	❌ RES100: resource "app-name" resolves to AppName in package resgen
//	   at app.res.yaml:5
//
//	   💡 Rename one of the keys or set naming.collisions to "suffix"
//
//	   → Get help: resgen generate --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	headerColor, bodyColor, symbol := levelStyle(opts.Level)
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Location != "" {
		bodyColor.Fprintf(&b, "   at %s\n", opts.Location)
	}

	if opts.Suggestion != "" {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   💡 %s\n", opts.Suggestion)
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

func levelStyle(level ErrorLevel) (*color.Color, *color.Color, string) {
	switch level {
	case ErrorLevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case ErrorLevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// DiagnosticError formats a diagnostic reported by the generator
func DiagnosticError(d resource.Diagnostic, noColor bool) string {
	opts := ErrorOptions{
		Level:   levelFor(d.Severity),
		Context: d.Code,
		Problem: d.Message,
		NoColor: noColor,
	}
	if d.Location.File != "" {
		opts.Location = d.Location.String()
	}
	return FormatError(opts)
}

// GenerationError formats a pipeline failure, including the suggestion and
// related location carried by resgen errors
func GenerationError(err error, command string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		Context: "GENERATION FAILED",
		Problem: err.Error(),
		NoColor: noColor,
		HelpCommands: []string{
			fmt.Sprintf("Get help: resgen %s --help", command),
		},
	}

	if rerr, ok := errors.AsResgenError(err); ok {
		opts.Context = string(rerr.Code)
		opts.Problem = rerr.Message
		opts.Suggestion = rerr.Suggestion
		if rerr.Location.File != "" {
			opts.Location = rerr.Location.String()
		}
		if rerr.Related != nil {
			opts.Location = fmt.Sprintf("%s (see also %s)", opts.Location, rerr.Related)
		}
	}

	return FormatError(opts)
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:      ErrorLevelError,
		Context:    "CONFIGURATION ERROR",
		Problem:    message,
		Suggestion: "Check resgen.yml or run: resgen init",
		NoColor:    noColor,
	})
}

func levelFor(s resource.Severity) ErrorLevel {
	switch s {
	case resource.SeverityWarning:
		return ErrorLevelWarning
	case resource.SeverityInfo:
		return ErrorLevelInfo
	default:
		return ErrorLevelError
	}
}
