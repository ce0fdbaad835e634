package errors

import (
	"fmt"
	"strings"

	"github.com/resgen-dev/resgen/internal/resource"
)

// FormatError returns a multi-line report for terminal output
func FormatError(e *ResgenError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s in %s\n", severityIcon(e.Severity), categoryDisplayName(e.Category), e.Location)
	fmt.Fprintf(&b, "  %s\n", e.Message)

	if e.Related != nil {
		fmt.Fprintf(&b, "  See also: %s\n", e.Related)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "\n💡 %s\n", e.Suggestion)
	}

	if e.cause != nil {
		if hints := FlattenHints(e.cause); hints != "" {
			fmt.Fprintf(&b, "  Hint: %s\n", hints)
		}
	}

	return b.String()
}

// FormatCompact returns a compact one-line error format
func FormatCompact(e *ResgenError) string {
	return fmt.Sprintf("%s: %s: %s [%s]", e.Location, e.Severity, e.Message, e.Code)
}

func severityIcon(severity resource.Severity) string {
	switch severity {
	case resource.SeverityError:
		return "❌"
	case resource.SeverityWarning:
		return "⚠️ "
	case resource.SeverityInfo:
		return "ℹ️ "
	default:
		return "❓"
	}
}

func categoryDisplayName(category ErrorCategory) string {
	switch category {
	case CategoryScan:
		return "Scan Error"
	case CategoryResolve:
		return "Name Resolution Error"
	case CategoryEmit:
		return "Emit Error"
	case CategoryConfig:
		return "Configuration Error"
	default:
		return "Error"
	}
}
