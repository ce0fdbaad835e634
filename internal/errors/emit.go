package errors

import (
	"fmt"
	"strings"

	"github.com/resgen-dev/resgen/internal/resource"
)

// Emit error codes (EMT200-299)
const (
	// ErrUnsupportedGenerationType indicates a generation type without renderer
	ErrUnsupportedGenerationType ErrorCode = "EMT200"
	// ErrWriteFailed indicates a filesystem failure while writing output
	ErrWriteFailed ErrorCode = "EMT201"
	// ErrRenderFailed indicates a resource the renderer cannot express
	ErrRenderFailed ErrorCode = "EMT202"
)

// NewUnsupportedGenerationType creates an EMT200 error
func NewUnsupportedGenerationType(typ string, supported []string) *ResgenError {
	return newError(
		ErrUnsupportedGenerationType,
		"unsupported_generation_type",
		CategoryEmit,
		fmt.Sprintf("no renderer for generation type %q", typ),
		resource.SourceLocation{},
	).WithSuggestion(fmt.Sprintf("Supported generation types: %s", strings.Join(supported, ", ")))
}

// NewWriteFailed creates an EMT201 error
func NewWriteFailed(path string, cause error) *ResgenError {
	return newError(
		ErrWriteFailed,
		"write_failed",
		CategoryEmit,
		fmt.Sprintf("cannot write %s: %v", path, cause),
		resource.SourceLocation{File: path},
	).WithCause(cause).
		WithSuggestion("Check permissions on the output directory; no generated files were changed")
}

// NewRenderFailed creates an EMT202 error
func NewRenderFailed(loc resource.SourceLocation, subject, reason string) *ResgenError {
	return newError(
		ErrRenderFailed,
		"render_failed",
		CategoryEmit,
		fmt.Sprintf("cannot render %s: %s", subject, reason),
		loc,
	)
}
