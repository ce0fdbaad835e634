// Package errors provides structured error handling for resgen.
//
// Every stage failure is a *ResgenError carrying a stable code, a category
// (scan, resolve, emit, config), a severity, the source location it refers to
// and an optional suggestion. Errors render both as one-line messages and as
// multi-line terminal reports, and serialize to JSON for tooling.
//
// Wrapping and inspection re-export github.com/cockroachdb/errors so callers
// get stack traces and hints without importing it directly.
package errors

import (
	"encoding/json"

	crdb "github.com/cockroachdb/errors"

	"github.com/resgen-dev/resgen/internal/resource"
)

// Core error creation and wrapping
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	WithHint = crdb.WithHint
)

// Error inspection
var (
	Is           = crdb.Is
	As           = crdb.As
	FlattenHints = crdb.FlattenHints
)

// ErrorCode is a unique resgen error code
type ErrorCode string

// ErrorCategory groups codes by the pipeline stage that raises them
type ErrorCategory string

const (
	// CategoryScan covers ScanError (SCN001-099)
	CategoryScan ErrorCategory = "scan"
	// CategoryResolve covers NameCollisionError and InvalidIdentifierError (RES100-199)
	CategoryResolve ErrorCategory = "resolve"
	// CategoryEmit covers EmitError (EMT200-299)
	CategoryEmit ErrorCategory = "emit"
	// CategoryConfig covers configuration errors (CFG300-399)
	CategoryConfig ErrorCategory = "config"
)

// ResgenError is a structured pipeline error
type ResgenError struct {
	// Code is the unique error code (e.g., "SCN003", "RES100")
	Code ErrorCode `json:"code"`
	// Type is a machine-readable error type identifier
	Type string `json:"type"`
	// Category is the stage that raised the error
	Category ErrorCategory `json:"category"`
	// Severity is always error for pipeline failures
	Severity resource.Severity `json:"severity"`
	// Message is the primary error message
	Message string `json:"message"`
	// Location is the declaration the error refers to
	Location resource.SourceLocation `json:"location"`
	// Related points at a second declaration (the first-seen side of a collision)
	Related *resource.SourceLocation `json:"related,omitempty"`
	// Suggestion provides a hint for fixing the error
	Suggestion string `json:"suggestion,omitempty"`

	cause error
}

// Error implements the error interface with the compact one-line form
func (e *ResgenError) Error() string {
	return FormatCompact(e)
}

// Unwrap returns the underlying cause, if any
func (e *ResgenError) Unwrap() error {
	return e.cause
}

// Format returns a multi-line report for terminal output
func (e *ResgenError) Format() string {
	return FormatError(e)
}

// ToJSON returns the error as indented JSON
func (e *ResgenError) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Diagnostic converts the error into the diagnostic reported in results
func (e *ResgenError) Diagnostic() resource.Diagnostic {
	return resource.Diagnostic{
		Severity: e.Severity,
		Code:     string(e.Code),
		Message:  e.Message,
		Location: e.Location,
	}
}

// WithSuggestion sets a suggestion for fixing the error
func (e *ResgenError) WithSuggestion(suggestion string) *ResgenError {
	e.Suggestion = suggestion
	return e
}

// WithRelated records a second location involved in the error
func (e *ResgenError) WithRelated(loc resource.SourceLocation) *ResgenError {
	e.Related = &loc
	return e
}

// WithCause attaches the underlying error
func (e *ResgenError) WithCause(cause error) *ResgenError {
	e.cause = cause
	return e
}

// AsResgenError finds the first *ResgenError in err's chain
func AsResgenError(err error) (*ResgenError, bool) {
	var re *ResgenError
	if err == nil || !As(err, &re) {
		return nil, false
	}
	return re, true
}

// IsScanError reports whether err is a ScanError
func IsScanError(err error) bool {
	re, ok := AsResgenError(err)
	return ok && re.Category == CategoryScan
}

// IsNameCollision reports whether err is a NameCollisionError
func IsNameCollision(err error) bool {
	re, ok := AsResgenError(err)
	return ok && re.Code == ErrNameCollision
}

// IsInvalidIdentifier reports whether err is an InvalidIdentifierError
func IsInvalidIdentifier(err error) bool {
	re, ok := AsResgenError(err)
	return ok && (re.Code == ErrInvalidIdentifier || re.Code == ErrInvalidPackage)
}

// IsEmitError reports whether err is an EmitError
func IsEmitError(err error) bool {
	re, ok := AsResgenError(err)
	return ok && re.Category == CategoryEmit
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	re, ok := AsResgenError(err)
	return ok && re.Code == code
}

func newError(
	code ErrorCode,
	typ string,
	category ErrorCategory,
	message string,
	loc resource.SourceLocation,
) *ResgenError {
	return &ResgenError{
		Code:     code,
		Type:     typ,
		Category: category,
		Severity: resource.SeverityError,
		Message:  message,
		Location: loc,
	}
}
