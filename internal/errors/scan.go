package errors

import (
	"fmt"

	"github.com/resgen-dev/resgen/internal/resource"
)

// Scan error codes (SCN001-099)
const (
	// ErrUnreadableSource indicates the source root cannot be read
	ErrUnreadableSource ErrorCode = "SCN001"
	// ErrMalformedFile indicates a declaration file that does not parse
	ErrMalformedFile ErrorCode = "SCN002"
	// ErrUnknownKind indicates a missing or unrecognized kind marker
	ErrUnknownKind ErrorCode = "SCN003"
	// ErrInvalidValue indicates a value that does not match its kind
	ErrInvalidValue ErrorCode = "SCN004"
	// ErrMissingKey indicates a declaration without a key
	ErrMissingKey ErrorCode = "SCN005"
)

// NewUnreadableSource creates a SCN001 error
func NewUnreadableSource(root string, cause error) *ResgenError {
	return newError(
		ErrUnreadableSource,
		"unreadable_source",
		CategoryScan,
		fmt.Sprintf("cannot read source root %q: %v", root, cause),
		resource.SourceLocation{File: root},
	).WithCause(cause).
		WithSuggestion("Check that the source directory exists and is readable")
}

// NewMalformedFile creates a SCN002 error
func NewMalformedFile(loc resource.SourceLocation, cause error) *ResgenError {
	return newError(
		ErrMalformedFile,
		"malformed_file",
		CategoryScan,
		fmt.Sprintf("malformed declaration file: %v", cause),
		loc,
	).WithCause(cause)
}

// NewUnknownKind creates a SCN003 error
func NewUnknownKind(loc resource.SourceLocation, key, marker string) *ResgenError {
	msg := fmt.Sprintf("resource %q has unknown kind %q", key, marker)
	if marker == "" {
		msg = fmt.Sprintf("resource %q has no kind", key)
	}
	return newError(
		ErrUnknownKind,
		"unknown_kind",
		CategoryScan,
		msg,
		loc,
	).WithSuggestion("Use one of: string, number, bool, file, group")
}

// NewInvalidValue creates a SCN004 error
func NewInvalidValue(loc resource.SourceLocation, key string, kind resource.Kind, reason string) *ResgenError {
	return newError(
		ErrInvalidValue,
		"invalid_value",
		CategoryScan,
		fmt.Sprintf("resource %q: invalid %s value: %s", key, kind, reason),
		loc,
	)
}

// NewMissingKey creates a SCN005 error
func NewMissingKey(loc resource.SourceLocation) *ResgenError {
	return newError(
		ErrMissingKey,
		"missing_key",
		CategoryScan,
		"resource declaration has no key",
		loc,
	).WithSuggestion("Every declaration needs a non-empty key")
}
