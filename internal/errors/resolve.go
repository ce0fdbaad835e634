package errors

import (
	"fmt"

	"github.com/resgen-dev/resgen/internal/resource"
)

// Resolve error codes (RES100-199)
const (
	// ErrNameCollision indicates two keys normalizing to the same identifier
	ErrNameCollision ErrorCode = "RES100"
	// ErrInvalidIdentifier indicates a key with no usable characters
	ErrInvalidIdentifier ErrorCode = "RES101"
	// ErrInvalidPackage indicates a target or group package that is not a valid name
	ErrInvalidPackage ErrorCode = "RES102"
	// WarnRenamed is the warning code for a collision resolved by suffixing
	WarnRenamed ErrorCode = "RES103"
)

// NewNameCollision creates a RES100 error. loc is the later declaration,
// first is the declaration that claimed the identifier.
func NewNameCollision(loc resource.SourceLocation, key, identifier, pkg, firstKey string, first resource.SourceLocation) *ResgenError {
	return newError(
		ErrNameCollision,
		"name_collision",
		CategoryResolve,
		fmt.Sprintf("resource %q resolves to %s in package %s, already used by %q (%s)",
			key, identifier, pkg, firstKey, first),
		loc,
	).WithRelated(first).
		WithSuggestion("Rename one of the keys or set naming.collisions to \"suffix\"")
}

// NewInvalidIdentifier creates a RES101 error
func NewInvalidIdentifier(loc resource.SourceLocation, key, reason string) *ResgenError {
	return newError(
		ErrInvalidIdentifier,
		"invalid_identifier",
		CategoryResolve,
		fmt.Sprintf("resource %q cannot be turned into an identifier: %s", key, reason),
		loc,
	).WithSuggestion("Use letters, digits and separators (_ - . /) in keys")
}

// NewInvalidPackage creates a RES102 error
func NewInvalidPackage(loc resource.SourceLocation, name, reason string) *ResgenError {
	return newError(
		ErrInvalidPackage,
		"invalid_package",
		CategoryResolve,
		fmt.Sprintf("invalid package name %q: %s", name, reason),
		loc,
	).WithSuggestion("Package segments must start with a letter and contain only letters, digits and underscores")
}
