// Package resource defines the in-memory model shared by every resgen stage:
// scanned declarations, their kinds and source locations, the resolved form
// produced by the name resolver, and the diagnostics reported back to the host.
package resource

import (
	"fmt"
	"strings"
)

// Kind identifies what a declaration holds
type Kind int

const (
	// KindString is a text value
	KindString Kind = iota
	// KindNumber is an integer or floating point literal
	KindNumber
	// KindBoolean is true or false
	KindBoolean
	// KindFileRef is a slash-separated path relative to the source root
	KindFileRef
	// KindGroup nests child declarations under a sub-package
	KindGroup
)

// String returns the canonical kind marker
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "bool"
	case KindFileRef:
		return "file"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind marker as written in a declaration file.
// Markers are case-insensitive; the second result is false for unknown markers.
func ParseKind(marker string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(marker)) {
	case "string", "str", "text":
		return KindString, true
	case "number", "int", "integer", "float":
		return KindNumber, true
	case "bool", "boolean":
		return KindBoolean, true
	case "file", "file_ref", "path":
		return KindFileRef, true
	case "group":
		return KindGroup, true
	default:
		return 0, false
	}
}

// SourceLocation points at the line a declaration came from
type SourceLocation struct {
	File string `json:"file"` // Slash-separated, relative to the source root
	Line int    `json:"line"` // 1-indexed; 0 when unknown
}

// String formats the location as file:line
func (l SourceLocation) String() string {
	if l.File == "" {
		return "<config>"
	}
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Declaration is a single resource as found by the scanner.
// Declarations are values and are never modified after scanning.
type Declaration struct {
	Key  string
	Kind Kind
	// Text holds the payload of string, number and file declarations.
	// Numbers are stored in canonical literal form.
	Text string
	Bool bool
	// Children holds the members of a group declaration
	Children []Declaration
	Doc      string
	Location SourceLocation
}

// Resolved is a declaration bound to its generated identifier
type Resolved struct {
	Declaration Declaration
	Identifier  string
	Package     string
}

// Severity of a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText lets diagnostics serialize severities by name
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a message reported back to the host
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code,omitempty"`
	Message  string         `json:"message"`
	Location SourceLocation `json:"location"`
}

// String returns a compact one-line form
func (d Diagnostic) String() string {
	if d.Code != "" {
		return fmt.Sprintf("%s: %s: %s [%s]", d.Location, d.Severity, d.Message, d.Code)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Info creates an informational diagnostic
func Info(loc SourceLocation, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Warning creates a warning diagnostic
func Warning(code string, loc SourceLocation, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Location: loc}
}
