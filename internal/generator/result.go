package generator

import (
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
)

// Stage is a state of the generation pipeline
type Stage int

const (
	StageIdle Stage = iota
	StageScanning
	StageResolving
	StageEmitting
	StageDone
	StageFailed
)

// String returns the upper-case stage name
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "IDLE"
	case StageScanning:
		return "SCANNING"
	case StageResolving:
		return "RESOLVING"
	case StageEmitting:
		return "EMITTING"
	case StageDone:
		return "DONE"
	case StageFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText serializes stages by name
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is what a generation run reports to its host
type Result struct {
	// Files lists every generated file below the output dir, sorted
	Files []string `json:"files"`
	// Written is the subset of Files whose content changed in this run
	Written []string `json:"written,omitempty"`
	// Removed lists files of an earlier run deleted because they are no longer generated
	Removed []string `json:"removed,omitempty"`
	// Stale lists the files Check found missing, outdated or orphaned, relative to the output dir
	Stale        []string              `json:"stale,omitempty"`
	Diagnostics  []resource.Diagnostic `json:"diagnostics"`
	Dependencies []string              `json:"dependencies,omitempty"`
	Stage        Stage                 `json:"stage"`
	// FailedIn is the stage that was running when the run failed
	FailedIn Stage `json:"failed_in,omitempty"`
	// Resolution maps raw keys to generated identifiers; nil when resolving did not finish
	Resolution *resolver.Resolution `json:"-"`
}

// OK reports whether the run reached DONE
func (r *Result) OK() bool {
	return r.Stage == StageDone
}

// Errors returns the error-severity diagnostics
func (r *Result) Errors() []resource.Diagnostic {
	var out []resource.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == resource.SeverityError {
			out = append(out, d)
		}
	}
	return out
}
