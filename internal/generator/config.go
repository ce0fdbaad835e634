package generator

import (
	"strings"
	"unicode"

	"github.com/resgen-dev/resgen/internal/emitter"
	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
)

// DefaultTargetPackage is used when no package is configured
const DefaultTargetPackage = "resgen"

// Config is the fully enumerated set of generation options
type Config struct {
	// GenerationType selects the renderer: go, java or properties.
	// Unknown types are rejected when the emitting stage is reached.
	GenerationType     string
	InjectDependencies bool
	// TargetPackage is the dotted root package of the generated code
	TargetPackage string
	OutputDir     string
	Casing        resolver.Casing
	Collisions    resolver.CollisionPolicy
	// ScanAssets turns non-declaration files into file references
	ScanAssets         bool
	AnnotationsVersion string
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		GenerationType:     "go",
		TargetPackage:      DefaultTargetPackage,
		OutputDir:          "generated",
		Casing:             resolver.CasingAuto,
		Collisions:         resolver.CollisionFail,
		ScanAssets:         true,
		AnnotationsVersion: emitter.DefaultAnnotationsVersion,
	}
}

// SanitizePackage normalizes a user supplied package name: surrounding
// space is trimmed, inner whitespace runs become '.', '-' becomes '_'.
// An empty name yields DefaultTargetPackage.
func SanitizePackage(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultTargetPackage
	}
	name = strings.Join(strings.FieldsFunc(name, unicode.IsSpace), ".")
	return strings.ReplaceAll(name, "-", "_")
}

// Validate checks the enumerated options. The generation type is left to the emitter.
func (c Config) Validate() error {
	if _, ok := resolver.ParseCasing(string(c.Casing)); !ok {
		return errors.NewInvalidConfig("casing", string(c.Casing), resolver.Casings)
	}
	if _, ok := resolver.ParseCollisionPolicy(string(c.Collisions)); !ok {
		return errors.NewInvalidConfig("collisions", string(c.Collisions), resolver.CollisionPolicies)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.NewInvalidConfig("output_dir", c.OutputDir, nil)
	}
	return nil
}

// normalized fills defaults; it assumes Validate passed
func (c Config) normalized() Config {
	c.GenerationType = strings.ToLower(strings.TrimSpace(c.GenerationType))
	c.TargetPackage = SanitizePackage(c.TargetPackage)
	c.Casing, _ = resolver.ParseCasing(string(c.Casing))
	c.Collisions, _ = resolver.ParseCollisionPolicy(string(c.Collisions))
	if c.AnnotationsVersion == "" {
		c.AnnotationsVersion = emitter.DefaultAnnotationsVersion
	}
	return c
}

// resolverOptions derives identifier rules from the renderer's language.
// An unknown generation type falls back to Pascal case; the emitting
// stage reports it.
func (c Config) resolverOptions() resolver.Options {
	opts := resolver.Options{
		Casing:     c.Casing,
		Collisions: c.Collisions,
	}
	r, err := emitter.Lookup(c.GenerationType)
	if err != nil {
		if opts.Casing == resolver.CasingAuto {
			opts.Casing = resolver.CasingPascal
		}
		return opts
	}

	naming := r.Naming()
	if opts.Casing == resolver.CasingAuto {
		opts.Casing = naming.Casing
	}
	opts.Initialisms = naming.Initialisms
	opts.Keywords = naming.Keywords
	opts.Reserved = naming.Reserved
	opts.Packages = naming.Packages
	return opts
}

func (c Config) emitOptions() emitter.Options {
	return emitter.Options{
		InjectDependencies: c.InjectDependencies,
		AnnotationsVersion: c.AnnotationsVersion,
	}
}
