// Package emitter renders resolved resources into source files and writes
// them to the output directory all-or-nothing.
//
// Rendering is pure: every file is produced in memory first. Writing stages
// the changed files inside the output directory, then renames them into
// place, rolling back committed files when any step fails.
package emitter

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/cache"
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
)

// Rendered is the in-memory output of a generation type
type Rendered struct {
	Files        []File
	Dependencies []string
	Diagnostics  []resource.Diagnostic
}

// Output describes what Emit left on disk
type Output struct {
	// Files holds every generated path, absolute, in sorted order
	Files []string
	// Written is the subset of Files whose content changed
	Written []string
	// Removed holds files of an earlier run that are no longer generated
	Removed      []string
	Dependencies []string
	Diagnostics  []resource.Diagnostic
}

// Emitter renders and writes generated files
type Emitter struct {
	hasher *cache.FileHasher
	logger *zap.Logger
}

// New creates an emitter; a nil logger disables logging
func New(logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{hasher: cache.NewFileHasher(), logger: logger}
}

// Packages groups resolved resources by target package, sorted by name
func Packages(res *resolver.Resolution) []Package {
	pkgs := make([]Package, 0)
	for _, name := range res.Packages() {
		pkgs = append(pkgs, Package{Name: name, Resources: res.InPackage(name)})
	}
	return pkgs
}

// Render produces every file for res without touching the filesystem.
// It fails with EMT200 for an unknown type and EMT202 for a resource the
// renderer cannot represent.
func (e *Emitter) Render(res *resolver.Resolution, typ string, opts Options) (*Rendered, error) {
	r, err := Lookup(typ)
	if err != nil {
		return nil, err
	}

	out := &Rendered{Dependencies: r.Dependencies(opts)}
	if opts.InjectDependencies && len(out.Dependencies) == 0 {
		out.Diagnostics = append(out.Diagnostics, resource.Info(resource.SourceLocation{},
			"%s output needs no annotation dependencies; inject_dependencies has no effect", r.Type()))
	}

	for _, pkg := range Packages(res) {
		files, err := r.Render(pkg, opts)
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, files...)
	}
	sort.Slice(out.Files, func(i, j int) bool {
		return out.Files[i].Path < out.Files[j].Path
	})

	e.logger.Debug("rendered files",
		zap.String("type", r.Type()),
		zap.Int("files", len(out.Files)))

	return out, nil
}

// Emit renders res and writes the result below outputDir.
// On failure no file rendered by this call is left behind.
func (e *Emitter) Emit(ctx context.Context, res *resolver.Resolution, typ, outputDir string, opts Options) (*Output, error) {
	rendered, err := e.Render(res, typ, opts)
	if err != nil {
		return nil, err
	}

	written, err := e.Write(ctx, outputDir, rendered.Files)
	if err != nil {
		return nil, err
	}

	return &Output{
		Files:        written.Files,
		Written:      written.Written,
		Removed:      written.Removed,
		Dependencies: rendered.Dependencies,
		Diagnostics:  rendered.Diagnostics,
	}, nil
}
