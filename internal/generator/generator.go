// Package generator drives a resgen run: it scans the source root, resolves
// identifiers and emits the generated files, moving through
// IDLE -> SCANNING -> RESOLVING -> EMITTING -> DONE, or FAILED as soon as
// any stage reports an error.
//
// Each call builds its own run state, so a Generator may be shared. Calls
// that write to the same output directory must be serialized by the caller.
package generator

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/emitter"
	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
	"github.com/resgen-dev/resgen/internal/scanner"
	"github.com/resgen-dev/resgen/internal/util/paths"
)

// Generator runs the scan, resolve and emit pipeline
type Generator struct {
	logger *zap.Logger
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger passed to every stage
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a generator
func New(opts ...Option) *Generator {
	g := &Generator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// run holds the state of one Generate or Check call
type run struct {
	g       *Generator
	cfg     Config
	root    string
	result  *Result
	emitter *emitter.Emitter
	started time.Time
}

// Generate scans sourceRoot, resolves identifiers and writes the generated
// files. On failure the returned Result is in StageFailed, carries the error
// as an ERROR diagnostic, and no output written by this call remains.
func (g *Generator) Generate(ctx context.Context, cfg Config, sourceRoot string) (*Result, error) {
	r, res, err := g.prepare(ctx, cfg, sourceRoot)
	if err != nil {
		return r.result, err
	}

	r.enter(StageEmitting)
	out, err := r.emitter.Emit(ctx, res, r.cfg.GenerationType, r.cfg.OutputDir, r.cfg.emitOptions())
	if err != nil {
		return r.fail(err)
	}
	r.result.Files = out.Files
	r.result.Written = out.Written
	r.result.Removed = out.Removed
	r.result.Dependencies = out.Dependencies
	r.result.Diagnostics = append(r.result.Diagnostics, out.Diagnostics...)

	return r.done()
}

// Check runs the pipeline without writing and reports, in Result.Stale,
// the output files that are missing or differ from what Generate would write,
// and the files of an earlier run that Generate would delete
func (g *Generator) Check(ctx context.Context, cfg Config, sourceRoot string) (*Result, error) {
	r, res, err := g.prepare(ctx, cfg, sourceRoot)
	if err != nil {
		return r.result, err
	}

	r.enter(StageEmitting)
	rendered, err := r.emitter.Render(res, r.cfg.GenerationType, r.cfg.emitOptions())
	if err != nil {
		return r.fail(err)
	}
	for _, f := range rendered.Files {
		r.result.Files = append(r.result.Files, filepath.Join(r.cfg.OutputDir, filepath.FromSlash(f.Path)))
	}
	r.result.Stale = r.emitter.Stale(r.cfg.OutputDir, rendered.Files)
	r.result.Dependencies = rendered.Dependencies
	r.result.Diagnostics = append(r.result.Diagnostics, rendered.Diagnostics...)

	return r.done()
}

// prepare validates the configuration and runs the scanning and resolving stages
func (g *Generator) prepare(ctx context.Context, cfg Config, sourceRoot string) (*run, *resolver.Resolution, error) {
	r := &run{
		g:       g,
		root:    sourceRoot,
		result:  &Result{Stage: StageIdle},
		emitter: emitter.New(g.logger),
		started: time.Now(),
	}

	if err := cfg.Validate(); err != nil {
		_, err = r.fail(err)
		return r, nil, err
	}
	r.cfg = cfg.normalized()
	if paths.Same(r.cfg.OutputDir, sourceRoot) {
		_, err := r.fail(errors.NewInvalidConfig("output_dir", r.cfg.OutputDir, nil).
			WithSuggestion("The output directory must differ from the source root"))
		return r, nil, err
	}

	g.logger.Debug("starting generation",
		zap.String("source_root", sourceRoot),
		zap.String("output_dir", r.cfg.OutputDir),
		zap.String("type", r.cfg.GenerationType),
		zap.String("package", r.cfg.TargetPackage))

	if err := ctx.Err(); err != nil {
		_, err = r.fail(err)
		return r, nil, err
	}
	r.enter(StageScanning)
	scan := scanner.New(scanner.Options{
		ScanAssets: r.cfg.ScanAssets,
		Exclude:    []string{r.cfg.OutputDir},
	}, g.logger)
	decls, err := scan.Scan(ctx, sourceRoot)
	if err != nil {
		_, err = r.fail(err)
		return r, nil, err
	}

	if err := ctx.Err(); err != nil {
		_, err = r.fail(err)
		return r, nil, err
	}
	r.enter(StageResolving)
	res, err := resolver.New(r.cfg.resolverOptions(), g.logger).Resolve(decls, r.cfg.TargetPackage)
	if err != nil {
		_, err = r.fail(err)
		return r, nil, err
	}
	r.result.Resolution = res
	r.result.Diagnostics = append(r.result.Diagnostics, res.Diagnostics...)
	if len(res.Resources) == 0 {
		r.result.Diagnostics = append(r.result.Diagnostics,
			resource.Info(resource.SourceLocation{}, "no resources found under %s", sourceRoot))
	}

	if err := ctx.Err(); err != nil {
		_, err = r.fail(err)
		return r, nil, err
	}
	return r, res, nil
}

func (r *run) enter(stage Stage) {
	r.g.logger.Debug("entering stage",
		zap.Stringer("from", r.result.Stage),
		zap.Stringer("to", stage))
	r.result.Stage = stage
}

// fail records err as an ERROR diagnostic and moves to FAILED
func (r *run) fail(err error) (*Result, error) {
	r.result.FailedIn = r.result.Stage
	r.result.Stage = StageFailed
	r.result.Files = nil
	r.result.Written = nil
	r.result.Removed = nil

	var diag resource.Diagnostic
	if rerr, ok := errors.AsResgenError(err); ok {
		diag = rerr.Diagnostic()
	} else {
		diag = resource.Diagnostic{Severity: resource.SeverityError, Message: err.Error()}
	}
	r.result.Diagnostics = append(r.result.Diagnostics, diag)

	r.g.logger.Debug("generation failed",
		zap.Stringer("stage", r.result.FailedIn),
		zap.String("code", diag.Code),
		zap.Error(err))

	return r.result, err
}

func (r *run) done() (*Result, error) {
	r.enter(StageDone)
	r.g.logger.Info("generation complete",
		zap.String("type", r.cfg.GenerationType),
		zap.Int("resources", len(r.result.Resolution.Resources)),
		zap.Int("files", len(r.result.Files)),
		zap.Int("written", len(r.result.Written)),
		zap.Int("stale", len(r.result.Stale)),
		zap.Duration("duration", time.Since(r.started)))
	return r.result, nil
}
