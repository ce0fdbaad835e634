// Package resolver turns raw resource keys into identifiers that are valid
// and unique within their target package.
//
// Keys are split into words at separators and case boundaries, joined using
// the configured casing, and checked against a running per-package set in
// declaration order: the first declaration to claim an identifier keeps it.
package resolver

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resource"
	strs "github.com/resgen-dev/resgen/internal/util/strings"
)

// Options configures identifier generation
type Options struct {
	Casing     Casing
	Collisions CollisionPolicy
	// Initialisms upper-cases well known initialisms in Pascal and camel case (URL, ID, HTTP)
	Initialisms bool
	// Keywords are the target language's reserved words. Identifiers equal
	// to one get a trailing underscore; package segments equal to one are rejected.
	Keywords []string
	// Reserved are names the generated code defines itself
	Reserved []string
	// Packages are names a package segment may not take even though they
	// are valid identifiers (a Go package named main cannot be imported)
	Packages []string
}

// Resolver maps declarations to identifiers
type Resolver struct {
	opts     Options
	reserved map[string]bool
	packages map[string]bool
	logger   *zap.Logger
}

// New creates a resolver; a nil logger disables logging
func New(opts Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Casing == "" || opts.Casing == CasingAuto {
		opts.Casing = CasingPascal
	}
	if opts.Collisions == "" {
		opts.Collisions = CollisionFail
	}

	r := &Resolver{
		opts:     opts,
		reserved: make(map[string]bool, len(opts.Keywords)+len(opts.Reserved)),
		packages: make(map[string]bool, len(opts.Keywords)+len(opts.Packages)),
		logger:   logger,
	}
	for _, k := range opts.Keywords {
		r.reserved[k] = true
		r.packages[k] = true
	}
	for _, k := range opts.Packages {
		r.packages[k] = true
	}
	for _, k := range opts.Reserved {
		r.reserved[k] = true
	}
	return r
}

// claim records who first took an identifier or key in a package
type claim struct {
	key   string
	index int
}

// run holds the state of one Resolve call
type run struct {
	*Resolver
	res    *Resolution
	idents map[string]map[string]claim // package -> identifier
	keys   map[string]map[string]claim // package -> raw key
}

// Resolve assigns identifiers to decls. Group members are placed in a
// sub-package named after the group. It fails on the first collision
// (unless the suffix policy applies) or untransformable key.
func (r *Resolver) Resolve(decls []resource.Declaration, targetPackage string) (*Resolution, error) {
	pkg := strings.TrimSpace(targetPackage)
	if err := r.checkPackage(pkg); err != nil {
		return nil, err
	}

	state := &run{
		Resolver: r,
		res:      newResolution(),
		idents:   make(map[string]map[string]claim),
		keys:     make(map[string]map[string]claim),
	}
	if err := state.resolveAll(decls, pkg); err != nil {
		return nil, err
	}

	r.logger.Debug("resolved resources",
		zap.Int("resources", len(state.res.Resources)),
		zap.Int("packages", len(state.res.Packages())),
		zap.String("casing", string(r.opts.Casing)))

	return state.res, nil
}

// Identifier normalizes a single key; the boolean is false when key holds no letters or digits
func (r *Resolver) Identifier(key string) (string, bool) {
	words := strs.SplitWords(key)
	if len(words) == 0 {
		return "", false
	}

	id := r.opts.Casing.join(words, r.opts.Initialisms)
	if first := []rune(id)[0]; unicode.IsDigit(first) {
		id = "_" + id
	}
	if r.reserved[id] {
		id += "_"
	}
	return id, true
}

func (r *Resolver) checkPackage(pkg string) error {
	if pkg == "" {
		return errors.NewInvalidPackage(resource.SourceLocation{}, pkg, "target package is empty")
	}
	for _, seg := range strings.Split(pkg, ".") {
		if ok, reason := validSegment(seg); !ok {
			return errors.NewInvalidPackage(resource.SourceLocation{}, pkg, reason)
		}
		if r.packages[seg] {
			return errors.NewInvalidPackage(resource.SourceLocation{}, pkg, seg+" is a reserved word")
		}
	}
	return nil
}

func (s *run) resolveAll(decls []resource.Declaration, pkg string) error {
	for _, decl := range decls {
		if decl.Kind == resource.KindGroup {
			sub, err := s.groupPackage(decl, pkg)
			if err != nil {
				return err
			}
			if err := s.resolveAll(decl.Children, sub); err != nil {
				return err
			}
			continue
		}
		if err := s.resolveOne(decl, pkg); err != nil {
			return err
		}
	}
	return nil
}

func (s *run) groupPackage(decl resource.Declaration, pkg string) (string, error) {
	seg := strings.Join(strs.SplitWords(decl.Key), "")
	if seg == "" {
		return "", errors.NewInvalidPackage(decl.Location, decl.Key, "group key has no letters or digits")
	}
	if ok, reason := validSegment(seg); !ok {
		return "", errors.NewInvalidPackage(decl.Location, seg, reason)
	}
	if s.packages[seg] {
		return "", errors.NewInvalidPackage(decl.Location, seg, "group name is a reserved word")
	}
	return pkg + "." + seg, nil
}

func (s *run) resolveOne(decl resource.Declaration, pkg string) error {
	id, ok := s.Identifier(decl.Key)
	if !ok {
		return errors.NewInvalidIdentifier(decl.Location, decl.Key, "key has no letters or digits")
	}

	idents := s.idents[pkg]
	keys := s.keys[pkg]
	if idents == nil {
		idents = make(map[string]claim)
		keys = make(map[string]claim)
		s.idents[pkg] = idents
		s.keys[pkg] = keys
	}

	// The same key twice in one package can never be told apart by lookup
	if first, dup := keys[decl.Key]; dup {
		firstDecl := s.res.Resources[first.index]
		return errors.NewNameCollision(decl.Location, decl.Key, firstDecl.Identifier, pkg,
			first.key, firstDecl.Declaration.Location)
	}

	if first, taken := idents[id]; taken {
		firstDecl := s.res.Resources[first.index]
		if s.opts.Collisions != CollisionSuffix {
			return errors.NewNameCollision(decl.Location, decl.Key, id, pkg,
				first.key, firstDecl.Declaration.Location)
		}

		renamed := id
		for n := 2; ; n++ {
			renamed = s.opts.Casing.suffixed(id, n)
			if _, used := idents[renamed]; !used {
				break
			}
		}
		s.res.Diagnostics = append(s.res.Diagnostics, resource.Warning(
			string(errors.WarnRenamed), decl.Location,
			"resource %q renamed to %s: %s is already used by %q (%s)",
			decl.Key, renamed, id, first.key, firstDecl.Declaration.Location))
		s.logger.Debug("renamed colliding resource",
			zap.String("key", decl.Key),
			zap.String("identifier", renamed),
			zap.String("package", pkg))
		id = renamed
	}

	c := claim{key: decl.Key, index: len(s.res.Resources)}
	idents[id] = c
	keys[decl.Key] = c
	s.res.add(resource.Resolved{
		Declaration: decl,
		Identifier:  id,
		Package:     pkg,
	})
	return nil
}
