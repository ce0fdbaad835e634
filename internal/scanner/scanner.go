// Package scanner discovers resource declarations under a source root.
//
// The root is walked in lexical order and every regular file is classified by
// name: *.res.yaml and *.res.yml, *.res.toml and *.properties files hold
// declarations; any other file becomes a file reference when asset scanning
// is enabled. Declarations come out in source-location order (file order,
// then line order) so later stages report problems deterministically.
package scanner

import (
	"context"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resource"
	"github.com/resgen-dev/resgen/internal/util/paths"
)

// Options configures a scan
type Options struct {
	// ScanAssets turns every non-declaration file into a file reference
	ScanAssets bool
	// Exclude lists paths skipped during the walk (typically the output directory).
	// Entries outside root, or enclosing it, are ignored.
	Exclude []string
}

// Scanner reads declarations from a source root
type Scanner struct {
	opts   Options
	logger *zap.Logger
}

// New creates a scanner; a nil logger disables logging
func New(opts Options, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{opts: opts, logger: logger}
}

// fileKind classifies source files by name
type fileKind int

const (
	fileAsset fileKind = iota
	fileYAML
	fileTOML
	fileProperties
)

func classify(name string) fileKind {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".res.yaml"), strings.HasSuffix(lower, ".res.yml"):
		return fileYAML
	case strings.HasSuffix(lower, ".res.toml"):
		return fileTOML
	case strings.HasSuffix(lower, ".properties"):
		return fileProperties
	default:
		return fileAsset
	}
}

// IsDeclarationFile reports whether name holds declarations rather than an asset
func IsDeclarationFile(name string) bool {
	return classify(name) != fileAsset
}

// walk holds the state of one Scan call
type walk struct {
	root     string
	exclude  []string
	assets   bool
	logger   *zap.Logger
	decls    []resource.Declaration
	declFile int
	assetN   int
}

// Scan walks root and returns its declarations in source-location order.
// It fails with a scan error when root is unreadable or a declaration is malformed.
func (s *Scanner) Scan(ctx context.Context, root string) ([]resource.Declaration, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewUnreadableSource(root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewUnreadableSource(root, errors.Newf("%s is not a directory", root))
	}

	w := &walk{
		root:   root,
		assets: s.opts.ScanAssets,
		logger: s.logger,
	}
	// Only subtrees of root are skipped; an output dir enclosing root excludes nothing
	w.exclude = paths.Inside(root, s.opts.Exclude)

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errors.NewUnreadableSource(p, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}

		// Hidden files and directories are never resources
		if strings.HasPrefix(d.Name(), ".") || paths.Under(p, w.exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		return w.visit(p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scan complete",
		zap.String("root", root),
		zap.Int("declarations", len(w.decls)),
		zap.Int("declaration_files", w.declFile),
		zap.Int("assets", w.assetN))

	return w.decls, nil
}

func (w *walk) visit(p string) error {
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return errors.NewUnreadableSource(p, err)
	}
	rel = filepath.ToSlash(rel)

	kind := classify(rel)
	if kind == fileAsset {
		if !w.assets {
			return nil
		}
		w.assetN++
		w.decls = append(w.decls, resource.Declaration{
			Key:      rel,
			Kind:     resource.KindFileRef,
			Text:     rel,
			Location: resource.SourceLocation{File: rel},
		})
		return nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return errors.NewUnreadableSource(p, err)
	}

	var raws []rawDecl
	switch kind {
	case fileYAML:
		raws, err = parseYAML(data, rel)
	case fileTOML:
		raws, err = parseTOML(data, rel)
	case fileProperties:
		raws, err = parseProperties(data, rel)
	}
	if err != nil {
		return err
	}

	before := len(w.decls)
	for _, raw := range raws {
		decl, err := w.declaration(rel, raw)
		if err != nil {
			return err
		}
		w.decls = append(w.decls, decl)
	}
	w.declFile++

	w.logger.Debug("scanned declaration file",
		zap.String("file", rel),
		zap.Int("declarations", len(w.decls)-before))

	return nil
}

// rawDecl is a declaration as written, before kind and value validation
type rawDecl struct {
	key      string
	kind     string
	doc      string
	value    interface{} // nil, string, bool, int64, float64 or unsupportedValue
	children []rawDecl
	line     int
}

// unsupportedValue marks a value of a shape no kind accepts (lists, tables)
type unsupportedValue string

func (w *walk) declaration(file string, raw rawDecl) (resource.Declaration, error) {
	loc := resource.SourceLocation{File: file, Line: raw.line}

	key := strings.TrimSpace(raw.key)
	if key == "" {
		return resource.Declaration{}, errors.NewMissingKey(loc)
	}

	kind, ok := resource.ParseKind(raw.kind)
	if !ok {
		return resource.Declaration{}, errors.NewUnknownKind(loc, key, raw.kind)
	}

	decl := resource.Declaration{
		Key:      key,
		Kind:     kind,
		Doc:      strings.TrimSpace(raw.doc),
		Location: loc,
	}

	if kind == resource.KindGroup {
		if raw.value != nil {
			return decl, errors.NewInvalidValue(loc, key, kind, "groups take child resources, not a value")
		}
		for _, child := range raw.children {
			c, err := w.declaration(file, child)
			if err != nil {
				return decl, err
			}
			decl.Children = append(decl.Children, c)
		}
		return decl, nil
	}

	if len(raw.children) > 0 {
		return decl, errors.NewInvalidValue(loc, key, kind, "only groups can contain resources")
	}
	if raw.value == nil {
		return decl, errors.NewInvalidValue(loc, key, kind, "missing value")
	}
	if u, isUnsupported := raw.value.(unsupportedValue); isUnsupported {
		return decl, errors.NewInvalidValue(loc, key, kind, "value must be a scalar, got "+string(u))
	}

	switch kind {
	case resource.KindString:
		decl.Text = scalarText(raw.value)

	case resource.KindNumber:
		text, ok := canonicalNumber(raw.value)
		if !ok {
			return decl, errors.NewInvalidValue(loc, key, kind, strconv.Quote(scalarText(raw.value))+" is not a finite number")
		}
		decl.Text = text

	case resource.KindBoolean:
		switch v := raw.value.(type) {
		case bool:
			decl.Bool = v
		default:
			b, err := strconv.ParseBool(strings.TrimSpace(scalarText(v)))
			if err != nil {
				return decl, errors.NewInvalidValue(loc, key, kind, strconv.Quote(scalarText(v))+" is not true or false")
			}
			decl.Bool = b
		}

	case resource.KindFileRef:
		s, isString := raw.value.(string)
		if !isString {
			return decl, errors.NewInvalidValue(loc, key, kind, "file references must be paths")
		}
		ref, err := w.fileRef(s)
		if err != nil {
			return decl, errors.NewInvalidValue(loc, key, kind, err.Error())
		}
		decl.Text = ref
	}

	return decl, nil
}

// fileRef validates a referenced path and returns it in clean slash form
func (w *walk) fileRef(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(raw) || path.IsAbs(filepath.ToSlash(raw)) {
		return "", errors.Newf("%q must be relative to the source root", raw)
	}
	clean := path.Clean(filepath.ToSlash(raw))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Newf("%q escapes the source root", raw)
	}
	info, err := os.Stat(filepath.Join(w.root, filepath.FromSlash(clean)))
	if err != nil {
		return "", errors.Newf("%q does not exist under the source root", clean)
	}
	if info.IsDir() {
		return "", errors.Newf("%q is a directory", clean)
	}
	return clean, nil
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return formatFloat(t)
	default:
		return ""
	}
}

// canonicalNumber returns the literal form shared by every renderer:
// decimal integers, or floats that always carry a '.' or an exponent
func canonicalNumber(v interface{}) (string, bool) {
	switch t := v.(type) {
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return formatFloat(t), true
	case string:
		text := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return formatFloat(f), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
