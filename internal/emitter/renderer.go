package emitter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
)

// Package is the set of resources that share one generated source unit
type Package struct {
	// Name is the dotted package name (com.example.res)
	Name      string
	Resources []resource.Resolved
}

// Dir returns the slash-separated directory of the package below the output dir
func (p Package) Dir() string {
	return strings.ReplaceAll(p.Name, ".", "/")
}

// Base returns the last package segment
func (p Package) Base() string {
	if i := strings.LastIndexByte(p.Name, '.'); i >= 0 {
		return p.Name[i+1:]
	}
	return p.Name
}

// File is a rendered output file
type File struct {
	// Path is slash-separated and relative to the output dir
	Path    string
	Content []byte
}

// Options carries the generation settings renderers care about
type Options struct {
	InjectDependencies bool
	AnnotationsVersion string
}

// Naming describes the identifier rules of a renderer's target language
type Naming struct {
	// Casing is applied when the configured casing is auto
	Casing      resolver.Casing
	Initialisms bool
	Keywords    []string
	// Reserved are names the renderer declares next to the resources
	Reserved []string
	// Packages are valid identifiers the target language does not accept as a package name
	Packages []string
}

// Renderer turns resolved packages into source files for one generation type
type Renderer interface {
	// Type returns the generation type name (go, java, properties)
	Type() string
	// Naming returns the identifier rules of the target language
	Naming() Naming
	// Render produces the files of a single package
	Render(pkg Package, opts Options) ([]File, error)
	// Dependencies lists compile-only dependencies the generated code needs
	Dependencies(opts Options) []string
}

var renderers = map[string]Renderer{}

func register(r Renderer) {
	renderers[r.Type()] = r
}

func init() {
	register(goRenderer{})
	register(javaRenderer{})
	register(propertiesRenderer{})
}

// Types returns every supported generation type in sorted order
func Types() []string {
	types := make([]string, 0, len(renderers))
	for t := range renderers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Lookup returns the renderer for a generation type
func Lookup(typ string) (Renderer, error) {
	r, ok := renderers[strings.ToLower(strings.TrimSpace(typ))]
	if !ok {
		return nil, errors.NewUnsupportedGenerationType(typ, Types())
	}
	return r, nil
}

// jetbrainsAnnotations is the dependency notation added when annotations are injected
func jetbrainsAnnotations(version string) string {
	if version == "" {
		version = DefaultAnnotationsVersion
	}
	return "org.jetbrains:annotations:" + version
}

// DefaultAnnotationsVersion is the org.jetbrains:annotations release referenced by default
const DefaultAnnotationsVersion = "23.0.0"

// codeWriter builds indented source text
type codeWriter struct {
	buf    bytes.Buffer
	indent int
	unit   string
}

func newCodeWriter(unit string) *codeWriter {
	return &codeWriter{unit: unit}
}

func (w *codeWriter) line(format string, args ...interface{}) {
	if format == "" {
		w.buf.WriteString("\n")
		return
	}

	for i := 0; i < w.indent; i++ {
		w.buf.WriteString(w.unit)
	}
	if len(args) > 0 {
		fmt.Fprintf(&w.buf, format, args...)
	} else {
		w.buf.WriteString(format)
	}
	w.buf.WriteString("\n")
}

func (w *codeWriter) bytes() []byte {
	return w.buf.Bytes()
}

// unsupportedKind reports a resource the renderer has no representation for
func unsupportedKind(typ string, res resource.Resolved) error {
	return errors.NewRenderFailed(res.Declaration.Location, res.Declaration.Key,
		fmt.Sprintf("%s output cannot represent %s resources", typ, res.Declaration.Kind))
}

// docLines splits a doc string into comment lines
func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
