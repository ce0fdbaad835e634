package emitter

import (
	"strconv"

	"golang.org/x/tools/imports"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resolver"
	"github.com/resgen-dev/resgen/internal/resource"
)

// goHeader marks the file as generated for go vet and linters
const goHeader = "// Code generated by resgen. DO NOT EDIT."

// goFileName is the file written for every package
const goFileName = "resources.go"

var goKeywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
}

// goRenderer emits one resources.go per package with typed constants
type goRenderer struct{}

func (goRenderer) Type() string { return "go" }

func (goRenderer) Naming() Naming {
	return Naming{
		Casing:      resolver.CasingPascal,
		Initialisms: true,
		Keywords:    goKeywords,
		// init may only name a func at package scope
		Reserved: []string{"Files", "init"},
		Packages: []string{"main", "init"},
	}
}

func (goRenderer) Dependencies(Options) []string { return nil }

func (g goRenderer) Render(pkg Package, opts Options) ([]File, error) {
	w := newCodeWriter("\t")

	w.line(goHeader)
	w.line("")
	w.line("// Package %s holds generated resource constants.", pkg.Base())
	w.line("package %s", pkg.Base())

	var files []string
	if len(pkg.Resources) > 0 {
		w.line("")
		w.line("const (")
		w.indent++
		for i, res := range pkg.Resources {
			value, err := g.literal(res)
			if err != nil {
				return nil, err
			}
			if doc := docLines(res.Declaration.Doc); len(doc) > 0 {
				if i > 0 {
					w.line("")
				}
				for _, l := range doc {
					w.line("// %s", l)
				}
			}
			w.line("%s = %s", res.Identifier, value)
			if res.Declaration.Kind == resource.KindFileRef {
				files = append(files, res.Identifier)
			}
		}
		w.indent--
		w.line(")")
	}

	if len(files) > 0 {
		w.line("")
		w.line("// Files lists every file reference in declaration order.")
		w.line("var Files = []string{")
		w.indent++
		for _, id := range files {
			w.line("%s,", id)
		}
		w.indent--
		w.line("}")
	}

	path := pkg.Dir() + "/" + goFileName
	src, err := imports.Process(path, w.bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.NewRenderFailed(resource.SourceLocation{}, path, err.Error())
	}

	return []File{{Path: path, Content: src}}, nil
}

func (goRenderer) literal(res resource.Resolved) (string, error) {
	d := res.Declaration
	switch d.Kind {
	case resource.KindString, resource.KindFileRef:
		return strconv.Quote(d.Text), nil
	case resource.KindNumber:
		if _, err := strconv.ParseFloat(d.Text, 64); err != nil {
			return "", errors.NewRenderFailed(d.Location, d.Key, strconv.Quote(d.Text)+" is not a number")
		}
		return d.Text, nil
	case resource.KindBoolean:
		return strconv.FormatBool(d.Bool), nil
	default:
		return "", unsupportedKind("go", res)
	}
}
