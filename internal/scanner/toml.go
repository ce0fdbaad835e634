package scanner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resource"
)

type tomlFile struct {
	Resources []tomlDecl `toml:"resources"`
}

type tomlDecl struct {
	Key       string      `toml:"key"`
	Kind      string      `toml:"kind"`
	Value     interface{} `toml:"value"`
	Doc       string      `toml:"doc"`
	Resources []tomlDecl  `toml:"resources"`
}

// tomlHeader matches [[resources]], [[resources.resources]] and deeper
var tomlHeader = regexp.MustCompile(`^\s*\[\[\s*resources(\s*\.\s*resources)*\s*\]\]`)

// parseTOML reads a *.res.toml file. The decoder does not expose positions,
// so lines come from the array-of-tables headers, which appear in the same
// depth-first order as the decoded declarations.
func parseTOML(data []byte, file string) ([]rawDecl, error) {
	var f tomlFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		loc := resource.SourceLocation{File: file}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			loc.Line = perr.Position.Line
		}
		return nil, errors.NewMalformedFile(loc, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, errors.NewMalformedFile(
			resource.SourceLocation{File: file},
			errors.Newf("unknown fields: %s", strings.Join(keys, ", ")))
	}

	lines := headerLines(data)
	total := countTOML(f.Resources)
	if len(lines) != total {
		lines = nil
	}

	next := 0
	return tomlList(f.Resources, lines, &next), nil
}

func headerLines(data []byte) []int {
	var lines []int
	for i, line := range strings.Split(string(data), "\n") {
		if tomlHeader.MatchString(line) {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func countTOML(decls []tomlDecl) int {
	n := len(decls)
	for _, d := range decls {
		n += countTOML(d.Resources)
	}
	return n
}

func tomlList(decls []tomlDecl, lines []int, next *int) []rawDecl {
	out := make([]rawDecl, 0, len(decls))
	for _, d := range decls {
		raw := rawDecl{
			key:   d.Key,
			kind:  d.Kind,
			doc:   d.Doc,
			value: tomlValue(d.Value),
		}
		if *next < len(lines) {
			raw.line = lines[*next]
		}
		*next++
		raw.children = tomlList(d.Resources, lines, next)
		out = append(out, raw)
	}
	return out
}

func tomlValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, string, bool, int64, float64:
		return t
	case []interface{}:
		return unsupportedValue("an array")
	case map[string]interface{}:
		return unsupportedValue("a table")
	default:
		return unsupportedValue(fmt.Sprintf("a %T", t))
	}
}
