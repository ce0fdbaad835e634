package scanner

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/resgen-dev/resgen/internal/errors"
	"github.com/resgen-dev/resgen/internal/resource"
)

// yamlFields are the keys a resource entry may carry
var yamlFields = []string{"key", "kind", "value", "doc", "resources"}

// yamlDecl mirrors one entry of a resources list
type yamlDecl struct {
	Key       string    `yaml:"key"`
	Kind      string    `yaml:"kind"`
	Value     yaml.Node `yaml:"value"`
	Doc       string    `yaml:"doc"`
	Resources yaml.Node `yaml:"resources"`
}

// parseYAML reads a *.res.yaml file. The node API is used so every
// declaration keeps the line it was written on.
func parseYAML(data []byte, file string) ([]rawDecl, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewMalformedFile(resource.SourceLocation{File: file}, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.NewMalformedFile(
			resource.SourceLocation{File: file, Line: top.Line},
			errors.New("expected a mapping with a resources list"))
	}

	if err := yamlKnownFields(top, file, "resources"); err != nil {
		return nil, err
	}

	var list *yaml.Node
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value == "resources" {
			list = top.Content[i+1]
			break
		}
	}
	if list == nil {
		return nil, errors.NewMalformedFile(
			resource.SourceLocation{File: file, Line: top.Line},
			errors.New("missing resources list"))
	}

	return yamlList(list, file)
}

func yamlList(list *yaml.Node, file string) ([]rawDecl, error) {
	if list.Kind == 0 || (list.Kind == yaml.ScalarNode && list.Tag == "!!null") {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, errors.NewMalformedFile(
			resource.SourceLocation{File: file, Line: list.Line},
			errors.New("resources must be a list"))
	}

	out := make([]rawDecl, 0, len(list.Content))
	for _, item := range list.Content {
		if item.Kind != yaml.MappingNode {
			return nil, errors.NewMalformedFile(
				resource.SourceLocation{File: file, Line: item.Line},
				errors.New("each resource must be a mapping"))
		}

		if err := yamlKnownFields(item, file, yamlFields...); err != nil {
			return nil, err
		}

		var d yamlDecl
		if err := item.Decode(&d); err != nil {
			return nil, errors.NewMalformedFile(resource.SourceLocation{File: file, Line: item.Line}, err)
		}

		raw := rawDecl{
			key:   d.Key,
			kind:  d.Kind,
			doc:   d.Doc,
			value: yamlValue(&d.Value),
			line:  item.Line,
		}
		children, err := yamlList(&d.Resources, file)
		if err != nil {
			return nil, err
		}
		raw.children = children
		out = append(out, raw)
	}
	return out, nil
}

// yamlKnownFields rejects mapping keys outside allowed, reporting the line of the first one
func yamlKnownFields(m *yaml.Node, file string, allowed ...string) error {
	var unknown []string
	line := 0
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := m.Content[i]
		if contains(allowed, k.Value) {
			continue
		}
		if line == 0 {
			line = k.Line
		}
		unknown = append(unknown, k.Value)
	}
	if len(unknown) == 0 {
		return nil
	}
	return errors.NewMalformedFile(
		resource.SourceLocation{File: file, Line: line},
		errors.Newf("unknown fields: %s", strings.Join(unknown, ", ")))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// yamlValue keeps scalars as their literal text; the declaration's kind decides how it is read
func yamlValue(n *yaml.Node) interface{} {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case 0:
		return nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	case yaml.SequenceNode:
		return unsupportedValue("a list")
	case yaml.MappingNode:
		return unsupportedValue("a mapping")
	default:
		return unsupportedValue("a document")
	}
}
