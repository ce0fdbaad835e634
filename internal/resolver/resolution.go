package resolver

import (
	"sort"

	"github.com/resgen-dev/resgen/internal/resource"
)

// Resolution is the output of Resolve: every resource in declaration order,
// plus the rawKey and identifier mappings per package.
type Resolution struct {
	Resources   []resource.Resolved
	Diagnostics []resource.Diagnostic

	byKey   map[lookupKey]int
	byIdent map[lookupKey]int
}

type lookupKey struct {
	pkg  string
	name string
}

func newResolution() *Resolution {
	return &Resolution{
		byKey:   make(map[lookupKey]int),
		byIdent: make(map[lookupKey]int),
	}
}

func (r *Resolution) add(res resource.Resolved) {
	i := len(r.Resources)
	r.Resources = append(r.Resources, res)
	r.byKey[lookupKey{res.Package, res.Declaration.Key}] = i
	r.byIdent[lookupKey{res.Package, res.Identifier}] = i
}

// Lookup finds the resource declared with key in pkg
func (r *Resolution) Lookup(pkg, key string) (resource.Resolved, bool) {
	i, ok := r.byKey[lookupKey{pkg, key}]
	if !ok {
		return resource.Resolved{}, false
	}
	return r.Resources[i], true
}

// LookupIdentifier finds the resource emitted as identifier in pkg
func (r *Resolution) LookupIdentifier(pkg, identifier string) (resource.Resolved, bool) {
	i, ok := r.byIdent[lookupKey{pkg, identifier}]
	if !ok {
		return resource.Resolved{}, false
	}
	return r.Resources[i], true
}

// Packages returns the distinct target packages in sorted order
func (r *Resolution) Packages() []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, res := range r.Resources {
		if !seen[res.Package] {
			seen[res.Package] = true
			pkgs = append(pkgs, res.Package)
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// InPackage returns the resources of pkg in declaration order
func (r *Resolution) InPackage(pkg string) []resource.Resolved {
	var out []resource.Resolved
	for _, res := range r.Resources {
		if res.Package == pkg {
			out = append(out, res)
		}
	}
	return out
}
