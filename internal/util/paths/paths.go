// Package paths holds the path checks shared by the scanner, snapshots and
// the file watcher.
package paths

import (
	"path/filepath"
	"strings"
)

// Inside returns the absolute form of each path that lies strictly below
// root. Paths equal to root, ancestors of root and unrelated paths are
// dropped, so skipping the result never hides the whole tree.
func Inside(root string, candidates []string) []string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	var out []string
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		out = append(out, abs)
	}
	return out
}

// Under reports whether p is one of dirs or lies below one of them.
// dirs must be absolute, as returned by Inside.
func Under(p string, dirs []string) bool {
	if len(dirs) == 0 {
		return false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, d := range dirs {
		if abs == d || strings.HasPrefix(abs, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Same reports whether a and b name the same location
func Same(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
