package cache

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/resgen-dev/resgen/internal/util/paths"
)

// Snapshot maps slash-separated paths, relative to a root, to content hashes
type Snapshot map[string]string

// TakeSnapshot hashes every regular, non-hidden file under root.
// Paths under any of exclude are skipped when they lie inside root.
func (fh *FileHasher) TakeSnapshot(ctx context.Context, root string, exclude ...string) (Snapshot, error) {
	skip := paths.Inside(root, exclude)

	snap := Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || paths.Under(path, skip) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		hash, err := fh.HashFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Diff returns the sorted paths added, removed or modified between s and next
func (s Snapshot) Diff(next Snapshot) []string {
	var changed []string
	for path, hash := range next {
		if prev, ok := s[path]; !ok || prev != hash {
			changed = append(changed, path)
		}
	}
	for path := range s {
		if _, ok := next[path]; !ok {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// Equal reports whether both snapshots describe identical trees
func (s Snapshot) Equal(next Snapshot) bool {
	return len(s.Diff(next)) == 0
}
