package emitter

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestName is the file inside the output dir listing what the last
// successful run generated. Files named there but no longer rendered are
// orphans: Write deletes them and Stale reports them.
const ManifestName = ".resgen-manifest"

const manifestHeader = "# Generated by resgen. Do not edit."

// manifest renders the manifest for files
func manifest(files []File) File {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Path)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(manifestHeader)
	b.WriteByte('\n')
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte('\n')
	}
	return File{Path: ManifestName, Content: []byte(b.String())}
}

// readManifest returns the paths recorded in outputDir's manifest. A missing
// manifest records nothing; lines that are not safe relative paths are skipped.
func readManifest(outputDir string) []string {
	data, err := os.ReadFile(filepath.Join(outputDir, ManifestName))
	if err != nil {
		return nil
	}

	var paths []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || line == ManifestName {
			continue
		}
		if checkRelative(line) != nil {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}

// orphans returns, sorted, the manifest entries of outputDir that files no
// longer produce and that still exist as regular files
func orphans(outputDir string, files []File) []string {
	current := make(map[string]struct{}, len(files))
	for _, f := range files {
		current[f.Path] = struct{}{}
	}

	var out []string
	for _, p := range readManifest(outputDir) {
		if _, ok := current[p]; ok {
			continue
		}
		info, err := os.Lstat(filepath.Join(outputDir, filepath.FromSlash(p)))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		current[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// pruneDirs removes the directories left empty by deleting rel, stopping at outputDir
func pruneDirs(outputDir, rel string) {
	for dir := filepath.Dir(filepath.FromSlash(rel)); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if err := os.Remove(filepath.Join(outputDir, dir)); err != nil {
			return
		}
	}
}
