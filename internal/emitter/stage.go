package emitter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/resgen-dev/resgen/internal/errors"
)

// stagingPrefix names the temporary directory created inside the output dir.
// The leading dot keeps it out of source scans.
const stagingPrefix = ".resgen-staging-"

// WriteResult reports what Write changed below the output dir
type WriteResult struct {
	// Files holds every target path, in input order
	Files []string
	// Written is the subset of Files whose content changed
	Written []string
	// Removed lists orphans from an earlier run that were deleted
	Removed []string
}

// Stale compares files against outputDir and returns the relative paths
// that are missing or hold different content, in input order, followed by
// the sorted orphans an earlier run left behind
func (e *Emitter) Stale(outputDir string, files []File) []string {
	var stale []string
	for _, f := range files {
		if !e.hasher.Matches(filepath.Join(outputDir, filepath.FromSlash(f.Path)), f.Content) {
			stale = append(stale, f.Path)
		}
	}
	return append(stale, orphans(outputDir, files)...)
}

// Write commits files below outputDir. Files whose content is already on
// disk are left untouched, and files recorded by the previous run's manifest
// that are no longer produced are deleted. On error every change made by
// this call is undone.
func (e *Emitter) Write(ctx context.Context, outputDir string, files []File) (*WriteResult, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.NewWriteFailed(outputDir, err)
	}

	result := &WriteResult{}
	var pending []File
	for _, f := range files {
		if err := checkRelative(f.Path); err != nil {
			return nil, errors.NewWriteFailed(f.Path, err)
		}
		if f.Path == ManifestName {
			return nil, errors.NewWriteFailed(f.Path, errors.Newf("%s is reserved", ManifestName))
		}
		target := filepath.Join(outputDir, filepath.FromSlash(f.Path))
		result.Files = append(result.Files, target)
		if e.hasher.Matches(target, f.Content) {
			e.logger.Debug("unchanged", zap.String("file", f.Path))
			continue
		}
		pending = append(pending, f)
	}

	removed := orphans(outputDir, files)
	index := manifest(files)
	indexPath := filepath.Join(outputDir, ManifestName)
	_, statErr := os.Stat(indexPath)
	updateIndex := (len(files) > 0 || statErr == nil) && !e.hasher.Matches(indexPath, index.Content)
	if len(pending) == 0 && len(removed) == 0 && !updateIndex {
		return result, nil
	}

	staging, err := os.MkdirTemp(outputDir, stagingPrefix)
	if err != nil {
		return nil, errors.NewWriteFailed(outputDir, err)
	}
	defer os.RemoveAll(staging)

	staged := pending
	if updateIndex {
		staged = append(staged[:len(staged):len(staged)], index)
	}
	for _, f := range staged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := filepath.Join(staging, "new", filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, errors.NewWriteFailed(p, err)
		}
		if err := os.WriteFile(p, f.Content, 0644); err != nil {
			return nil, errors.NewWriteFailed(p, err)
		}
	}

	// Orphans go first so a new file may take the place of an old directory
	// entry; the manifest goes last so it only ever describes committed output.
	tx := &commit{outputDir: outputDir, staging: staging}
	for _, rel := range removed {
		if err := tx.remove(rel); err != nil {
			tx.rollback(e.logger)
			return nil, err
		}
	}
	for _, f := range staged {
		if err := tx.apply(f.Path); err != nil {
			tx.rollback(e.logger)
			return nil, err
		}
	}

	for _, rel := range removed {
		pruneDirs(outputDir, rel)
		result.Removed = append(result.Removed, filepath.Join(outputDir, filepath.FromSlash(rel)))
	}
	for _, f := range pending {
		result.Written = append(result.Written, filepath.Join(outputDir, filepath.FromSlash(f.Path)))
	}
	e.logger.Debug("committed files",
		zap.String("output_dir", outputDir),
		zap.Int("written", len(result.Written)),
		zap.Int("removed", len(result.Removed)),
		zap.Int("unchanged", len(result.Files)-len(result.Written)))

	return result, nil
}

func checkRelative(p string) error {
	if p == "" || filepath.IsAbs(filepath.FromSlash(p)) || strings.HasPrefix(p, "/") {
		return errors.Newf("%q is not a relative path", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return errors.Newf("%q escapes the output directory", p)
		}
	}
	return nil
}

// commit moves staged files into place and remembers how to undo it
type commit struct {
	outputDir string
	staging   string
	applied   []applied
	created   []string
}

type applied struct {
	target  string
	backup  string
	removed bool
}

func (c *commit) apply(rel string) error {
	staged := filepath.Join(c.staging, "new", filepath.FromSlash(rel))
	target := filepath.Join(c.outputDir, filepath.FromSlash(rel))

	if err := c.mkdirs(filepath.Dir(target)); err != nil {
		return errors.NewWriteFailed(target, err)
	}

	step := applied{target: target}
	if info, err := os.Lstat(target); err == nil {
		if info.IsDir() {
			return errors.NewWriteFailed(target, errors.Newf("%s is a directory", target))
		}
		step.backup = filepath.Join(c.staging, "old", filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(step.backup), 0755); err != nil {
			return errors.NewWriteFailed(target, err)
		}
		if err := os.Rename(target, step.backup); err != nil {
			return errors.NewWriteFailed(target, err)
		}
	}

	if err := os.Rename(staged, target); err != nil {
		if step.backup != "" {
			_ = os.Rename(step.backup, target)
		}
		return errors.NewWriteFailed(target, err)
	}
	c.applied = append(c.applied, step)
	return nil
}

// remove moves an orphaned file into the staging area so rollback can restore it
func (c *commit) remove(rel string) error {
	target := filepath.Join(c.outputDir, filepath.FromSlash(rel))
	backup := filepath.Join(c.staging, "old", filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(backup), 0755); err != nil {
		return errors.NewWriteFailed(target, err)
	}
	if err := os.Rename(target, backup); err != nil {
		return errors.NewWriteFailed(target, err)
	}
	c.applied = append(c.applied, applied{target: target, backup: backup, removed: true})
	return nil
}

// mkdirs creates dir and its missing parents, recording them for rollback
func (c *commit) mkdirs(dir string) error {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	for i := len(missing) - 1; i >= 0; i-- {
		if err := os.Mkdir(missing[i], 0755); err != nil && !os.IsExist(err) {
			return err
		}
		c.created = append(c.created, missing[i])
	}
	return nil
}

func (c *commit) rollback(logger *zap.Logger) {
	for i := len(c.applied) - 1; i >= 0; i-- {
		step := c.applied[i]
		if !step.removed {
			if err := os.Remove(step.target); err != nil {
				logger.Warn("rollback: remove failed", zap.String("file", step.target), zap.Error(err))
			}
		}
		if step.backup != "" {
			if err := os.Rename(step.backup, step.target); err != nil {
				logger.Warn("rollback: restore failed", zap.String("file", step.target), zap.Error(err))
			}
		}
	}
	for i := len(c.created) - 1; i >= 0; i-- {
		_ = os.Remove(c.created[i])
	}
}
