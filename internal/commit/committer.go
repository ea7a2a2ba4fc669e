// Package commit implements bork's filesystem committer (component F):
// symlink-resistant, atomic application of validated Actions to the
// working tree.
package commit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Smaug123/bork/internal/model"
)

// Committer applies accepted Actions to a repository rooted at RepoRoot.
//
// The anti-symlink walk below is lexical-then-Lstat, not a true
// parent-directory-relative (openat-style) traversal: each ancestor
// directory is Lstat'd by path before use, which leaves a TOCTOU window
// between that check and the eventual write or delete if something else
// on the system races to replace a directory with a symlink in between.
// Platforms that expose openat/fstatat-style relative lookups can close
// this window; this implementation documents it instead, per §4.F and §9.
type Committer struct {
	RepoRoot string
}

// New creates a Committer rooted at repoRoot.
func New(repoRoot string) *Committer {
	return &Committer{RepoRoot: repoRoot}
}

// CommitCreateOrUpdate writes action's contents to its target path,
// creating missing parent directories, and refusing to follow or replace
// any symlinked component on the way.
func (c *Committer) CommitCreateOrUpdate(action model.Action) error {
	if action.Kind != model.ActionCreateOrUpdate {
		return fmt.Errorf("CommitCreateOrUpdate called with kind %v", action.Kind)
	}

	segments := action.Path.Segments()
	dirSegments := segments[:len(segments)-1]

	dir, err := c.walkAndCreateDirs(dirSegments, action.Path)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, segments[len(segments)-1])

	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		// Re-verify no ancestor above the symlink is itself a symlink
		// before removing it, narrowing (not closing) the race window.
		if _, err := c.walkAndCreateDirs(dirSegments, action.Path); err != nil {
			return err
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("remove symlinked target %q: %w", action.Path, err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".bork.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", action.Path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(action.Contents); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file for %q: %w", action.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file for %q: %w", action.Path, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename into place for %q: %w", action.Path, err)
	}

	return nil
}

// CommitDelete removes action's target. A missing target is a no-op
// (idempotent, §8 P4). The delete never follows a symlink: os.Remove
// removes the final path component itself rather than whatever it points
// to, and the ancestor walk refuses any symlinked directory above it.
func (c *Committer) CommitDelete(action model.Action) error {
	if action.Kind != model.ActionDelete {
		return fmt.Errorf("CommitDelete called with kind %v", action.Kind)
	}

	segments := action.Path.Segments()
	dirSegments := segments[:len(segments)-1]

	dir, err := c.walkExistingDirs(dirSegments, action.Path)
	if err != nil {
		return err
	}
	if dir == "" {
		// An ancestor directory is missing; target cannot exist either.
		return nil
	}

	target := filepath.Join(dir, segments[len(segments)-1])
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete %q: %w", action.Path, err)
	}
	return nil
}

// walkAndCreateDirs walks dirSegments from RepoRoot outward, refusing any
// symlinked component, and creates missing directories as real
// directories. It returns the full path of the final directory.
func (c *Committer) walkAndCreateDirs(dirSegments []string, fullPath model.RepoPath) (string, error) {
	current := c.RepoRoot
	for _, seg := range dirSegments {
		current = filepath.Join(current, seg)

		info, err := os.Lstat(current)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("stat %q: %w", current, err)
			}
			if err := os.Mkdir(current, 0o755); err != nil && !os.IsExist(err) {
				return "", fmt.Errorf("create directory %q: %w", current, err)
			}
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return "", &model.SymlinkInPathError{Path: fullPath, Component: seg}
		}
		if !info.IsDir() {
			return "", fmt.Errorf("path component %q is not a directory", current)
		}
	}
	return current, nil
}

// walkExistingDirs walks dirSegments the same way walkAndCreateDirs does,
// but never creates anything: if a component is missing, it returns ""
// with no error (the target path cannot exist either).
func (c *Committer) walkExistingDirs(dirSegments []string, fullPath model.RepoPath) (string, error) {
	current := c.RepoRoot
	for _, seg := range dirSegments {
		current = filepath.Join(current, seg)

		info, err := os.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return "", nil
			}
			return "", fmt.Errorf("stat %q: %w", current, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return "", &model.SymlinkInPathError{Path: fullPath, Component: seg}
		}
		if !info.IsDir() {
			return "", nil
		}
	}
	return current, nil
}
