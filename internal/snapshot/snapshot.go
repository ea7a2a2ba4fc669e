// Package snapshot implements bork's repo snapshotter (component B):
// enumerating the working tree, classifying each file, and computing the
// specs/ diff against main.
package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Smaug123/bork/internal/model"
)

// specsDirName is the directory whose contents are classified Spec.
const specsDirName = "specs"

// Snapshotter builds a RepoSnapshot of one repository.
type Snapshotter struct {
	root string
	git  *gitRepo
}

// New creates a Snapshotter rooted at root.
func New(root string) *Snapshotter {
	return &Snapshotter{root: root, git: newGitRepo(root)}
}

// Snapshot enumerates the working tree and classifies each file. If the
// repo is not a VCS working tree or main cannot be resolved, it returns a
// *model.VcsUnavailableError alongside a still-usable snapshot whose specs
// are all classified plainly as Spec and whose SpecDiff is nil, per §4.B's
// "snapshotting proceeds" recovery rule — callers should log the error and
// keep going, not treat it as fatal.
func (s *Snapshotter) Snapshot() (*model.RepoSnapshot, error) {
	if !s.git.isRepo() {
		snap, err := s.snapshotWithoutVcs()
		if err != nil {
			return nil, err
		}
		return snap, &model.VcsUnavailableError{
			Operation: "rev-parse --git-dir",
			Message:   "not a git working tree",
		}
	}
	if err := s.git.resolveMain(); err != nil {
		snap, snapErr := s.snapshotWithoutVcs()
		if snapErr != nil {
			return nil, snapErr
		}
		return snap, err
	}
	return s.snapshotWithVcs()
}

func (s *Snapshotter) snapshotWithoutVcs() (*model.RepoSnapshot, error) {
	paths, err := s.listAllFiles()
	if err != nil {
		return nil, err
	}

	snap := &model.RepoSnapshot{}
	for _, p := range paths {
		fs, err := s.readFile(p, model.RoleSpec)
		if err != nil {
			return nil, err
		}
		snap.Files = append(snap.Files, fs)
	}
	return snap, nil
}

func (s *Snapshotter) snapshotWithVcs() (*model.RepoSnapshot, error) {
	paths, err := s.git.listWorkingTreeFiles()
	if err != nil {
		return nil, err
	}

	mainSpecs, err := s.git.listMainSpecFiles()
	if err != nil {
		return nil, err
	}

	snap := &model.RepoSnapshot{}
	var diffSections []string

	for _, rawPath := range paths {
		role := model.RoleCode
		isSpec := rawPath == specsDirName || strings.HasPrefix(rawPath, specsDirName+"/")
		if isSpec {
			if mainSpecs[rawPath] {
				role = model.RoleSpec
			} else {
				role = model.RoleNewlyAddedSpec
			}
		}

		p, err := model.NormalizeRepoPath(rawPath)
		if err != nil {
			// A path git itself reports should always normalize; skip
			// defensively rather than fail the whole snapshot.
			continue
		}

		contents, err := os.ReadFile(filepath.Join(s.root, rawPath))
		if err != nil {
			if os.IsNotExist(err) {
				continue // race with a concurrent working-tree edit; skip
			}
			return nil, err
		}

		fs := model.FileSnapshot{Path: p, Contents: contents, Role: role}
		attachFrontmatter(&fs)
		snap.Files = append(snap.Files, fs)

		switch role {
		case model.RoleSpec:
			oldContents, ok, err := s.git.readFileAtMain(rawPath)
			if err != nil {
				return nil, err
			}
			if ok {
				section, err := unifiedDiff(rawPath, oldContents, contents)
				if err != nil {
					return nil, err
				}
				if section != "" {
					diffSections = append(diffSections, section)
				}
			}
		case model.RoleNewlyAddedSpec:
			diffSections = append(diffSections, newlyAddedMarker(rawPath))
		}
	}

	if len(diffSections) > 0 {
		diffText := strings.Join(diffSections, "\n")
		snap.SpecDiff = &diffText
	}

	return snap, nil
}

// listAllFiles walks the working tree directly (used only when there is no
// VCS to ask), skipping the .git directory if present despite isRepo()
// having returned false for some other reason (e.g. a bare checkout).
func (s *Snapshotter) listAllFiles() ([]string, error) {
	var out []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if info.IsDir() {
			if info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func (s *Snapshotter) readFile(rawPath string, specRole model.FileRole) (model.FileSnapshot, error) {
	p, err := model.NormalizeRepoPath(rawPath)
	if err != nil {
		return model.FileSnapshot{}, err
	}
	contents, err := os.ReadFile(filepath.Join(s.root, rawPath))
	if err != nil {
		return model.FileSnapshot{}, err
	}

	role := model.RoleCode
	if rawPath == specsDirName || strings.HasPrefix(rawPath, specsDirName+"/") {
		role = specRole
	}

	fs := model.FileSnapshot{Path: p, Contents: contents, Role: role}
	attachFrontmatter(&fs)
	return fs, nil
}

// attachFrontmatter parses fs's YAML frontmatter, if any, and sets
// fs.Frontmatter. Only specs/ documents carry meaningful frontmatter, but
// parseFrontmatter itself is role-agnostic, so non-spec files simply fail
// the "---" prefix check and are left with a nil Frontmatter.
func attachFrontmatter(fs *model.FileSnapshot) {
	if fs.Role != model.RoleSpec && fs.Role != model.RoleNewlyAddedSpec {
		return
	}
	if fm, ok := parseFrontmatter(fs.Contents); ok {
		fs.Frontmatter = &fm
	}
}
