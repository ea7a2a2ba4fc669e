package snapshot

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Smaug123/bork/internal/model"
)

// mainRef is the branch new specs and the spec diff are compared against.
const mainRef = "main"

// gitRepo wraps the subset of git plumbing the snapshotter needs, shelled
// out via os/exec following jamesonstone-kit's internal/git package idiom
// (exec.Command with cmd.Dir set to the repo root, wrapped errors via
// CombinedOutput).
type gitRepo struct {
	root string
}

func newGitRepo(root string) *gitRepo {
	return &gitRepo{root: root}
}

func (g *gitRepo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.root
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// isRepo reports whether root is inside a git working tree.
func (g *gitRepo) isRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = g.root
	return cmd.Run() == nil
}

// resolveMain confirms the main ref exists, returning VcsUnavailableError
// otherwise.
func (g *gitRepo) resolveMain() error {
	cmd := exec.Command("git", "rev-parse", "--verify", mainRef)
	cmd.Dir = g.root
	if out, err := cmd.CombinedOutput(); err != nil {
		return &model.VcsUnavailableError{
			Operation: "rev-parse --verify main",
			Message:   strings.TrimSpace(string(out)),
			Err:       err,
		}
	}
	return nil
}

// listWorkingTreeFiles enumerates files tracked by git plus untracked
// non-ignored files, excluding .git itself (git never lists its own
// metadata directory via this invocation).
func (g *gitRepo) listWorkingTreeFiles() ([]string, error) {
	out, err := g.run("ls-files", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	return splitNonEmptyLines(out), nil
}

// listMainSpecFiles enumerates the paths under specs/ as they exist on
// main, used to determine which working-tree spec files are newly added.
func (g *gitRepo) listMainSpecFiles() (map[string]bool, error) {
	out, err := g.run("ls-tree", "-r", "--name-only", mainRef, "--", specsDirName+"/")
	if err != nil {
		return nil, fmt.Errorf("git ls-tree main -- specs/: %w", err)
	}
	set := make(map[string]bool)
	for _, line := range splitNonEmptyLines(out) {
		set[line] = true
	}
	return set, nil
}

// readFileAtMain returns the bytes of path as they exist on main, or
// (nil, false, nil) if the path does not exist there.
func (g *gitRepo) readFileAtMain(path string) ([]byte, bool, error) {
	cmd := exec.Command("git", "show", fmt.Sprintf("%s:%s", mainRef, path))
	cmd.Dir = g.root
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			_ = exitErr
			return nil, false, nil
		}
		return nil, false, err
	}
	return out, true, nil
}

func splitNonEmptyLines(s string) []string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			result = append(result, l)
		}
	}
	return result
}
