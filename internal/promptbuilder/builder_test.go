package promptbuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Smaug123/bork/internal/model"
)

func mustPath(t *testing.T, raw string) model.RepoPath {
	t.Helper()
	p, err := model.NormalizeRepoPath(raw)
	require.NoError(t, err)
	return p
}

func TestBuild_IncludesPreambleAndFiles(t *testing.T) {
	snap := &model.RepoSnapshot{
		Files: []model.FileSnapshot{
			{Path: mustPath(t, "main.go"), Contents: []byte("package main\n"), Role: model.RoleCode},
			{Path: mustPath(t, "specs/foo.md"), Contents: []byte("# Foo\n"), Role: model.RoleSpec},
		},
	}

	prompt, err := Build(snap, nil)
	require.NoError(t, err)
	require.Contains(t, prompt, "create-or-update")
	require.Contains(t, prompt, "main.go")
	require.Contains(t, prompt, "package main")
	require.Contains(t, prompt, "specs/foo.md")
	require.Contains(t, prompt, "role=Spec")
}

func TestBuild_RendersFrontmatterInFileHeader(t *testing.T) {
	snap := &model.RepoSnapshot{Files: []model.FileSnapshot{
		{
			Path:        mustPath(t, "specs/foo.md"),
			Contents:    []byte("---\nkind: spec\ntitle: Foo Behavior\n---\n# Foo\n"),
			Role:        model.RoleSpec,
			Frontmatter: &model.SpecFrontmatter{Kind: "spec", Title: "Foo Behavior"},
		},
	}}

	prompt, err := Build(snap, nil)
	require.NoError(t, err)
	require.Contains(t, prompt, "kind=spec")
	require.Contains(t, prompt, "title=Foo Behavior")
}

func TestBuild_OmitsFrontmatterFieldsWhenAbsent(t *testing.T) {
	snap := &model.RepoSnapshot{Files: []model.FileSnapshot{
		{Path: mustPath(t, "main.go"), Contents: []byte("package main\n"), Role: model.RoleCode},
	}}

	prompt, err := Build(snap, nil)
	require.NoError(t, err)
	require.NotContains(t, prompt, "kind=")
	require.NotContains(t, prompt, "title=")
}

func TestBuild_BoundaryTokenIsUnique(t *testing.T) {
	snap := &model.RepoSnapshot{Files: []model.FileSnapshot{
		{Path: mustPath(t, "a.txt"), Contents: []byte("x"), Role: model.RoleCode},
	}}

	first, err := Build(snap, nil)
	require.NoError(t, err)
	second, err := Build(snap, nil)
	require.NoError(t, err)

	firstBoundary := extractBoundary(t, first)
	secondBoundary := extractBoundary(t, second)
	require.NotEqual(t, firstBoundary, secondBoundary, "boundary token must be regenerated fresh per prompt")
}

func extractBoundary(t *testing.T, prompt string) string {
	t.Helper()
	idx := strings.Index(prompt, "boundary token \"")
	require.GreaterOrEqual(t, idx, 0)
	rest := prompt[idx+len("boundary token \""):]
	end := strings.Index(rest, "\"")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

func TestBuild_IncludesSpecDiffWhenPresent(t *testing.T) {
	diff := "--- main:specs/foo.md\n+++ working-tree:specs/foo.md\n@@ -1 +1 @@\n-old\n+new\n"
	snap := &model.RepoSnapshot{
		Files:    []model.FileSnapshot{{Path: mustPath(t, "specs/foo.md"), Contents: []byte("new"), Role: model.RoleSpec}},
		SpecDiff: &diff,
	}

	prompt, err := Build(snap, nil)
	require.NoError(t, err)
	require.Contains(t, prompt, "SPEC DIFF")
	require.Contains(t, prompt, "-old")
	require.Contains(t, prompt, "+new")
}

func TestBuild_OmitsSpecDiffWhenAbsent(t *testing.T) {
	snap := &model.RepoSnapshot{Files: []model.FileSnapshot{
		{Path: mustPath(t, "a.txt"), Contents: []byte("x"), Role: model.RoleCode},
	}}

	prompt, err := Build(snap, nil)
	require.NoError(t, err)
	require.NotContains(t, prompt, "SPEC DIFF")
}

func TestBuild_IncludesFindingsWhenPresent(t *testing.T) {
	path := mustPath(t, "main.go")
	findings := &model.CheckerReport{
		PerFileFindings: []model.Finding{
			{Provenance: model.ProvenanceCodeReview, File: &path, Finding: "missing error check"},
		},
		OverallFindings: []model.Finding{
			{Provenance: model.ProvenanceCommand, Command: "go vet", ExitCode: 1, Stdout: "vet failed"},
		},
	}

	snap := &model.RepoSnapshot{Files: []model.FileSnapshot{
		{Path: path, Contents: []byte("package main\n"), Role: model.RoleCode},
	}}

	prompt, err := Build(snap, findings)
	require.NoError(t, err)
	require.Contains(t, prompt, "PRIOR CHECKER FINDINGS")
	require.Contains(t, prompt, "missing error check")
	require.Contains(t, prompt, "go vet")
}

func TestBuild_OmitsFindingsSectionWhenEmpty(t *testing.T) {
	snap := &model.RepoSnapshot{Files: []model.FileSnapshot{
		{Path: mustPath(t, "a.txt"), Contents: []byte("x"), Role: model.RoleCode},
	}}

	empty := &model.CheckerReport{}
	prompt, err := Build(snap, empty)
	require.NoError(t, err)
	require.NotContains(t, prompt, "PRIOR CHECKER FINDINGS")
}
