package checker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Smaug123/bork/internal/model"
)

func writeScript(t *testing.T, dir, name, body string) model.RepoPath {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	p, err := model.NormalizeRepoPath(name)
	require.NoError(t, err)
	return p
}

func TestRunner_NoCheckerConfigured(t *testing.T) {
	r := New(t.TempDir())
	report, err := r.Run(nil)
	require.NoError(t, err)
	require.Nil(t, report)
}

func TestRunner_ExitZeroIsClean(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "check.sh", "exit 0\n")

	report, err := New(dir).Run(&p)
	require.NoError(t, err)
	require.Equal(t, model.OutcomeClean, report.Outcome)
}

func TestRunner_ExitOneParsesFindings(t *testing.T) {
	dir := t.TempDir()
	body := `cat <<'EOF'
{"per_file_findings":[{"provenance":"code-review","file":"main.go","finding":"missing nil check"}],
 "overall_findings":[{"provenance":"command","command":"go vet","stdout":"ok","exit_code":1}]}
EOF
exit 1
`
	p := writeScript(t, dir, "check.sh", body)

	report, err := New(dir).Run(&p)
	require.NoError(t, err)
	require.Equal(t, model.OutcomeFindings, report.Outcome)
	require.Len(t, report.PerFileFindings, 1)
	require.Equal(t, "missing nil check", report.PerFileFindings[0].Finding)
	require.NotNil(t, report.PerFileFindings[0].File)
	require.Equal(t, "main.go", report.PerFileFindings[0].File.String())
	require.Len(t, report.OverallFindings, 1)
	require.Equal(t, "go vet", report.OverallFindings[0].Command)
}

func TestRunner_ExitOneWithUnparsableStdoutFails(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "check.sh", "echo 'not json'\nexit 1\n")

	_, err := New(dir).Run(&p)
	require.Error(t, err)
	var checkerErr *model.CheckerFailedError
	require.ErrorAs(t, err, &checkerErr)
	require.Equal(t, 1, checkerErr.ExitCode)
}

func TestRunner_ExitTwoFails(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "check.sh", "echo boom 1>&2\nexit 2\n")

	_, err := New(dir).Run(&p)
	require.Error(t, err)
	var checkerErr *model.CheckerFailedError
	require.ErrorAs(t, err, &checkerErr)
	require.Equal(t, 2, checkerErr.ExitCode)
}

func TestRunner_OtherExitCodeFails(t *testing.T) {
	dir := t.TempDir()
	p := writeScript(t, dir, "check.sh", "exit 17\n")

	_, err := New(dir).Run(&p)
	require.Error(t, err)
	var checkerErr *model.CheckerFailedError
	require.ErrorAs(t, err, &checkerErr)
	require.Equal(t, 17, checkerErr.ExitCode)
}

func TestRunner_NonUTF8CommandFindingSanitized(t *testing.T) {
	dir := t.TempDir()
	body := "printf '{\"overall_findings\":[{\"provenance\":\"command\",\"command\":\"x\",\"stdout\":\"\\xff\\xfe\"}]}'\nexit 1\n"
	p := writeScript(t, dir, "check.sh", body)

	report, err := New(dir).Run(&p)
	require.NoError(t, err)
	require.Equal(t, model.NonUTF8Sentinel, report.OverallFindings[0].Stdout)
}
