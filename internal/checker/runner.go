// Package checker runs the configured correctness-checker subprocess and
// maps its exit code and stdout into a model.CheckerReport (component G).
package checker

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"unicode/utf8"

	"github.com/Smaug123/bork/internal/model"
)

// Runner invokes the configured checker executable with no arguments and
// CWD set to the repo root, following jamesonstone-kit's internal/git
// exec.Command + cmd.Dir idiom.
type Runner struct {
	repoRoot string
}

// New builds a Runner rooted at repoRoot.
func New(repoRoot string) *Runner {
	return &Runner{repoRoot: repoRoot}
}

// checkerJSON is the on-the-wire shape a checker's stdout must match on
// exit 1, mirroring model.CheckerReport's field names.
type checkerJSON struct {
	PerFileFindings []findingJSON `json:"per_file_findings"`
	OverallFindings []findingJSON `json:"overall_findings"`
}

type findingJSON struct {
	Provenance string `json:"provenance"`
	File       string `json:"file,omitempty"`
	Finding    string `json:"finding,omitempty"`
	Command    string `json:"command,omitempty"`
	Stdout     string `json:"stdout,omitempty"`
	Stderr     string `json:"stderr,omitempty"`
	ExitCode   int    `json:"exit_code,omitempty"`
}

// Run executes checkerPath (repo-relative) and classifies the outcome per
// §4.G's exit-code contract. If checkerPath is nil the checker is not
// invoked and Run returns (nil, nil) — the caller treats an absent
// checker as "no verification configured", distinct from Clean.
func (r *Runner) Run(checkerPath *model.RepoPath) (*model.CheckerReport, error) {
	if checkerPath == nil {
		return nil, nil
	}

	execPath := filepath.Join(r.repoRoot, checkerPath.String())
	cmd := exec.Command(execPath)
	cmd.Dir = r.repoRoot

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return nil, &model.CheckerFailedError{
				ExitCode: -1,
				Message:  "failed to start checker: " + runErr.Error(),
				Err:      runErr,
			}
		}
		exitCode = exitErr.ExitCode()
	}

	switch exitCode {
	case 0:
		return &model.CheckerReport{Outcome: model.OutcomeClean}, nil
	case 1:
		report, err := parseCheckerReport(stdout.Bytes())
		if err != nil {
			return nil, &model.CheckerFailedError{
				ExitCode: 1,
				Message:  "checker exited 1 but stdout did not parse as a CheckerReport: " + err.Error(),
				Err:      err,
			}
		}
		report.Outcome = model.OutcomeFindings
		return report, nil
	default:
		return nil, &model.CheckerFailedError{
			ExitCode: exitCode,
			Message:  stderrSummary(sanitizeOutput(stderr.Bytes())),
		}
	}
}

func parseCheckerReport(stdout []byte) (*model.CheckerReport, error) {
	var raw checkerJSON
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return nil, err
	}

	report := &model.CheckerReport{
		PerFileFindings: make([]model.Finding, 0, len(raw.PerFileFindings)),
		OverallFindings: make([]model.Finding, 0, len(raw.OverallFindings)),
	}
	for _, f := range raw.PerFileFindings {
		report.PerFileFindings = append(report.PerFileFindings, toFinding(f))
	}
	for _, f := range raw.OverallFindings {
		report.OverallFindings = append(report.OverallFindings, toFinding(f))
	}
	return report, nil
}

func toFinding(f findingJSON) model.Finding {
	finding := model.Finding{
		Provenance: model.FindingProvenance(f.Provenance),
		Finding:    f.Finding,
		Command:    f.Command,
		ExitCode:   f.ExitCode,
		Stdout:     sanitizeText(f.Stdout),
		Stderr:     sanitizeText(f.Stderr),
	}
	if f.File != "" {
		if p, err := model.NormalizeRepoPath(f.File); err == nil {
			finding.File = &p
		}
	}
	return finding
}

// sanitizeText replaces non-UTF-8 content with model.NonUTF8Sentinel.
// §4.G only mandates this for Command findings the runner itself
// constructs, but a checker-supplied Command finding's stdout/stderr is
// equally untrusted bytes-as-text, so the same guard applies uniformly.
func sanitizeText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return model.NonUTF8Sentinel
}

func sanitizeOutput(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return model.NonUTF8Sentinel
}

func stderrSummary(s string) string {
	const maxLen = 2000
	if len(s) > maxLen {
		return s[:maxLen] + "... (truncated)"
	}
	return s
}
