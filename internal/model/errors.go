package model

import (
	"fmt"
	"time"
)

// ConfigMalformedError reports a .config/bork.json that failed validation.
// Fatal: the harness exits 2 before any filesystem write (component A).
type ConfigMalformedError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigMalformedError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config malformed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config malformed: %s", e.Message)
}

func (e *ConfigMalformedError) Unwrap() error { return e.Err }

// RepoLockedError reports that another bork run already holds the
// process-level advisory lock on this repository. Fatal: exit 2, before
// any snapshot or commit (§5 EXPANSION).
type RepoLockedError struct {
	HolderPID int
	Age       time.Duration
	Err       error
}

func (e *RepoLockedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repository locked: %v", e.Err)
	}
	return fmt.Sprintf("repository locked by PID %d (%v ago)", e.HolderPID, e.Age.Round(time.Second))
}

func (e *RepoLockedError) Unwrap() error { return e.Err }

// VcsUnavailableError reports that the repo is not a VCS working tree, or
// that the main ref could not be resolved. Recoverable: the snapshotter
// proceeds without a spec diff (component B).
type VcsUnavailableError struct {
	Operation string
	Message   string
	Err       error
}

func (e *VcsUnavailableError) Error() string {
	return fmt.Sprintf("vcs unavailable (%s): %s", e.Operation, e.Message)
}

func (e *VcsUnavailableError) Unwrap() error { return e.Err }

// LlmUnreachableError reports a transport-level failure talking to the
// model endpoint. Fatal: exit 2 (component D).
type LlmUnreachableError struct {
	Endpoint string
	Message  string
	Err      error
}

func (e *LlmUnreachableError) Error() string {
	return fmt.Sprintf("LLM unreachable at %s: %s", e.Endpoint, e.Message)
}

func (e *LlmUnreachableError) Unwrap() error { return e.Err }

// LlmRefusedError reports that the model endpoint declined to answer on
// policy grounds. Fatal: exit 2 (component D).
type LlmRefusedError struct {
	Message string
}

func (e *LlmRefusedError) Error() string {
	return fmt.Sprintf("LLM refused: %s", e.Message)
}

// LlmReplyNotJsonError reports that no JSON object matching the action
// schema could be extracted from the reply. Fatal for the current
// iteration: zero Actions are applied, exit 2 (component D).
type LlmReplyNotJsonError struct {
	Reply string
	Err   error
}

func (e *LlmReplyNotJsonError) Error() string {
	return fmt.Sprintf("LLM reply did not contain a valid action JSON object: %v", e.Err)
}

func (e *LlmReplyNotJsonError) Unwrap() error { return e.Err }

// PathSyntaxInvalidError reports an Action whose path could not possibly
// denote a repo-relative location. Disposition: silently dropped and
// logged, loop continues (component E).
type PathSyntaxInvalidError struct {
	RawPath string
	Err     error
}

func (e *PathSyntaxInvalidError) Error() string {
	return fmt.Sprintf("path syntax invalid: %q: %v", e.RawPath, e.Err)
}

func (e *PathSyntaxInvalidError) Unwrap() error { return e.Err }

// WriteToImmutableError reports an Action targeting an Immutable path.
// Disposition: attempted contents printed to the diagnostic stream,
// Action dropped, loop continues (component E).
type WriteToImmutableError struct {
	Path RepoPath
}

func (e *WriteToImmutableError) Error() string {
	return fmt.Sprintf("write to immutable path %q rejected", e.Path)
}

// ApprovalDeniedError reports an ApprovalRequired Action the human
// approver declined. Disposition: attempted contents printed, Action
// dropped, loop continues (component F).
type ApprovalDeniedError struct {
	Path RepoPath
}

func (e *ApprovalDeniedError) Error() string {
	return fmt.Sprintf("approval denied for %q", e.Path)
}

// SymlinkInPathError reports that a directory component on the path to an
// Action's target is a symlink. Disposition: Action dropped, per-file
// error surfaced to the operator, loop continues (component F).
type SymlinkInPathError struct {
	Path      RepoPath
	Component string
}

func (e *SymlinkInPathError) Error() string {
	return fmt.Sprintf("symlink in path %q at component %q", e.Path, e.Component)
}

// CheckerFailedError reports that the correctness checker could not
// produce a usable verdict (non-zero/non-one exit, or exit 1 with stdout
// that does not parse as a CheckerReport). Fatal: exit 2 (component G).
type CheckerFailedError struct {
	ExitCode int
	Message  string
	Err      error
}

func (e *CheckerFailedError) Error() string {
	return fmt.Sprintf("checker failed (exit %d): %s", e.ExitCode, e.Message)
}

func (e *CheckerFailedError) Unwrap() error { return e.Err }

// IterationCapExceededError reports that the loop reached its 5-iteration
// cap with unresolved findings. Disposition: non-fatal terminal state
// (terminate-escalate), exit 1 (component H).
type IterationCapExceededError struct {
	Iterations int
}

func (e *IterationCapExceededError) Error() string {
	return fmt.Sprintf("iteration cap exceeded after %d iterations", e.Iterations)
}
