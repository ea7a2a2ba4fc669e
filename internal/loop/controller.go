// Package loop implements the reconciliation state machine (component H):
// Config → Snapshot → Prompt → LLM → Action → Validation → FS commit →
// Checker → (findings back into Prompt), bounded at model.MaxIterations.
package loop

import (
	"context"
	"fmt"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Smaug123/bork/internal/approval"
	"github.com/Smaug123/bork/internal/checker"
	"github.com/Smaug123/bork/internal/commit"
	"github.com/Smaug123/bork/internal/llm"
	"github.com/Smaug123/bork/internal/logging"
	"github.com/Smaug123/bork/internal/model"
	"github.com/Smaug123/bork/internal/policy"
	"github.com/Smaug123/bork/internal/promptbuilder"
	"github.com/Smaug123/bork/internal/snapshot"
)

// Outcome is the harness's terminal disposition, mapped 1:1 to a process
// exit code per §6.
type Outcome int

const (
	// OutcomeTerminateClean is exit 0: the checker (if configured) reported
	// zero findings on the final committed state, or no checker is
	// configured at all.
	OutcomeTerminateClean Outcome = iota
	// OutcomeTerminateEscalate is exit 1: the iteration cap was reached
	// with unresolved findings; a human must review.
	OutcomeTerminateEscalate
	// OutcomeTerminateError is exit 2: a cross-cutting failure (LLM,
	// checker, config) aborted the run.
	OutcomeTerminateError
)

// ExitCode maps an Outcome to the process exit code §6 specifies.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeTerminateEscalate:
		return 1
	case OutcomeTerminateError:
		return 2
	default:
		return 0
	}
}

// Generator is the subset of llm.Client the controller depends on,
// narrowed for testability with llm.MockGenerator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the return value of one reconciliation run.
type Result struct {
	Outcome      Outcome
	Iterations   int
	LastFindings *model.CheckerReport
	Err          error
}

// Controller owns the iteration counter and termination policy. It is
// grounded on the "state machine over strategy objects" design note
// (§9): LoopState is a plain value the controller mutates in place,
// rather than a chain of recursive closures.
type Controller struct {
	repoRoot string
	cfg      *model.Config

	snapshotter *snapshot.Snapshotter
	generator   Generator
	classifier  *policy.Classifier
	validator   *policy.Validator
	committer   *commit.Committer
	checker     *checker.Runner
	approve     approval.Callback
	lock        *commit.RunLock

	log logging.Logger
}

// New builds a Controller for one reconciliation run.
func New(repoRoot string, cfg *model.Config, generator Generator, approve approval.Callback, log logging.Logger) *Controller {
	classifier := policy.NewClassifier(cfg)
	return &Controller{
		repoRoot:    repoRoot,
		cfg:         cfg,
		snapshotter: snapshot.New(repoRoot),
		generator:   generator,
		classifier:  classifier,
		validator:   policy.NewValidator(classifier),
		committer:   commit.New(repoRoot),
		checker:     checker.New(repoRoot),
		approve:     approve,
		lock:        commit.NewRunLock(filepath.Join(repoRoot, ".config", "bork.lock"), log),
		log:         log,
	}
}

// Run drives the state machine from S0 to a terminal Outcome, holding the
// repo's advisory run lock for the whole call (§5 EXPANSION): a second
// concurrent bork invocation against the same repo fails fast rather than
// racing this one's commits.
func (c *Controller) Run(ctx context.Context) Result {
	if err := c.lock.Acquire(); err != nil {
		return Result{Outcome: OutcomeTerminateError, Err: err}
	}
	defer func() {
		if err := c.lock.Release(); err != nil {
			c.log.Warn("failed to release run lock", "error", err)
		}
	}()

	state := &model.LoopState{Iteration: 0, LastFindings: nil}

	for {
		state.Iteration++

		report, err := c.queryAndCommit(ctx, state)
		if err != nil {
			return Result{Outcome: OutcomeTerminateError, Iterations: state.Iteration, Err: err}
		}

		if c.cfg.CorrectnessChecker == nil {
			return Result{Outcome: OutcomeTerminateClean, Iterations: state.Iteration}
		}

		switch report.Outcome {
		case model.OutcomeClean:
			return Result{Outcome: OutcomeTerminateClean, Iterations: state.Iteration}
		case model.OutcomeFindings:
			if state.Iteration >= model.MaxIterations {
				return Result{
					Outcome:      OutcomeTerminateEscalate,
					Iterations:   state.Iteration,
					LastFindings: report,
					Err:          &model.IterationCapExceededError{Iterations: state.Iteration},
				}
			}
			state.LastFindings = report
			continue
		default: // model.OutcomeCheckerFailed should already have errored above
			return Result{
				Outcome:    OutcomeTerminateError,
				Iterations: state.Iteration,
				Err:        fmt.Errorf("unexpected checker outcome %v", report.Outcome),
			}
		}
	}
}

// queryAndCommit runs one S1 (query) plus checker invocation (S2), in
// that order, matching the ordering guarantee in §5: all accepted
// Actions are committed before the checker observes the tree.
func (c *Controller) queryAndCommit(ctx context.Context, state *model.LoopState) (*model.CheckerReport, error) {
	snap, err := c.snapshotter.Snapshot()
	if err != nil {
		if _, ok := err.(*model.VcsUnavailableError); ok {
			c.log.Warn("snapshot proceeding without VCS", "error", err)
		} else {
			return nil, err
		}
	}

	prompt, err := promptbuilder.Build(snap, state.LastFindings)
	if err != nil {
		return nil, fmt.Errorf("assemble prompt: %w", err)
	}

	reply, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload, err := llm.ExtractActionPayload(reply)
	if err != nil {
		return nil, err
	}

	result := c.validator.Validate(payload.ToRawActions())
	c.logRejections(result)
	c.applyAccepted(result.Accepted)
	c.mediateApprovals(result.ApprovalPending)

	report, err := c.checker.Run(c.cfg.CorrectnessChecker)
	if err != nil {
		return nil, err
	}
	if report == nil {
		report = &model.CheckerReport{Outcome: model.OutcomeClean}
	}
	return report, nil
}

func (c *Controller) logRejections(result policy.Result) {
	for _, rej := range result.PathRejections {
		c.log.Warn("dropping action with invalid path", "path", rej.RawPath, "error", rej.Err)
	}
	for _, rej := range result.RejectedPrinted {
		c.log.Info("rejected write to immutable path; attempted contents follow",
			"path", rej.Action.Path.String(), "contents", string(rej.Action.Contents))
	}
}

func (c *Controller) applyAccepted(actions model.ActionSet) {
	for _, action := range actions {
		if err := c.commitOne(action); err != nil {
			c.log.Warn("dropping action after commit failure", "path", action.Path.String(), "error", err)
		}
	}
}

func (c *Controller) mediateApprovals(pending *orderedmap.OrderedMap[string, model.Action]) {
	for pair := pending.Oldest(); pair != nil; pair = pair.Next() {
		action := pair.Value
		approved := c.approve(action)
		if !approved {
			deniedErr := &model.ApprovalDeniedError{Path: action.Path}
			c.log.Info(deniedErr.Error()+"; attempted contents follow",
				"path", action.Path.String(), "contents", string(action.Contents))
			continue
		}
		if err := c.commitOne(action); err != nil {
			c.log.Warn("dropping approved action after commit failure", "path", action.Path.String(), "error", err)
		}
	}
}

func (c *Controller) commitOne(action model.Action) error {
	if action.Kind == model.ActionDelete {
		return c.committer.CommitDelete(action)
	}
	return c.committer.CommitCreateOrUpdate(action)
}
