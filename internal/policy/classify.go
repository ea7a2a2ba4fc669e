// Package policy implements bork's safety policy: ProtectionClass
// classification and the action validator (component E).
package policy

import (
	"github.com/Smaug123/bork/internal/model"
)

var (
	specsPrefix, _  = model.NormalizeRepoPath("specs")
	gitPrefix, _    = model.NormalizeRepoPath(".git")
	configFile, _   = model.NormalizeRepoPath(".config/bork.json")
)

// Classifier decides the ProtectionClass of a RepoPath against a Config.
// Classification is a pure function of the path and the config: every
// path has exactly one class, and Immutable dominates ApprovalRequired
// dominates Free when more than one rule matches (§3).
type Classifier struct {
	approvalPaths []model.RepoPath
	checkerPath   *model.RepoPath
}

// NewClassifier builds a Classifier from a validated Config. The
// correctness checker's own path is itself ApprovalRequired, per the
// Open Question in §9 resolved in favor of the stricter reading.
func NewClassifier(cfg *model.Config) *Classifier {
	return &Classifier{
		approvalPaths: cfg.EditsRequireApproval,
		checkerPath:   cfg.CorrectnessChecker,
	}
}

// Classify returns the ProtectionClass of p.
func (c *Classifier) Classify(p model.RepoPath) model.ProtectionClass {
	if p.Equal(gitPrefix) || p.HasPrefix(gitPrefix) {
		return model.ClassImmutable
	}
	if p.Equal(configFile) {
		return model.ClassImmutable
	}

	if p.HasPrefix(specsPrefix) {
		return model.ClassApprovalRequired
	}
	if c.checkerPath != nil && p.Equal(*c.checkerPath) {
		return model.ClassApprovalRequired
	}
	for _, ap := range c.approvalPaths {
		if p.Equal(ap) || p.HasPrefix(ap) {
			return model.ClassApprovalRequired
		}
	}

	return model.ClassFree
}
