package model

// FileRole classifies a FileSnapshot's origin relative to the specs/ vs
// code split, and relative to the main branch.
type FileRole int

const (
	RoleCode FileRole = iota
	RoleSpec
	RoleNewlyAddedSpec
)

func (r FileRole) String() string {
	switch r {
	case RoleSpec:
		return "Spec"
	case RoleNewlyAddedSpec:
		return "NewlyAddedSpec"
	default:
		return "Code"
	}
}

// FileSnapshot is one file's contents as observed at snapshot time.
type FileSnapshot struct {
	Path     RepoPath
	Contents []byte
	Role     FileRole
	// Frontmatter is the parsed YAML frontmatter of a specs/ document, or
	// nil if the file has none (or isn't a spec). Informational only; see
	// SpecFrontmatter.
	Frontmatter *SpecFrontmatter
}

// RepoSnapshot is the ordered, faithful view of the working tree and specs
// that the prompt assembler renders into one LLM request.
type RepoSnapshot struct {
	Files []FileSnapshot
	// SpecDiff is the unified diff of specs/** against main, or nil if the
	// repo is not a VCS working tree / main could not be resolved.
	SpecDiff *string
}

// ActionKind distinguishes the two Action variants the LLM reply schema
// allows.
type ActionKind int

const (
	ActionCreateOrUpdate ActionKind = iota
	ActionDelete
)

// Action is one proposed mutation from the LLM's structured reply. It is
// untrusted input until it has passed through the action validator.
type Action struct {
	Kind     ActionKind
	Path     RepoPath
	Contents []byte // only meaningful for ActionCreateOrUpdate
}

// ActionSet is the ordered sequence of Actions in one LLM reply. Order is
// preserved for logging only; application semantics are order-independent.
type ActionSet []Action

// ProtectionClass is the write-policy category of a RepoPath. Exactly one
// applies to any given path; when multiple rules would match, the
// strictest wins: Immutable dominates ApprovalRequired dominates Free.
type ProtectionClass int

const (
	ClassFree ProtectionClass = iota
	ClassApprovalRequired
	ClassImmutable
)

func (c ProtectionClass) String() string {
	switch c {
	case ClassImmutable:
		return "Immutable"
	case ClassApprovalRequired:
		return "ApprovalRequired"
	default:
		return "Free"
	}
}

// FindingProvenance distinguishes the two Finding variants the checker
// contract allows.
type FindingProvenance string

const (
	ProvenanceCodeReview FindingProvenance = "code-review"
	ProvenanceCommand    FindingProvenance = "command"
)

// NonUTF8Sentinel replaces non-UTF-8 stdout/stderr bytes in
// harness-constructed Command findings, per §4.G.
const NonUTF8Sentinel = "<non-UTF8 output>"

// Finding is a single observation surfaced by the correctness checker,
// fed back into the next iteration's prompt.
type Finding struct {
	Provenance FindingProvenance

	// CodeReview fields.
	File    *RepoPath // nil when the finding is not file-scoped
	Finding string

	// Command fields.
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// CheckerOutcome classifies a checker run by its exit code.
type CheckerOutcome int

const (
	OutcomeClean CheckerOutcome = iota
	OutcomeFindings
	OutcomeCheckerFailed
)

// CheckerReport is the structured result of one checker invocation.
type CheckerReport struct {
	PerFileFindings []Finding
	OverallFindings []Finding
	Outcome         CheckerOutcome
}

// IsEmpty reports whether the report carries no findings at all. The
// prompt assembler omits the findings section for an empty report; the
// report's Outcome is not affected (a checker exit of 1 is Findings even
// when both arrays are empty).
func (r CheckerReport) IsEmpty() bool {
	return len(r.PerFileFindings) == 0 && len(r.OverallFindings) == 0
}

// Config is bork's validated configuration, loaded from
// .config/bork.json (component A).
type Config struct {
	// CorrectnessChecker is the repo-relative path to the checker
	// executable, or nil if none is configured.
	CorrectnessChecker *RepoPath
	// EditsRequireApproval is the set of repo-relative paths (beyond the
	// built-in specs/** rule) that require human approval before write.
	EditsRequireApproval []RepoPath
}

// MaxIterations is the hard cap on reconciliation iterations (§4.H, §8 P6).
const MaxIterations = 5

// LoopState is the controller's mutable state across iterations. It is
// created at S0, mutated only by the loop controller, and discarded on
// termination.
type LoopState struct {
	Iteration    int
	LastFindings *CheckerReport
}

// SpecFrontmatter is the YAML frontmatter of a Markdown document under
// specs/ that identifies it as a spec document (see GLOSSARY). It is
// informational: classification of a file as RoleSpec is path-based
// (§4.B), not frontmatter-based.
type SpecFrontmatter struct {
	Kind  string `yaml:"kind"`
	Title string `yaml:"title,omitempty"`
}

// IsSpec reports whether the frontmatter identifies its document as a
// spec per the glossary's "kind: spec" convention.
func (f SpecFrontmatter) IsSpec() bool {
	return f.Kind == "spec"
}
