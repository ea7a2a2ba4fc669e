package policy

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Smaug123/bork/internal/model"
)

// PathRejection pairs a syntactically invalid raw path with the error that
// rejected it, for the logged-but-non-halting diagnostic required by §4.E
// step 1.
type PathRejection struct {
	RawPath string
	Err     *model.PathSyntaxInvalidError
}

// RejectedPrinted pairs an Action with the reason it was rejected after
// passing syntax validation (Immutable write), so the caller can print its
// attempted contents to the diagnostic stream per §4.E step 2.
type RejectedPrinted struct {
	Action model.Action
	Err    error
}

// Result is the outcome of validating one ActionSet: three disjoint
// ordered sets (accepted, approval-pending, rejected-and-printed) plus the
// path-syntax rejections that never became Actions at all.
type Result struct {
	Accepted        model.ActionSet
	ApprovalPending *orderedmap.OrderedMap[string, model.Action]
	RejectedPrinted []RejectedPrinted
	PathRejections  []PathRejection
}

// Validator vets proposed Actions against the safety policy in the fixed
// order §4.E specifies: path syntax, then immutability, then
// approval-required, then accept. The first failure determines
// disposition.
type Validator struct {
	classifier *Classifier
}

// NewValidator builds a Validator from a Config-derived Classifier.
func NewValidator(classifier *Classifier) *Validator {
	return &Validator{classifier: classifier}
}

// Validate vets every Action in raw (as parsed from the LLM reply, where
// raw path strings have not yet been normalized) and returns the
// four-way disposition described in §4.E.
func (v *Validator) Validate(raw []RawAction) Result {
	result := Result{
		ApprovalPending: orderedmap.New[string, model.Action](),
	}

	for _, ra := range raw {
		p, err := model.NormalizeRepoPath(ra.RawPath)
		if err != nil {
			result.PathRejections = append(result.PathRejections, PathRejection{
				RawPath: ra.RawPath,
				Err:     &model.PathSyntaxInvalidError{RawPath: ra.RawPath, Err: err},
			})
			continue
		}

		action := model.Action{Kind: ra.Kind, Path: p, Contents: ra.Contents}

		switch v.classifier.Classify(p) {
		case model.ClassImmutable:
			result.RejectedPrinted = append(result.RejectedPrinted, RejectedPrinted{
				Action: action,
				Err:    &model.WriteToImmutableError{Path: p},
			})
		case model.ClassApprovalRequired:
			// Last proposal for a given path wins, matching the
			// overwrite-naturally semantics of repeated Actions (§4.H);
			// Set on an existing key updates the value in place without
			// moving it to the end, so prompt-rendering order still
			// reflects first mention.
			result.ApprovalPending.Set(p.String(), action)
		default:
			result.Accepted = append(result.Accepted, action)
		}
	}

	return result
}

// RawAction is an Action as parsed straight from the LLM's JSON reply,
// before path normalization. The LLM reply is untrusted input, so its
// path strings are plain text until NormalizeRepoPath has vetted them.
type RawAction struct {
	Kind     model.ActionKind
	RawPath  string
	Contents []byte
}
