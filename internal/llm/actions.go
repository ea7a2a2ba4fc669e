package llm

import (
	"github.com/Smaug123/bork/internal/model"
	"github.com/Smaug123/bork/internal/policy"
)

// ToRawActions converts a validated ActionPayload into the policy
// package's pre-normalization RawAction slice, one entry per
// create-or-update path (in map order is unspecified by Go, so the
// caller should not rely on ordering beyond what §4.C's "order is
// preserved only for logging" already disclaims) followed by one entry
// per delete path.
func (p *ActionPayload) ToRawActions() []policy.RawAction {
	raw := make([]policy.RawAction, 0, len(p.CreateOrUpdate)+len(p.Delete))
	for path, contents := range p.CreateOrUpdate {
		raw = append(raw, policy.RawAction{
			Kind:     model.ActionCreateOrUpdate,
			RawPath:  path,
			Contents: []byte(contents),
		})
	}
	for _, path := range p.Delete {
		raw = append(raw, policy.RawAction{
			Kind:    model.ActionDelete,
			RawPath: path,
		})
	}
	return raw
}
