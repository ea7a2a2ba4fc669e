package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smaug123/bork/internal/model"
)

func TestValidator_Validate(t *testing.T) {
	c := NewClassifier(&model.Config{})
	v := NewValidator(c)

	raw := []RawAction{
		{Kind: model.ActionCreateOrUpdate, RawPath: "hello.txt", Contents: []byte("hi\n")},
		{Kind: model.ActionCreateOrUpdate, RawPath: "../evil", Contents: []byte("x")},
		{Kind: model.ActionCreateOrUpdate, RawPath: ".config/bork.json", Contents: []byte("{}")},
		{Kind: model.ActionCreateOrUpdate, RawPath: "specs/foo.md", Contents: []byte("# foo")},
		{Kind: model.ActionDelete, RawPath: "unused.txt"},
	}

	result := v.Validate(raw)

	require.Len(t, result.Accepted, 2)
	assert.Equal(t, "hello.txt", result.Accepted[0].Path.String())
	assert.Equal(t, "unused.txt", result.Accepted[1].Path.String())

	require.Len(t, result.PathRejections, 1)
	assert.Equal(t, "../evil", result.PathRejections[0].RawPath)

	require.Len(t, result.RejectedPrinted, 1)
	assert.Equal(t, ".config/bork.json", result.RejectedPrinted[0].Action.Path.String())

	require.Equal(t, 1, result.ApprovalPending.Len())
	pending, ok := result.ApprovalPending.Get("specs/foo.md")
	require.True(t, ok)
	assert.Equal(t, []byte("# foo"), pending.Contents)
}

func TestValidator_Validate_LastProposalWinsForApproval(t *testing.T) {
	c := NewClassifier(&model.Config{})
	v := NewValidator(c)

	raw := []RawAction{
		{Kind: model.ActionCreateOrUpdate, RawPath: "specs/foo.md", Contents: []byte("first")},
		{Kind: model.ActionCreateOrUpdate, RawPath: "specs/foo.md", Contents: []byte("second")},
	}

	result := v.Validate(raw)
	require.Equal(t, 1, result.ApprovalPending.Len())
	pending, ok := result.ApprovalPending.Get("specs/foo.md")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), pending.Contents)
}

func TestValidator_Validate_EmptyActionSet(t *testing.T) {
	c := NewClassifier(&model.Config{})
	v := NewValidator(c)

	result := v.Validate(nil)
	assert.Empty(t, result.Accepted)
	assert.Equal(t, 0, result.ApprovalPending.Len())
	assert.Empty(t, result.RejectedPrinted)
	assert.Empty(t, result.PathRejections)
}
