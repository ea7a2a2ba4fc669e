package snapshot

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a unified diff of oldContents (as it exists on main)
// against newContents (as it exists in the working tree), for one spec
// path. Newly added files are not diffed here — §4.B's contract is that
// they appear only as filename markers in the spec_diff section, since
// their full contents are already present in the snapshot's file list
// tagged NewlyAddedSpec.
func unifiedDiff(path string, oldContents, newContents []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldContents)),
		B:        difflib.SplitLines(string(newContents)),
		FromFile: "main:" + path,
		ToFile:   "working-tree:" + path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// newlyAddedMarker renders the filename-only marker for a spec file that
// exists in the working tree but not on main.
func newlyAddedMarker(path string) string {
	return fmt.Sprintf("--- (none)\n+++ working-tree:%s\n(newly added, contents in snapshot)\n", path)
}
