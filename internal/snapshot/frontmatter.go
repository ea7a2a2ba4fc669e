package snapshot

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/Smaug123/bork/internal/model"
)

var frontmatterDelimiter = []byte("---")

// parseFrontmatter extracts a spec document's YAML frontmatter, if any.
// The glossary defines a Spec as "a Markdown document under specs/ with
// YAML frontmatter identifying it as kind: spec"; this is informational
// for the prompt assembler's per-file headers, not a reclassification
// signal (§3.1) — classification stays path-based regardless of what the
// frontmatter says.
func parseFrontmatter(contents []byte) (model.SpecFrontmatter, bool) {
	if !bytes.HasPrefix(contents, frontmatterDelimiter) {
		return model.SpecFrontmatter{}, false
	}

	rest := contents[len(frontmatterDelimiter):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return model.SpecFrontmatter{}, false
	}

	var fm model.SpecFrontmatter
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return model.SpecFrontmatter{}, false
	}
	return fm, true
}
