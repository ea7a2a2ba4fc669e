package model

import (
	"errors"
	"strings"
)

// RepoPath is a path relative to the repo root, normalized to a slash-
// separated sequence of non-empty, non-"."  segments with no ".." segment,
// no leading slash, and no NUL byte. Two RepoPaths are equal iff their
// normalized segment sequences are equal, so comparing the String() form
// with == is safe once both sides have passed through NormalizeRepoPath.
type RepoPath struct {
	segments []string
}

// ErrPathSyntaxInvalid is returned by NormalizeRepoPath when path cannot possibly
// denote a location inside the repository: absolute paths, empty paths,
// paths containing NUL, and paths with a ".." segment (even one that a
// naive filepath.Clean would cancel out against an earlier segment, since
// that cancellation still proves the author tried to walk upward).
var ErrPathSyntaxInvalid = errors.New("path syntax invalid")

// NormalizeRepoPath parses and validates a path as it would appear in an
// LLM-proposed Action or a config file's edits-require-approval list.
// Normalization is purely lexical: it never touches the filesystem, so it
// is safe to call on adversarial input before any path joins repo root.
func NormalizeRepoPath(raw string) (RepoPath, error) {
	if raw == "" {
		return RepoPath{}, ErrPathSyntaxInvalid
	}
	if strings.ContainsRune(raw, 0) {
		return RepoPath{}, ErrPathSyntaxInvalid
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "\\") {
		return RepoPath{}, ErrPathSyntaxInvalid
	}
	// A drive-letter prefix like "C:\" is a Windows absolute path.
	if len(raw) >= 2 && raw[1] == ':' {
		return RepoPath{}, ErrPathSyntaxInvalid
	}

	raw = strings.ReplaceAll(raw, "\\", "/")
	parts := strings.Split(raw, "/")

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "":
			continue // collapse doubled slashes and trailing slash
		case ".":
			continue
		case "..":
			return RepoPath{}, ErrPathSyntaxInvalid
		default:
			segments = append(segments, p)
		}
	}

	if len(segments) == 0 {
		return RepoPath{}, ErrPathSyntaxInvalid
	}

	return RepoPath{segments: segments}, nil
}

// String renders the RepoPath in its canonical slash-separated form.
func (p RepoPath) String() string {
	return strings.Join(p.segments, "/")
}

// Segments returns the normalized path components, in order. The caller
// must not mutate the returned slice.
func (p RepoPath) Segments() []string {
	return p.segments
}

// Equal reports whether two RepoPaths denote the same location.
func (p RepoPath) Equal(other RepoPath) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading part of p or equal to it,
// comparing whole path segments (so "specs" is a prefix of "specs/foo.md"
// but not of "specs-archive/foo.md").
func (p RepoPath) HasPrefix(prefix RepoPath) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, seg := range prefix.segments {
		if p.segments[i] != seg {
			return false
		}
	}
	return true
}

// IsEmpty reports whether p is the zero RepoPath (never produced by
// NormalizeRepoPath, but useful as a sentinel in Option-like fields).
func (p RepoPath) IsEmpty() bool {
	return len(p.segments) == 0
}
