package provider

import (
	"strings"

	"github.com/blang/semver"
)

// NormalizeVersion canonicalizes semver-like revisions (6.5.1, v6.5.1) to v6.5.1 and
// returns anything else, such as a commit hash, unchanged.
func NormalizeVersion(revision string) string {
	revision = strings.TrimSpace(revision)
	if !strings.Contains(revision, ".") {
		// bare numbers and commit hashes would otherwise parse as major versions
		return revision
	}

	v, err := semver.ParseTolerant(revision)
	if err != nil {
		return revision
	}

	return "v" + v.String()
}
