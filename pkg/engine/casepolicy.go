package engine

import "strings"

// CasePolicy governs whether path comparisons and hashing treat case as
// significant. It is derived once per host (or forced in tests) and
// propagated into every RelativePath comparison, every Snapshot's containers,
// and the orchestrator's overlap check, so that a single run behaves
// consistently end to end even if the policy were to change mid-process.
type CasePolicy struct {
	// insensitive is true on case-insensitive hosts (Windows-like) and false
	// elsewhere (POSIX-like).
	insensitive bool
}

// CaseSensitive is the policy used on hosts where "A" and "a" name distinct
// paths (Linux, most POSIX filesystems).
var CaseSensitive = CasePolicy{insensitive: false}

// CaseInsensitive is the policy used on hosts where "A" and "a" name the same
// path (Windows, and macOS's default HFS+/APFS configuration).
var CaseInsensitive = CasePolicy{insensitive: true}

// Insensitive reports whether this policy treats case as insignificant.
func (p CasePolicy) Insensitive() bool {
	return p.insensitive
}

// key returns the comparison key for s under this policy: s itself under a
// case-sensitive policy, or its lowercased form under a case-insensitive
// one. It is used for map keys and set membership so that case-insensitive
// lookups are O(1) rather than O(n) linear scans.
func (p CasePolicy) key(s string) string {
	if p.insensitive {
		return strings.ToLower(s)
	}
	return s
}

// Equal reports whether a and b name the same path under this policy.
func (p CasePolicy) Equal(a, b string) bool {
	if p.insensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}
