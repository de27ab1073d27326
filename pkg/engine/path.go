package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nativeSeparators converts a canonical forward-slash path to the
// platform-native separator form.
func nativeSeparators(canonical string) string {
	return filepath.FromSlash(canonical)
}

// RelativePath is an immutable, normalized, non-rooted path value: the
// canonical key used throughout the engine for map lookups, set membership,
// and cross-platform path arithmetic. It is always forward-slash delimited
// internally; platform-native separators are produced only at the edges, via
// Native.
type RelativePath struct {
	// canonical is the forward-slash-normalized, NFC-normalized path. The
	// empty string represents the root itself.
	canonical string
}

// Root is the RelativePath denoting the snapshot root itself. It never
// appears as a key in Snapshot.files, but Snapshot.dirs permissibly omits it
// by the same convention (see Snapshot's invariants).
var Root = RelativePath{}

// NewRelativePath constructs a RelativePath from raw input, which may come
// from a platform-native path, a wire value, or user input. Construction:
//   - normalizes backslashes to forward slashes,
//   - trims a single leading separator on case-sensitive platforms, and
//     rejects one outright on case-insensitive platforms (where a rooted
//     input is ambiguous with a UNC or drive-rooted path),
//   - rejects any segment equal to "..",
//   - rejects inputs that remain rooted (e.g. "C:\foo") after the above,
//   - applies Unicode NFC normalization to each segment, mirroring the
//     engine's scan-time normalization so that a name arriving decomposed
//     from one filesystem and precomposed from another still compares
//     equal,
//   - collapses empty or all-whitespace input to Root.
func NewRelativePath(raw string, policy CasePolicy) (RelativePath, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Root, nil
	}

	normalized := strings.ReplaceAll(trimmed, `\`, "/")

	if strings.HasPrefix(normalized, "/") {
		if policy.Insensitive() {
			return RelativePath{}, fmt.Errorf("relative path must not be rooted: %q", raw)
		}
		normalized = strings.TrimPrefix(normalized, "/")
		if normalized == "" {
			return Root, nil
		}
	}

	if isAbsoluteLike(normalized) {
		return RelativePath{}, fmt.Errorf("relative path must not be rooted: %q", raw)
	}

	segments := strings.Split(normalized, "/")
	for i, segment := range segments {
		if segment == ".." {
			return RelativePath{}, fmt.Errorf("relative path contains a parent-directory segment: %q", raw)
		}
		segments[i] = norm.NFC.String(segment)
	}

	return RelativePath{canonical: strings.Join(segments, "/")}, nil
}

// isAbsoluteLike detects path forms that are still rooted after the single
// leading separator has been trimmed: a remaining leading separator (which
// also covers a UNC-style "//host/share", already forward-slashed by the
// time this is checked) or a Windows drive letter ("C:/...").
func isAbsoluteLike(normalized string) bool {
	if strings.HasPrefix(normalized, "/") {
		return true
	}
	if len(normalized) >= 2 && normalized[1] == ':' {
		c := normalized[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

// IsRoot reports whether this path denotes the snapshot root.
func (p RelativePath) IsRoot() bool {
	return p.canonical == ""
}

// String returns the canonical, forward-slash-delimited form. This is the
// form used for all internal comparisons, sorting, and as the wire/display
// representation.
func (p RelativePath) String() string {
	return p.canonical
}

// Native returns the path converted to the platform-native separator, for
// passing to filesystem primitives.
func (p RelativePath) Native() string {
	return nativeSeparators(p.canonical)
}

// Base returns the final path segment. For Root it returns the empty string.
func (p RelativePath) Base() string {
	if p.canonical == "" {
		return ""
	}
	if i := strings.LastIndexByte(p.canonical, '/'); i != -1 {
		return p.canonical[i+1:]
	}
	return p.canonical
}

// Parent returns the RelativePath of the immediate parent directory. For a
// path directly under the root, and for Root itself, it returns Root.
func (p RelativePath) Parent() RelativePath {
	if p.canonical == "" {
		return Root
	}
	if i := strings.LastIndexByte(p.canonical, '/'); i != -1 {
		return RelativePath{canonical: p.canonical[:i]}
	}
	return Root
}

// Join appends a leaf name (already validated, e.g. from a directory
// listing) to this path and returns the resulting RelativePath. The leaf
// must not itself contain a separator.
func (p RelativePath) Join(leaf string) RelativePath {
	leaf = norm.NFC.String(leaf)
	if p.canonical == "" {
		return RelativePath{canonical: leaf}
	}
	return RelativePath{canonical: p.canonical + "/" + leaf}
}

// key returns the comparator key for this path under the given case policy,
// used by Snapshot's maps and sets.
func (p RelativePath) key(policy CasePolicy) string {
	return policy.key(p.canonical)
}

// Equal reports whether two paths name the same location under the given
// case policy.
func (p RelativePath) Equal(other RelativePath, policy CasePolicy) bool {
	return policy.Equal(p.canonical, other.canonical)
}

// IsStrictPrefixOf reports whether p is a strict ancestor directory of other
// under the given case policy: p.canonical is a prefix of other.canonical
// terminated by a path separator. Root is a strict prefix of every
// non-Root path.
func (p RelativePath) IsStrictPrefixOf(other RelativePath, policy CasePolicy) bool {
	if p.canonical == other.canonical {
		return false
	}
	if p.IsRoot() {
		return !other.IsRoot()
	}
	prefix := p.key(policy) + "/"
	return strings.HasPrefix(other.key(policy), prefix)
}
