package engine

import (
	"context"
	"time"
)

// FileSystem is the abstract filesystem capability the Snapshot service,
// Overwrite Detector, and Executor depend on. The engine never touches a
// concrete filesystem API directly -- only this interface -- so the same
// pipeline runs unchanged against local disk, an in-memory test double, or
// any other substrate that can satisfy these primitives.
//
// Every method is a thin, stateless wrapper; the policy for combining them
// (what order, under what concurrency, with what fallback) lives entirely
// in this package, not in implementations of this interface.
type FileSystem interface {
	// Combine joins root with a RelativePath to produce an absolute,
	// platform-native path.
	Combine(root string, path RelativePath) string

	// DirectoryExists reports whether path names an existing directory.
	DirectoryExists(ctx context.Context, path string) (bool, error)

	// CreateDirectory creates path, including any missing parents. It is a
	// no-op if path already exists.
	CreateDirectory(ctx context.Context, path string) error

	// EnumerateDirectories recursively lists every directory beneath root,
	// as paths relative to root.
	EnumerateDirectories(ctx context.Context, root string, policy CasePolicy, onItem func() error) ([]RelativePath, error)

	// EnumerateFiles recursively lists every file beneath root, as paths
	// relative to root.
	EnumerateFiles(ctx context.Context, root string, policy CasePolicy, onItem func() error) ([]RelativePath, error)

	// FileMetadata returns the size and last-write time (UTC) of the file
	// at path.
	FileMetadata(ctx context.Context, path string) (length uint64, modificationTime time.Time, err error)

	// CopyFile copies src to dst. If overwrite is false, an existing dst is
	// left untouched and the copy fails. When modificationTime is non-nil,
	// dst's modification time is set to it after the copy completes.
	CopyFile(ctx context.Context, src, dst string, overwrite bool, modificationTime *time.Time) error

	// DeleteFileIfExists removes path; it is a no-op if path is already
	// absent.
	DeleteFileIfExists(ctx context.Context, path string) error

	// DeleteDirectoryIfExists removes path, recursively if recursive is
	// true; it is a no-op if path is already absent.
	DeleteDirectoryIfExists(ctx context.Context, path string, recursive bool) error

	// ValidateAndNormalize converts a raw, possibly relative or
	// trailing-separator-terminated path into its absolute,
	// separator-stripped canonical form.
	ValidateAndNormalize(path string) (string, error)

	// CasePolicy reports the comparator policy for the host this
	// implementation runs on.
	CasePolicy() CasePolicy
}

// Hasher is the abstract hashing capability the Overwrite Detector depends
// on.
type Hasher interface {
	// SHA256 returns the SHA-256 digest of the file at path, reading
	// through a buffered sequential stream, honoring ctx for cooperative
	// cancellation.
	SHA256(ctx context.Context, path string) ([32]byte, error)
}
