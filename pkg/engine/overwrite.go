package engine

import (
	"context"
	"crypto/subtle"

	"github.com/nalanj/treebackup/pkg/parallelism"
)

// DetectOverwrites classifies each path in common against a three-level
// equivalence ladder: a size difference always wins (no hash needed); equal
// size and equal mtime is presumed identical (no hash); only an equal size
// with a differing mtime pays for a SHA-256 comparison. It is only ever
// called in Sync mode, and only when common is non-empty.
//
// An IO error opening or hashing either side aborts the entire step; the
// partially detected set is discarded, matching the teacher's own
// first-error-wins worker pool semantics (pkg/parallelism).
func DetectOverwrites(
	ctx context.Context,
	fs FileSystem,
	hasher Hasher,
	common []RelativePath,
	source, destination Snapshot,
	sourceRoot, destinationRoot string,
	maxHashConcurrency int,
) ([]RelativePath, error) {
	results := make([]bool, len(common))

	task := func(taskCtx context.Context, index int) error {
		path := common[index]

		sourceEntry, ok := source.fileEntry(path)
		if !ok {
			return nil
		}
		destinationEntry, ok := destination.fileEntry(path)
		if !ok {
			return nil
		}

		if sourceEntry.Length != destinationEntry.Length {
			results[index] = true
			return nil
		}

		if sourceEntry.ModificationTime.Equal(destinationEntry.ModificationTime) {
			results[index] = false
			return nil
		}

		select {
		case <-taskCtx.Done():
			return ErrCancelled
		default:
		}

		sourceDigest, err := hasher.SHA256(taskCtx, fs.Combine(sourceRoot, path))
		if err != nil {
			if taskCtx.Err() != nil {
				return ErrCancelled
			}
			return wrapIOFailure(err, "hashing %s", path.String())
		}
		destinationDigest, err := hasher.SHA256(taskCtx, fs.Combine(destinationRoot, path))
		if err != nil {
			if taskCtx.Err() != nil {
				return ErrCancelled
			}
			return wrapIOFailure(err, "hashing %s", path.String())
		}

		results[index] = subtle.ConstantTimeCompare(sourceDigest[:], destinationDigest[:]) == 0

		return nil
	}

	if err := parallelism.Run(ctx, maxHashConcurrency, len(common), task); err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, err
	}

	var toOverwrite []RelativePath
	for i, overwrite := range results {
		if overwrite {
			toOverwrite = append(toOverwrite, common[i])
		}
	}
	return toOverwrite, nil
}
