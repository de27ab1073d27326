package engine

import "context"

// cancellationMask bounds how often Capture polls for cancellation during
// enumeration: once every 256 items, via a power-of-two mask test rather
// than a modulo, matching the teacher's own low-overhead polling idiom in
// its scanner.
const cancellationMask = 0xFF

// Capture produces the directory and file inventory beneath root. If
// includeMetadata is false, every FileEntry carries Length=0 and a zero
// ModificationTime -- the read-only side of the pipeline, used when a
// snapshot drives only deletion decisions.
func Capture(ctx context.Context, fs FileSystem, root string, includeMetadata bool) (Snapshot, error) {
	policy := fs.CasePolicy()
	snapshot := empty(policy)

	var count uint64
	onItem := func() error {
		count++
		if count&cancellationMask == 0 {
			select {
			case <-ctx.Done():
				return ErrCancelled
			default:
			}
		}
		return nil
	}

	dirs, err := fs.EnumerateDirectories(ctx, root, policy, onItem)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Snapshot{}, ErrCancelled
		}
		return Snapshot{}, wrapIOFailure(err, "enumerating directories under %s", root)
	}
	for _, dir := range dirs {
		if dir.IsRoot() {
			continue
		}
		snapshot.insertDir(dir)
	}

	files, err := fs.EnumerateFiles(ctx, root, policy, onItem)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Snapshot{}, ErrCancelled
		}
		return Snapshot{}, wrapIOFailure(err, "enumerating files under %s", root)
	}

	for _, path := range files {
		entry := FileEntry{Path: path}
		if includeMetadata {
			absolute := fs.Combine(root, path)
			length, modificationTime, err := fs.FileMetadata(ctx, absolute)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return Snapshot{}, ErrCancelled
				}
				return Snapshot{}, wrapIOFailure(err, "reading metadata for %s", absolute)
			}
			entry.Length = length
			entry.ModificationTime = modificationTime
		}
		snapshot.insertFile(entry)

		select {
		case <-ctx.Done():
			return Snapshot{}, ErrCancelled
		default:
		}
	}

	return snapshot, nil
}
