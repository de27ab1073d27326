package engine

import "time"

// FileEntry is the immutable metadata record for a single file within a
// Snapshot. Length and ModificationTime are zero/epoch when the snapshot
// that produced this entry did not request metadata (see Capture's
// includeMetadata parameter) -- a read-only snapshot captured solely to
// drive a Remove-mode deletion has no need to stat every file.
type FileEntry struct {
	Path              RelativePath
	Length            uint64
	ModificationTime  time.Time
}

// sameSizeAndTime reports whether two entries have identical length and
// modification time, the size+timestamp fast path the overwrite detector
// uses before falling back to hashing.
func (e FileEntry) sameSizeAndTime(other FileEntry) bool {
	return e.Length == other.Length && e.ModificationTime.Equal(other.ModificationTime)
}
