package engine

import "sync/atomic"

// BackupResult tallies what a completed run actually did. All five counters
// are exact: they are incremented atomically as operations complete, never
// estimated. The one exception is a dry run, whose result is the plan's
// list sizes (see dryRunResult), since nothing is executed.
type BackupResult struct {
	DirectoriesCreated int
	FilesCopied        int
	FilesOverwritten   int
	FilesDeleted       int
	DirectoriesDeleted int
}

// counters is the mutable, atomic-incremented accumulator the Executor
// writes to during a run; snapshot is called once at the end to produce the
// immutable BackupResult returned to the caller.
type counters struct {
	directoriesCreated int64
	filesCopied        int64
	filesOverwritten   int64
	filesDeleted       int64
	directoriesDeleted int64
}

func (c *counters) snapshot() BackupResult {
	return BackupResult{
		DirectoriesCreated: int(atomic.LoadInt64(&c.directoriesCreated)),
		FilesCopied:        int(atomic.LoadInt64(&c.filesCopied)),
		FilesOverwritten:   int(atomic.LoadInt64(&c.filesOverwritten)),
		FilesDeleted:       int(atomic.LoadInt64(&c.filesDeleted)),
		DirectoriesDeleted: int(atomic.LoadInt64(&c.directoriesDeleted)),
	}
}
