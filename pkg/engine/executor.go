package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/nalanj/treebackup/pkg/logging"
	"github.com/nalanj/treebackup/pkg/parallelism"
	"github.com/nalanj/treebackup/pkg/volume"
)

func atomicAddInt64(addr *int64, delta int64) {
	atomic.AddInt64(addr, delta)
}

// Execute applies plan to the filesystem under mode and returns counts of
// what was actually done. Phases run strictly in sequence -- directories
// must exist before files are copied into them, and files must be deleted
// before their parent directory can be removed -- but within a phase, items
// are dispatched across up to maxFileIOConcurrency workers.
//
// Any error from a filesystem primitive propagates immediately: the
// cancellation signal used to short-circuit peer tasks in the same phase is
// internal to parallelism.Run, so the caller sees the first error, not a
// partial BackupResult. Already-applied changes are never rolled back.
func Execute(
	ctx context.Context,
	fs FileSystem,
	mode BackupMode,
	plan Plan,
	source Snapshot,
	sourceRoot, destinationRoot string,
	filesToOverwrite []RelativePath,
	options BackupOptions,
	report ProgressReporter,
	logger *logging.Logger,
) (BackupResult, error) {
	ioConcurrency := options.MaxFileIOConcurrency
	if kind, err := volume.Classify(destinationRoot); err == nil && kind.SingleQueue() {
		logger.Debugf("destination volume %s requires single-queue IO, clamping concurrency to 1", kind)
		ioConcurrency = 1
	}

	total := len(plan.DirectoriesToCreate) + len(plan.MissingFiles) + len(filesToOverwrite) +
		len(plan.ExtraFiles) + len(plan.TopLevelExtraDirs)

	tracker := newProgressTracker(uint32(total), report)
	tracker.begin()

	var tally counters

	if mode.writesNewContent() {
		if err := createDirectories(ctx, fs, plan.DirectoriesToCreate, destinationRoot, ioConcurrency, tracker, &tally); err != nil {
			return BackupResult{}, err
		}
		if err := copyFiles(ctx, fs, plan.MissingFiles, source, sourceRoot, destinationRoot, false, ioConcurrency, tracker, &tally.filesCopied); err != nil {
			return BackupResult{}, err
		}
		if mode == ModeSync && len(filesToOverwrite) > 0 {
			if err := copyFiles(ctx, fs, filesToOverwrite, source, sourceRoot, destinationRoot, true, ioConcurrency, tracker, &tally.filesOverwritten); err != nil {
				return BackupResult{}, err
			}
		}
	}

	if mode.deletesExtraContent() {
		if err := deleteFiles(ctx, fs, plan.ExtraFiles, destinationRoot, ioConcurrency, tracker, &tally); err != nil {
			return BackupResult{}, err
		}
		if err := deleteDirectories(ctx, fs, plan.TopLevelExtraDirs, destinationRoot, tracker, &tally); err != nil {
			return BackupResult{}, err
		}
	}

	return tally.snapshot(), nil
}

func createDirectories(ctx context.Context, fs FileSystem, dirs []RelativePath, destinationRoot string, degree int, tracker *progressTracker, tally *counters) error {
	task := func(taskCtx context.Context, index int) error {
		absolute := fs.Combine(destinationRoot, dirs[index])
		if err := fs.CreateDirectory(taskCtx, absolute); err != nil {
			return wrapIOFailure(err, "creating directory %s", absolute)
		}
		atomicAddInt64(&tally.directoriesCreated, 1)
		tracker.advance(PhaseCreatingDirectories)
		return nil
	}
	return runPhase(ctx, degree, len(dirs), task)
}

func copyFiles(
	ctx context.Context,
	fs FileSystem,
	paths []RelativePath,
	source Snapshot,
	sourceRoot, destinationRoot string,
	overwrite bool,
	degree int,
	tracker *progressTracker,
	counter *int64,
) error {
	phase := PhaseCopyingFiles
	if overwrite {
		phase = PhaseOverwritingFiles
	}
	task := func(taskCtx context.Context, index int) error {
		path := paths[index]
		src := fs.Combine(sourceRoot, path)
		dst := fs.Combine(destinationRoot, path)

		var modificationTime *time.Time
		if entry, ok := source.fileEntry(path); ok {
			mtime := entry.ModificationTime
			modificationTime = &mtime
		}

		if err := fs.CopyFile(taskCtx, src, dst, overwrite, modificationTime); err != nil {
			return wrapIOFailure(err, "copying %s", path.String())
		}
		atomicAddInt64(counter, 1)
		tracker.advance(phase)
		return nil
	}
	return runPhase(ctx, degree, len(paths), task)
}

func deleteFiles(ctx context.Context, fs FileSystem, paths []RelativePath, destinationRoot string, degree int, tracker *progressTracker, tally *counters) error {
	task := func(taskCtx context.Context, index int) error {
		absolute := fs.Combine(destinationRoot, paths[index])
		if err := fs.DeleteFileIfExists(taskCtx, absolute); err != nil {
			return wrapIOFailure(err, "deleting %s", absolute)
		}
		atomicAddInt64(&tally.filesDeleted, 1)
		tracker.advance(PhaseDeletingFiles)
		return nil
	}
	return runPhase(ctx, degree, len(paths), task)
}

// deleteDirectories runs sequentially: recursive deletion is already
// parallel at the tree level, and parent/child ordering among the top-level
// set must not race.
func deleteDirectories(ctx context.Context, fs FileSystem, dirs []RelativePath, destinationRoot string, tracker *progressTracker, tally *counters) error {
	for _, dir := range dirs {
		select {
		case <-ctx.Done():
			return ErrCancelled
		default:
		}
		absolute := fs.Combine(destinationRoot, dir)
		if err := fs.DeleteDirectoryIfExists(ctx, absolute, true); err != nil {
			return wrapIOFailure(err, "deleting directory %s", absolute)
		}
		atomicAddInt64(&tally.directoriesDeleted, 1)
		tracker.advance(PhaseDeletingDirectories)
	}
	return nil
}

func runPhase(ctx context.Context, degree int, count int, task parallelism.Task) error {
	if err := parallelism.Run(ctx, degree, count, task); err != nil {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		return err
	}
	return nil
}
