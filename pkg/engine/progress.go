package engine

import "sync/atomic"

// Phase labels, exactly as specified, used as BackupProgress.Phase.
const (
	PhasePreparing           = "Preparing"
	PhaseCreatingDirectories = "Creating directories"
	PhaseCopyingFiles        = "Copying files"
	PhaseOverwritingFiles    = "Overwriting files"
	PhaseDeletingFiles       = "Deleting files"
	PhaseDeletingDirectories = "Deleting directories"
)

// BackupProgress is a single sample posted to a ProgressReporter: how many
// of the total planned operations have completed, as of some phase.
type BackupProgress struct {
	Phase     string
	Processed uint32
	Total     uint32
}

// ProgressReporter receives BackupProgress samples as the Executor makes
// progress. It is a one-way stream: the Executor calls it synchronously from
// whichever worker completed an operation, so it may be called concurrently
// and a slow reporter slows that worker down; the reporter may coalesce or
// drop samples. A nil ProgressReporter is valid and means "no one is
// listening."
type ProgressReporter func(BackupProgress)

// progressTracker accumulates the atomic processed counter shared by every
// phase's workers and posts samples to the reporter, if any.
type progressTracker struct {
	processed uint32
	total     uint32
	report    ProgressReporter
}

func newProgressTracker(total uint32, report ProgressReporter) *progressTracker {
	return &progressTracker{total: total, report: report}
}

// begin posts the initial (Preparing, 0, total) sample, required before any
// work begins.
func (t *progressTracker) begin() {
	t.post(PhasePreparing)
}

// advance atomically increments processed by one and posts a sample tagged
// with phase.
func (t *progressTracker) advance(phase string) {
	atomic.AddUint32(&t.processed, 1)
	t.post(phase)
}

func (t *progressTracker) post(phase string) {
	if t.report == nil {
		return
	}
	t.report(BackupProgress{
		Phase:     phase,
		Processed: atomic.LoadUint32(&t.processed),
		Total:     t.total,
	})
}
