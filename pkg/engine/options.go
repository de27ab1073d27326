package engine

import "runtime"

// BackupOptions configures the concurrency bounds used by a single backup
// run. Defaults are computed from the host's CPU count, matching the
// teacher's own habit of clamp(NumCPU, lo, hi) degree defaults rather than a
// single hardcoded constant.
type BackupOptions struct {
	// MaxHashConcurrency bounds parallel overwrite-detector classifications.
	MaxHashConcurrency int
	// MaxFileIOConcurrency bounds parallel directory/file create, copy, and
	// delete operations.
	MaxFileIOConcurrency int
	// DryRun, when true, computes and reports the plan without applying any
	// filesystem operation. See SPEC_FULL.md's supplemented-features
	// section.
	DryRun bool
}

// DefaultBackupOptions returns the options a caller gets when it supplies
// none explicitly: MaxHashConcurrency clamped to [2, 16] around the host's
// CPU count, MaxFileIOConcurrency fixed at 4.
func DefaultBackupOptions() BackupOptions {
	return BackupOptions{
		MaxHashConcurrency:   clamp(runtime.NumCPU(), 2, 16),
		MaxFileIOConcurrency: 4,
		DryRun:               false,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
