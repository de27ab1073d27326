package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/nalanj/treebackup/pkg/logging"
)

// Request is what a caller hands the Orchestrator to start a run.
type Request struct {
	SourcePath      string
	DestinationPath string
	Mode            BackupMode
}

// Orchestrator drives the pipeline end to end: validates inputs, captures
// snapshots, builds a plan, detects overwrites, executes it, and aggregates
// the result. It owns both snapshots for the lifetime of one run and
// discards them on return; nothing crosses run boundaries.
type Orchestrator struct {
	FS      FileSystem
	Hasher  Hasher
	Options BackupOptions
	Logger  *logging.Logger
}

// Execute runs request to completion and returns the aggregate result.
func (o *Orchestrator) Execute(ctx context.Context, request Request, report ProgressReporter) (BackupResult, error) {
	runID := uuid.New()
	logger := o.Logger.WithRun(runID.String())
	logger.Printf("starting %s backup", request.Mode)

	result, err := o.run(ctx, request, report, logger)
	if err != nil {
		logger.Printf("run failed: %s", err.Error())
		return BackupResult{}, err
	}

	logger.Printf(
		"run complete: dirs_created=%d files_copied=%d files_overwritten=%d files_deleted=%d dirs_deleted=%d",
		result.DirectoriesCreated, result.FilesCopied, result.FilesOverwritten,
		result.FilesDeleted, result.DirectoriesDeleted,
	)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, request Request, report ProgressReporter, logger *logging.Logger) (BackupResult, error) {
	source, destination, err := o.validateAndNormalize(request)
	if err != nil {
		return BackupResult{}, err
	}

	if err := o.validateNoOverlap(source, destination); err != nil {
		return BackupResult{}, err
	}

	sourceExists, err := o.FS.DirectoryExists(ctx, source)
	if err != nil {
		return BackupResult{}, wrapIOFailure(err, "checking source %s", source)
	}
	if !sourceExists {
		return BackupResult{}, newSourceNotFound("source directory does not exist: %s", source)
	}

	destinationNewlyCreated, err := o.prepareDestination(ctx, request.Mode, destination)
	if err != nil {
		return BackupResult{}, err
	}

	policy := o.FS.CasePolicy()

	sourceSnapshot, err := Capture(ctx, o.FS, source, request.Mode.writesNewContent())
	if err != nil {
		return BackupResult{}, err
	}

	var destinationSnapshot Snapshot
	if destinationNewlyCreated {
		destinationSnapshot = empty(policy)
	} else {
		destinationSnapshot, err = Capture(ctx, o.FS, destination, request.Mode == ModeSync)
		if err != nil {
			return BackupResult{}, err
		}
	}

	plan := BuildPlan(request.Mode, sourceSnapshot, destinationSnapshot)

	var toOverwrite []RelativePath
	if request.Mode == ModeSync && len(plan.CommonFiles) > 0 {
		toOverwrite, err = DetectOverwrites(
			ctx, o.FS, o.Hasher, plan.CommonFiles, sourceSnapshot, destinationSnapshot,
			source, destination, o.Options.MaxHashConcurrency,
		)
		if err != nil {
			return BackupResult{}, err
		}
	}

	if o.Options.DryRun {
		return dryRunResult(plan, toOverwrite), nil
	}

	return Execute(
		ctx, o.FS, request.Mode, plan, sourceSnapshot, source, destination,
		toOverwrite, o.Options, report, logger,
	)
}

// dryRunResult reports what a run would do, without touching the
// filesystem: the same counts the real Execute would eventually produce,
// computed directly from the plan.
func dryRunResult(plan Plan, toOverwrite []RelativePath) BackupResult {
	return BackupResult{
		DirectoriesCreated: len(plan.DirectoriesToCreate),
		FilesCopied:        len(plan.MissingFiles),
		FilesOverwritten:   len(toOverwrite),
		FilesDeleted:       len(plan.ExtraFiles),
		DirectoriesDeleted: len(plan.TopLevelExtraDirs),
	}
}

func (o *Orchestrator) validateAndNormalize(request Request) (source, destination string, err error) {
	if isBlank(request.SourcePath) {
		return "", "", newInvalidArgument("source path must not be empty")
	}
	if isBlank(request.DestinationPath) {
		return "", "", newInvalidArgument("destination path must not be empty")
	}

	source, err = o.FS.ValidateAndNormalize(request.SourcePath)
	if err != nil {
		return "", "", newInvalidArgument("invalid source path %q: %s", request.SourcePath, err.Error())
	}
	destination, err = o.FS.ValidateAndNormalize(request.DestinationPath)
	if err != nil {
		return "", "", newInvalidArgument("invalid destination path %q: %s", request.DestinationPath, err.Error())
	}
	return source, destination, nil
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func (o *Orchestrator) validateNoOverlap(source, destination string) error {
	policy := o.FS.CasePolicy()
	sourceWithSep := source + "/"
	destinationWithSep := destination + "/"

	if policy.Equal(sourceWithSep, destinationWithSep) ||
		hasPrefix(destinationWithSep, sourceWithSep, policy) ||
		hasPrefix(sourceWithSep, destinationWithSep, policy) {
		return newPathOverlap("source %q and destination %q overlap", source, destination)
	}
	return nil
}

func hasPrefix(s, prefix string, policy CasePolicy) bool {
	if len(prefix) > len(s) {
		return false
	}
	return policy.Equal(s[:len(prefix)], prefix)
}

// prepareDestination creates destination for Sync/Add if absent and reports
// whether it was absent. Remove and dry runs never create; an absent
// destination then simply yields an empty destination snapshot.
func (o *Orchestrator) prepareDestination(ctx context.Context, mode BackupMode, destination string) (newlyCreated bool, err error) {
	exists, err := o.FS.DirectoryExists(ctx, destination)
	if err != nil {
		return false, wrapIOFailure(err, "checking destination %s", destination)
	}
	if exists {
		return false, nil
	}
	if !mode.writesNewContent() || o.Options.DryRun {
		return true, nil
	}
	if err := o.FS.CreateDirectory(ctx, destination); err != nil {
		return false, wrapIOFailure(err, "creating destination %s", destination)
	}
	return true, nil
}
