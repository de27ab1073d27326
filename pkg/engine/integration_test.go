package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nalanj/treebackup/pkg/engine"
	"github.com/nalanj/treebackup/pkg/fsops"
	"github.com/nalanj/treebackup/pkg/logging"
)

// writeFile creates path with content, creating any missing parent
// directories, mirroring the layout tables in the spec's end-to-end
// scenarios.
func writeFile(t *testing.T, root, relative, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir parents for %s: %v", relative, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relative, err)
	}
}

func readFile(t *testing.T, root, relative string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relative)))
	if err != nil {
		t.Fatalf("read %s: %v", relative, err)
	}
	return string(content)
}

func exists(root, relative string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(relative)))
	return err == nil
}

func newOrchestrator(t *testing.T, source string) *engine.Orchestrator {
	t.Helper()
	fs, err := fsops.New(source)
	if err != nil {
		t.Fatalf("fsops.New: %v", err)
	}
	return &engine.Orchestrator{
		FS:      fs,
		Hasher:  fsops.NewHasher(),
		Options: engine.DefaultBackupOptions(),
		Logger:  logging.RootLogger,
	}
}

// Scenario 1: Sync into an absent destination copies everything and
// creates the single missing directory.
func TestSyncIntoAbsentDestinationCopiesEverything(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")

	writeFile(t, source, "file1.txt", "hello")
	writeFile(t, source, "sub/file2.txt", "world")

	orchestrator := newOrchestrator(t, source)
	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FilesCopied != 2 || result.DirectoriesCreated != 1 ||
		result.FilesOverwritten != 0 || result.FilesDeleted != 0 || result.DirectoriesDeleted != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if readFile(t, destination, "file1.txt") != "hello" {
		t.Errorf("file1.txt content mismatch")
	}
	if readFile(t, destination, "sub/file2.txt") != "world" {
		t.Errorf("sub/file2.txt content mismatch")
	}
}

// Scenario 2: Sync deletes destination-only files and directories while
// leaving shared files untouched.
func TestSyncDeletesExtraFilesAndDirectories(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	writeFile(t, source, "keep.txt", "k")
	writeFile(t, destination, "keep.txt", "k")
	writeFile(t, destination, "extra.txt", "x")
	writeFile(t, destination, "extradir/nested.txt", "n")

	orchestrator := newOrchestrator(t, source)
	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FilesCopied != 0 || result.FilesOverwritten != 0 || result.DirectoriesCreated != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.FilesDeleted < 1 || result.DirectoriesDeleted < 1 {
		t.Fatalf("expected at least one file and one directory deleted, got %+v", result)
	}
	if exists(destination, "extra.txt") {
		t.Errorf("extra.txt should have been deleted")
	}
	if exists(destination, "extradir") {
		t.Errorf("extradir should have been deleted")
	}
	if readFile(t, destination, "keep.txt") != "k" {
		t.Errorf("keep.txt must be untouched")
	}
}

// Scenario 3: a size-equal, mtime-differing common file with different
// content is overwritten after the hash comparison detects a mismatch.
func TestSyncOverwritesFileWithDifferentHash(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	writeFile(t, source, "data.txt", "new")
	writeFile(t, destination, "data.txt", "old")

	now := time.Now()
	if err := os.Chtimes(filepath.Join(destination, "data.txt"), now.Add(-24*time.Hour), now.Add(-24*time.Hour)); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(filepath.Join(source, "data.txt"), now, now); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	orchestrator := newOrchestrator(t, source)
	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FilesOverwritten != 1 || result.FilesCopied != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if readFile(t, destination, "data.txt") != "new" {
		t.Errorf("data.txt should have been overwritten with source content")
	}
}

// Scenario 4: identical size and mtime is presumed identical -- no IO is
// performed, and in particular the hasher is never invoked.
func TestSyncSkipsIdenticalSizeAndModTime(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	writeFile(t, source, "same.txt", "x")
	writeFile(t, destination, "same.txt", "x")

	shared := time.Now().Truncate(time.Second)
	if err := os.Chtimes(filepath.Join(source, "same.txt"), shared, shared); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Chtimes(filepath.Join(destination, "same.txt"), shared, shared); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	orchestrator := newOrchestrator(t, source)
	orchestrator.Hasher = refusingHasher{t}

	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FilesOverwritten != 0 || result.FilesCopied != 0 {
		t.Fatalf("expected no IO for an identical file, got %+v", result)
	}
}

// refusingHasher fails the test if SHA256 is ever invoked, proving the
// size/mtime fast path short-circuited before any hashing occurred.
type refusingHasher struct{ t *testing.T }

func (r refusingHasher) SHA256(ctx context.Context, path string) ([32]byte, error) {
	r.t.Helper()
	r.t.Fatalf("hasher invoked for %s despite identical size and modtime", path)
	return [32]byte{}, nil
}

// Scenario 5: Add copies what's missing but never touches existing
// destination content.
func TestAddNeverModifiesExistingDestinationContent(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	writeFile(t, source, "new.txt", "n")
	writeFile(t, source, "shared.txt", "src")
	writeFile(t, destination, "shared.txt", "dst")
	writeFile(t, destination, "destonly.txt", "keep")

	orchestrator := newOrchestrator(t, source)
	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeAdd,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FilesCopied != 1 || result.FilesOverwritten != 0 || result.FilesDeleted != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if readFile(t, destination, "shared.txt") != "dst" {
		t.Errorf("shared.txt must not be modified by Add")
	}
	if readFile(t, destination, "destonly.txt") != "keep" {
		t.Errorf("destonly.txt must be preserved by Add")
	}
	if readFile(t, destination, "new.txt") != "n" {
		t.Errorf("new.txt should have been copied")
	}
}

// Scenario 6: Remove deletes destination-only files but never touches
// shared file content.
func TestRemoveDeletesOnlyDestinationOnlyFiles(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	writeFile(t, source, "keep.txt", "k")
	writeFile(t, destination, "keep.txt", "d")
	writeFile(t, destination, "remove.txt", "r")

	orchestrator := newOrchestrator(t, source)
	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeRemove,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FilesDeleted != 1 || result.FilesCopied != 0 || result.FilesOverwritten != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if readFile(t, destination, "keep.txt") != "d" {
		t.Errorf("keep.txt content must be unchanged by Remove")
	}
	if exists(destination, "remove.txt") {
		t.Errorf("remove.txt should have been deleted")
	}
}

// Open question (spec §9): Remove against an absent destination is a
// no-op returning all-zero counts, not a SourceNotFound-style failure.
func TestRemoveModeDestinationDoesNotExistReturnsZeroCounts(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "absent")

	writeFile(t, source, "keep.txt", "k")

	orchestrator := newOrchestrator(t, source)
	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeRemove,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != (engine.BackupResult{}) {
		t.Fatalf("expected all-zero result, got %+v", result)
	}
	if exists(destination, "") {
		t.Errorf("Remove must never create the destination")
	}
}

// Error scenario (a): overlapping source/destination paths are rejected
// before any filesystem work happens.
func TestOverlappingPathsRejected(t *testing.T) {
	root := t.TempDir()
	source := root
	destination := filepath.Join(root, "b")
	if err := os.MkdirAll(destination, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	orchestrator := newOrchestrator(t, source)
	_, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err == nil {
		t.Fatal("expected an error for overlapping paths")
	}
	kind, ok := engine.KindOf(err)
	if !ok || kind != engine.KindPathOverlap {
		t.Fatalf("expected KindPathOverlap, got %v (ok=%v)", kind, ok)
	}
}

// Error scenario (b): a missing source directory fails with SourceNotFound.
func TestMissingSourceFailsWithSourceNotFound(t *testing.T) {
	source := filepath.Join(t.TempDir(), "does-not-exist")
	destination := t.TempDir()

	orchestrator := newOrchestrator(t, t.TempDir())
	_, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err == nil {
		t.Fatal("expected an error for a missing source")
	}
	kind, ok := engine.KindOf(err)
	if !ok || kind != engine.KindSourceNotFound {
		t.Fatalf("expected KindSourceNotFound, got %v (ok=%v)", kind, ok)
	}
}

// Error scenario (c): cancellation tripped before dispatch surfaces as a
// Cancelled error, and no files are copied.
func TestCancellationBeforeExecutionAbortsTheRun(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	for i := 0; i < 10; i++ {
		writeFile(t, source, filepath.Join("many", string(rune('a'+i))+".txt"), "x")
	}

	orchestrator := newOrchestrator(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orchestrator.Execute(ctx, engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
	if !engine.IsCancelled(err) {
		t.Fatalf("expected IsCancelled(err) to be true, got %v", err)
	}
}

// Progress reporting: an initial Preparing sample is posted before any
// work begins, and the final sample reports processed == total.
func TestProgressReportsPreparingThenCompletion(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")
	writeFile(t, source, "a.txt", "a")
	writeFile(t, source, "b.txt", "b")

	var samples []engine.BackupProgress
	orchestrator := newOrchestrator(t, source)
	_, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, func(p engine.BackupProgress) {
		samples = append(samples, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(samples) == 0 {
		t.Fatal("expected at least one progress sample")
	}
	if samples[0].Phase != engine.PhasePreparing || samples[0].Processed != 0 {
		t.Fatalf("expected first sample to be (Preparing, 0, _), got %+v", samples[0])
	}
	last := samples[len(samples)-1]
	if last.Processed != last.Total {
		t.Fatalf("expected final sample to report processed == total, got %+v", last)
	}
}

// DryRun computes and reports the plan's counts without touching the
// filesystem.
func TestDryRunDoesNotTouchTheFilesystem(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	writeFile(t, source, "new.txt", "n")
	writeFile(t, destination, "extra.txt", "x")

	orchestrator := newOrchestrator(t, source)
	orchestrator.Options.DryRun = true

	result, err := orchestrator.Execute(context.Background(), engine.Request{
		SourcePath: source, DestinationPath: destination, Mode: engine.ModeSync,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FilesCopied != 1 || result.FilesDeleted != 1 {
		t.Fatalf("unexpected dry-run result: %+v", result)
	}
	if exists(destination, "new.txt") {
		t.Errorf("dry run must not copy new.txt")
	}
	if !exists(destination, "extra.txt") {
		t.Errorf("dry run must not delete extra.txt")
	}
}
