package engine

import (
	"sort"
	"strings"
	"testing"
	"time"
)

func path(t *testing.T, raw string) RelativePath {
	t.Helper()
	p, err := NewRelativePath(raw, CaseSensitive)
	if err != nil {
		t.Fatalf("unexpected error constructing path %q: %v", raw, err)
	}
	return p
}

func buildSnapshot(t *testing.T, dirs []string, files []string) Snapshot {
	t.Helper()
	snapshot := empty(CaseSensitive)
	for _, d := range dirs {
		snapshot.insertDir(path(t, d))
	}
	for _, f := range files {
		snapshot.insertFile(FileEntry{Path: path(t, f), Length: 1, ModificationTime: time.Unix(0, 0)})
	}
	return snapshot
}

// joinedSorted renders paths as a sorted, comma-joined string, for lists
// whose order the plan leaves unspecified.
func joinedSorted(paths []RelativePath) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = p.String()
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func TestBuildPlanSyncComputesAllFiveLists(t *testing.T) {
	source := buildSnapshot(t,
		[]string{"sub"},
		[]string{"keep.txt", "sub/new.txt", "common.txt"},
	)
	destination := buildSnapshot(t,
		[]string{"extradir"},
		[]string{"common.txt", "extra.txt", "extradir/nested.txt"},
	)

	plan := BuildPlan(ModeSync, source, destination)

	if len(plan.DirectoriesToCreate) != 1 || plan.DirectoriesToCreate[0].String() != "sub" {
		t.Errorf("expected directories_to_create = [sub], got %v", plan.DirectoriesToCreate)
	}
	if joinedSorted(plan.MissingFiles) != "keep.txt,sub/new.txt" {
		t.Errorf("expected missing_files = [keep.txt sub/new.txt], got %v", plan.MissingFiles)
	}
	if len(plan.CommonFiles) != 1 || plan.CommonFiles[0].String() != "common.txt" {
		t.Errorf("expected common_files = [common.txt], got %v", plan.CommonFiles)
	}
	if joinedSorted(plan.ExtraFiles) != "extra.txt,extradir/nested.txt" {
		t.Errorf("expected extra_files = [extra.txt extradir/nested.txt], got %v", plan.ExtraFiles)
	}
	if len(plan.TopLevelExtraDirs) != 1 || plan.TopLevelExtraDirs[0].String() != "extradir" {
		t.Errorf("expected top_level_extra_dirs = [extradir], got %v", plan.TopLevelExtraDirs)
	}
}

func TestBuildPlanAddNeverPopulatesDeletionLists(t *testing.T) {
	source := buildSnapshot(t, nil, []string{"new.txt", "shared.txt"})
	destination := buildSnapshot(t, []string{"destonly"}, []string{"shared.txt", "destonly.txt", "destonly/nested.txt"})

	plan := BuildPlan(ModeAdd, source, destination)

	if plan.ExtraFiles != nil {
		t.Errorf("Add must never populate extra_files, got %v", plan.ExtraFiles)
	}
	if plan.TopLevelExtraDirs != nil {
		t.Errorf("Add must never populate top_level_extra_dirs, got %v", plan.TopLevelExtraDirs)
	}
	if plan.CommonFiles != nil {
		t.Errorf("Add must never populate common_files, got %v", plan.CommonFiles)
	}
	if len(plan.MissingFiles) != 1 || plan.MissingFiles[0].String() != "new.txt" {
		t.Errorf("expected missing_files = [new.txt], got %v", plan.MissingFiles)
	}
}

func TestBuildPlanRemoveNeverPopulatesCreationLists(t *testing.T) {
	source := buildSnapshot(t, nil, []string{"keep.txt"})
	destination := buildSnapshot(t, []string{"extradir"}, []string{"keep.txt", "remove.txt", "extradir/nested.txt"})

	plan := BuildPlan(ModeRemove, source, destination)

	if plan.DirectoriesToCreate != nil {
		t.Errorf("Remove must never populate directories_to_create, got %v", plan.DirectoriesToCreate)
	}
	if plan.MissingFiles != nil {
		t.Errorf("Remove must never populate missing_files, got %v", plan.MissingFiles)
	}
	if plan.CommonFiles != nil {
		t.Errorf("Remove must never populate common_files, got %v", plan.CommonFiles)
	}
	if joinedSorted(plan.ExtraFiles) != "extradir/nested.txt,remove.txt" {
		t.Errorf("expected extra_files = [extradir/nested.txt remove.txt], got %v", plan.ExtraFiles)
	}
}

func TestBuildPlanDirectoriesSortedParentsBeforeChildren(t *testing.T) {
	source := buildSnapshot(t, []string{"a/b/c", "a", "a/b"}, nil)
	destination := empty(CaseSensitive)

	plan := BuildPlan(ModeSync, source, destination)

	for i := 1; i < len(plan.DirectoriesToCreate); i++ {
		if len(plan.DirectoriesToCreate[i-1].String()) > len(plan.DirectoriesToCreate[i].String()) {
			t.Fatalf("directories_to_create not sorted by length ascending: %v", plan.DirectoriesToCreate)
		}
	}
}

func TestTopLevelExtraDirsIsAnAntichain(t *testing.T) {
	dirs := []RelativePath{
		path(t, "a"),
		path(t, "a/b"),
		path(t, "a/b/c"),
		path(t, "x"),
	}

	result := topLevel(dirs, CaseSensitive)

	if len(result) != 2 {
		t.Fatalf("expected 2 top-level directories, got %v", result)
	}
	for _, candidate := range result {
		for _, other := range result {
			if other.Equal(candidate, CaseSensitive) {
				continue
			}
			if other.IsStrictPrefixOf(candidate, CaseSensitive) {
				t.Errorf("%v is not an antichain: %v is an ancestor of %v", result, other, candidate)
			}
		}
	}
}
