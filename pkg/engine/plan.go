package engine

import "sort"

// Plan is the classified set of filesystem operations derived from two
// snapshots under a given mode. Add never populates extraFiles or
// topLevelExtraDirs; Remove never populates directoriesToCreate,
// missingFiles, or commonFiles -- the Executor relies on these invariants
// to derive the correct operation set from mode + plan alone, without
// re-inspecting the mode at every phase.
type Plan struct {
	// DirectoriesToCreate is present in source, absent in destination;
	// sorted by canonical path length ascending so that, in list order,
	// every parent precedes its children.
	DirectoriesToCreate []RelativePath
	// MissingFiles is in source, not in destination.
	MissingFiles []RelativePath
	// CommonFiles is in both; populated only in Sync, where it becomes the
	// Overwrite Detector's candidate set.
	CommonFiles []RelativePath
	// ExtraFiles is in destination, not in source. Order is unspecified;
	// the Executor treats it as unordered.
	ExtraFiles []RelativePath
	// TopLevelExtraDirs is the minimal antichain of destination-only
	// directories whose recursive deletion removes exactly the
	// destination-only subtree.
	TopLevelExtraDirs []RelativePath
}

// BuildPlan computes the Plan for reconciling destination toward source
// under mode. It is a pure function: it reads snapshot state for
// comparison only.
func BuildPlan(mode BackupMode, source, destination Snapshot) Plan {
	policy := source.policy
	var plan Plan

	if mode.writesNewContent() {
		for _, dir := range source.dirs {
			if !destination.hasDir(dir) {
				plan.DirectoriesToCreate = append(plan.DirectoriesToCreate, dir)
			}
		}
		sort.Slice(plan.DirectoriesToCreate, func(i, j int) bool {
			return len(plan.DirectoriesToCreate[i].String()) < len(plan.DirectoriesToCreate[j].String())
		})

		for _, entry := range source.files {
			if !destination.hasFile(entry.Path) {
				plan.MissingFiles = append(plan.MissingFiles, entry.Path)
			} else if mode == ModeSync {
				plan.CommonFiles = append(plan.CommonFiles, entry.Path)
			}
		}
	}

	if mode.deletesExtraContent() {
		for _, entry := range destination.files {
			if !source.hasFile(entry.Path) {
				plan.ExtraFiles = append(plan.ExtraFiles, entry.Path)
			}
		}

		var extraDirs []RelativePath
		for _, dir := range destination.dirs {
			if !source.hasDir(dir) {
				extraDirs = append(extraDirs, dir)
			}
		}
		plan.TopLevelExtraDirs = topLevel(extraDirs, policy)
	}

	return plan
}

// topLevel filters dirs down to the antichain under the prefix order: a
// directory is retained iff no other directory in the set is a strict
// ancestor of it.
func topLevel(dirs []RelativePath, policy CasePolicy) []RelativePath {
	var result []RelativePath
	for _, candidate := range dirs {
		isTopLevel := true
		for _, other := range dirs {
			if other.Equal(candidate, policy) {
				continue
			}
			if other.IsStrictPrefixOf(candidate, policy) {
				isTopLevel = false
				break
			}
		}
		if isTopLevel {
			result = append(result, candidate)
		}
	}
	return result
}
