// Package engine implements the reconciliation pipeline at the heart of the
// backup tool: snapshot capture, plan construction by set comparison,
// content-equivalence detection for the shared subset of two trees, and
// concurrent execution of the resulting plan.
//
// The package is organized the way the teacher organizes its own
// synchronization core: one package, several files, each owning one stage of
// the pipeline (path.go, snapshot.go, plan.go, overwrite.go, executor.go),
// with the orchestrator in orchestrator.go driving them in sequence.
package engine
