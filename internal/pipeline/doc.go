// Package pipeline wires the curation stages into runnable workflows.
//
// Two drivers exist. Consolidate builds the first curated table of a
// project from the raw classifier exports plus the expert snip sort.
// Reconcile folds later folder-level corrections into an existing table,
// re-segments it, and aggregates per-image counts.
//
// Both drivers take a file lock next to the output table so concurrent runs
// fail fast instead of interleaving writes, and tag every log line with a
// run id.
package pipeline
