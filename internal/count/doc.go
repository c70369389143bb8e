// Package count collapses co-occurring detections into per-image animal
// counts.
//
// Multiple sub-detections of one image share a (site, class, event,
// timestamp) key; aggregation keeps the first row of each key and records
// the group size in its count column. The collapse is re-derived and checked
// against the pre-aggregation sizes before the result is accepted: a
// mismatch would silently understate animal counts, so it aborts the run.
package count
