// Package event partitions each camera site's detections into independent
// events and uses event context to resolve unknown classifications.
//
// An event is a maximal run of same-site detections judged to be one
// continuous visit. Two segmentation rules exist: Segment applies the full
// gap-or-class-change rule used during initial consolidation, and
// SegmentByGap applies the gap-only rule used after folder reconciliation.
// Both are explicit operations; callers choose, never the package.
package event
