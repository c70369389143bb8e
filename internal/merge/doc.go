// Package merge folds expert corrections into the detection table.
//
// Two reconciliation shapes exist. ApplySnipSort handles the one-time expert
// species sort of anonymized snips, keyed by rand_name. Reconcile handles
// later species-folder rearrangements, keyed by (camera_site, base filename)
// so multiple sub-detections of one image resolve to the same correction.
//
// A CorrectionMap refuses to serve while it holds conflicting entries: the
// same image mapped to two species by two source folders is ambiguous ground
// truth, and the run aborts with a full listing rather than letting the last
// writer win.
package merge
