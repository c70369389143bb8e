// Package sitestats derives per-site operating statistics from the curated
// table.
//
// A base site CSV supplies the deployment metadata (camera_site, lat, lon);
// the curated table supplies the detections. The join is strict both ways:
// base sites with no detections and detected sites missing from the base
// table are both reported, listing every offender, because a silent mismatch
// usually means a mislabeled folder in the field data.
package sitestats
