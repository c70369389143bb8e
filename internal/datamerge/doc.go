// Package datamerge combines exported data tables into one CSV.
//
// Collaborators hand back per-project exports of the curated table. Each
// candidate file is validated before merging: the camera_site, class_name,
// and timestamp columns must exist and carry no blank values, and a file
// that fails is rejected with a reason rather than silently skipped. Valid
// files are concatenated with a source column naming the contributing file,
// blank cells are normalized to NA, and the result is sorted by site and
// capture time.
package datamerge
