// Package tablestore persists the curated species table.
//
// Every save writes two artifacts side by side: a CSV for collaborators and
// spreadsheet tooling, and a SQLite database for downstream analysis. The
// two forms are read back and compared after writing; a divergence aborts
// the save, because a table that cannot round-trip is a table that will
// silently lose expert corrections on the next run.
//
// Load prefers the CSV when both forms exist, since collaborators edit the
// CSV by hand between runs.
package tablestore
