// Package table holds the in-memory detection table that every curation
// stage consumes and produces.
//
// A Table is an arena of Records addressed by stable integer ids. Stages
// mutate records through those ids rather than positional lookups, so a sort
// or a dropped row never invalidates a reference another pass is holding.
// The package also owns the canonical column schema shared by the CSV and
// SQLite forms of the table, and the multi-format timestamp parsing the
// camera fleet produces.
package table
