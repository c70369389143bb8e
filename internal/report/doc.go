// Package report derives human-facing summaries from the curated table.
//
// The CLI renders these; nothing here writes output itself.
package report
