// Package sanity defines the error taxonomy shared by the table curation
// stages.
//
// Stage code tags failures with one of the exported sentinel errors so the
// CLI can distinguish configuration mistakes from data-integrity violations.
// Invariant violations are fatal by design: a curated table that silently
// understates animal counts is worse than no table at all, so nothing in
// this module retries or downgrades an ErrInvariant.
package sanity
