// Package diag defines the diagnostic records produced by workflow
// validation, the catalog of diagnostic codes with their severities, and
// the deterministic ordering rules shared by every caller.
//
// Diagnostics are immutable value types: validators create them, the
// aggregator sorts and deduplicates them, and nothing mutates them after
// that.
package diag
