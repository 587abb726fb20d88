// Package types defines shared Go types used across the gradewatch pipeline.
// These are the canonical in-memory representations of per-server progress
// data: the record extracted from the report, the persisted snapshot entry
// used as the delta baseline, and the per-server delta handed to display
// consumers.
package types
