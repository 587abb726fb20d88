// Package cycle derives publication cycle identities and between-cycle
// deltas.
//
// The source publishes on the half hour; allowing a two-minute grace delay,
// cycles roll over at minute 2 and minute 32 of every hour (UTC). Minutes
// 0–1 therefore still belong to the previous hour's :32 cycle. CycleID maps
// any timestamp to a comparable string key that is identical for timestamps
// in the same cycle and distinct otherwise, including across hour and day
// boundaries.
//
// Deltas compare the current record set against the snapshot persisted at
// the last cycle boundary; a server with no snapshot entry reports no
// change.
package cycle
