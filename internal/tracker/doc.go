// Package tracker coordinates the scrape pipeline and owns the current
// record set.
//
// Scrape runs fetch → parse → extract → cycle/delta bookkeeping and replaces
// the in-memory set atomically: consumers never observe a partially-updated
// board, and on any failure the previous set is left untouched. Only one
// scrape may be in flight at a time; a concurrent call is a skip
// (ErrScrapeInFlight), not a queue.
//
// Cross-cycle state lives in the injected key-value store. The per-server
// snapshot and the last cycle id are updated together, and only when the
// computed cycle id differs from the persisted one: repeated refreshes
// inside a cycle reuse the cached deltas, so a mid-cycle reload never erases
// the "what changed last cycle" indicators. Corrupted stored values are
// treated as absent.
package tracker
