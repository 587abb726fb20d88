// Package fetch retrieves the raw report markup.
//
// A Client holds an ordered list of mirror URLs, typically the origin page
// first and read-through proxy endpoints after it, and tries each in turn with a
// per-request timeout. The pipeline only cares about "raw text or a failure
// signal": when every mirror is exhausted the returned error wraps
// ErrAllMirrorsFailed so callers can classify it without string matching.
// Retry policy beyond the ordered pass is out of scope; callers re-invoke on
// the next refresh tick.
package fetch
