// Package ws pushes the ranked board to WebSocket clients.
//
// The hub holds one connection set and broadcasts the full unfiltered board
// whenever the tracker completes a scrape (wired through Tracker.OnUpdate),
// plus once immediately on connect so clients render without waiting for
// the next refresh.
package ws
