package tracker

import (
	"encoding/json"
	"log/slog"

	"github.com/gradewatch/gradewatch/internal/cycle"
)

// Persistence keys. Values are JSON except the cycle id and timestamp,
// which are plain strings.
const (
	keyLastUpdate = "last_update"
	keyLastCycle  = "last_cycle"
	keyDeltas     = "last_deltas"
	keySnapshot   = "last_snapshot"
)

// loadString reads a plain-string key; store errors degrade to absent.
func (t *Tracker) loadString(key string) (string, bool) {
	v, ok, err := t.store.Get(key)
	if err != nil {
		slog.Warn("tracker: store read failed: treating as absent", "key", key, "err", err)
		return "", false
	}
	return v, ok
}

// loadSnapshot reads the persisted per-server baseline. Absent or
// unparseable values degrade to a nil snapshot (no prior data).
func (t *Tracker) loadSnapshot() (cycle.Snapshot, bool) {
	raw, ok := t.loadString(keySnapshot)
	if !ok {
		return nil, false
	}
	var snap cycle.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		slog.Warn("tracker: corrupt snapshot: treating as absent", "err", err)
		return nil, false
	}
	return snap, true
}

// loadDeltas reads the cached delta map for the current cycle.
func (t *Tracker) loadDeltas() (cycle.DeltaMap, bool) {
	raw, ok := t.loadString(keyDeltas)
	if !ok {
		return nil, false
	}
	var deltas cycle.DeltaMap
	if err := json.Unmarshal([]byte(raw), &deltas); err != nil {
		slog.Warn("tracker: corrupt delta cache: treating as absent", "err", err)
		return nil, false
	}
	return deltas, true
}

// persistCycle writes the new snapshot, cycle id and delta cache. Write
// failures are logged, not fatal: the in-memory state is already correct
// and the next cycle boundary will retry.
func (t *Tracker) persistCycle(cycleID string, snap cycle.Snapshot, deltas cycle.DeltaMap) {
	t.persistJSON(keySnapshot, snap)
	t.persistJSON(keyDeltas, deltas)
	t.persistString(keyLastCycle, cycleID)
}

func (t *Tracker) persistJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("tracker: marshal failed", "key", key, "err", err)
		return
	}
	t.persistString(key, string(data))
}

func (t *Tracker) persistString(key, value string) {
	if err := t.store.Set(key, value); err != nil {
		slog.Warn("tracker: store write failed", "key", key, "err", err)
	}
}
