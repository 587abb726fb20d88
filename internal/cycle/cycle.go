package cycle

import (
	"time"

	"github.com/gradewatch/gradewatch/pkg/types"
)

// Cycle boundary minutes within each hour.
const (
	firstBoundary  = 2
	secondBoundary = 32
)

// Snapshot maps server name to its persisted baseline. A nil Snapshot is
// valid and means no prior data (first-ever run or corrupted persistence).
type Snapshot map[string]types.SnapshotEntry

// DeltaMap maps server name to its change since the snapshot.
type DeltaMap map[string]types.Delta

// ID returns the cycle key for t, formatted as "2006-01-02T15:04" in UTC
// with the minute pinned to a boundary. Two timestamps in the same cycle
// yield identical keys.
func ID(t time.Time) string {
	t = t.UTC()
	boundary := t.Truncate(time.Hour)
	switch m := t.Minute(); {
	case m >= secondBoundary:
		boundary = boundary.Add(secondBoundary * time.Minute)
	case m >= firstBoundary:
		boundary = boundary.Add(firstBoundary * time.Minute)
	default:
		// Minutes 0-1 still belong to the previous hour's :32 cycle.
		boundary = boundary.Add(secondBoundary*time.Minute - time.Hour)
	}
	return boundary.Format("2006-01-02T15:04")
}

// Deltas computes the per-server change of records against snap. A server
// absent from snap reports {GradeChanged: false, ProgressDiff: 0}; with a
// nil snap every server does, which is the documented first-run behavior.
func Deltas(records []types.ServerRecord, snap Snapshot) DeltaMap {
	out := make(DeltaMap, len(records))
	for _, r := range records {
		entry, ok := snap[r.ServerName]
		if !ok {
			out[r.ServerName] = types.Delta{}
			continue
		}
		out[r.ServerName] = types.Delta{
			GradeChanged: r.Grade != entry.Grade,
			ProgressDiff: r.ProgressPercentage*100 - entry.ProgressNum,
		}
	}
	return out
}

// Capture builds the snapshot of records to persist at a cycle boundary.
func Capture(records []types.ServerRecord) Snapshot {
	snap := make(Snapshot, len(records))
	for _, r := range records {
		snap[r.ServerName] = types.SnapshotEntry{
			Grade:       r.Grade,
			ProgressNum: r.ProgressPercentage * 100,
		}
	}
	return snap
}
