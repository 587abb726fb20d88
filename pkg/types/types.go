package types

// ServerRecord is one row per server per scrape. The Extractor creates the
// full set fresh on every scrape; the set replaces any previous one wholesale
// and is never mutated field-by-field afterwards. The ranking engine is the
// one exception: it returns copies with Rank and Progress filled in.
type ServerRecord struct {
	// ServerName is unique within a data center for a given scrape.
	ServerName string `json:"server_name"`

	// DataCenter groups records and drives the optional ranking filter.
	DataCenter string `json:"data_center"`

	// Grade is the integer progress level. If StatusText indicates the
	// current grade is complete, the extractor has already decremented it
	// by one: the source counts the next grade while display still shows
	// the previous one as finished.
	Grade int `json:"grade"`

	// ProgressPercentage is the normalized gauge fraction in [0, 1].
	ProgressPercentage float64 `json:"progress_percentage"`

	// RawGauge is the raw encoded indicator token, retained for debugging.
	RawGauge string `json:"raw_gauge,omitempty"`

	// StatusText is the free-text status label from the source.
	StatusText string `json:"status_text"`

	// Rank is the dense rank within the (optionally filtered) sorted set.
	// Zero until assigned by the ranking engine.
	Rank int `json:"rank,omitempty"`

	// Progress is ProgressPercentage formatted as a percentage with two
	// decimal places, e.g. "62.50%". Empty until assigned by the ranking
	// engine.
	Progress string `json:"progress,omitempty"`
}

// SnapshotEntry is the persisted per-server baseline captured at the last
// cycle boundary.
type SnapshotEntry struct {
	Grade int `json:"grade"`

	// ProgressNum is the progress as a percentage in [0, 100].
	ProgressNum float64 `json:"progress_num"`
}

// Delta describes how one server changed since the last cycle's snapshot.
type Delta struct {
	GradeChanged bool `json:"grade_changed"`

	// ProgressDiff is the change in progress percentage points since the
	// snapshot. Zero when the server has no snapshot entry.
	ProgressDiff float64 `json:"progress_diff"`
}
