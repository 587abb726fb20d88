package api

import (
	"time"

	"github.com/gradewatch/gradewatch/internal/cycle"
	"github.com/gradewatch/gradewatch/pkg/types"
)

// RankingRow is one board entry in GET /api/v1/ranking: the ranked record
// plus its change-since-last-cycle annotations.
type RankingRow struct {
	types.ServerRecord
	GradeChanged bool    `json:"grade_changed"`
	ProgressDiff float64 `json:"progress_diff"`
}

// RankingResponse is the payload for GET /api/v1/ranking and the WebSocket
// board broadcast.
type RankingResponse struct {
	UpdatedAt  time.Time    `json:"updated_at"`
	CycleID    string       `json:"cycle_id"`
	DataCenter string       `json:"data_center"` // the applied filter, "all" when unfiltered
	Rows       []RankingRow `json:"rows"`
}

// DataCentersResponse is the payload for GET /api/v1/datacenters.
type DataCentersResponse struct {
	DataCenters []string `json:"data_centers"`
}

// DeltasResponse is the payload for GET /api/v1/deltas.
type DeltasResponse struct {
	CycleID string         `json:"cycle_id"`
	Deltas  cycle.DeltaMap `json:"deltas"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State       string    `json:"state"` // "ok" | "stale" | "empty"
	RecordCount int       `json:"record_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	CycleID     string    `json:"cycle_id"`
}

// RefreshResponse is the payload for POST /api/v1/refresh.
type RefreshResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}
