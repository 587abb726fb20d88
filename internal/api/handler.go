package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gradewatch/gradewatch/internal/fetch"
	"github.com/gradewatch/gradewatch/internal/rank"
	"github.com/gradewatch/gradewatch/internal/tracker"
)

// staleAfter is how old the current set may be before /health reports
// "stale" instead of "ok". Two publication cycles plus slack.
const staleAfter = 70 * time.Minute

// Handler is the HTTP handler for all /api/v1/* endpoints. It reads board
// state from the tracker and returns JSON responses.
type Handler struct {
	tracker *tracker.Tracker
	mux     *http.ServeMux
	now     func() time.Time
}

// New creates a Handler wired to the given tracker and registers all routes.
func New(t *tracker.Tracker) http.Handler {
	h := &Handler{tracker: t, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/api/v1/ranking", h.ranking)
	h.mux.HandleFunc("/api/v1/datacenters", h.dataCenters)
	h.mux.HandleFunc("/api/v1/deltas", h.deltas)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/refresh", h.refresh)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// BuildRanking assembles the board payload for the given filter. Shared by
// the ranking endpoint and the WebSocket hub broadcast.
func BuildRanking(t *tracker.Tracker, dataCenter string) RankingResponse {
	if dataCenter == "" {
		dataCenter = rank.FilterAll
	}
	ranked := t.Ranking(dataCenter)
	deltas := t.Deltas()
	updated, cycleID := t.LastUpdated()

	rows := make([]RankingRow, 0, len(ranked))
	for _, rec := range ranked {
		d := deltas[rec.ServerName]
		rows = append(rows, RankingRow{
			ServerRecord: rec,
			GradeChanged: d.GradeChanged,
			ProgressDiff: d.ProgressDiff,
		})
	}
	return RankingResponse{
		UpdatedAt:  updated,
		CycleID:    cycleID,
		DataCenter: dataCenter,
		Rows:       rows,
	}
}

// --- route handlers ---------------------------------------------------------

// ranking returns GET /api/v1/ranking?dc={name|all}.
func (h *Handler) ranking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildRanking(h.tracker, r.URL.Query().Get("dc")))
}

// dataCenters returns GET /api/v1/datacenters.
func (h *Handler) dataCenters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	dcs := h.tracker.DataCenters()
	if dcs == nil {
		dcs = []string{}
	}
	jsonResp(w, http.StatusOK, DataCentersResponse{DataCenters: dcs})
}

// deltas returns GET /api/v1/deltas: the raw per-server change map.
func (h *Handler) deltas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, cycleID := h.tracker.LastUpdated()
	jsonResp(w, http.StatusOK, DeltasResponse{
		CycleID: cycleID,
		Deltas:  h.tracker.Deltas(),
	})
}

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	records := h.tracker.Ranking(rank.FilterAll)
	updated, cycleID := h.tracker.LastUpdated()

	state := "ok"
	switch {
	case updated.IsZero():
		state = "empty"
	case h.now().Sub(updated) > staleAfter:
		state = "stale"
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		State:       state,
		RecordCount: len(records),
		UpdatedAt:   updated,
		CycleID:     cycleID,
	})
}

// refresh handles POST /api/v1/refresh: run a scrape now. The in-flight
// guard surfaces as 409; a source failure as 502, with the previous board
// still served by the read endpoints.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	err := h.tracker.Scrape(r.Context())
	switch {
	case errors.Is(err, tracker.ErrScrapeInFlight):
		jsonErr(w, http.StatusConflict, "a refresh is already running")
		return
	case errors.Is(err, fetch.ErrAllMirrorsFailed):
		jsonErr(w, http.StatusBadGateway, "report source unavailable")
		return
	case err != nil:
		jsonErr(w, http.StatusBadGateway, err.Error())
		return
	}
	jsonResp(w, http.StatusOK, RefreshResponse{
		Status:  "ok",
		Records: len(h.tracker.Ranking(rank.FilterAll)),
	})
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
