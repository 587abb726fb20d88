package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gradewatch/gradewatch/internal/fetch"
	"github.com/gradewatch/gradewatch/internal/store"
	"github.com/gradewatch/gradewatch/internal/tracker"
)

const testReport = `
<li class="report-dc"><h2 class="report-dc__name">Aether</h2>
  <div class="server-card">
    <p class="server-card__name">Adamant</p>
    <p class="server-card__status">underway</p>
    <p class="server-card__grade">5</p>
    <div class="server-card__bar bar--step-4"></div>
  </div>
  <div class="server-card">
    <p class="server-card__name">Basalt</p>
    <p class="server-card__status">underway</p>
    <p class="server-card__grade">5</p>
    <div class="server-card__bar bar--step-4"></div>
  </div>
</li>
<li class="report-dc"><h2 class="report-dc__name">Crystal</h2>
  <div class="server-card">
    <p class="server-card__name">Cinder</p>
    <p class="server-card__status">underway</p>
    <p class="server-card__grade">4</p>
    <div class="server-card__bar bar--step-7"></div>
  </div>
</li>`

type stubFetcher struct {
	body string
	fail bool
}

func (s *stubFetcher) Fetch(ctx context.Context) (string, error) {
	if s.fail {
		return "", fmt.Errorf("%w: last: connection refused", fetch.ErrAllMirrorsFailed)
	}
	return s.body, nil
}

// blockingFetcher parks in Fetch while block is set, signalling started and
// waiting on release, so a test can hold a scrape in flight.
type blockingFetcher struct {
	body    string
	block   atomic.Bool
	started chan struct{}
	release chan struct{}
}

func (b *blockingFetcher) Fetch(ctx context.Context) (string, error) {
	if b.block.Load() {
		b.started <- struct{}{}
		<-b.release
	}
	return b.body, nil
}

// newServer returns an httptest server over a freshly scraped tracker.
func newServer(t *testing.T, f fetch.Fetcher) (*httptest.Server, *tracker.Tracker) {
	t.Helper()
	tr := tracker.New(f, store.NewMemory())
	if err := tr.Scrape(context.Background()); err != nil {
		t.Fatalf("seed scrape: %v", err)
	}
	srv := httptest.NewServer(New(tr))
	t.Cleanup(srv.Close)
	return srv, tr
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestRankingEndpoint(t *testing.T) {
	srv, _ := newServer(t, &stubFetcher{body: testReport})

	var got RankingResponse
	if code := getJSON(t, srv.URL+"/api/v1/ranking", &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.DataCenter != "all" || len(got.Rows) != 3 {
		t.Fatalf("got dc=%q rows=%d, want all/3", got.DataCenter, len(got.Rows))
	}
	// Adamant and Basalt tie at (5, 0.5); Cinder follows at rank 3.
	if got.Rows[0].Rank != 1 || got.Rows[1].Rank != 1 || got.Rows[2].Rank != 3 {
		t.Errorf("ranks = %d,%d,%d, want 1,1,3",
			got.Rows[0].Rank, got.Rows[1].Rank, got.Rows[2].Rank)
	}
	if got.Rows[0].Progress != "50.00%" {
		t.Errorf("row progress = %q, want 50.00%%", got.Rows[0].Progress)
	}
	if got.CycleID == "" || got.UpdatedAt.IsZero() {
		t.Errorf("missing cycle metadata: %+v", got)
	}
}

func TestRankingEndpoint_Filter(t *testing.T) {
	srv, _ := newServer(t, &stubFetcher{body: testReport})

	var got RankingResponse
	getJSON(t, srv.URL+"/api/v1/ranking?dc=Crystal", &got)
	if len(got.Rows) != 1 || got.Rows[0].ServerName != "Cinder" {
		t.Fatalf("filtered rows = %+v, want just Cinder", got.Rows)
	}
	if got.Rows[0].Rank != 1 {
		t.Errorf("Cinder rank = %d, want 1 (recomputed over subset)", got.Rows[0].Rank)
	}
}

func TestDataCentersEndpoint(t *testing.T) {
	srv, _ := newServer(t, &stubFetcher{body: testReport})

	var got DataCentersResponse
	getJSON(t, srv.URL+"/api/v1/datacenters", &got)
	if len(got.DataCenters) != 2 || got.DataCenters[0] != "Aether" || got.DataCenters[1] != "Crystal" {
		t.Errorf("data centers = %v, want [Aether Crystal]", got.DataCenters)
	}
}

func TestDeltasEndpoint(t *testing.T) {
	srv, _ := newServer(t, &stubFetcher{body: testReport})

	var got DeltasResponse
	getJSON(t, srv.URL+"/api/v1/deltas", &got)
	if len(got.Deltas) != 3 {
		t.Errorf("got %d deltas, want 3", len(got.Deltas))
	}
	for name, d := range got.Deltas {
		if d.GradeChanged || d.ProgressDiff != 0 {
			t.Errorf("%s: first-run delta = %+v, want zero", name, d)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newServer(t, &stubFetcher{body: testReport})

	var got HealthResponse
	getJSON(t, srv.URL+"/api/v1/health", &got)
	if got.State != "ok" || got.RecordCount != 3 {
		t.Errorf("health = %+v, want ok with 3 records", got)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	f := &stubFetcher{body: testReport}
	srv, _ := newServer(t, f)

	resp, err := http.Post(srv.URL+"/api/v1/refresh", "", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("refresh status = %d, want 200", resp.StatusCode)
	}

	// Source down: 502, and the board endpoints keep serving the old set.
	f.fail = true
	resp2, err := http.Post(srv.URL+"/api/v1/refresh", "", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadGateway {
		t.Errorf("refresh status = %d, want 502", resp2.StatusCode)
	}
	var board RankingResponse
	getJSON(t, srv.URL+"/api/v1/ranking", &board)
	if len(board.Rows) != 3 {
		t.Errorf("board lost after failed refresh: %d rows", len(board.Rows))
	}
}

func TestRefreshEndpoint_Conflict(t *testing.T) {
	f := &blockingFetcher{
		body:    testReport,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	srv, _ := newServer(t, f) // seed scrape runs before blocking kicks in

	f.block.Store(true)
	type result struct {
		code int
		err  error
	}
	held := make(chan result, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/v1/refresh", "", nil)
		if err != nil {
			held <- result{err: err}
			return
		}
		resp.Body.Close()
		held <- result{code: resp.StatusCode}
	}()
	<-f.started // the held refresh has reached the fetcher

	resp, err := http.Post(srv.URL+"/api/v1/refresh", "", nil)
	if err != nil {
		t.Fatalf("POST refresh: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("concurrent refresh status = %d, want 409", resp.StatusCode)
	}

	close(f.release)
	if r := <-held; r.err != nil || r.code != http.StatusOK {
		t.Errorf("held refresh = %+v, want 200", r)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t, &stubFetcher{body: testReport})

	resp, err := http.Post(srv.URL+"/api/v1/ranking", "", nil)
	if err != nil {
		t.Fatalf("POST ranking: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}

	getResp, err := http.Get(srv.URL + "/api/v1/refresh")
	if err != nil {
		t.Fatalf("GET refresh: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET refresh status = %d, want 405", getResp.StatusCode)
	}
}
