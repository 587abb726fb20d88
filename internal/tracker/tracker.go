package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gradewatch/gradewatch/internal/cycle"
	"github.com/gradewatch/gradewatch/internal/extract"
	"github.com/gradewatch/gradewatch/internal/fetch"
	"github.com/gradewatch/gradewatch/internal/metrics"
	"github.com/gradewatch/gradewatch/internal/rank"
	"github.com/gradewatch/gradewatch/internal/store"
	"github.com/gradewatch/gradewatch/pkg/types"
)

// ErrScrapeInFlight is returned when Scrape is called while another scrape
// is still running. The caller should simply try again later.
var ErrScrapeInFlight = errors.New("tracker: scrape already in flight")

// Tracker owns the current record set and the cross-cycle delta state.
// All exported methods are safe for concurrent use.
type Tracker struct {
	fetcher fetch.Fetcher
	store   store.Store
	now     func() time.Time

	inFlight atomic.Bool

	mu      sync.RWMutex
	records []types.ServerRecord
	deltas  cycle.DeltaMap
	cycleID string
	updated time.Time

	// onUpdate, when set, is called after every successful scrape, outside
	// the state lock. The WebSocket hub uses it to broadcast the new board.
	onUpdate func()
}

// New creates a Tracker reading from f and persisting through s.
func New(f fetch.Fetcher, s store.Store) *Tracker {
	return &Tracker{
		fetcher: f,
		store:   s,
		now:     time.Now,
	}
}

// OnUpdate registers fn to run after each successful scrape. Must be called
// before the first Scrape.
func (t *Tracker) OnUpdate(fn func()) { t.onUpdate = fn }

// Scrape fetches the report, extracts records, advances the cycle state and
// replaces the current set atomically. On failure the previous set is
// retained unchanged. A call while another scrape is in flight returns
// ErrScrapeInFlight without doing any work.
func (t *Tracker) Scrape(ctx context.Context) error {
	if !t.inFlight.CompareAndSwap(false, true) {
		return ErrScrapeInFlight
	}
	defer t.inFlight.Store(false)

	start := t.now()
	metrics.ScrapeAttempts.Inc()

	raw, err := t.fetcher.Fetch(ctx)
	if err != nil {
		metrics.ScrapeFailures.Inc()
		return fmt.Errorf("tracker: %w", err)
	}

	records, err := extract.FromRaw(raw)
	if err != nil {
		metrics.ScrapeFailures.Inc()
		return fmt.Errorf("tracker: %w", err)
	}

	now := t.now()
	deltas, cycleID := t.advanceCycle(records, now)

	t.mu.Lock()
	t.records = records
	t.deltas = deltas
	t.cycleID = cycleID
	t.updated = now
	t.mu.Unlock()

	t.persistString(keyLastUpdate, now.UTC().Format(time.RFC3339))

	metrics.ScrapeDuration.Set(t.now().Sub(start).Seconds())
	metrics.RecordCount.Set(float64(len(records)))
	slog.Info("tracker: scrape complete",
		"records", len(records), "cycle", cycleID, "elapsed", t.now().Sub(start))

	if t.onUpdate != nil {
		t.onUpdate()
	}
	return nil
}

// Ranking returns the current set ranked, optionally filtered by exact data
// center name ("" or "all" ranks everything). The result is freshly
// computed and safe for the caller to retain.
func (t *Tracker) Ranking(dataCenter string) []types.ServerRecord {
	t.mu.RLock()
	records := t.records
	t.mu.RUnlock()
	return rank.Rank(records, dataCenter)
}

// DataCenters returns the sorted set of data center names in the current set.
func (t *Tracker) DataCenters() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return rank.DataCenters(t.records)
}

// Deltas returns the per-server change map for the current cycle. The
// returned map is a copy.
func (t *Tracker) Deltas() cycle.DeltaMap {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(cycle.DeltaMap, len(t.deltas))
	for k, v := range t.deltas {
		out[k] = v
	}
	return out
}

// LastUpdated returns when the current set was scraped and the cycle id it
// belongs to. The zero time means no successful scrape yet.
func (t *Tracker) LastUpdated() (time.Time, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updated, t.cycleID
}

// advanceCycle computes the delta map for records at time now, persisting a
// fresh snapshot only when the publication cycle has rolled over.
func (t *Tracker) advanceCycle(records []types.ServerRecord, now time.Time) (cycle.DeltaMap, string) {
	cycleID := cycle.ID(now)

	lastCycle, ok := t.loadString(keyLastCycle)
	if ok && lastCycle == cycleID {
		// Same cycle: reuse the cached deltas so repeated refreshes are
		// idempotent. If the cache is unreadable, recompute against the
		// stored snapshot: but never overwrite the snapshot mid-cycle.
		if deltas, ok := t.loadDeltas(); ok {
			return deltas, cycleID
		}
		snap, _ := t.loadSnapshot()
		return cycle.Deltas(records, snap), cycleID
	}

	// New cycle: diff against the previous snapshot, then persist the new
	// snapshot, cycle id and delta cache together.
	snap, _ := t.loadSnapshot()
	deltas := cycle.Deltas(records, snap)
	t.persistCycle(cycleID, cycle.Capture(records), deltas)
	return deltas, cycleID
}
