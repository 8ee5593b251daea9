package index

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/monitoring"
	"github.com/foliohq/folio/backend/internal/infrastructure/tasks"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// Enumerator produces the candidate file paths for one index refresh.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]string, error)
}

// Index holds the in-memory set of searchable file paths. Reads vastly
// outnumber writes: searches take the read lock, a refresh swaps the
// whole path slice under the write lock in one step so readers never
// observe a partially rebuilt index.
type Index struct {
	mu         sync.RWMutex
	paths      []string
	lastUpdate time.Time

	enumerator Enumerator
	spawner    *tasks.Spawner
	logger     *logging.Logger
	metrics    *monitoring.Metrics

	// now is replaceable in tests
	now func() time.Time

	refreshing atomic.Bool
}

// New creates a file index backed by the given enumerator.
func New(enumerator Enumerator, spawner *tasks.Spawner, logger *logging.Logger) *Index {
	return &Index{
		enumerator: enumerator,
		spawner:    spawner,
		logger:     logger,
		now:        time.Now,
	}
}

// WithMetrics adds metrics tracking to the index.
func (i *Index) WithMetrics(metrics *monitoring.Metrics) *Index {
	i.metrics = metrics
	return i
}

// Update atomically replaces the indexed paths and stamps the refresh
// time.
func (i *Index) Update(paths []string) {
	i.mu.Lock()
	i.paths = paths
	i.lastUpdate = i.now()
	count := len(paths)
	i.mu.Unlock()

	if i.metrics != nil {
		i.metrics.SetIndexPaths(count)
	}
	i.logger.Debug("file index updated", zap.Int("paths", count))
}

// Paths returns a snapshot copy of the indexed paths.
func (i *Index) Paths() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]string, len(i.paths))
	copy(out, i.paths)
	return out
}

// IsEmpty reports whether the index has never been populated.
func (i *Index) IsEmpty() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.paths) == 0
}

// IsStale reports whether the last refresh is older than threshold,
// compared at whole-second granularity. A zero threshold therefore
// means "stale unless refreshed within the current second", and an
// index that has never refreshed is always stale.
func (i *Index) IsStale(threshold time.Duration) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.lastUpdate.IsZero() {
		return true
	}
	elapsed := i.now().Sub(i.lastUpdate).Truncate(time.Second)
	return elapsed > threshold.Truncate(time.Second)
}

// Refresh synchronously re-enumerates and swaps the index contents.
// A failed enumeration leaves the previous contents in place.
func (i *Index) Refresh(ctx context.Context) error {
	start := i.now()
	paths, err := i.enumerator.Enumerate(ctx)
	if err != nil {
		if i.metrics != nil {
			i.metrics.RecordIndexRefresh("error", i.now().Sub(start))
		}
		return fmt.Errorf("enumerate files: %w", err)
	}

	i.Update(paths)
	if i.metrics != nil {
		i.metrics.RecordIndexRefresh("ok", i.now().Sub(start))
	}
	return nil
}

// RefreshIfStale kicks off a background refresh when the index is
// stale or empty. Callers never wait; the index serves its current
// contents meanwhile.
func (i *Index) RefreshIfStale(threshold time.Duration) {
	if !i.IsStale(threshold) && !i.IsEmpty() {
		return
	}
	i.RefreshAsync()
}

// RefreshAsync starts a background refresh unconditionally. Overlapping
// requests collapse into the one already in flight.
func (i *Index) RefreshAsync() {
	if !i.refreshing.CompareAndSwap(false, true) {
		return
	}
	i.spawner.Go("index-refresh", func(ctx context.Context) error {
		defer i.refreshing.Store(false)
		return i.Refresh(ctx)
	})
}

// Stats returns index statistics.
func (i *Index) Stats() types.IndexStats {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return types.IndexStats{
		Paths:         len(i.paths),
		LastRefreshed: i.lastUpdate,
		Empty:         len(i.paths) == 0,
	}
}
