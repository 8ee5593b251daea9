package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/host"
	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/monitoring"
	"github.com/foliohq/folio/backend/internal/infrastructure/tasks"
	"github.com/foliohq/folio/backend/internal/shared/id"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// Manager maintains a small stock of pre-provisioned hidden surfaces so
// opening a tab can re-skin one instead of paying surface construction
// latency. Idle surfaces hand out LIFO; refills run in the background.
type Manager struct {
	mu   sync.Mutex
	idle []string

	binding host.Binding
	spawner *tasks.Spawner
	logger  *logging.Logger
	metrics *monitoring.Metrics

	targetSize   int
	chromeOffset float64
}

// NewManager creates a surface pool. targetSize is how many idle
// surfaces the pool keeps warm; zero disables provisioning entirely.
func NewManager(binding host.Binding, spawner *tasks.Spawner, logger *logging.Logger, targetSize int, chromeOffset float64) *Manager {
	return &Manager{
		binding:      binding,
		spawner:      spawner,
		logger:       logger,
		targetSize:   targetSize,
		chromeOffset: chromeOffset,
	}
}

// WithMetrics adds metrics tracking to the pool.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Claim pops the most recently provisioned idle surface. ok is false
// when the pool is empty; the caller falls back to fresh construction.
func (m *Manager) Claim() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.idle) == 0 {
		if m.metrics != nil {
			m.metrics.RecordPoolClaim("miss")
		}
		return "", false
	}

	surfaceID := m.idle[len(m.idle)-1]
	m.idle = m.idle[:len(m.idle)-1]

	if m.metrics != nil {
		m.metrics.RecordPoolClaim("hit")
		m.metrics.SetPoolIdle(len(m.idle))
	}
	m.logger.Debug("claimed pooled surface",
		zap.String("id", surfaceID),
		zap.Int("remaining", len(m.idle)),
	)
	return surfaceID, true
}

// Replenish refills the pool to its target size in the background.
func (m *Manager) Replenish() {
	m.spawner.Go("pool-replenish", m.Fill)
}

// Fill provisions surfaces until the pool holds its target size.
// Each creation failure is logged and skipped; a shortfall stands
// until the next Replenish.
func (m *Manager) Fill(ctx context.Context) error {
	for attempt := 0; attempt < m.targetSize; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m.mu.Lock()
		need := m.targetSize - len(m.idle)
		m.mu.Unlock()
		if need <= 0 {
			return nil
		}

		if err := m.provision(); err != nil {
			m.logger.Warn("failed to provision pooled surface", zap.Error(err))
		}
	}
	return nil
}

// provision constructs one hidden surface and adds it to the pool.
func (m *Manager) provision() error {
	win, err := m.binding.WindowBounds()
	if err != nil {
		return err
	}

	scale := win.Scale
	if scale == 0 {
		scale = 1
	}
	bounds := types.SurfaceBounds{
		X:      0,
		Y:      m.chromeOffset,
		Width:  win.Width / scale,
		Height: win.Height/scale - m.chromeOffset,
	}

	surfaceID := id.NewPoolID().String()
	if err := m.binding.CreateSurface(surfaceID, types.KindHome, "", bounds); err != nil {
		return err
	}
	if err := m.binding.Hide(surfaceID); err != nil {
		// The surface exists but may be visible; destroy rather than
		// pool a surface in an unknown state.
		if derr := m.binding.Destroy(surfaceID); derr != nil {
			m.logger.Warn("failed to destroy unpoolable surface", zap.String("id", surfaceID), zap.Error(derr))
		}
		return err
	}

	m.mu.Lock()
	m.idle = append(m.idle, surfaceID)
	count := len(m.idle)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetPoolIdle(count)
	}
	m.logger.Debug("provisioned pooled surface",
		zap.String("id", surfaceID),
		zap.Int("idle", count),
	)
	return nil
}

// ResizeIdle repositions idle surfaces after a window resize so a later
// claim does not hand out a stale-sized surface.
func (m *Manager) ResizeIdle(win types.WindowBounds) {
	scale := win.Scale
	if scale == 0 {
		scale = 1
	}
	bounds := types.SurfaceBounds{
		X:      0,
		Y:      m.chromeOffset,
		Width:  win.Width / scale,
		Height: win.Height/scale - m.chromeOffset,
	}

	m.mu.Lock()
	ids := make([]string, len(m.idle))
	copy(ids, m.idle)
	m.mu.Unlock()

	for _, surfaceID := range ids {
		if err := m.binding.Resize(surfaceID, bounds); err != nil {
			m.logger.Warn("failed to resize pooled surface", zap.String("id", surfaceID), zap.Error(err))
		}
	}
}

// Size returns the number of idle surfaces.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.idle)
}

// Stats returns pool statistics.
func (m *Manager) Stats() types.PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.PoolStats{
		Idle:       len(m.idle),
		TargetSize: m.targetSize,
	}
}

// Drain destroys all idle surfaces. Called during shutdown.
func (m *Manager) Drain() {
	m.mu.Lock()
	ids := m.idle
	m.idle = nil
	m.mu.Unlock()

	for _, surfaceID := range ids {
		if err := m.binding.Destroy(surfaceID); err != nil {
			m.logger.Warn("failed to destroy pooled surface", zap.String("id", surfaceID), zap.Error(err))
		}
	}
	if m.metrics != nil {
		m.metrics.SetPoolIdle(0)
	}
}
