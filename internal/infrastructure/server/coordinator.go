package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/domain/index"
	"github.com/foliohq/folio/backend/internal/domain/pool"
	"github.com/foliohq/folio/backend/internal/domain/session"
	"github.com/foliohq/folio/backend/internal/host"
	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/tasks"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// coordinator fans window events out to the components that care. It
// is the hub's Events sink and the HTTP window handlers' target.
type coordinator struct {
	binding    *host.Remote
	store      *session.Store
	pool       *pool.Manager
	index      *index.Index
	spawner    *tasks.Spawner
	logger     *logging.Logger
	staleAfter time.Duration
}

func newCoordinator(
	binding *host.Remote,
	store *session.Store,
	surfacePool *pool.Manager,
	fileIndex *index.Index,
	spawner *tasks.Spawner,
	logger *logging.Logger,
	staleAfter time.Duration,
) *coordinator {
	return &coordinator{
		binding:    binding,
		store:      store,
		pool:       surfacePool,
		index:      fileIndex,
		spawner:    spawner,
		logger:     logger,
		staleAfter: staleAfter,
	}
}

// WindowResized caches the new geometry and fans the resize out to
// every open and pooled surface. The first report also bootstraps the
// session: the initial tab and the pool need window geometry, so they
// wait for it.
func (co *coordinator) WindowResized(bounds types.WindowBounds) {
	co.binding.UpdateWindowBounds(bounds)

	if err := co.store.Initialize(); err != nil {
		co.logger.Warn("session bootstrap deferred", zap.Error(err))
	}
	co.store.ResizeAll(bounds)

	if co.pool != nil {
		co.pool.ResizeIdle(bounds)
		co.pool.Replenish()
	}
}

// WindowFocused refreshes the file index when it has gone stale while
// the window was in the background.
func (co *coordinator) WindowFocused() {
	co.index.RefreshIfStale(co.staleAfter)
}

// WindowCloseRequested closes the active tab, or the window itself
// when only one tab remains.
func (co *coordinator) WindowCloseRequested() {
	co.spawner.Go("close-request", func(ctx context.Context) error {
		return co.store.CloseActiveOrWindow()
	})
}
