package tasks

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
)

// Spawner runs fire-and-forget background tasks behind a supervised
// error-logging boundary. Tasks receive a background context, are never
// cancelled or retried, and their failures are logged rather than
// propagated; a panicking task is recovered so it cannot take down the
// process.
type Spawner struct {
	logger *logging.Logger
	wg     sync.WaitGroup
}

// NewSpawner creates a task spawner.
func NewSpawner(logger *logging.Logger) *Spawner {
	return &Spawner{logger: logger}
}

// Go runs fn on a new goroutine. The name tags log output.
func (s *Spawner) Go(name string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("background task panicked",
					zap.String("task", name),
					zap.Any("panic", r),
				)
			}
		}()

		if err := fn(context.Background()); err != nil {
			s.logger.Error("background task failed",
				zap.String("task", name),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all spawned tasks have finished. Used during
// shutdown and in tests; callers never wait on individual tasks.
func (s *Spawner) Wait() {
	s.wg.Wait()
}
