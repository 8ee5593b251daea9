package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
)

func TestGoRunsTask(t *testing.T) {
	s := NewSpawner(logging.NewNop())

	var ran atomic.Bool
	s.Go("test", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	s.Wait()

	assert.True(t, ran.Load())
}

func TestGoSwallowsError(t *testing.T) {
	s := NewSpawner(logging.NewNop())

	// An error must not escape the supervised boundary
	s.Go("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	s.Wait()
}

func TestGoRecoversPanic(t *testing.T) {
	s := NewSpawner(logging.NewNop())

	s.Go("panicking", func(ctx context.Context) error {
		panic("boom")
	})
	s.Wait()
}

func TestWaitBlocksUntilAllDone(t *testing.T) {
	s := NewSpawner(logging.NewNop())

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		s.Go("counter", func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}
	s.Wait()

	assert.Equal(t, int32(10), count.Load())
}
