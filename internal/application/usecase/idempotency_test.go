package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/cache"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

type idemResult struct {
	ID string `json:"id"`
}

func TestIdempotent_PeticionesConcurrentesEjecutanUnaVez(t *testing.T) {
	store := cache.NewMemoryIdempotencyStore()
	ctx := context.Background()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func() (*idemResult, error) {
		n := calls.Add(1)
		if n == 1 {
			close(started)
			<-release
		}
		return &idemResult{ID: "order-" + string(rune('0'+n))}, nil
	}

	var wg sync.WaitGroup
	results := make([]*idemResult, 2)
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = idempotent(ctx, store, logger.Nop(), "user-1:key", fn)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = idempotent(ctx, store, logger.Nop(), "user-1:key", fn)
	}()
	time.Sleep(3 * idempotencyPoll)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), calls.Load(), "la segunda petición espera a la primera")
	assert.Equal(t, "order-1", results[0].ID)
	assert.Equal(t, results[0], results[1])
}

func TestIdempotent_FalloLiberaLaClave(t *testing.T) {
	store := cache.NewMemoryIdempotencyStore()
	ctx := context.Background()

	_, err := idempotent(ctx, store, logger.Nop(), "k", func() (*idemResult, error) {
		return nil, errors.New("gateway caído")
	})
	require.Error(t, err)

	out, err := idempotent(ctx, store, logger.Nop(), "k", func() (*idemResult, error) {
		return &idemResult{ID: "retry"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "retry", out.ID)
}

func TestIdempotent_ReservaEnCursoDevuelveConflicto(t *testing.T) {
	prevWait := idempotencyWait
	idempotencyWait = 2 * idempotencyPoll
	t.Cleanup(func() { idempotencyWait = prevWait })

	store := cache.NewMemoryIdempotencyStore()
	ctx := context.Background()
	ok, err := store.Put(ctx, "k", inFlightMarker, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	called := false
	_, err = idempotent(ctx, store, logger.Nop(), "k", func() (*idemResult, error) {
		called = true
		return &idemResult{}, nil
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, called)
}
