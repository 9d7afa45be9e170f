package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/pkg/config"
)

func TestMemoryStore_PutSoloLaPrimeraVez(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIdempotencyStore()

	ok, err := s.Put(ctx, "k1", `{"id":"a"}`, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Put(ctx, "k1", `{"id":"b"}`, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	v, found, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"a"}`, v)
}

func TestMemoryStore_Expira(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryIdempotencyStore()
	s.now = func() time.Time { return now }

	_, _ = s.Put(ctx, "k", "v", time.Minute)
	now = now.Add(2 * time.Minute)

	_, found, _ := s.Get(ctx, "k")
	assert.False(t, found)

	ok, _ := s.Put(ctx, "k", "v2", time.Minute)
	assert.True(t, ok, "una clave vencida se puede reutilizar")
}

func TestNewIdempotencyStore_SinRedis(t *testing.T) {
	s, closeFn := NewIdempotencyStore(context.Background(), config.RedisConfig{}, nil)
	assert.IsType(t, &MemoryIdempotencyStore{}, s)
	assert.NoError(t, closeFn())
}

func TestMemoryStore_SetSobrescribeYDeleteLibera(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryIdempotencyStore()

	ok, err := s.Put(ctx, "k", "reservada", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Set(ctx, "k", `{"id":"a"}`, time.Hour))
	v, found, _ := s.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, `{"id":"a"}`, v)

	require.NoError(t, s.Delete(ctx, "k"))
	ok, _ = s.Put(ctx, "k", "otra", time.Minute)
	assert.True(t, ok)
}
