// Package cache implementa el almacén de claves de idempotencia (Redis o memoria).
package cache

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// NewIdempotencyStore usa Redis si REDIS_URL está definido y responde; si no, memoria.
// El segundo valor cierra la conexión (no-op en memoria).
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (ports.IdempotencyStore, func() error) {
	if log == nil {
		log = logger.Nop()
	}
	if !cfg.Enabled() {
		log.Info().Msg("redis not configured, using in-memory idempotency store")
		return NewMemoryIdempotencyStore(), func() error { return nil }
	}
	rs, err := NewRedisIdempotencyStore(ctx, cfg.URL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory idempotency store")
		return NewMemoryIdempotencyStore(), func() error { return nil }
	}
	return rs, rs.Close
}
