package ports

import (
	"context"
	"time"
)

// IdempotencyStore guarda la respuesta asociada a un Idempotency-Key.
type IdempotencyStore interface {
	// Get devuelve el valor guardado y true si la clave existe y no expiró.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put guarda value solo si la clave no existía. Devuelve false si ya estaba registrada.
	Put(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// Set sobrescribe el valor de la clave.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete libera la clave.
	Delete(ctx context.Context, key string) error
}
