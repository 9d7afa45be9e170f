package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// IdempotencyTTL tiempo que se recuerda la respuesta de un Idempotency-Key.
const IdempotencyTTL = 24 * time.Hour

// inFlightMarker valor que reserva la clave mientras fn se ejecuta. Nunca es JSON válido.
const inFlightMarker = "\x00in-flight"

// inFlightTTL libera la reserva si el proceso que la tomó muere a mitad.
const inFlightTTL = 2 * time.Minute

var (
	// idempotencyWait cuánto espera una petición repetida a que termine la original.
	idempotencyWait = 10 * time.Second
	// idempotencyPoll intervalo de consulta durante la espera.
	idempotencyPoll = 50 * time.Millisecond
)

// idempotent ejecuta fn una sola vez por clave y devuelve la respuesta guardada en los
// reintentos. La clave se reserva antes de ejecutar fn; una petición concurrente con la
// misma clave espera la respuesta de la primera o recibe ErrConflict si no llega a tiempo.
// Sin clave o sin store se ejecuta siempre. Los fallos del store solo se registran.
func idempotent[T any](ctx context.Context, store ports.IdempotencyStore, log *logger.Logger, key string, fn func() (*T, error)) (*T, error) {
	if key == "" || store == nil {
		return fn()
	}
	deadline := time.Now().Add(idempotencyWait)
	for {
		reserved, err := store.Put(ctx, key, inFlightMarker, inFlightTTL)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("idempotency store put failed")
			return fn()
		}
		if reserved {
			return runReserved(ctx, store, log, key, fn)
		}

		raw, found, err := store.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("idempotency store get failed")
		case !found:
			// la original falló y liberó la clave, o la reserva expiró
			continue
		case raw != inFlightMarker:
			var out T
			if err := json.Unmarshal([]byte(raw), &out); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("idempotency entry unreadable")
				return fn()
			}
			return &out, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: hay una petición en curso con el mismo Idempotency-Key", domain.ErrConflict)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(idempotencyPoll):
		}
	}
}

// runReserved ejecuta fn con la clave ya reservada. Si fn falla se libera la clave
// para que un reintento pueda volver a ejecutarla.
func runReserved[T any](ctx context.Context, store ports.IdempotencyStore, log *logger.Logger, key string, fn func() (*T, error)) (*T, error) {
	out, err := fn()
	if err != nil {
		if delErr := store.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("idempotency store delete failed")
		}
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, string(raw), IdempotencyTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("idempotency store set failed")
	}
	return out, nil
}
