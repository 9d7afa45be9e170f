// Package storage implementa ports.DocumentStorage sobre S3 o sobre Postgres.
package storage

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// New elige el backend: S3 si hay bucket y responde, si no document_blobs.
// La decisión se registra una sola vez en el log, igual que el router de bases de datos.
func New(ctx context.Context, cfg config.S3Config, blobs repository.BlobRepository, maxBytes int64, log *logger.Logger) ports.DocumentStorage {
	if log == nil {
		log = logger.Nop()
	}
	if !cfg.Enabled() {
		log.Info().Msg("s3 not configured, storing documents in the documents database")
		return NewDBStorage(blobs, maxBytes)
	}
	s3s, err := NewS3Storage(ctx, cfg)
	if err == nil {
		err = s3s.Ping(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Str("bucket", cfg.Bucket).Msg("s3 unavailable, storing documents in the documents database")
		return NewDBStorage(blobs, maxBytes)
	}
	log.Info().Str("bucket", cfg.Bucket).Msg("documents stored in s3")
	return s3s
}
