package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// DocumentFilter filtros del listado de documentos.
type DocumentFilter struct {
	OwnerUserID      string
	BusinessEntityID string
	Category         string
	IncludeArchived  bool
}

// DocumentRepository metadatos de documentos (base de documentos).
type DocumentRepository interface {
	Create(ctx context.Context, d *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, f DocumentFilter) ([]*entity.Document, error)
	SetArchived(ctx context.Context, id string, archived bool) error
}

// BlobRepository contenido binario guardado en Postgres cuando no hay S3.
type BlobRepository interface {
	PutBlob(ctx context.Context, key string, data []byte) error
	GetBlob(ctx context.Context, key string) ([]byte, error)
	DeleteBlob(ctx context.Context, key string) error
}
