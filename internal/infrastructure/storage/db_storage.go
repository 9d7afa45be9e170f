package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ ports.DocumentStorage = (*DBStorage)(nil)

// DBStorage guarda los blobs en la tabla document_blobs de la base de documentos.
// Se usa cuando no hay bucket S3 configurado.
type DBStorage struct {
	blobs    repository.BlobRepository
	maxBytes int64
}

// NewDBStorage crea el backend. maxBytes <= 0 desactiva el límite.
func NewDBStorage(blobs repository.BlobRepository, maxBytes int64) *DBStorage {
	return &DBStorage{blobs: blobs, maxBytes: maxBytes}
}

// Backend implementa ports.DocumentStorage.
func (s *DBStorage) Backend() string { return "database" }

func (s *DBStorage) Put(ctx context.Context, key, _ string, body io.Reader, _ int64) error {
	r := body
	if s.maxBytes > 0 {
		r = io.LimitReader(body, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("db storage: leer %s: %w", key, err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return fmt.Errorf("db storage: %s supera %d bytes", key, s.maxBytes)
	}
	return s.blobs.PutBlob(ctx, key, data)
}

func (s *DBStorage) Get(ctx context.Context, key string) (io.ReadCloser, *ports.Object, error) {
	data, err := s.blobs.GetBlob(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	obj := &ports.Object{
		Key:         key,
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
	}
	return io.NopCloser(bytes.NewReader(data)), obj, nil
}

func (s *DBStorage) Delete(ctx context.Context, key string) error {
	return s.blobs.DeleteBlob(ctx, key)
}
