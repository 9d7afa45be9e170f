package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository = (*DocumentRepo)(nil)
	_ repository.BlobRepository     = (*DocumentRepo)(nil)
)

const documentColumns = `id, owner_user_id, COALESCE(business_entity_id::text, ''), category, file_name,
	content_type, size_bytes, storage_key, storage_backend, uploaded_by, is_archived, created_at`

// DocumentRepo metadatos y blobs de documentos; vive en la base de documentos.
type DocumentRepo struct {
	db Querier
}

// NewDocumentRepository construye el repositorio sobre la base de documentos.
func NewDocumentRepository(db Querier) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func scanDocument(row scanner) (*entity.Document, error) {
	var d entity.Document
	if err := row.Scan(&d.ID, &d.OwnerUserID, &d.BusinessEntityID, &d.Category, &d.FileName, &d.ContentType,
		&d.SizeBytes, &d.StorageKey, &d.StorageBackend, &d.UploadedBy, &d.IsArchived, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta los metadatos.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	const query = `
		INSERT INTO documents (id, owner_user_id, business_entity_id, category, file_name, content_type,
			size_bytes, storage_key, storage_backend, uploaded_by, is_archived, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query, d.ID, d.OwnerUserID, nullIfEmpty(d.BusinessEntityID), d.Category, d.FileName,
		d.ContentType, d.SizeBytes, d.StorageKey, d.StorageBackend, d.UploadedBy, d.IsArchived, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	d, err := scanDocument(r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// List documentos según filtro, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.OwnerUserID != "" {
		add("owner_user_id::text = $%d", f.OwnerUserID)
	}
	if f.BusinessEntityID != "" {
		add("business_entity_id::text = $%d", f.BusinessEntityID)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if !f.IncludeArchived {
		where = append(where, "NOT is_archived")
	}
	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	rows, err := r.db.Query(ctx, query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// SetArchived archiva o restaura un documento.
func (r *DocumentRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE documents SET is_archived = $2 WHERE id = $1`, id, archived)
	if err != nil {
		return fmt.Errorf("archive document: %w", err)
	}
	return requireAffected(tag)
}

// ── Blobs ────────────────────────────────────────────────────────────────────

// PutBlob guarda (o reemplaza) el contenido bajo la clave.
func (r *DocumentRepo) PutBlob(ctx context.Context, key string, data []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO document_blobs (storage_key, data, created_at) VALUES ($1, $2, NOW())
		ON CONFLICT (storage_key) DO UPDATE SET data = EXCLUDED.data`, key, data)
	if err != nil {
		return fmt.Errorf("put blob: %w", err)
	}
	return nil
}

// GetBlob devuelve el contenido; domain.ErrNotFound si no existe.
func (r *DocumentRepo) GetBlob(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	if err := r.db.QueryRow(ctx, `SELECT data FROM document_blobs WHERE storage_key = $1`, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get blob: %w", err)
	}
	return data, nil
}

// DeleteBlob borra el contenido; no falla si no existe.
func (r *DocumentRepo) DeleteBlob(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM document_blobs WHERE storage_key = $1`, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
