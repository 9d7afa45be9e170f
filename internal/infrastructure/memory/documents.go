package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.DocumentRepository       = (*DocumentRepository)(nil)
	_ repository.BlobRepository           = (*BlobRepository)(nil)
	_ repository.TaxFilingOrderRepository = (*TaxFilingOrderRepository)(nil)
)

// DocumentRepository metadatos de documentos.
type DocumentRepository struct{ t *table[entity.Document] }

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{t: newTable[entity.Document]()}
}

func (r *DocumentRepository) Create(_ context.Context, d *entity.Document) error {
	r.t.insert(d.ID, *d)
	return nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*entity.Document, error) {
	if d, ok := r.t.get(id); ok {
		return &d, nil
	}
	return nil, nil
}

func (r *DocumentRepository) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	return ptrs(newestFirst(r.t.filter(func(d entity.Document) bool {
		return (f.OwnerUserID == "" || d.OwnerUserID == f.OwnerUserID) &&
			(f.BusinessEntityID == "" || d.BusinessEntityID == f.BusinessEntityID) &&
			(f.Category == "" || d.Category == f.Category) &&
			(f.IncludeArchived || !d.IsArchived)
	}))), nil
}

func (r *DocumentRepository) SetArchived(_ context.Context, id string, archived bool) error {
	d, ok := r.t.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	d.IsArchived = archived
	return r.t.update(id, d)
}

// BlobRepository contenido binario por clave.
type BlobRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobRepository() *BlobRepository { return &BlobRepository{blobs: map[string][]byte{}} }

func (r *BlobRepository) PutBlob(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (r *BlobRepository) GetBlob(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (r *BlobRepository) DeleteBlob(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, key)
	return nil
}

// TaxFilingOrderRepository órdenes del checkout de impuestos.
type TaxFilingOrderRepository struct{ t *table[entity.TaxFilingOrder] }

func NewTaxFilingOrderRepository() *TaxFilingOrderRepository {
	return &TaxFilingOrderRepository{t: newTable[entity.TaxFilingOrder]()}
}

func (r *TaxFilingOrderRepository) Create(_ context.Context, o *entity.TaxFilingOrder) error {
	r.t.insert(o.ID, *o)
	return nil
}

func (r *TaxFilingOrderRepository) GetByID(_ context.Context, id string) (*entity.TaxFilingOrder, error) {
	if o, ok := r.t.get(id); ok {
		return &o, nil
	}
	return nil, nil
}

func (r *TaxFilingOrderRepository) Update(_ context.Context, o *entity.TaxFilingOrder) error {
	return r.t.update(o.ID, *o)
}
