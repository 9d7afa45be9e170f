package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// TaxFilingOrderRepository puerto de órdenes de declaración.
type TaxFilingOrderRepository interface {
	Create(ctx context.Context, o *entity.TaxFilingOrder) error
	GetByID(ctx context.Context, id string) (*entity.TaxFilingOrder, error)
	Update(ctx context.Context, o *entity.TaxFilingOrder) error
}
