package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// BookkeepingRepository puerto de suscripciones de contabilidad.
type BookkeepingRepository interface {
	Create(ctx context.Context, s *entity.BookkeepingSubscription) error
	GetByEntity(ctx context.Context, businessEntityID string) (*entity.BookkeepingSubscription, error)
	Update(ctx context.Context, s *entity.BookkeepingSubscription) error
}
