package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// BusinessEntityRepository puerto de persistencia de entidades de negocio.
type BusinessEntityRepository interface {
	Create(ctx context.Context, e *entity.BusinessEntity) error
	GetByID(ctx context.Context, id string) (*entity.BusinessEntity, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]*entity.BusinessEntity, error)
	Update(ctx context.Context, e *entity.BusinessEntity) error
	// SetEIN copia el EIN asignado por el IRS a la entidad.
	SetEIN(ctx context.Context, id, ein string) error
}
