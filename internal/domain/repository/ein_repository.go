package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// EinApplicationRepository puerto de solicitudes de EIN (una por entidad).
type EinApplicationRepository interface {
	Create(ctx context.Context, a *entity.EinApplication) error
	GetByID(ctx context.Context, id string) (*entity.EinApplication, error)
	GetByBusinessEntity(ctx context.Context, businessEntityID string) (*entity.EinApplication, error)
	// ListByStatus lista todas si status es vacío.
	ListByStatus(ctx context.Context, status string) ([]*entity.EinApplication, error)
	Update(ctx context.Context, a *entity.EinApplication) error
}

// EinTxRunner ejecuta la aprobación del EIN (solicitud + entidad) en una transacción.
type EinTxRunner interface {
	RunEin(ctx context.Context, fn func(apps EinApplicationRepository, entities BusinessEntityRepository) error) error
}
