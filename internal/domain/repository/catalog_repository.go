package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// PlanRepository puerto del catálogo de planes. No hay borrado físico.
type PlanRepository interface {
	Create(ctx context.Context, p *entity.SubscriptionPlan) error
	GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.SubscriptionPlan, error)
	Update(ctx context.Context, p *entity.SubscriptionPlan) error
	Deactivate(ctx context.Context, id string) error
}

// ServiceRepository puerto del catálogo de servicios.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	List(ctx context.Context) ([]*entity.Service, error)
	Update(ctx context.Context, s *entity.Service) error
	Delete(ctx context.Context, id string) error
}

// PlanServiceRepository puerto de la relación plan↔servicio.
// Create devuelve domain.ErrDuplicate si el par ya existe.
type PlanServiceRepository interface {
	Create(ctx context.Context, ps *entity.PlanService) error
	GetByID(ctx context.Context, id string) (*entity.PlanService, error)
	// List filtra por plan cuando planID no es vacío.
	List(ctx context.Context, planID string) ([]*entity.PlanService, error)
	Update(ctx context.Context, ps *entity.PlanService) error
	Delete(ctx context.Context, id string) error
}
