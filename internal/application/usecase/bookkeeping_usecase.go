package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var bookkeepingPlans = []dto.PlanOption{
	{
		ID:           entity.BookkeepingStarter,
		Name:         "Starter",
		MonthlyPrice: decimal.NewFromInt(149),
		Features:     []string{"Monthly reconciliation", "Up to 100 transactions", "Quarterly reports"},
	},
	{
		ID:           entity.BookkeepingGrowth,
		Name:         "Growth",
		MonthlyPrice: decimal.NewFromInt(299),
		Features:     []string{"Monthly reconciliation", "Up to 500 transactions", "Monthly reports", "Payroll support"},
	},
	{
		ID:           entity.BookkeepingPremium,
		Name:         "Premium",
		MonthlyPrice: decimal.NewFromInt(499),
		Features:     []string{"Weekly reconciliation", "Unlimited transactions", "Dedicated bookkeeper", "Tax preparation support"},
	},
}

// BookkeepingUseCase suscripción de contabilidad de una entidad.
type BookkeepingUseCase struct {
	subs repository.BookkeepingRepository
	own  ownership
}

// NewBookkeepingUseCase construye el caso de uso.
func NewBookkeepingUseCase(subs repository.BookkeepingRepository, entities repository.BusinessEntityRepository) *BookkeepingUseCase {
	return &BookkeepingUseCase{subs: subs, own: ownership{entities: entities}}
}

// Plans catálogo estático de planes.
func (uc *BookkeepingUseCase) Plans() []dto.PlanOption { return bookkeepingPlans }

// Get suscripción de la entidad (domain.ErrNotFound si no hay).
func (uc *BookkeepingUseCase) Get(ctx context.Context, actor Actor, businessEntityID string) (*dto.BookkeepingSubscriptionResponse, error) {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return nil, err
	}
	s, err := uc.subs.GetByEntity(ctx, businessEntityID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toBookkeepingResponse(s), nil
}

// Subscribe alta de la suscripción. Si la entidad ya tiene una → domain.ErrDuplicate.
func (uc *BookkeepingUseCase) Subscribe(ctx context.Context, actor Actor, in dto.CreateBookkeepingSubscriptionRequest) (*dto.BookkeepingSubscriptionResponse, error) {
	if _, err := uc.own.entity(ctx, actor, in.BusinessEntityID); err != nil {
		return nil, err
	}
	existing, err := uc.subs.GetByEntity(ctx, in.BusinessEntityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	s := &entity.BookkeepingSubscription{
		ID:               uuid.New().String(),
		BusinessEntityID: in.BusinessEntityID,
		Plan:             in.Plan,
		MonthlyPrice:     planPrice(bookkeepingPlans, in.Plan),
		Status:           entity.SubscriptionActive,
		StartedAt:        now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.subs.Create(ctx, s); err != nil {
		return nil, err
	}
	return toBookkeepingResponse(s), nil
}

// Update cambio de plan o estado.
func (uc *BookkeepingUseCase) Update(ctx context.Context, actor Actor, businessEntityID string, in dto.UpdateBookkeepingSubscriptionRequest) (*dto.BookkeepingSubscriptionResponse, error) {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return nil, err
	}
	s, err := uc.subs.GetByEntity(ctx, businessEntityID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Plan != nil {
		s.Plan = *in.Plan
		s.MonthlyPrice = planPrice(bookkeepingPlans, s.Plan)
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	s.UpdatedAt = time.Now().UTC()
	if err := uc.subs.Update(ctx, s); err != nil {
		return nil, err
	}
	return toBookkeepingResponse(s), nil
}

func planPrice(plans []dto.PlanOption, id string) decimal.Decimal {
	for _, p := range plans {
		if p.ID == id {
			return p.MonthlyPrice
		}
	}
	return decimal.Zero
}

func toBookkeepingResponse(s *entity.BookkeepingSubscription) *dto.BookkeepingSubscriptionResponse {
	return &dto.BookkeepingSubscriptionResponse{
		ID:               s.ID,
		BusinessEntityID: s.BusinessEntityID,
		Plan:             s.Plan,
		MonthlyPrice:     s.MonthlyPrice,
		Status:           s.Status,
		StartedAt:        s.StartedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
