package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

const (
	resourcePlan        = "subscription_plan"
	resourceService     = "service"
	resourcePlanService = "plan_service"
)

// CatalogUseCase catálogo de planes, servicios y su relación.
type CatalogUseCase struct {
	plans        repository.PlanRepository
	services     repository.ServiceRepository
	planServices repository.PlanServiceRepository
	audit        *Auditor
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(plans repository.PlanRepository, services repository.ServiceRepository, planServices repository.PlanServiceRepository, audit *Auditor) *CatalogUseCase {
	return &CatalogUseCase{plans: plans, services: services, planServices: planServices, audit: audit}
}

// ── Planes ──────────────────────────────────────────────────────────────────

// ListPlans todos los planes (consola admin).
func (uc *CatalogUseCase) ListPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	list, err := uc.plans.List(ctx, false)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(p *entity.SubscriptionPlan, _ int) dto.PlanResponse { return toPlanResponse(p, nil) }), nil
}

// PublicPlans planes activos con sus servicios, para la web pública.
func (uc *CatalogUseCase) PublicPlans(ctx context.Context) ([]dto.PlanResponse, error) {
	list, err := uc.plans.List(ctx, true)
	if err != nil {
		return nil, err
	}
	links, err := uc.planServices.List(ctx, "")
	if err != nil {
		return nil, err
	}
	byPlan := lo.GroupBy(links, func(ps *entity.PlanService) string { return ps.PlanID })
	return lo.Map(list, func(p *entity.SubscriptionPlan, _ int) dto.PlanResponse {
		return toPlanResponse(p, byPlan[p.ID])
	}), nil
}

// CreatePlan alta de un plan. Nombre duplicado → domain.ErrDuplicate.
func (uc *CatalogUseCase) CreatePlan(ctx context.Context, actor Actor, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := checkPrice("price", in.Price); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.SubscriptionPlan{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		BillingCycle: in.BillingCycle,
		Features:     lo.Compact(in.Features),
		IsActive:     in.IsActive == nil || *in.IsActive,
		SortOrder:    in.SortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "plan.create", resourcePlan, p.ID, map[string]any{"name": p.Name})
	out := toPlanResponse(p, nil)
	return &out, nil
}

// UpdatePlan reemplazo completo (PUT).
func (uc *CatalogUseCase) UpdatePlan(ctx context.Context, actor Actor, id string, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := checkPrice("price", in.Price); err != nil {
		return nil, err
	}
	p, err := uc.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.BillingCycle = in.BillingCycle
	p.Features = lo.Compact(in.Features)
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	p.SortOrder = in.SortOrder
	p.UpdatedAt = time.Now().UTC()
	if err := uc.plans.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "plan.update", resourcePlan, p.ID, nil)
	out := toPlanResponse(p, nil)
	return &out, nil
}

// DeactivatePlan baja lógica; los planes nunca se borran.
func (uc *CatalogUseCase) DeactivatePlan(ctx context.Context, actor Actor, id string) error {
	if err := uc.plans.Deactivate(ctx, id); err != nil {
		return err
	}
	uc.audit.Record(ctx, actor, "plan.deactivate", resourcePlan, id, nil)
	return nil
}

// ── Servicios ───────────────────────────────────────────────────────────────

// ListServices todos los servicios.
func (uc *CatalogUseCase) ListServices(ctx context.Context) ([]dto.ServiceResponse, error) {
	list, err := uc.services.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(s *entity.Service, _ int) dto.ServiceResponse { return toServiceResponse(s) }), nil
}

// CreateService alta de un servicio.
func (uc *CatalogUseCase) CreateService(ctx context.Context, actor Actor, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := checkPrice("price", in.Price); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &entity.Service{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.services.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "service.create", resourceService, s.ID, map[string]any{"name": s.Name})
	out := toServiceResponse(s)
	return &out, nil
}

// UpdateService reemplazo completo (PUT).
func (uc *CatalogUseCase) UpdateService(ctx context.Context, actor Actor, id string, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := checkPrice("price", in.Price); err != nil {
		return nil, err
	}
	s, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = strings.TrimSpace(in.Name)
	s.Description = in.Description
	s.Category = in.Category
	s.Price = in.Price
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.UpdatedAt = time.Now().UTC()
	if err := uc.services.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "service.update", resourceService, s.ID, nil)
	out := toServiceResponse(s)
	return &out, nil
}

// DeleteService borrado físico (las relaciones caen en cascada).
func (uc *CatalogUseCase) DeleteService(ctx context.Context, actor Actor, id string) error {
	if err := uc.services.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.Record(ctx, actor, "service.delete", resourceService, id, nil)
	return nil
}

// ── Plan ↔ servicio ────────────────────────────────────────────────────────

// ListPlanServices relaciones, filtradas por plan si planID no es vacío.
func (uc *CatalogUseCase) ListPlanServices(ctx context.Context, planID string) ([]dto.PlanServiceResponse, error) {
	list, err := uc.planServices.List(ctx, planID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(ps *entity.PlanService, _ int) dto.PlanServiceResponse { return toPlanServiceResponse(ps) }), nil
}

// CreatePlanService vincula un servicio a un plan. Par repetido → domain.ErrDuplicate.
func (uc *CatalogUseCase) CreatePlanService(ctx context.Context, actor Actor, in dto.CreatePlanServiceRequest) (*dto.PlanServiceResponse, error) {
	p, err := uc.plans.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	s, err := uc.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	errs := validate.Errors{}
	if p == nil {
		errs.Add("planId", "does not exist")
	}
	if s == nil {
		errs.Add("serviceId", "does not exist")
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	ps := &entity.PlanService{
		ID:          uuid.New().String(),
		PlanID:      p.ID,
		ServiceID:   s.ID,
		IsIncluded:  in.IsIncluded == nil || *in.IsIncluded,
		IsAddon:     in.IsAddon,
		CreatedAt:   time.Now().UTC(),
		PlanName:    p.Name,
		ServiceName: s.Name,
	}
	if in.AddonPrice != nil {
		if err := checkPrice("addonPrice", *in.AddonPrice); err != nil {
			return nil, err
		}
		ps.AddonPrice = *in.AddonPrice
	}
	if err := uc.planServices.Create(ctx, ps); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "plan_service.create", resourcePlanService, ps.ID,
		map[string]any{"planId": ps.PlanID, "serviceId": ps.ServiceID})
	out := toPlanServiceResponse(ps)
	return &out, nil
}

// UpdatePlanService cambia flags y precio del add-on.
func (uc *CatalogUseCase) UpdatePlanService(ctx context.Context, actor Actor, id string, in dto.UpdatePlanServiceRequest) (*dto.PlanServiceResponse, error) {
	ps, err := uc.planServices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, domain.ErrNotFound
	}
	if in.IsIncluded != nil {
		ps.IsIncluded = *in.IsIncluded
	}
	if in.IsAddon != nil {
		ps.IsAddon = *in.IsAddon
	}
	if in.AddonPrice != nil {
		if err := checkPrice("addonPrice", *in.AddonPrice); err != nil {
			return nil, err
		}
		ps.AddonPrice = *in.AddonPrice
	}
	if err := uc.planServices.Update(ctx, ps); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "plan_service.update", resourcePlanService, ps.ID, nil)
	out := toPlanServiceResponse(ps)
	return &out, nil
}

// DeletePlanService borrado físico de la relación.
func (uc *CatalogUseCase) DeletePlanService(ctx context.Context, actor Actor, id string) error {
	if err := uc.planServices.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.Record(ctx, actor, "plan_service.delete", resourcePlanService, id, nil)
	return nil
}

func checkPrice(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return validate.Errors{}.Add(field, "must be greater than or equal to 0")
	}
	return nil
}

func toPlanResponse(p *entity.SubscriptionPlan, links []*entity.PlanService) dto.PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	out := dto.PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		BillingCycle: p.BillingCycle,
		Features:     features,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if len(links) > 0 {
		out.Services = lo.Map(links, func(ps *entity.PlanService, _ int) dto.PlanServiceResponse { return toPlanServiceResponse(ps) })
	}
	return out
}

func toServiceResponse(s *entity.Service) dto.ServiceResponse {
	return dto.ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		Price:       s.Price,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toPlanServiceResponse(ps *entity.PlanService) dto.PlanServiceResponse {
	return dto.PlanServiceResponse{
		ID:          ps.ID,
		PlanID:      ps.PlanID,
		PlanName:    ps.PlanName,
		ServiceID:   ps.ServiceID,
		ServiceName: ps.ServiceName,
		IsIncluded:  ps.IsIncluded,
		IsAddon:     ps.IsAddon,
		AddonPrice:  ps.AddonPrice,
		CreatedAt:   ps.CreatedAt,
	}
}
