package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.PlanRepository        = (*PlanRepository)(nil)
	_ repository.ServiceRepository     = (*ServiceRepository)(nil)
	_ repository.PlanServiceRepository = (*PlanServiceRepository)(nil)
)

// PlanRepository planes con nombre único.
type PlanRepository struct{ t *table[entity.SubscriptionPlan] }

func NewPlanRepository() *PlanRepository { return &PlanRepository{t: newTable[entity.SubscriptionPlan]()} }

func (r *PlanRepository) Create(_ context.Context, p *entity.SubscriptionPlan) error {
	if _, dup := r.t.find(func(x entity.SubscriptionPlan) bool { return strings.EqualFold(x.Name, p.Name) }); dup {
		return domain.ErrDuplicate
	}
	r.t.insert(p.ID, *p)
	return nil
}

func (r *PlanRepository) GetByID(_ context.Context, id string) (*entity.SubscriptionPlan, error) {
	if p, ok := r.t.get(id); ok {
		return &p, nil
	}
	return nil, nil
}

func (r *PlanRepository) List(_ context.Context, onlyActive bool) ([]*entity.SubscriptionPlan, error) {
	rows := r.t.filter(func(p entity.SubscriptionPlan) bool { return !onlyActive || p.IsActive })
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SortOrder != rows[j].SortOrder {
			return rows[i].SortOrder < rows[j].SortOrder
		}
		return rows[i].Name < rows[j].Name
	})
	return ptrs(rows), nil
}

func (r *PlanRepository) Update(_ context.Context, p *entity.SubscriptionPlan) error {
	if other, dup := r.t.find(func(x entity.SubscriptionPlan) bool { return strings.EqualFold(x.Name, p.Name) }); dup && other.ID != p.ID {
		return domain.ErrDuplicate
	}
	return r.t.update(p.ID, *p)
}

func (r *PlanRepository) Deactivate(_ context.Context, id string) error {
	p, ok := r.t.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return r.t.update(id, p)
}

// ServiceRepository servicios con nombre único.
type ServiceRepository struct{ t *table[entity.Service] }

func NewServiceRepository() *ServiceRepository { return &ServiceRepository{t: newTable[entity.Service]()} }

func (r *ServiceRepository) Create(_ context.Context, s *entity.Service) error {
	if _, dup := r.t.find(func(x entity.Service) bool { return strings.EqualFold(x.Name, s.Name) }); dup {
		return domain.ErrDuplicate
	}
	r.t.insert(s.ID, *s)
	return nil
}

func (r *ServiceRepository) GetByID(_ context.Context, id string) (*entity.Service, error) {
	if s, ok := r.t.get(id); ok {
		return &s, nil
	}
	return nil, nil
}

func (r *ServiceRepository) List(_ context.Context) ([]*entity.Service, error) {
	return ptrs(r.t.filter(nil)), nil
}

func (r *ServiceRepository) Update(_ context.Context, s *entity.Service) error {
	return r.t.update(s.ID, *s)
}

func (r *ServiceRepository) Delete(_ context.Context, id string) error {
	return r.t.delete(id)
}

// PlanServiceRepository relación plan↔servicio, única por par.
// List completa los nombres como lo haría el JOIN.
type PlanServiceRepository struct {
	t        *table[entity.PlanService]
	plans    *PlanRepository
	services *ServiceRepository
}

func NewPlanServiceRepository(plans *PlanRepository, services *ServiceRepository) *PlanServiceRepository {
	return &PlanServiceRepository{t: newTable[entity.PlanService](), plans: plans, services: services}
}

func (r *PlanServiceRepository) Create(_ context.Context, ps *entity.PlanService) error {
	if _, dup := r.t.find(func(x entity.PlanService) bool { return x.PlanID == ps.PlanID && x.ServiceID == ps.ServiceID }); dup {
		return domain.ErrDuplicate
	}
	r.t.insert(ps.ID, *ps)
	return nil
}

func (r *PlanServiceRepository) GetByID(_ context.Context, id string) (*entity.PlanService, error) {
	if ps, ok := r.t.get(id); ok {
		return &ps, nil
	}
	return nil, nil
}

func (r *PlanServiceRepository) List(_ context.Context, planID string) ([]*entity.PlanService, error) {
	rows := r.t.filter(func(ps entity.PlanService) bool { return planID == "" || ps.PlanID == planID })
	for i := range rows {
		if p, ok := r.plans.t.get(rows[i].PlanID); ok {
			rows[i].PlanName = p.Name
		}
		if s, ok := r.services.t.get(rows[i].ServiceID); ok {
			rows[i].ServiceName = s.Name
		}
	}
	return ptrs(rows), nil
}

func (r *PlanServiceRepository) Update(_ context.Context, ps *entity.PlanService) error {
	return r.t.update(ps.ID, *ps)
}

func (r *PlanServiceRepository) Delete(_ context.Context, id string) error {
	return r.t.delete(id)
}
