package usecase

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

func newCatalog(f *fixture) *CatalogUseCase {
	plans := memory.NewPlanRepository()
	services := memory.NewServiceRepository()
	return NewCatalogUseCase(plans, services, memory.NewPlanServiceRepository(plans, services), f.auditor)
}

func TestCatalog_PlanesPublicosConServicios(t *testing.T) {
	f := newFixture()
	uc := newCatalog(f)
	ctx := context.Background()

	starter, err := uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "Starter", Price: decimal.NewFromInt(49), BillingCycle: entity.BillingOneTime, SortOrder: 1})
	require.NoError(t, err)
	_, err = uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "Legacy", Price: decimal.NewFromInt(10), BillingCycle: entity.BillingMonthly, IsActive: lo.ToPtr(false)})
	require.NoError(t, err)
	agent, err := uc.CreateService(ctx, admin, dto.ServiceRequest{Name: "Registered Agent", Price: decimal.NewFromInt(99)})
	require.NoError(t, err)

	_, err = uc.CreatePlanService(ctx, admin, dto.CreatePlanServiceRequest{PlanID: starter.ID, ServiceID: agent.ID})
	require.NoError(t, err)
	_, err = uc.CreatePlanService(ctx, admin, dto.CreatePlanServiceRequest{PlanID: starter.ID, ServiceID: agent.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	public, err := uc.PublicPlans(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Len(t, public[0].Services, 1)
	assert.Equal(t, "Registered Agent", public[0].Services[0].ServiceName)
	assert.True(t, public[0].Services[0].IsIncluded)

	all, err := uc.ListPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalog_Validaciones(t *testing.T) {
	f := newFixture()
	uc := newCatalog(f)
	ctx := context.Background()

	_, err := uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "Bad", Price: decimal.NewFromInt(-1), BillingCycle: entity.BillingMonthly})
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "price")

	_, err = uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "Pro", BillingCycle: entity.BillingMonthly})
	require.NoError(t, err)
	_, err = uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "pro", BillingCycle: entity.BillingMonthly})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.CreatePlanService(ctx, admin, dto.CreatePlanServiceRequest{PlanID: "nope", ServiceID: "nope"})
	fields, ok = validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "planId")
	assert.Contains(t, fields, "serviceId")

	assert.ErrorIs(t, uc.DeactivatePlan(ctx, admin, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteService(ctx, admin, "missing"), domain.ErrNotFound)
}

func TestCatalog_MutacionesQuedanAuditadas(t *testing.T) {
	f := newFixture()
	uc := newCatalog(f)
	ctx := context.Background()

	p, err := uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "Pro", BillingCycle: entity.BillingMonthly})
	require.NoError(t, err)
	require.NoError(t, uc.DeactivatePlan(ctx, admin, p.ID))

	logs, err := f.auditor.List(ctx, resourcePlan, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "plan.deactivate", logs[0].Action, "más reciente primero")
	assert.Equal(t, "plan.create", logs[1].Action)
}

func TestBookkeeping_SuscripcionUnicaPorEntidad(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc := NewBookkeepingUseCase(memory.NewBookkeepingRepository(), f.entities)
	ctx := context.Background()

	_, err := uc.Get(ctx, owner, be.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sub, err := uc.Subscribe(ctx, owner, dto.CreateBookkeepingSubscriptionRequest{BusinessEntityID: be.ID, Plan: entity.BookkeepingGrowth})
	require.NoError(t, err)
	assert.True(t, sub.MonthlyPrice.Equal(decimal.NewFromInt(299)))

	_, err = uc.Subscribe(ctx, owner, dto.CreateBookkeepingSubscriptionRequest{BusinessEntityID: be.ID, Plan: entity.BookkeepingStarter})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	out, err := uc.Update(ctx, owner, be.ID, dto.UpdateBookkeepingSubscriptionRequest{Plan: lo.ToPtr(entity.BookkeepingPremium)})
	require.NoError(t, err)
	assert.True(t, out.MonthlyPrice.Equal(decimal.NewFromInt(499)))
}
