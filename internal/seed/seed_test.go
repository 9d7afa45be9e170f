package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizdesk-api/internal/seed"
)

func TestRun_SiembraConsistente(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	entities := memory.NewBusinessEntityRepository(users)
	plans := memory.NewPlanRepository()
	services := memory.NewServiceRepository()
	audit := memory.NewAuditLogRepository()
	auditor := usecase.NewAuditor(audit, nil)

	clients := usecase.NewClientUseCase(users, entities, auditor)
	catalog := usecase.NewCatalogUseCase(plans, services, memory.NewPlanServiceRepository(plans, services), auditor)
	deps := seed.Deps{
		Clients:  clients,
		Entities: usecase.NewBusinessEntityUseCase(entities, users, auditor),
		Catalog:  catalog,
		Reports:  usecase.NewAnnualReportUseCase(memory.NewAnnualReportRepository(), entities, nil, auditor),
		Mailbox:  usecase.NewMailboxUseCase(memory.NewMailboxRepository(), entities, nil, auditor),
	}

	sum, err := seed.Run(ctx, deps, seed.Options{
		Clients:         5,
		EntitiesPerUser: 2,
		MailPerEntity:   3,
		Catalog:         true,
		Seed:            42,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Plans)
	assert.Equal(t, 4, sum.Services)
	assert.Equal(t, 5, sum.Clients)
	assert.Equal(t, 10, sum.Entities)
	assert.Equal(t, 30, sum.MailItems)
	assert.LessOrEqual(t, sum.Reports, sum.Entities)

	list, err := clients.List(ctx, dto.ClientListRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, list.Page.Total)

	public, err := catalog.PublicPlans(ctx)
	require.NoError(t, err)
	require.Len(t, public, 3)
	assert.Len(t, public[0].Services, 2)

	logs, err := usecase.NewAuditor(audit, nil).List(ctx, "", 500)
	require.NoError(t, err)
	assert.NotEmpty(t, logs)
	assert.Equal(t, seed.ActorID, logs[0].ActorUserID)
}
