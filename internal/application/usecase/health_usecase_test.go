package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
)

func TestOverallYGrade(t *testing.T) {
	perfect := dto.HealthScores{Compliance: 100, Financial: 100, Operational: 100, Documentation: 100, Engagement: 100}
	assert.Equal(t, 100, Overall(perfect))
	assert.Equal(t, "A", Grade(Overall(perfect)))

	mixed := dto.HealthScores{Compliance: 80, Financial: 40, Operational: 50, Documentation: 20, Engagement: 20}
	// 24 + 10 + 10 + 3 + 2
	assert.Equal(t, 49, Overall(mixed))
	assert.Equal(t, "F", Grade(49))

	for overall, grade := range map[int]string{90: "A", 89: "B", 80: "B", 79: "C", 70: "C", 60: "D", 59: "F"} {
		assert.Equal(t, grade, Grade(overall), overall)
	}
}

type healthSetup struct {
	f       *fixture
	uc      *HealthUseCase
	owner   Actor
	be      *entity.BusinessEntity
	reports *memory.AnnualReportRepository
}

func newHealth(t *testing.T) *healthSetup {
	t.Helper()
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Delaware", entity.EntityTypeLLC)
	reports := memory.NewAnnualReportRepository()
	uc := NewHealthUseCase(HealthDeps{
		Entities:    f.entities,
		Reports:     reports,
		Ein:         memory.NewEinApplicationRepository(),
		Bookkeeping: memory.NewBookkeepingRepository(),
		Mailbox:     memory.NewMailboxRepository(),
		Documents:   memory.NewDocumentRepository(),
		Dismissals:  memory.NewInsightDismissalRepository(),
	}, nil)
	uc.now = fixedClock(date(2025, time.July, 1))
	return &healthSetup{f: f, uc: uc, owner: owner, be: be, reports: reports}
}

func TestHealth_EntidadVaciaConReporteVencido(t *testing.T) {
	s := newHealth(t)
	ctx := context.Background()
	require.NoError(t, s.reports.Create(ctx, &entity.AnnualReport{
		ID: "r-2025", BusinessEntityID: s.be.ID, FilingYear: 2025, State: "Delaware",
		DueDate: date(2025, time.June, 1), Status: entity.ReportStatusNotDue,
	}))

	out, err := s.uc.Dashboard(ctx, s.owner, s.be.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Counts.OverdueReports)
	assert.Equal(t, 50, out.Scores.Compliance, "100 - 30 vencido - 20 sin EIN")
	assert.Equal(t, 30, out.Scores.Financial)
	assert.Equal(t, 25, out.Scores.Operational)
	assert.Equal(t, 20, out.Scores.Documentation)
	assert.Equal(t, 20, out.Scores.Engagement)
	assert.Equal(t, Overall(out.Scores), out.Overall)
	assert.Equal(t, "F", out.Grade)

	codes := lo.Map(out.Insights, func(i dto.InsightResponse, _ int) string { return i.Code })
	assert.Equal(t, "annual_report_overdue:2025", codes[0], "los críticos van primero")
	assert.Contains(t, codes, "ein_missing")
	assert.Contains(t, codes, "bookkeeping_inactive")
}

func TestHealth_InsightDescartado(t *testing.T) {
	s := newHealth(t)
	ctx := context.Background()

	require.NoError(t, s.uc.Dismiss(ctx, s.owner, s.be.ID, dto.DismissInsightRequest{Code: "ein_missing"}))
	require.NoError(t, s.uc.Dismiss(ctx, s.owner, s.be.ID, dto.DismissInsightRequest{Code: "ein_missing"}))

	insights, err := s.uc.Insights(ctx, s.owner, s.be.ID)
	require.NoError(t, err)
	for _, i := range insights {
		assert.NotEqual(t, "ein_missing", i.Code)
	}
}
