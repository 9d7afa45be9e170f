package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
)

func newAnnualReports(f *fixture, now time.Time) *AnnualReportUseCase {
	uc := NewAnnualReportUseCase(memory.NewAnnualReportRepository(), f.entities, fakeReceipts{}, f.auditor)
	uc.now = fixedClock(now)
	return uc
}

func TestAnnualReport_TarifasYEstadoDesdeLaTabla(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Delaware", entity.EntityTypeLLC)
	uc := newAnnualReports(f, date(2025, time.May, 10))

	out, err := uc.Create(context.Background(), owner, dto.CreateAnnualReportRequest{BusinessEntityID: be.ID, FilingYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", out.DueDate)
	assert.Equal(t, entity.ReportStatusDueSoon, out.Status)
	assert.True(t, out.StateFee.Equal(decimal.NewFromInt(300)))
	assert.True(t, out.ServiceFee.Equal(AnnualReportServiceFee))
	assert.True(t, out.TotalDue.Equal(decimal.NewFromInt(399)), "sin recargo mientras no venza")
}

func TestAnnualReport_VencidoSumaRecargoAlLeer(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Delaware", entity.EntityTypeLLC)
	uc := newAnnualReports(f, date(2025, time.January, 10))
	ctx := context.Background()

	created, err := uc.Create(ctx, owner, dto.CreateAnnualReportRequest{BusinessEntityID: be.ID, FilingYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusNotDue, created.Status)

	uc.now = fixedClock(date(2025, time.June, 10))
	list, err := uc.List(ctx, owner, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.ReportStatusOverdue, list[0].Status)
	assert.True(t, list[0].TotalDue.Equal(decimal.NewFromInt(599)))
}

func TestAnnualReport_EstadoExento(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Arizona", entity.EntityTypeLLC)
	uc := newAnnualReports(f, date(2025, time.May, 10))

	out, err := uc.Create(context.Background(), owner, dto.CreateAnnualReportRequest{BusinessEntityID: be.ID, FilingYear: 2025})
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusExempt, out.Status)

	_, err = uc.File(context.Background(), owner, out.ID, dto.FileAnnualReportRequest{ConfirmationNumber: "X"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAnnualReport_DuplicadoPorAnio(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc := newAnnualReports(f, date(2025, time.January, 10))
	ctx := context.Background()

	_, err := uc.Create(ctx, owner, dto.CreateAnnualReportRequest{BusinessEntityID: be.ID, FilingYear: 2025})
	require.NoError(t, err)
	_, err = uc.Create(ctx, owner, dto.CreateAnnualReportRequest{BusinessEntityID: be.ID, FilingYear: 2025})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAnnualReport_PresentarYComprobante(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc := newAnnualReports(f, date(2025, time.April, 1))
	ctx := context.Background()

	r, err := uc.Create(ctx, owner, dto.CreateAnnualReportRequest{BusinessEntityID: be.ID, FilingYear: 2025})
	require.NoError(t, err)

	_, _, err = uc.Receipt(ctx, owner, r.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "sin presentar no hay comprobante")

	filed, err := uc.File(ctx, owner, r.ID, dto.FileAnnualReportRequest{ConfirmationNumber: "TX-123"})
	require.NoError(t, err)
	assert.Equal(t, entity.ReportStatusFiled, filed.Status)
	require.NotNil(t, filed.FiledAt)

	_, err = uc.File(ctx, owner, r.ID, dto.FileAnnualReportRequest{ConfirmationNumber: "TX-124"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	pdf, name, err := uc.Receipt(ctx, owner, r.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "annual-report-2025-TX.pdf", name)
}

func TestAnnualReport_RequisitosPorEstado(t *testing.T) {
	uc := newAnnualReports(newFixture(), date(2025, time.January, 1))

	req, err := uc.Requirements("tx", "")
	require.NoError(t, err)
	assert.Equal(t, "Texas", req.State)
	assert.Equal(t, entity.EntityTypeLLC, req.EntityType)
	assert.Equal(t, "May 15", req.DueDate)
	assert.Contains(t, req.RequiredFields, "taxpayerNumber")

	_, err = uc.Requirements("Atlantis", "LLC")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
