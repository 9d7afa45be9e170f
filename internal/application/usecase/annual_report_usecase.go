package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/reference"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

const resourceAnnualReport = "annual_report"

// AnnualReportServiceFee honorarios fijos por presentar un reporte anual.
var AnnualReportServiceFee = decimal.NewFromInt(99)

// AnnualReportUseCase alta, seguimiento y presentación de reportes anuales.
type AnnualReportUseCase struct {
	reports  repository.AnnualReportRepository
	receipts ports.ReceiptRenderer
	audit    *Auditor
	own      ownership
	now      func() time.Time
}

// NewAnnualReportUseCase construye el caso de uso.
func NewAnnualReportUseCase(reports repository.AnnualReportRepository, entities repository.BusinessEntityRepository, receipts ports.ReceiptRenderer, audit *Auditor) *AnnualReportUseCase {
	return &AnnualReportUseCase{
		reports:  reports,
		receipts: receipts,
		audit:    audit,
		own:      ownership{entities: entities},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List reportes de las entidades del actor (o de una sola). El estado se recalcula al leer.
func (uc *AnnualReportUseCase) List(ctx context.Context, actor Actor, businessEntityID string) ([]dto.AnnualReportResponse, error) {
	ids, err := uc.own.entityIDs(ctx, actor, businessEntityID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.AnnualReportResponse{}, nil
	}
	list, err := uc.reports.ListByEntities(ctx, ids)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.AnnualReportResponse, 0, len(list))
	for _, r := range list {
		r.RefreshStatus(now)
		out = append(out, toAnnualReportResponse(r))
	}
	return out, nil
}

// Requirements tarifa, vencimiento y campos que pide el estado para un tipo de entidad.
func (uc *AnnualReportUseCase) Requirements(state, entityType string) (*dto.StateRequirementsResponse, error) {
	if entityType == "" {
		entityType = entity.EntityTypeLLC
	}
	fee := reference.GetStateFilingFee(state, entityType)
	if fee == nil {
		return nil, domain.ErrNotFound
	}
	name, _ := reference.CanonicalState(state)
	return &dto.StateRequirementsResponse{
		State:          name,
		StateCode:      reference.StateCode(name),
		EntityType:     entityType,
		Fee:            fee.Fee,
		LateFee:        fee.LateFee,
		ServiceFee:     AnnualReportServiceFee,
		Frequency:      fee.Frequency,
		DueDate:        fee.DueDate,
		Notes:          fee.Notes,
		RequiredFields: reference.RequiredFields(name),
	}, nil
}

// Create crea el reporte del año indicado. Tarifas y vencimiento salen de la tabla del estado.
// Devuelve domain.ErrDuplicate si ya existe para (entidad, año).
func (uc *AnnualReportUseCase) Create(ctx context.Context, actor Actor, in dto.CreateAnnualReportRequest) (*dto.AnnualReportResponse, error) {
	be, err := uc.own.entity(ctx, actor, in.BusinessEntityID)
	if err != nil {
		return nil, err
	}
	fee := reference.GetStateFilingFee(be.State, be.EntityType)
	if fee == nil {
		return nil, fmt.Errorf("%w: no annual report schedule for %s %s", domain.ErrInvalidInput, be.State, be.EntityType)
	}
	now := uc.now()
	due := fee.ResolveDueDate(in.FilingYear, be.FormationDate, time.UTC)
	status := entity.StatusForDueDate(due, now)
	if fee.IsExempt() {
		status = entity.ReportStatusExempt
	}
	fields := in.RequiredFields
	if fields == nil {
		fields = map[string]string{}
	}
	r := &entity.AnnualReport{
		ID:               uuid.New().String(),
		BusinessEntityID: be.ID,
		FilingYear:       in.FilingYear,
		State:            be.State,
		DueDate:          due,
		Status:           status,
		StateFee:         fee.Fee,
		ServiceFee:       AnnualReportServiceFee,
		LateFee:          fee.LateFee,
		RequiredFields:   fields,
		Notes:            strings.TrimSpace(in.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	out := toAnnualReportResponse(r)
	return &out, nil
}

// Get reporte por ID si el actor tiene acceso a su entidad.
func (uc *AnnualReportUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.AnnualReportResponse, error) {
	r, _, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := toAnnualReportResponse(r)
	return &out, nil
}

// Update fusiona requiredFields y cambia notas o estado.
func (uc *AnnualReportUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateAnnualReportRequest) (*dto.AnnualReportResponse, error) {
	r, _, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.RequiredFields == nil {
		r.RequiredFields = map[string]string{}
	}
	for k, v := range in.RequiredFields {
		r.RequiredFields[k] = v
	}
	if in.Notes != nil {
		r.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Status != nil && *in.Status != r.Status {
		if !entity.IsValidReportStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		r.Status = *in.Status
		if r.Status == entity.ReportStatusFiled && r.FiledAt == nil {
			filed := uc.now()
			r.FiledAt = &filed
		}
		if r.Status != entity.ReportStatusFiled {
			r.FiledAt = nil
		}
		uc.audit.Record(ctx, actor, "annual_report.status", resourceAnnualReport, r.ID, map[string]any{"status": r.Status})
	}
	r.UpdatedAt = uc.now()
	if err := uc.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	out := toAnnualReportResponse(r)
	return &out, nil
}

// File marca el reporte como presentado. Un reporte ya presentado o exento → domain.ErrConflict.
func (uc *AnnualReportUseCase) File(ctx context.Context, actor Actor, id string, in dto.FileAnnualReportRequest) (*dto.AnnualReportResponse, error) {
	r, _, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if r.Status == entity.ReportStatusFiled || r.Status == entity.ReportStatusExempt {
		return nil, fmt.Errorf("%w: report is %s", domain.ErrConflict, r.Status)
	}
	now := uc.now()
	r.Status = entity.ReportStatusFiled
	r.FiledAt = &now
	r.ConfirmationNumber = strings.TrimSpace(in.ConfirmationNumber)
	r.UpdatedAt = now
	if err := uc.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "annual_report.file", resourceAnnualReport, r.ID,
		map[string]any{"confirmationNumber": r.ConfirmationNumber, "total": r.Total().StringFixed(2)})
	out := toAnnualReportResponse(r)
	return &out, nil
}

// Receipt PDF del comprobante. Solo existe para reportes presentados.
func (uc *AnnualReportUseCase) Receipt(ctx context.Context, actor Actor, id string) ([]byte, string, error) {
	r, be, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if r.Status != entity.ReportStatusFiled {
		return nil, "", fmt.Errorf("%w: report has not been filed", domain.ErrConflict)
	}
	pdf, err := uc.receipts.AnnualReportReceipt(ctx, r, be)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("annual-report-%d-%s.pdf", r.FilingYear, reference.StateCode(r.State)), nil
}

func (uc *AnnualReportUseCase) load(ctx context.Context, actor Actor, id string) (*entity.AnnualReport, *entity.BusinessEntity, error) {
	r, err := uc.reports.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return nil, nil, domain.ErrNotFound
	}
	be, err := uc.own.entity(ctx, actor, r.BusinessEntityID)
	if err != nil {
		return nil, nil, err
	}
	r.RefreshStatus(uc.now())
	return r, be, nil
}

func toAnnualReportResponse(r *entity.AnnualReport) dto.AnnualReportResponse {
	return dto.AnnualReportResponse{
		ID:                 r.ID,
		BusinessEntityID:   r.BusinessEntityID,
		FilingYear:         r.FilingYear,
		State:              r.State,
		DueDate:            r.DueDate.Format(dateLayout),
		Status:             r.Status,
		StateFee:           r.StateFee,
		ServiceFee:         r.ServiceFee,
		LateFee:            r.LateFee,
		TotalDue:           r.Total(),
		RequiredFields:     r.RequiredFields,
		ConfirmationNumber: r.ConfirmationNumber,
		FiledAt:            r.FiledAt,
		Notes:              r.Notes,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
