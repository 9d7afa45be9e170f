package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ repository.AnnualReportRepository = (*AnnualReportRepo)(nil)

const annualReportColumns = `id, business_entity_id, filing_year, state, due_date, status, state_fee,
	service_fee, late_fee, required_fields, COALESCE(confirmation_number, ''), filed_at,
	COALESCE(notes, ''), created_at, updated_at`

// AnnualReportRepo persistencia de reportes anuales.
type AnnualReportRepo struct {
	db Querier
}

// NewAnnualReportRepository construye el repositorio.
func NewAnnualReportRepository(db Querier) *AnnualReportRepo {
	return &AnnualReportRepo{db: db}
}

func scanAnnualReport(row scanner) (*entity.AnnualReport, error) {
	var a entity.AnnualReport
	if err := row.Scan(&a.ID, &a.BusinessEntityID, &a.FilingYear, &a.State, &a.DueDate, &a.Status,
		&a.StateFee, &a.ServiceFee, &a.LateFee, &a.RequiredFields, &a.ConfirmationNumber, &a.FiledAt,
		&a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if a.RequiredFields == nil {
		a.RequiredFields = map[string]string{}
	}
	return &a, nil
}

// Create inserta el reporte. (entidad, año) repetido → domain.ErrDuplicate.
func (r *AnnualReportRepo) Create(ctx context.Context, a *entity.AnnualReport) error {
	const query = `
		INSERT INTO annual_reports (id, business_entity_id, filing_year, state, due_date, status,
			state_fee, service_fee, late_fee, required_fields, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query, a.ID, a.BusinessEntityID, a.FilingYear, a.State, a.DueDate, a.Status,
		a.StateFee, a.ServiceFee, a.LateFee, a.RequiredFields, nullIfEmpty(a.Notes), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert annual report: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *AnnualReportRepo) GetByID(ctx context.Context, id string) (*entity.AnnualReport, error) {
	a, err := scanAnnualReport(r.db.QueryRow(ctx, `SELECT `+annualReportColumns+` FROM annual_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get annual report: %w", err)
	}
	return a, nil
}

// ListByEntities reportes de las entidades dadas, por vencimiento.
func (r *AnnualReportRepo) ListByEntities(ctx context.Context, entityIDs []string) ([]*entity.AnnualReport, error) {
	if len(entityIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+annualReportColumns+` FROM annual_reports
		WHERE business_entity_id::text = ANY($1) ORDER BY due_date, filing_year`, entityIDs)
	if err != nil {
		return nil, fmt.Errorf("list annual reports: %w", err)
	}
	defer rows.Close()

	var list []*entity.AnnualReport
	for rows.Next() {
		a, err := scanAnnualReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan annual report: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update guarda estado, campos, confirmación y notas.
func (r *AnnualReportRepo) Update(ctx context.Context, a *entity.AnnualReport) error {
	const query = `
		UPDATE annual_reports SET status = $2, required_fields = $3, confirmation_number = $4,
			filed_at = $5, notes = $6, late_fee = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, a.ID, a.Status, a.RequiredFields, nullIfEmpty(a.ConfirmationNumber),
		a.FiledAt, nullIfEmpty(a.Notes), a.LateFee, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update annual report: %w", err)
	}
	return requireAffected(tag)
}
