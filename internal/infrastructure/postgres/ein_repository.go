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

var _ repository.EinApplicationRepository = (*EinApplicationRepo)(nil)

const einColumns = `id, business_entity_id, legal_name, COALESCE(trade_name, ''), entity_type,
	responsible_party_name, COALESCE(responsible_party_title, ''), COALESCE(responsible_party_tax_id, ''),
	COALESCE(responsible_party_tax_id_type, ''), COALESCE(responsible_party_last4, ''),
	COALESCE(reason_for_applying, ''), business_start_date, number_of_employees,
	COALESCE(principal_activity, ''), COALESCE(mailing_line1, ''), COALESCE(mailing_city, ''),
	COALESCE(mailing_state, ''), COALESCE(mailing_zip, ''), status, COALESCE(ein_number, ''),
	COALESCE(rejection_reason, ''), submitted_at, created_at, updated_at`

// EinApplicationRepo persistencia de solicitudes de EIN. El tax id llega ya cifrado.
type EinApplicationRepo struct {
	db Querier
}

// NewEinApplicationRepository construye el repositorio.
func NewEinApplicationRepository(db Querier) *EinApplicationRepo {
	return &EinApplicationRepo{db: db}
}

func scanEin(row scanner) (*entity.EinApplication, error) {
	var a entity.EinApplication
	if err := row.Scan(&a.ID, &a.BusinessEntityID, &a.LegalName, &a.TradeName, &a.EntityType,
		&a.ResponsiblePartyName, &a.ResponsiblePartyTitle, &a.ResponsiblePartyTaxIDCipher,
		&a.ResponsiblePartyTaxIDType, &a.ResponsiblePartyLast4, &a.ReasonForApplying,
		&a.BusinessStartDate, &a.NumberOfEmployees, &a.PrincipalActivity, &a.MailingLine1,
		&a.MailingCity, &a.MailingState, &a.MailingZip, &a.Status, &a.EINNumber, &a.RejectionReason,
		&a.SubmittedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta la solicitud. Segunda solicitud para la misma entidad → domain.ErrDuplicate.
func (r *EinApplicationRepo) Create(ctx context.Context, a *entity.EinApplication) error {
	const query = `
		INSERT INTO ein_applications (id, business_entity_id, legal_name, trade_name, entity_type,
			responsible_party_name, responsible_party_title, responsible_party_tax_id,
			responsible_party_tax_id_type, responsible_party_last4, reason_for_applying,
			business_start_date, number_of_employees, principal_activity, mailing_line1, mailing_city,
			mailing_state, mailing_zip, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.db.Exec(ctx, query, a.ID, a.BusinessEntityID, a.LegalName, nullIfEmpty(a.TradeName), a.EntityType,
		a.ResponsiblePartyName, nullIfEmpty(a.ResponsiblePartyTitle), nullIfEmpty(a.ResponsiblePartyTaxIDCipher),
		nullIfEmpty(a.ResponsiblePartyTaxIDType), nullIfEmpty(a.ResponsiblePartyLast4), nullIfEmpty(a.ReasonForApplying),
		a.BusinessStartDate, a.NumberOfEmployees, nullIfEmpty(a.PrincipalActivity), nullIfEmpty(a.MailingLine1),
		nullIfEmpty(a.MailingCity), nullIfEmpty(a.MailingState), nullIfEmpty(a.MailingZip), a.Status,
		a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert ein application: %w", err)
	}
	return nil
}

func (r *EinApplicationRepo) getOne(ctx context.Context, where string, arg any) (*entity.EinApplication, error) {
	a, err := scanEin(r.db.QueryRow(ctx, `SELECT `+einColumns+` FROM ein_applications WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ein application: %w", err)
	}
	return a, nil
}

// GetByID nil, nil si no existe.
func (r *EinApplicationRepo) GetByID(ctx context.Context, id string) (*entity.EinApplication, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByBusinessEntity la solicitud de la entidad, o nil.
func (r *EinApplicationRepo) GetByBusinessEntity(ctx context.Context, businessEntityID string) (*entity.EinApplication, error) {
	return r.getOne(ctx, "business_entity_id = $1", businessEntityID)
}

// ListByStatus cola de revisión del admin; todas si status es vacío.
func (r *EinApplicationRepo) ListByStatus(ctx context.Context, status string) ([]*entity.EinApplication, error) {
	rows, err := r.db.Query(ctx, `SELECT `+einColumns+` FROM ein_applications
		WHERE ($1 = '' OR status = $1) ORDER BY COALESCE(submitted_at, created_at)`, status)
	if err != nil {
		return nil, fmt.Errorf("list ein applications: %w", err)
	}
	defer rows.Close()

	var list []*entity.EinApplication
	for rows.Next() {
		a, err := scanEin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ein application: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Update guarda todos los campos editables y el estado.
func (r *EinApplicationRepo) Update(ctx context.Context, a *entity.EinApplication) error {
	const query = `
		UPDATE ein_applications SET legal_name = $2, trade_name = $3, entity_type = $4,
			responsible_party_name = $5, responsible_party_title = $6, responsible_party_tax_id = $7,
			responsible_party_tax_id_type = $8, responsible_party_last4 = $9, reason_for_applying = $10,
			business_start_date = $11, number_of_employees = $12, principal_activity = $13,
			mailing_line1 = $14, mailing_city = $15, mailing_state = $16, mailing_zip = $17, status = $18,
			ein_number = $19, rejection_reason = $20, submitted_at = $21, updated_at = $22
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, a.ID, a.LegalName, nullIfEmpty(a.TradeName), a.EntityType,
		a.ResponsiblePartyName, nullIfEmpty(a.ResponsiblePartyTitle), nullIfEmpty(a.ResponsiblePartyTaxIDCipher),
		nullIfEmpty(a.ResponsiblePartyTaxIDType), nullIfEmpty(a.ResponsiblePartyLast4), nullIfEmpty(a.ReasonForApplying),
		a.BusinessStartDate, a.NumberOfEmployees, nullIfEmpty(a.PrincipalActivity), nullIfEmpty(a.MailingLine1),
		nullIfEmpty(a.MailingCity), nullIfEmpty(a.MailingState), nullIfEmpty(a.MailingZip), a.Status,
		nullIfEmpty(a.EINNumber), nullIfEmpty(a.RejectionReason), a.SubmittedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ein application: %w", err)
	}
	return requireAffected(tag)
}
