package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ repository.TaxFilingOrderRepository = (*TaxFilingOrderRepo)(nil)

// TaxFilingOrderRepo órdenes del checkout de declaración.
type TaxFilingOrderRepo struct {
	db Querier
}

// NewTaxFilingOrderRepository construye el repositorio.
func NewTaxFilingOrderRepository(db Querier) *TaxFilingOrderRepo {
	return &TaxFilingOrderRepo{db: db}
}

// Create inserta la orden.
func (r *TaxFilingOrderRepo) Create(ctx context.Context, o *entity.TaxFilingOrder) error {
	const query = `
		INSERT INTO tax_filing_orders (id, user_id, business_entity_id, business_structure, plan, amount,
			tax_year, business_name, ein, shareholder_info, partner_info, contact_email, contact_phone,
			payment_intent_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.db.Exec(ctx, query, o.ID, o.UserID, nullIfEmpty(o.BusinessEntityID), o.BusinessStructure, o.Plan,
		o.Amount, o.TaxYear, o.BusinessName, nullIfEmpty(o.EIN), nullIfEmpty(o.ShareholderInfo),
		nullIfEmpty(o.PartnerInfo), o.ContactEmail, nullIfEmpty(o.ContactPhone), nullIfEmpty(o.PaymentIntentID),
		o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert tax filing order: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *TaxFilingOrderRepo) GetByID(ctx context.Context, id string) (*entity.TaxFilingOrder, error) {
	const query = `
		SELECT id, user_id, COALESCE(business_entity_id::text, ''), business_structure, plan, amount, tax_year,
			business_name, COALESCE(ein, ''), COALESCE(shareholder_info, ''), COALESCE(partner_info, ''),
			contact_email, COALESCE(contact_phone, ''), COALESCE(payment_intent_id, ''), status, created_at, updated_at
		FROM tax_filing_orders WHERE id = $1`
	var o entity.TaxFilingOrder
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.UserID, &o.BusinessEntityID, &o.BusinessStructure,
		&o.Plan, &o.Amount, &o.TaxYear, &o.BusinessName, &o.EIN, &o.ShareholderInfo, &o.PartnerInfo,
		&o.ContactEmail, &o.ContactPhone, &o.PaymentIntentID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax filing order: %w", err)
	}
	return &o, nil
}

// Update guarda el payment intent y el estado.
func (r *TaxFilingOrderRepo) Update(ctx context.Context, o *entity.TaxFilingOrder) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tax_filing_orders SET payment_intent_id = $2, status = $3, updated_at = $4 WHERE id = $1`,
		o.ID, nullIfEmpty(o.PaymentIntentID), o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update tax filing order: %w", err)
	}
	return requireAffected(tag)
}
