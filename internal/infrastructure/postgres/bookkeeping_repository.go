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

var _ repository.BookkeepingRepository = (*BookkeepingRepo)(nil)

// BookkeepingRepo suscripciones de contabilidad.
type BookkeepingRepo struct {
	db Querier
}

// NewBookkeepingRepository construye el repositorio.
func NewBookkeepingRepository(db Querier) *BookkeepingRepo {
	return &BookkeepingRepo{db: db}
}

// Create una por entidad; repetida → domain.ErrDuplicate.
func (r *BookkeepingRepo) Create(ctx context.Context, s *entity.BookkeepingSubscription) error {
	const query = `
		INSERT INTO bookkeeping_subscriptions (id, business_entity_id, plan, monthly_price, status,
			started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, s.ID, s.BusinessEntityID, s.Plan, s.MonthlyPrice, s.Status,
		s.StartedAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bookkeeping subscription: %w", err)
	}
	return nil
}

// GetByEntity nil, nil si la entidad no tiene suscripción.
func (r *BookkeepingRepo) GetByEntity(ctx context.Context, businessEntityID string) (*entity.BookkeepingSubscription, error) {
	const query = `
		SELECT id, business_entity_id, plan, monthly_price, status, started_at, created_at, updated_at
		FROM bookkeeping_subscriptions WHERE business_entity_id = $1`
	var s entity.BookkeepingSubscription
	err := r.db.QueryRow(ctx, query, businessEntityID).Scan(&s.ID, &s.BusinessEntityID, &s.Plan,
		&s.MonthlyPrice, &s.Status, &s.StartedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bookkeeping subscription: %w", err)
	}
	return &s, nil
}

// Update cambia plan, precio o estado.
func (r *BookkeepingRepo) Update(ctx context.Context, s *entity.BookkeepingSubscription) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookkeeping_subscriptions SET plan = $2, monthly_price = $3, status = $4, updated_at = $5 WHERE id = $1`,
		s.ID, s.Plan, s.MonthlyPrice, s.Status, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bookkeeping subscription: %w", err)
	}
	return requireAffected(tag)
}
