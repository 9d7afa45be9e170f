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

var _ repository.BusinessEntityRepository = (*BusinessEntityRepo)(nil)

const businessEntityColumns = `id, owner_user_id, legal_name, entity_type, state, status,
	formation_date, COALESCE(ein, ''), created_at, updated_at`

// BusinessEntityRepo persistencia de entidades de negocio.
type BusinessEntityRepo struct {
	db Querier
}

// NewBusinessEntityRepository construye el repositorio.
func NewBusinessEntityRepository(db Querier) *BusinessEntityRepo {
	return &BusinessEntityRepo{db: db}
}

func scanBusinessEntity(row scanner) (*entity.BusinessEntity, error) {
	var e entity.BusinessEntity
	if err := row.Scan(&e.ID, &e.OwnerUserID, &e.LegalName, &e.EntityType, &e.State, &e.Status,
		&e.FormationDate, &e.EIN, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserta la entidad. Un dueño inexistente → domain.ErrNotFound.
func (r *BusinessEntityRepo) Create(ctx context.Context, e *entity.BusinessEntity) error {
	const query = `
		INSERT INTO business_entities (id, owner_user_id, legal_name, entity_type, state, status,
			formation_date, ein, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query, e.ID, e.OwnerUserID, e.LegalName, e.EntityType, e.State, e.Status,
		e.FormationDate, nullIfEmpty(e.EIN), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert business entity: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *BusinessEntityRepo) GetByID(ctx context.Context, id string) (*entity.BusinessEntity, error) {
	e, err := scanBusinessEntity(r.db.QueryRow(ctx,
		`SELECT `+businessEntityColumns+` FROM business_entities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business entity: %w", err)
	}
	return e, nil
}

// ListByOwner entidades de un cliente, más recientes primero.
func (r *BusinessEntityRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]*entity.BusinessEntity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+businessEntityColumns+` FROM business_entities WHERE owner_user_id = $1 ORDER BY created_at DESC`,
		ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list business entities: %w", err)
	}
	defer rows.Close()

	var list []*entity.BusinessEntity
	for rows.Next() {
		e, err := scanBusinessEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business entity: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Update actualiza los datos editables.
func (r *BusinessEntityRepo) Update(ctx context.Context, e *entity.BusinessEntity) error {
	const query = `
		UPDATE business_entities SET legal_name = $2, entity_type = $3, state = $4, status = $5,
			formation_date = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, e.ID, e.LegalName, e.EntityType, e.State, e.Status, e.FormationDate, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update business entity: %w", err)
	}
	return requireAffected(tag)
}

// SetEIN guarda el EIN asignado.
func (r *BusinessEntityRepo) SetEIN(ctx context.Context, id, ein string) error {
	tag, err := r.db.Exec(ctx, `UPDATE business_entities SET ein = $2, updated_at = NOW() WHERE id = $1`, id, ein)
	if err != nil {
		return fmt.Errorf("set business entity ein: %w", err)
	}
	return requireAffected(tag)
}
