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

var (
	_ repository.PlanRepository        = (*PlanRepo)(nil)
	_ repository.ServiceRepository     = (*ServiceRepo)(nil)
	_ repository.PlanServiceRepository = (*PlanServiceRepo)(nil)
)

// ── Planes ────────────────────────────────────────────────────────────────────

const planColumns = `id, name, description, price, billing_cycle, features, is_active, sort_order,
	created_at, updated_at`

// PlanRepo catálogo de planes de suscripción.
type PlanRepo struct {
	db Querier
}

// NewPlanRepository construye el repositorio de planes.
func NewPlanRepository(db Querier) *PlanRepo {
	return &PlanRepo{db: db}
}

func scanPlan(row scanner) (*entity.SubscriptionPlan, error) {
	var p entity.SubscriptionPlan
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.BillingCycle, &p.Features,
		&p.IsActive, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta un plan. Nombre repetido → domain.ErrDuplicate.
func (r *PlanRepo) Create(ctx context.Context, p *entity.SubscriptionPlan) error {
	const query = `
		INSERT INTO subscription_plans (id, name, description, price, billing_cycle, features,
			is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.BillingCycle, p.Features,
		p.IsActive, p.SortOrder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.SubscriptionPlan, error) {
	p, err := scanPlan(r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM subscription_plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// List ordenado por sort_order; onlyActive oculta los desactivados.
func (r *PlanRepo) List(ctx context.Context, onlyActive bool) ([]*entity.SubscriptionPlan, error) {
	rows, err := r.db.Query(ctx, `SELECT `+planColumns+` FROM subscription_plans
		WHERE ($1 = false OR is_active) ORDER BY sort_order, name`, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var list []*entity.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update reemplaza los campos del plan.
func (r *PlanRepo) Update(ctx context.Context, p *entity.SubscriptionPlan) error {
	const query = `
		UPDATE subscription_plans SET name = $2, description = $3, price = $4, billing_cycle = $5,
			features = $6, is_active = $7, sort_order = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.BillingCycle, p.Features,
		p.IsActive, p.SortOrder, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update plan: %w", err)
	}
	return requireAffected(tag)
}

// Deactivate borrado lógico.
func (r *PlanRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE subscription_plans SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate plan: %w", err)
	}
	return requireAffected(tag)
}

// ── Servicios ─────────────────────────────────────────────────────────────────

const serviceColumns = `id, name, description, category, price, is_active, created_at, updated_at`

// ServiceRepo catálogo de servicios.
type ServiceRepo struct {
	db Querier
}

// NewServiceRepository construye el repositorio de servicios.
func NewServiceRepository(db Querier) *ServiceRepo {
	return &ServiceRepo{db: db}
}

func scanService(row scanner) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.Price, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un servicio. Nombre repetido → domain.ErrDuplicate.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	const query = `
		INSERT INTO services (id, name, description, category, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Description, s.Category, s.Price, s.IsActive,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return s, nil
}

// List todos los servicios por categoría y nombre.
func (r *ServiceRepo) List(ctx context.Context) ([]*entity.Service, error) {
	rows, err := r.db.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update reemplaza los campos del servicio.
func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	const query = `
		UPDATE services SET name = $2, description = $3, category = $4, price = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Description, s.Category, s.Price, s.IsActive, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update service: %w", err)
	}
	return requireAffected(tag)
}

// Delete borrado físico; las filas de plan_services caen por ON DELETE CASCADE.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return requireAffected(tag)
}

// ── Plan ↔ Servicio ───────────────────────────────────────────────────────────

const planServiceSelect = `
	SELECT ps.id, ps.plan_id, ps.service_id, ps.is_included, ps.is_addon, ps.addon_price, ps.created_at,
	       s.name, p.name
	FROM plan_services ps
	JOIN services s           ON s.id = ps.service_id
	JOIN subscription_plans p ON p.id = ps.plan_id`

// PlanServiceRepo relación muchos a muchos plan↔servicio.
type PlanServiceRepo struct {
	db Querier
}

// NewPlanServiceRepository construye el repositorio.
func NewPlanServiceRepository(db Querier) *PlanServiceRepo {
	return &PlanServiceRepo{db: db}
}

func scanPlanService(row scanner) (*entity.PlanService, error) {
	var ps entity.PlanService
	if err := row.Scan(&ps.ID, &ps.PlanID, &ps.ServiceID, &ps.IsIncluded, &ps.IsAddon, &ps.AddonPrice,
		&ps.CreatedAt, &ps.ServiceName, &ps.PlanName); err != nil {
		return nil, err
	}
	return &ps, nil
}

// Create inserta la relación. Par repetido → domain.ErrDuplicate; plan o servicio inexistente → ErrNotFound.
func (r *PlanServiceRepo) Create(ctx context.Context, ps *entity.PlanService) error {
	const query = `
		INSERT INTO plan_services (id, plan_id, service_id, is_included, is_addon, addon_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query, ps.ID, ps.PlanID, ps.ServiceID, ps.IsIncluded, ps.IsAddon, ps.AddonPrice, ps.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert plan service: %w", err)
	}
	return nil
}

// GetByID nil, nil si no existe.
func (r *PlanServiceRepo) GetByID(ctx context.Context, id string) (*entity.PlanService, error) {
	ps, err := scanPlanService(r.db.QueryRow(ctx, planServiceSelect+` WHERE ps.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan service: %w", err)
	}
	return ps, nil
}

// List filtra por plan si planID no es vacío.
func (r *PlanServiceRepo) List(ctx context.Context, planID string) ([]*entity.PlanService, error) {
	rows, err := r.db.Query(ctx, planServiceSelect+`
		WHERE ($1 = '' OR ps.plan_id::text = $1)
		ORDER BY p.sort_order, s.name`, planID)
	if err != nil {
		return nil, fmt.Errorf("list plan services: %w", err)
	}
	defer rows.Close()

	var list []*entity.PlanService
	for rows.Next() {
		ps, err := scanPlanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan service: %w", err)
		}
		list = append(list, ps)
	}
	return list, rows.Err()
}

// Update cambia los flags y el precio del add-on.
func (r *PlanServiceRepo) Update(ctx context.Context, ps *entity.PlanService) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE plan_services SET is_included = $2, is_addon = $3, addon_price = $4 WHERE id = $1`,
		ps.ID, ps.IsIncluded, ps.IsAddon, ps.AddonPrice)
	if err != nil {
		return fmt.Errorf("update plan service: %w", err)
	}
	return requireAffected(tag)
}

// Delete borrado físico.
func (r *PlanServiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plan_services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete plan service: %w", err)
	}
	return requireAffected(tag)
}
