package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ repository.InsightDismissalRepository = (*InsightDismissalRepo)(nil)

// InsightDismissalRepo insights del radar de salud descartados por el cliente.
type InsightDismissalRepo struct {
	db Querier
}

// NewInsightDismissalRepository construye el repositorio.
func NewInsightDismissalRepository(db Querier) *InsightDismissalRepo {
	return &InsightDismissalRepo{db: db}
}

// Dismiss es idempotente.
func (r *InsightDismissalRepo) Dismiss(ctx context.Context, businessEntityID, code string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO health_insight_dismissals (business_entity_id, insight_code, dismissed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (business_entity_id, insight_code) DO NOTHING`, businessEntityID, code)
	if err != nil {
		return fmt.Errorf("dismiss insight: %w", err)
	}
	return nil
}

// ListDismissed códigos descartados de la entidad.
func (r *InsightDismissalRepo) ListDismissed(ctx context.Context, businessEntityID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT insight_code FROM health_insight_dismissals WHERE business_entity_id = $1`, businessEntityID)
	if err != nil {
		return nil, fmt.Errorf("list dismissed insights: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan dismissed insight: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}
