package repository

import "context"

// InsightDismissalRepository insights descartados por entidad.
type InsightDismissalRepository interface {
	Dismiss(ctx context.Context, businessEntityID, code string) error
	ListDismissed(ctx context.Context, businessEntityID string) ([]string, error)
}
