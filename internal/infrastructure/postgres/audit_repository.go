package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only; vive en la base de compliance.
type AuditLogRepo struct {
	db Querier
}

// NewAuditLogRepository construye el repositorio sobre la base de compliance.
func NewAuditLogRepository(db Querier) *AuditLogRepo {
	return &AuditLogRepo{db: db}
}

// Append inserta una entrada. No hay Update ni Delete.
func (r *AuditLogRepo) Append(ctx context.Context, l *entity.AuditLog) error {
	const query = `
		INSERT INTO audit_logs (id, actor_user_id, action, resource_type, resource_id, details, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query, l.ID, l.ActorUserID, l.Action, l.ResourceType, l.ResourceID, l.Details,
		nullIfEmpty(l.IPAddress), l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List últimas entradas, opcionalmente por tipo de recurso.
func (r *AuditLogRepo) List(ctx context.Context, resourceType string, limit int) ([]*entity.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, actor_user_id, action, resource_type, resource_id, details, COALESCE(ip_address, ''), created_at
		FROM audit_logs
		WHERE ($1 = '' OR resource_type = $1)
		ORDER BY created_at DESC
		LIMIT $2`, resourceType, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorUserID, &l.Action, &l.ResourceType, &l.ResourceID, &l.Details,
			&l.IPAddress, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
