package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// AuditLogRepository bitácora append-only en la base de compliance.
type AuditLogRepository interface {
	Append(ctx context.Context, l *entity.AuditLog) error
	List(ctx context.Context, resourceType string, limit int) ([]*entity.AuditLog, error)
}
