package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// Auditor registra las mutaciones administrativas en la base de compliance.
// Un fallo de escritura se registra en log y en métricas, nunca se propaga.
type Auditor struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewAuditor construye el auditor. repo nil desactiva la auditoría.
func NewAuditor(repo repository.AuditLogRepository, log *logger.Logger) *Auditor {
	if log == nil {
		log = logger.Nop()
	}
	return &Auditor{repo: repo, log: log.Component("audit")}
}

// Record añade una fila a la bitácora.
func (a *Auditor) Record(ctx context.Context, actor Actor, action, resourceType, resourceID string, details map[string]any) {
	if a == nil || a.repo == nil {
		return
	}
	row := &entity.AuditLog{
		ID:           uuid.New().String(),
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		IPAddress:    actor.IPAddress,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.repo.Append(context.WithoutCancel(ctx), row); err != nil {
		metrics.AuditFailures.Inc()
		a.log.Error().Err(err).
			Str("action", action).
			Str("resource_type", resourceType).
			Str("resource_id", resourceID).
			Msg("audit write failed")
	}
}

// List devuelve las últimas filas, opcionalmente filtradas por tipo de recurso.
func (a *Auditor) List(ctx context.Context, resourceType string, limit int) ([]dto.AuditLogResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	rows, err := a.repo.List(ctx, resourceType, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(l *entity.AuditLog, _ int) dto.AuditLogResponse {
		return dto.AuditLogResponse{
			ID:           l.ID,
			ActorUserID:  l.ActorUserID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			Details:      l.Details,
			IPAddress:    l.IPAddress,
			CreatedAt:    l.CreatedAt,
		}
	}), nil
}
