package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// AnnualReportRepository puerto de reportes anuales.
// Create devuelve domain.ErrDuplicate si ya existe el reporte para (entidad, año).
type AnnualReportRepository interface {
	Create(ctx context.Context, r *entity.AnnualReport) error
	GetByID(ctx context.Context, id string) (*entity.AnnualReport, error)
	ListByEntities(ctx context.Context, entityIDs []string) ([]*entity.AnnualReport, error)
	Update(ctx context.Context, r *entity.AnnualReport) error
}
