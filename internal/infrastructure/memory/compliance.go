package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.AnnualReportRepository     = (*AnnualReportRepository)(nil)
	_ repository.EinApplicationRepository   = (*EinApplicationRepository)(nil)
	_ repository.EinTxRunner                = (*EinTxRunner)(nil)
	_ repository.AuditLogRepository         = (*AuditLogRepository)(nil)
	_ repository.InsightDismissalRepository = (*InsightDismissalRepository)(nil)
)

// AnnualReportRepository reportes únicos por (entidad, año).
type AnnualReportRepository struct{ t *table[entity.AnnualReport] }

func NewAnnualReportRepository() *AnnualReportRepository {
	return &AnnualReportRepository{t: newTable[entity.AnnualReport]()}
}

func (r *AnnualReportRepository) Create(_ context.Context, rep *entity.AnnualReport) error {
	if _, dup := r.t.find(func(x entity.AnnualReport) bool {
		return x.BusinessEntityID == rep.BusinessEntityID && x.FilingYear == rep.FilingYear
	}); dup {
		return domain.ErrDuplicate
	}
	r.t.insert(rep.ID, *rep)
	return nil
}

func (r *AnnualReportRepository) GetByID(_ context.Context, id string) (*entity.AnnualReport, error) {
	if rep, ok := r.t.get(id); ok {
		return &rep, nil
	}
	return nil, nil
}

func (r *AnnualReportRepository) ListByEntities(_ context.Context, entityIDs []string) ([]*entity.AnnualReport, error) {
	set := make(map[string]bool, len(entityIDs))
	for _, id := range entityIDs {
		set[id] = true
	}
	rows := r.t.filter(func(x entity.AnnualReport) bool { return set[x.BusinessEntityID] })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	return ptrs(rows), nil
}

func (r *AnnualReportRepository) Update(_ context.Context, rep *entity.AnnualReport) error {
	return r.t.update(rep.ID, *rep)
}

// EinApplicationRepository una solicitud por entidad.
type EinApplicationRepository struct{ t *table[entity.EinApplication] }

func NewEinApplicationRepository() *EinApplicationRepository {
	return &EinApplicationRepository{t: newTable[entity.EinApplication]()}
}

func (r *EinApplicationRepository) Create(_ context.Context, a *entity.EinApplication) error {
	if _, dup := r.t.find(func(x entity.EinApplication) bool { return x.BusinessEntityID == a.BusinessEntityID }); dup {
		return domain.ErrDuplicate
	}
	r.t.insert(a.ID, *a)
	return nil
}

func (r *EinApplicationRepository) GetByID(_ context.Context, id string) (*entity.EinApplication, error) {
	if a, ok := r.t.get(id); ok {
		return &a, nil
	}
	return nil, nil
}

func (r *EinApplicationRepository) GetByBusinessEntity(_ context.Context, businessEntityID string) (*entity.EinApplication, error) {
	if a, ok := r.t.find(func(x entity.EinApplication) bool { return x.BusinessEntityID == businessEntityID }); ok {
		return &a, nil
	}
	return nil, nil
}

func (r *EinApplicationRepository) ListByStatus(_ context.Context, status string) ([]*entity.EinApplication, error) {
	return ptrs(r.t.filter(func(x entity.EinApplication) bool { return status == "" || x.Status == status })), nil
}

func (r *EinApplicationRepository) Update(_ context.Context, a *entity.EinApplication) error {
	return r.t.update(a.ID, *a)
}

// EinTxRunner serializa las aprobaciones. Sin rollback: los tests que fallan a mitad
// no dependen de deshacer cambios.
type EinTxRunner struct {
	mu       sync.Mutex
	Apps     *EinApplicationRepository
	Entities *BusinessEntityRepository
}

func (r *EinTxRunner) RunEin(_ context.Context, fn func(apps repository.EinApplicationRepository, entities repository.BusinessEntityRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.Apps, r.Entities)
}

// AuditLogRepository bitácora append-only. Fail fuerza errores de escritura.
type AuditLogRepository struct {
	t    *table[entity.AuditLog]
	Fail error
}

func NewAuditLogRepository() *AuditLogRepository { return &AuditLogRepository{t: newTable[entity.AuditLog]()} }

func (r *AuditLogRepository) Append(_ context.Context, l *entity.AuditLog) error {
	if r.Fail != nil {
		return r.Fail
	}
	r.t.insert(l.ID, *l)
	return nil
}

func (r *AuditLogRepository) List(_ context.Context, resourceType string, limit int) ([]*entity.AuditLog, error) {
	rows := newestFirst(r.t.filter(func(x entity.AuditLog) bool { return resourceType == "" || x.ResourceType == resourceType }))
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return ptrs(rows), nil
}

// InsightDismissalRepository códigos descartados por entidad.
type InsightDismissalRepository struct {
	mu   sync.Mutex
	rows map[string][]string
}

func NewInsightDismissalRepository() *InsightDismissalRepository {
	return &InsightDismissalRepository{rows: map[string][]string{}}
}

func (r *InsightDismissalRepository) Dismiss(_ context.Context, businessEntityID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows[businessEntityID] {
		if c == code {
			return nil
		}
	}
	r.rows[businessEntityID] = append(r.rows[businessEntityID], code)
	return nil
}

func (r *InsightDismissalRepository) ListDismissed(_ context.Context, businessEntityID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rows[businessEntityID]...), nil
}
