package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// Pesos de cada dimensión en la puntuación global (suman 1).
const (
	weightCompliance    = 0.30
	weightFinancial     = 0.25
	weightOperational   = 0.20
	weightDocumentation = 0.15
	weightEngagement    = 0.10
)

const healthWindow = 30 * 24 * time.Hour

// HealthDeps puertos que alimentan el radar de salud.
type HealthDeps struct {
	Entities    repository.BusinessEntityRepository
	Reports     repository.AnnualReportRepository
	Ein         repository.EinApplicationRepository
	Bookkeeping repository.BookkeepingRepository
	Mailbox     repository.MailboxRepository
	Documents   repository.DocumentRepository
	Activity    repository.AnalyticsQueryRepository
	Dismissals  repository.InsightDismissalRepository
}

// HealthUseCase radar de salud de una entidad: puntuaciones, nota e insights.
type HealthUseCase struct {
	deps HealthDeps
	own  ownership
	log  *logger.Logger
	now  func() time.Time
}

// NewHealthUseCase construye el caso de uso.
func NewHealthUseCase(deps HealthDeps, log *logger.Logger) *HealthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &HealthUseCase{
		deps: deps,
		own:  ownership{entities: deps.Entities},
		log:  log.Component("health"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// snapshot estado de la entidad del que salen puntuaciones e insights.
type snapshot struct {
	entity   *entity.BusinessEntity
	ein      *entity.EinApplication
	counts   dto.HealthCounts
	overdue  []int
	dueSoon  []int
	hasEIN   bool
	einState string
}

// Dashboard calcula el radar completo con los insights activos.
func (uc *HealthUseCase) Dashboard(ctx context.Context, actor Actor, businessEntityID string) (*dto.HealthDashboardResponse, error) {
	snap, err := uc.collect(ctx, actor, businessEntityID)
	if err != nil {
		return nil, err
	}
	scores := score(snap)
	insights, err := uc.activeInsights(ctx, snap)
	if err != nil {
		return nil, err
	}
	overall := Overall(scores)
	return &dto.HealthDashboardResponse{
		BusinessEntityID: businessEntityID,
		Scores:           scores,
		Overall:          overall,
		Grade:            Grade(overall),
		Counts:           snap.counts,
		Insights:         insights,
	}, nil
}

// Insights solo los insights activos (no descartados).
func (uc *HealthUseCase) Insights(ctx context.Context, actor Actor, businessEntityID string) ([]dto.InsightResponse, error) {
	snap, err := uc.collect(ctx, actor, businessEntityID)
	if err != nil {
		return nil, err
	}
	return uc.activeInsights(ctx, snap)
}

// Dismiss descarta un insight para la entidad. Descartar dos veces no es un error.
func (uc *HealthUseCase) Dismiss(ctx context.Context, actor Actor, businessEntityID string, in dto.DismissInsightRequest) error {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return err
	}
	return uc.deps.Dismissals.Dismiss(ctx, businessEntityID, strings.TrimSpace(in.Code))
}

func (uc *HealthUseCase) collect(ctx context.Context, actor Actor, businessEntityID string) (*snapshot, error) {
	be, err := uc.own.entity(ctx, actor, businessEntityID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	snap := &snapshot{entity: be, hasEIN: be.EIN != ""}
	c := &snap.counts

	reports, err := uc.deps.Reports.ListByEntities(ctx, []string{be.ID})
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		r.RefreshStatus(now)
		c.TotalReports++
		switch r.Status {
		case entity.ReportStatusOverdue:
			c.OverdueReports++
			snap.overdue = append(snap.overdue, r.FilingYear)
		case entity.ReportStatusDueSoon:
			c.DueSoonReports++
			snap.dueSoon = append(snap.dueSoon, r.FilingYear)
		case entity.ReportStatusFiled:
			c.FiledReports++
		}
	}

	if snap.ein, err = uc.deps.Ein.GetByBusinessEntity(ctx, be.ID); err != nil {
		return nil, err
	}
	if snap.ein != nil {
		snap.einState = snap.ein.Status
	}
	c.HasEIN = snap.hasEIN
	c.EinStatus = snap.einState

	bk, err := uc.deps.Bookkeeping.GetByEntity(ctx, be.ID)
	if err != nil {
		return nil, err
	}
	c.ActiveBookkeeping = bk != nil && bk.Status == entity.SubscriptionActive

	sub, err := uc.deps.Mailbox.GetSubscriptionByEntity(ctx, be.ID)
	if err != nil {
		return nil, err
	}
	c.ActiveMailbox = sub != nil && sub.Status == entity.SubscriptionActive
	if sub != nil {
		items, err := uc.deps.Mailbox.ListItems(ctx, repository.MailItemFilter{BusinessEntityIDs: []string{be.ID}})
		if err != nil {
			return nil, err
		}
		for _, m := range items {
			if m.Status != entity.MailStatusUnread {
				continue
			}
			c.UnreadMail++
			if m.Priority == entity.MailPriorityUrgent || m.Priority == entity.MailPriorityHigh {
				c.UrgentUnreadMail++
			}
		}
		pending, err := uc.deps.Mailbox.ListActionsByStatus(ctx, entity.ActionStatusPending)
		if err != nil {
			return nil, err
		}
		itemIDs := lo.SliceToMap(items, func(m *entity.MailItem) (string, struct{}) { return m.ID, struct{}{} })
		c.PendingMailActions = lo.CountBy(pending, func(a *entity.MailAction) bool {
			_, ok := itemIDs[a.MailItemID]
			return ok
		})
	}

	docs, err := uc.deps.Documents.List(ctx, repository.DocumentFilter{BusinessEntityID: be.ID})
	if err != nil {
		return nil, err
	}
	c.Documents = len(docs)
	c.RecentDocuments = lo.CountBy(docs, func(d *entity.Document) bool { return now.Sub(d.CreatedAt) <= healthWindow })

	// la analítica nunca tumba el radar: si falla, la actividad cuenta como 0
	if uc.deps.Activity != nil {
		n, err := uc.deps.Activity.CountActivity(ctx, be.ID, now.Add(-healthWindow))
		if err != nil {
			uc.log.Warn().Err(err).Str("business_entity_id", be.ID).Msg("activity count unavailable")
		} else {
			c.RecentActivity = n
		}
	}
	return snap, nil
}

func score(s *snapshot) dto.HealthScores {
	c := s.counts

	compliance := 100 - 30*c.OverdueReports - 10*c.DueSoonReports
	if !s.hasEIN {
		compliance -= 20
	}

	financial := 40
	if c.ActiveBookkeeping {
		financial = 100
	}
	financial -= 10 * c.OverdueReports

	operational := 0
	if s.entity.Status == entity.EntityStatusActive {
		operational += 25
	}
	if s.hasEIN {
		operational += 25
	}
	if c.ActiveMailbox {
		operational += 50
	}
	operational -= 10 * c.UrgentUnreadMail

	documentation := 20
	if c.Documents > 0 {
		documentation = 50 + 10*min(c.Documents, 3)
		if c.RecentDocuments > 0 {
			documentation += 20
		}
	}

	var engagement int
	switch {
	case c.RecentActivity >= 20:
		engagement = 100
	case c.RecentActivity >= 5:
		engagement = 75
	case c.RecentActivity > 0:
		engagement = 50
	default:
		engagement = 20
	}
	if c.UnreadMail > 10 {
		engagement -= 15
	}

	return dto.HealthScores{
		Compliance:    clampScore(compliance),
		Financial:     clampScore(financial),
		Operational:   clampScore(operational),
		Documentation: clampScore(documentation),
		Engagement:    clampScore(engagement),
	}
}

// Overall media ponderada de las cinco dimensiones, redondeada.
func Overall(s dto.HealthScores) int {
	v := weightCompliance*float64(s.Compliance) +
		weightFinancial*float64(s.Financial) +
		weightOperational*float64(s.Operational) +
		weightDocumentation*float64(s.Documentation) +
		weightEngagement*float64(s.Engagement)
	return clampScore(int(math.Round(v)))
}

// Grade A ≥ 90, B ≥ 80, C ≥ 70, D ≥ 60, F en otro caso.
func Grade(overall int) string {
	switch {
	case overall >= 90:
		return "A"
	case overall >= 80:
		return "B"
	case overall >= 70:
		return "C"
	case overall >= 60:
		return "D"
	default:
		return "F"
	}
}

func clampScore(v int) int { return max(0, min(100, v)) }

func (uc *HealthUseCase) activeInsights(ctx context.Context, s *snapshot) ([]dto.InsightResponse, error) {
	dismissed, err := uc.deps.Dismissals.ListDismissed(ctx, s.entity.ID)
	if err != nil {
		return nil, err
	}
	active := lo.Reject(buildInsights(s), func(i entity.HealthInsight, _ int) bool {
		return lo.Contains(dismissed, i.Code)
	})
	return lo.Map(active, func(i entity.HealthInsight, _ int) dto.InsightResponse {
		return dto.InsightResponse{
			Code:        i.Code,
			Severity:    i.Severity,
			Category:    i.Category,
			Title:       i.Title,
			Description: i.Description,
			ActionURL:   i.ActionURL,
		}
	}), nil
}

// buildInsights ordenados por severidad: critical, warning, info.
func buildInsights(s *snapshot) []entity.HealthInsight {
	c := s.counts
	var out []entity.HealthInsight
	add := func(i entity.HealthInsight) { out = append(out, i) }

	for _, year := range s.overdue {
		add(entity.HealthInsight{
			Code:        fmt.Sprintf("annual_report_overdue:%d", year),
			Severity:    entity.InsightCritical,
			Category:    "compliance",
			Title:       fmt.Sprintf("%d annual report is overdue", year),
			Description: "File now to limit late fees and keep the entity in good standing.",
			ActionURL:   "/annual-reports",
		})
	}
	if s.einState == entity.EINStatusRejected {
		add(entity.HealthInsight{
			Code:        "ein_rejected",
			Severity:    entity.InsightCritical,
			Category:    "compliance",
			Title:       "EIN application was rejected",
			Description: "Review the rejection reason and start a corrected application.",
			ActionURL:   "/ein",
		})
	}
	if c.UrgentUnreadMail > 0 {
		add(entity.HealthInsight{
			Code:        "mail_urgent_unread",
			Severity:    entity.InsightCritical,
			Category:    "operational",
			Title:       fmt.Sprintf("%d high-priority mail item(s) unread", c.UrgentUnreadMail),
			Description: "Legal and government mail often carries deadlines.",
			ActionURL:   "/mailbox",
		})
	}
	for _, year := range s.dueSoon {
		add(entity.HealthInsight{
			Code:        fmt.Sprintf("annual_report_due_soon:%d", year),
			Severity:    entity.InsightWarning,
			Category:    "compliance",
			Title:       fmt.Sprintf("%d annual report due soon", year),
			Description: "The filing deadline is within the next 60 days.",
			ActionURL:   "/annual-reports",
		})
	}
	if !s.hasEIN && s.ein == nil {
		add(entity.HealthInsight{
			Code:        "ein_missing",
			Severity:    entity.InsightWarning,
			Category:    "compliance",
			Title:       "No EIN on file",
			Description: "An EIN is required to open a bank account, hire employees and file taxes.",
			ActionURL:   "/ein",
		})
	}
	if s.einState == entity.EINStatusDraft {
		add(entity.HealthInsight{
			Code:        "ein_draft",
			Severity:    entity.InsightInfo,
			Category:    "compliance",
			Title:       "EIN application not submitted",
			Description: "Complete the remaining fields and submit your application.",
			ActionURL:   "/ein",
		})
	}
	if !c.ActiveBookkeeping {
		add(entity.HealthInsight{
			Code:        "bookkeeping_inactive",
			Severity:    entity.InsightInfo,
			Category:    "financial",
			Title:       "Bookkeeping is not set up",
			Description: "Monthly bookkeeping keeps you ready for tax season.",
			ActionURL:   "/bookkeeping",
		})
	}
	if !c.ActiveMailbox {
		add(entity.HealthInsight{
			Code:        "mailbox_inactive",
			Severity:    entity.InsightInfo,
			Category:    "operational",
			Title:       "No digital mailbox",
			Description: "Receive and scan official mail at a business address.",
			ActionURL:   "/mailbox",
		})
	}
	if c.Documents == 0 {
		add(entity.HealthInsight{
			Code:        "documents_missing",
			Severity:    entity.InsightInfo,
			Category:    "documentation",
			Title:       "No documents uploaded",
			Description: "Upload formation documents and statements to keep records in one place.",
			ActionURL:   "/bookkeeping",
		})
	}
	if c.RecentActivity == 0 {
		add(entity.HealthInsight{
			Code:        "engagement_low",
			Severity:    entity.InsightInfo,
			Category:    "engagement",
			Title:       "No recent activity",
			Description: "Check in regularly to stay ahead of deadlines.",
			ActionURL:   "/dashboard",
		})
	}
	return out
}
