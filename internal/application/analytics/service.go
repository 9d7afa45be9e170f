package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

const (
	lookbackDays        = 30
	topEndpoints        = 20
	topFeatures         = 10
	defaultMetricsLimit = 50
	maxMetricsLimit     = 500
	healthTimeout       = 2 * time.Second
)

// Service consultas de lectura sobre la base de analítica y rollups de métricas.
type Service struct {
	queries repository.AnalyticsQueryRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewService construye el servicio.
func NewService(queries repository.AnalyticsQueryRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{queries: queries, log: log.Component("analytics"), now: time.Now}
}

func (s *Service) since() time.Time {
	now := s.now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -lookbackDays)
}

// GetDashboardAnalytics ejecuta las cinco consultas del dashboard en paralelo sobre
// los últimos 30 días. Si alguna falla devuelve el primer error.
func (s *Service) GetDashboardAnalytics(ctx context.Context, f dto.DashboardFilter) (*dto.DashboardAnalyticsResponse, error) {
	since := s.since()
	scope := repository.Scope{UserID: f.UserID, BusinessEntityID: f.BusinessEntityID}

	var (
		wg        sync.WaitGroup
		activity  []repository.DailyPoint
		revenue   []repository.DailyPoint
		docTypes  []repository.LabelCount
		endpoints []repository.EndpointLatency
		errCounts []repository.ErrorCount
		errs      [5]error
	)
	wg.Add(5)
	go func() { defer wg.Done(); activity, errs[0] = s.queries.ActivityTrend(ctx, scope, since) }()
	go func() { defer wg.Done(); revenue, errs[1] = s.queries.RevenueTrend(ctx, scope, since) }()
	go func() { defer wg.Done(); docTypes, errs[2] = s.queries.DocumentTypeDistribution(ctx, scope, since) }()
	go func() {
		defer wg.Done()
		endpoints, errs[3] = s.queries.EndpointPerformance(ctx, scope, since, topEndpoints)
	}()
	go func() { defer wg.Done(); errCounts, errs[4] = s.queries.ErrorBreakdown(ctx, scope, since) }()
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return nil, fmt.Errorf("dashboard analytics: %w", err)
	}

	out := &dto.DashboardAnalyticsResponse{
		Since:               since,
		ActivityTrend:       toTrend(activity),
		RevenueTrend:        toTrend(revenue),
		DocumentTypes:       toLabelCounts(docTypes),
		EndpointPerformance: make([]dto.EndpointLatencyDTO, 0, len(endpoints)),
		Errors:              make([]dto.ErrorCountDTO, 0, len(errCounts)),
	}
	for _, e := range endpoints {
		out.EndpointPerformance = append(out.EndpointPerformance, dto.EndpointLatencyDTO{
			Endpoint: e.Endpoint, Method: e.Method, Requests: e.Requests, AvgResponseMs: e.AvgResponseMs.Round(2),
		})
	}
	for _, e := range errCounts {
		out.Errors = append(out.Errors, dto.ErrorCountDTO{ErrorType: e.ErrorType, Severity: e.Severity, Count: e.Count})
	}
	return out, nil
}

// GetUserBehaviorInsights top de funcionalidades, histograma horario (24 posiciones)
// e interacciones con documentos de un usuario.
func (s *Service) GetUserBehaviorInsights(ctx context.Context, userID string) (*dto.UserInsightsResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId requerido", domain.ErrInvalidInput)
	}
	since := s.since()

	var (
		wg       sync.WaitGroup
		features []repository.LabelCount
		hours    []repository.HourBucket
		docs     []repository.LabelCount
		errs     [3]error
	)
	wg.Add(3)
	go func() { defer wg.Done(); features, errs[0] = s.queries.TopFeatures(ctx, userID, since, topFeatures) }()
	go func() { defer wg.Done(); hours, errs[1] = s.queries.HourlyActivity(ctx, userID, since) }()
	go func() { defer wg.Done(); docs, errs[2] = s.queries.DocumentInteractions(ctx, userID, since) }()
	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return nil, fmt.Errorf("user insights: %w", err)
	}

	hourly := make([]int64, 24)
	for _, h := range hours {
		if h.Hour >= 0 && h.Hour < 24 {
			hourly[h.Hour] += h.Count
		}
	}
	return &dto.UserInsightsResponse{
		UserID:               userID,
		Since:                since,
		TopFeatures:          toLabelCounts(features),
		HourlyActivity:       hourly,
		DocumentInteractions: toLabelCounts(docs),
	}, nil
}

// ListBusinessMetrics últimos rollups, opcionalmente filtrados por periodo.
func (s *Service) ListBusinessMetrics(ctx context.Context, period string, limit int) ([]dto.BusinessMetricResponse, error) {
	if period != "" && period != entity.PeriodDaily && period != entity.PeriodWeekly && period != entity.PeriodMonthly {
		return nil, fmt.Errorf("%w: periodo %q no soportado", domain.ErrInvalidInput, period)
	}
	if limit <= 0 {
		limit = defaultMetricsLimit
	}
	if limit > maxMetricsLimit {
		limit = maxMetricsLimit
	}
	rows, err := s.queries.ListBusinessMetrics(ctx, period, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessMetricResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.BusinessMetricResponse{
			ID:          m.ID,
			MetricName:  m.MetricName,
			Value:       m.Value,
			Period:      m.Period,
			PeriodStart: m.PeriodStart,
			PeriodEnd:   m.PeriodEnd,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

// HealthCheck consulta trivial sobre la base de analítica. Nunca devuelve error.
func (s *Service) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := s.queries.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("analytics health check failed")
		return false
	}
	return true
}

func toTrend(points []repository.DailyPoint) []dto.TrendPoint {
	return lo.Map(points, func(p repository.DailyPoint, _ int) dto.TrendPoint {
		return dto.TrendPoint{Date: p.Day.Format("2006-01-02"), Count: p.Count, Value: p.Value.Round(2)}
	})
}

func toLabelCounts(rows []repository.LabelCount) []dto.LabelCountDTO {
	return lo.Map(rows, func(r repository.LabelCount, _ int) dto.LabelCountDTO {
		return dto.LabelCountDTO{Label: r.Label, Count: r.Count}
	})
}
