package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

// Nombres de las métricas escalares que produce cada rollup.
const (
	MetricTotalRevenue        = "total_revenue"
	MetricTransactionCount    = "transaction_count"
	MetricAvgTransactionValue = "avg_transaction_value"
	MetricActiveUsers         = "active_users"
	MetricTotalActivities     = "total_activities"
	MetricAvgSessionDuration  = "avg_session_duration"
	MetricDocumentsProcessed  = "documents_processed"
	MetricTotalDocumentSize   = "total_document_size"
	MetricAvgProcessingTime   = "avg_processing_time"
)

// PeriodBounds devuelve la ventana semiabierta [start, end) del periodo que contiene date,
// en la zona horaria de date. La semana empieza en domingo.
func PeriodBounds(period string, date time.Time) (time.Time, time.Time, error) {
	loc := date.Location()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	switch period {
	case entity.PeriodDaily:
		return day, day.AddDate(0, 0, 1), nil
	case entity.PeriodWeekly:
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start, start.AddDate(0, 0, 7), nil
	case entity.PeriodMonthly:
		start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: periodo %q no soportado", domain.ErrInvalidInput, period)
	}
}

// GenerateBusinessMetrics agrega ingresos, actividad y documentos del periodo que contiene date
// y guarda una fila de business_metrics por cada valor escalar.
//
// Las tres agregaciones son independientes y se consultan en paralelo.
func (s *Service) GenerateBusinessMetrics(ctx context.Context, period string, date time.Time) ([]*entity.BusinessMetric, error) {
	start, end, err := PeriodBounds(period, date)
	if err != nil {
		return nil, err
	}

	type revenueResult struct {
		agg repository.RevenueAggregate
		err error
	}
	type activityResult struct {
		agg repository.ActivityAggregate
		err error
	}
	type documentResult struct {
		agg repository.DocumentAggregate
		err error
	}
	revCh := make(chan revenueResult, 1)
	actCh := make(chan activityResult, 1)
	docCh := make(chan documentResult, 1)

	go func() {
		agg, err := s.queries.AggregateRevenue(ctx, start, end)
		revCh <- revenueResult{agg, err}
	}()
	go func() {
		agg, err := s.queries.AggregateActivity(ctx, start, end)
		actCh <- activityResult{agg, err}
	}()
	go func() {
		agg, err := s.queries.AggregateDocuments(ctx, start, end)
		docCh <- documentResult{agg, err}
	}()

	rev, act, doc := <-revCh, <-actCh, <-docCh
	if rev.err != nil {
		return nil, fmt.Errorf("rollup: ingresos: %w", rev.err)
	}
	if act.err != nil {
		return nil, fmt.Errorf("rollup: actividad: %w", act.err)
	}
	if doc.err != nil {
		return nil, fmt.Errorf("rollup: documentos: %w", doc.err)
	}

	now := s.now().UTC()
	values := []struct {
		name  string
		value decimal.Decimal
	}{
		{MetricTotalRevenue, rev.agg.Total},
		{MetricTransactionCount, decimal.NewFromInt(rev.agg.Count)},
		{MetricAvgTransactionValue, rev.agg.Average},
		{MetricActiveUsers, decimal.NewFromInt(act.agg.ActiveUsers)},
		{MetricTotalActivities, decimal.NewFromInt(act.agg.TotalActivities)},
		{MetricAvgSessionDuration, act.agg.AvgDurationMs},
		{MetricDocumentsProcessed, decimal.NewFromInt(doc.agg.Count)},
		{MetricTotalDocumentSize, decimal.NewFromInt(doc.agg.TotalSizeBytes)},
		{MetricAvgProcessingTime, doc.agg.AvgProcessingMs},
	}
	out := make([]*entity.BusinessMetric, 0, len(values))
	for _, v := range values {
		out = append(out, &entity.BusinessMetric{
			ID:          uuid.NewString(),
			MetricName:  v.name,
			Value:       v.value.Round(2),
			Period:      period,
			PeriodStart: start,
			PeriodEnd:   end,
			CreatedAt:   now,
		})
	}
	if err := s.queries.InsertBusinessMetrics(ctx, out); err != nil {
		return nil, fmt.Errorf("rollup: guardar métricas: %w", err)
	}
	s.log.Info().
		Str("period", period).
		Time("start", start).
		Time("end", end).
		Str("revenue", rev.agg.Total.StringFixed(2)).
		Int64("active_users", act.agg.ActiveUsers).
		Msg("business metrics generated")
	return out, nil
}
