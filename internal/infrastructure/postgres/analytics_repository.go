package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.AnalyticsEventWriter     = (*AnalyticsRepo)(nil)
	_ repository.AnalyticsQueryRepository = (*AnalyticsRepo)(nil)
)

// AnalyticsRepo escritura de eventos (solo INSERT) y agregaciones sobre la base de analítica.
type AnalyticsRepo struct {
	db Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(db Querier) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// ── Escritura de eventos ─────────────────────────────────────────────────────

// InsertUserActivity inserta en user_activity.
func (r *AnalyticsRepo) InsertUserActivity(ctx context.Context, e *entity.UserActivity) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_activity (id, user_id, business_entity_id, action, resource, duration_ms,
			ip_address, user_agent, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.NewString(), nullIfEmpty(e.UserID), nullIfEmpty(e.BusinessEntityID), e.Action, nullIfEmpty(e.Resource),
		e.DurationMs, nullIfEmpty(e.IPAddress), nullIfEmpty(e.UserAgent), e.Metadata, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert user_activity: %w", err)
	}
	return nil
}

// InsertDocumentEvent inserta en document_analytics.
func (r *AnalyticsRepo) InsertDocumentEvent(ctx context.Context, e *entity.DocumentEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO document_analytics (id, document_id, user_id, business_entity_id, event_type,
			document_type, size_bytes, processing_ms, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.NewString(), nullIfEmpty(e.DocumentID), nullIfEmpty(e.UserID), nullIfEmpty(e.BusinessEntityID),
		e.EventType, e.DocumentType, e.SizeBytes, e.ProcessingMs, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert document_analytics: %w", err)
	}
	return nil
}

// InsertRevenueEvent inserta en revenue_analytics.
func (r *AnalyticsRepo) InsertRevenueEvent(ctx context.Context, e *entity.RevenueEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO revenue_analytics (id, user_id, business_entity_id, event_type, amount, currency,
			plan, reference_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.NewString(), nullIfEmpty(e.UserID), nullIfEmpty(e.BusinessEntityID), e.EventType, e.Amount,
		e.Currency, nullIfEmpty(e.Plan), nullIfEmpty(e.ReferenceID), e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert revenue_analytics: %w", err)
	}
	return nil
}

// InsertPerformanceSample inserta en performance_metrics.
func (r *AnalyticsRepo) InsertPerformanceSample(ctx context.Context, e *entity.PerformanceSample) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO performance_metrics (id, endpoint, method, status_code, response_time_ms, user_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), e.Endpoint, e.Method, e.StatusCode, e.ResponseTimeMs, nullIfEmpty(e.UserID), e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert performance_metrics: %w", err)
	}
	return nil
}

// InsertFeatureUsage inserta en feature_usage.
func (r *AnalyticsRepo) InsertFeatureUsage(ctx context.Context, e *entity.FeatureUsage) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO feature_usage (id, user_id, business_entity_id, feature, action, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(), nullIfEmpty(e.UserID), nullIfEmpty(e.BusinessEntityID), e.Feature, e.Action,
		e.Metadata, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert feature_usage: %w", err)
	}
	return nil
}

// InsertErrorEvent inserta en error_logs.
func (r *AnalyticsRepo) InsertErrorEvent(ctx context.Context, e *entity.ErrorEvent) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO error_logs (id, error_type, severity, message, endpoint, user_id, stack_trace, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), e.ErrorType, e.Severity, e.Message, nullIfEmpty(e.Endpoint), nullIfEmpty(e.UserID),
		nullIfEmpty(e.StackTrace), e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert error_logs: %w", err)
	}
	return nil
}

// ── Rollups ──────────────────────────────────────────────────────────────────

// AggregateRevenue suma, número y promedio en [start, end).
func (r *AnalyticsRepo) AggregateRevenue(ctx context.Context, start, end time.Time) (repository.RevenueAggregate, error) {
	var a repository.RevenueAggregate
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*), COALESCE(AVG(amount), 0)
		FROM revenue_analytics
		WHERE occurred_at >= $1 AND occurred_at < $2`, start, end).Scan(&a.Total, &a.Count, &a.Average)
	if err != nil {
		return a, fmt.Errorf("analytics.AggregateRevenue: %w", err)
	}
	return a, nil
}

// AggregateActivity usuarios distintos, acciones y duración media en [start, end).
func (r *AnalyticsRepo) AggregateActivity(ctx context.Context, start, end time.Time) (repository.ActivityAggregate, error) {
	var a repository.ActivityAggregate
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT user_id), COUNT(*), COALESCE(AVG(duration_ms), 0)
		FROM user_activity
		WHERE occurred_at >= $1 AND occurred_at < $2`, start, end).Scan(&a.ActiveUsers, &a.TotalActivities, &a.AvgDurationMs)
	if err != nil {
		return a, fmt.Errorf("analytics.AggregateActivity: %w", err)
	}
	return a, nil
}

// AggregateDocuments documentos, bytes y tiempo medio de proceso en [start, end).
func (r *AnalyticsRepo) AggregateDocuments(ctx context.Context, start, end time.Time) (repository.DocumentAggregate, error) {
	var a repository.DocumentAggregate
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(size_bytes), 0), COALESCE(AVG(processing_ms), 0)
		FROM document_analytics
		WHERE occurred_at >= $1 AND occurred_at < $2`, start, end).Scan(&a.Count, &a.TotalSizeBytes, &a.AvgProcessingMs)
	if err != nil {
		return a, fmt.Errorf("analytics.AggregateDocuments: %w", err)
	}
	return a, nil
}

// InsertBusinessMetrics inserta las métricas calculadas (una fila por escalar).
func (r *AnalyticsRepo) InsertBusinessMetrics(ctx context.Context, metrics []*entity.BusinessMetric) error {
	const query = `
		INSERT INTO business_metrics (id, metric_name, value, period, period_start, period_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, m := range metrics {
		if _, err := r.db.Exec(ctx, query, m.ID, m.MetricName, m.Value, m.Period, m.PeriodStart, m.PeriodEnd,
			m.CreatedAt); err != nil {
			return fmt.Errorf("insert business_metrics %s: %w", m.MetricName, err)
		}
	}
	return nil
}

// ListBusinessMetrics últimas métricas calculadas, opcionalmente por periodo.
func (r *AnalyticsRepo) ListBusinessMetrics(ctx context.Context, period string, limit int) ([]*entity.BusinessMetric, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, metric_name, value, period, period_start, period_end, created_at
		FROM business_metrics
		WHERE ($1 = '' OR period = $1)
		ORDER BY period_start DESC, metric_name
		LIMIT $2`, period, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.ListBusinessMetrics: %w", err)
	}
	defer rows.Close()

	var list []*entity.BusinessMetric
	for rows.Next() {
		var m entity.BusinessMetric
		if err := rows.Scan(&m.ID, &m.MetricName, &m.Value, &m.Period, &m.PeriodStart, &m.PeriodEnd, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan business metric: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// ── Dashboard ────────────────────────────────────────────────────────────────

// scopeWhere arma "occurred_at >= $1 [AND user_id = $n] [AND business_entity_id = $n]".
// Las tablas sin business_entity_id ignoran ese filtro.
func scopeWhere(scope repository.Scope, since time.Time, hasEntity bool) (string, []any) {
	args := []any{since}
	conds := []string{"occurred_at >= $1"}
	if scope.UserID != "" {
		args = append(args, scope.UserID)
		conds = append(conds, fmt.Sprintf("user_id::text = $%d", len(args)))
	}
	if hasEntity && scope.BusinessEntityID != "" {
		args = append(args, scope.BusinessEntityID)
		conds = append(conds, fmt.Sprintf("business_entity_id::text = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func (r *AnalyticsRepo) dailySeries(ctx context.Context, op, table, valueExpr string, scope repository.Scope, since time.Time, hasEntity bool) ([]repository.DailyPoint, error) {
	where, args := scopeWhere(scope, since, hasEntity)
	query := fmt.Sprintf(`
		SELECT date_trunc('day', occurred_at) AS day, COUNT(*), %s
		FROM %s
		WHERE %s
		GROUP BY day
		ORDER BY day`, valueExpr, table, where)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", op, err)
	}
	defer rows.Close()

	var out []repository.DailyPoint
	for rows.Next() {
		var p repository.DailyPoint
		if err := rows.Scan(&p.Day, &p.Count, &p.Value); err != nil {
			return nil, fmt.Errorf("analytics.%s scan: %w", op, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) labelCounts(ctx context.Context, op, query string, args ...any) ([]repository.LabelCount, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.%s: %w", op, err)
	}
	defer rows.Close()

	var out []repository.LabelCount
	for rows.Next() {
		var lc repository.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("analytics.%s scan: %w", op, err)
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

// ActivityTrend acciones por día; Value = usuarios distintos.
func (r *AnalyticsRepo) ActivityTrend(ctx context.Context, scope repository.Scope, since time.Time) ([]repository.DailyPoint, error) {
	return r.dailySeries(ctx, "ActivityTrend", "user_activity", "COUNT(DISTINCT user_id)::numeric", scope, since, true)
}

// RevenueTrend ingresos por día.
func (r *AnalyticsRepo) RevenueTrend(ctx context.Context, scope repository.Scope, since time.Time) ([]repository.DailyPoint, error) {
	return r.dailySeries(ctx, "RevenueTrend", "revenue_analytics", "COALESCE(SUM(amount), 0)", scope, since, true)
}

// DocumentTypeDistribution documentos por tipo.
func (r *AnalyticsRepo) DocumentTypeDistribution(ctx context.Context, scope repository.Scope, since time.Time) ([]repository.LabelCount, error) {
	where, args := scopeWhere(scope, since, true)
	return r.labelCounts(ctx, "DocumentTypeDistribution", `
		SELECT COALESCE(document_type, 'unknown'), COUNT(*)
		FROM document_analytics
		WHERE `+where+`
		GROUP BY 1
		ORDER BY 2 DESC`, args...)
}

// EndpointPerformance endpoints más lentos por tiempo medio de respuesta.
func (r *AnalyticsRepo) EndpointPerformance(ctx context.Context, scope repository.Scope, since time.Time, limit int) ([]repository.EndpointLatency, error) {
	where, args := scopeWhere(scope, since, false)
	args = append(args, limit)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT endpoint, method, COUNT(*), AVG(response_time_ms)
		FROM performance_metrics
		WHERE %s
		GROUP BY endpoint, method
		ORDER BY AVG(response_time_ms) DESC
		LIMIT $%d`, where, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.EndpointPerformance: %w", err)
	}
	defer rows.Close()

	var out []repository.EndpointLatency
	for rows.Next() {
		var e repository.EndpointLatency
		if err := rows.Scan(&e.Endpoint, &e.Method, &e.Requests, &e.AvgResponseMs); err != nil {
			return nil, fmt.Errorf("analytics.EndpointPerformance scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ErrorBreakdown errores por tipo y severidad.
func (r *AnalyticsRepo) ErrorBreakdown(ctx context.Context, scope repository.Scope, since time.Time) ([]repository.ErrorCount, error) {
	where, args := scopeWhere(scope, since, false)
	rows, err := r.db.Query(ctx, `
		SELECT error_type, severity, COUNT(*)
		FROM error_logs
		WHERE `+where+`
		GROUP BY error_type, severity
		ORDER BY 3 DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("analytics.ErrorBreakdown: %w", err)
	}
	defer rows.Close()

	var out []repository.ErrorCount
	for rows.Next() {
		var e repository.ErrorCount
		if err := rows.Scan(&e.ErrorType, &e.Severity, &e.Count); err != nil {
			return nil, fmt.Errorf("analytics.ErrorBreakdown scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ── Insights por usuario ─────────────────────────────────────────────────────

// TopFeatures funcionalidades/acciones más usadas por el usuario.
func (r *AnalyticsRepo) TopFeatures(ctx context.Context, userID string, since time.Time, limit int) ([]repository.LabelCount, error) {
	return r.labelCounts(ctx, "TopFeatures", `
		SELECT feature || ':' || action, COUNT(*)
		FROM feature_usage
		WHERE user_id::text = $1 AND occurred_at >= $2
		GROUP BY 1
		ORDER BY 2 DESC
		LIMIT $3`, userID, since, limit)
}

// HourlyActivity actividad del usuario por hora del día.
func (r *AnalyticsRepo) HourlyActivity(ctx context.Context, userID string, since time.Time) ([]repository.HourBucket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT EXTRACT(HOUR FROM occurred_at)::int AS hour, COUNT(*)
		FROM user_activity
		WHERE user_id::text = $1 AND occurred_at >= $2
		GROUP BY hour
		ORDER BY hour`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("analytics.HourlyActivity: %w", err)
	}
	defer rows.Close()

	var out []repository.HourBucket
	for rows.Next() {
		var b repository.HourBucket
		if err := rows.Scan(&b.Hour, &b.Count); err != nil {
			return nil, fmt.Errorf("analytics.HourlyActivity scan: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DocumentInteractions interacciones del usuario con documentos por tipo de evento.
func (r *AnalyticsRepo) DocumentInteractions(ctx context.Context, userID string, since time.Time) ([]repository.LabelCount, error) {
	return r.labelCounts(ctx, "DocumentInteractions", `
		SELECT event_type, COUNT(*)
		FROM document_analytics
		WHERE user_id::text = $1 AND occurred_at >= $2
		GROUP BY event_type
		ORDER BY 2 DESC`, userID, since)
}

// CountActivity acciones registradas para la entidad desde since.
func (r *AnalyticsRepo) CountActivity(ctx context.Context, businessEntityID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_activity WHERE business_entity_id::text = $1 AND occurred_at >= $2`,
		businessEntityID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountActivity: %w", err)
	}
	return n, nil
}

// Ping consulta trivial de conteo sobre la base de analítica.
func (r *AnalyticsRepo) Ping(ctx context.Context) error {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM business_metrics`).Scan(&n); err != nil {
		return fmt.Errorf("analytics.Ping: %w", err)
	}
	return nil
}
