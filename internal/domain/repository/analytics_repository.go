package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// AnalyticsEventWriter inserta eventos en las tablas append-only de analítica.
// Ningún método actualiza filas existentes.
type AnalyticsEventWriter interface {
	InsertUserActivity(ctx context.Context, e *entity.UserActivity) error
	InsertDocumentEvent(ctx context.Context, e *entity.DocumentEvent) error
	InsertRevenueEvent(ctx context.Context, e *entity.RevenueEvent) error
	InsertPerformanceSample(ctx context.Context, e *entity.PerformanceSample) error
	InsertFeatureUsage(ctx context.Context, e *entity.FeatureUsage) error
	InsertErrorEvent(ctx context.Context, e *entity.ErrorEvent) error
}

// RevenueAggregate suma, número y promedio de eventos de ingreso en un rango.
type RevenueAggregate struct {
	Total   decimal.Decimal
	Count   int64
	Average decimal.Decimal
}

// ActivityAggregate usuarios activos, acciones y duración media.
type ActivityAggregate struct {
	ActiveUsers     int64
	TotalActivities int64
	AvgDurationMs   decimal.Decimal
}

// DocumentAggregate documentos procesados, tamaño total y tiempo medio.
type DocumentAggregate struct {
	Count           int64
	TotalSizeBytes  int64
	AvgProcessingMs decimal.Decimal
}

// Scope filtro opcional por usuario o entidad de negocio (vacío = todos).
type Scope struct {
	UserID           string
	BusinessEntityID string
}

// DailyPoint punto de una serie diaria.
type DailyPoint struct {
	Day   time.Time
	Count int64
	Value decimal.Decimal
}

// LabelCount conteo agrupado por etiqueta.
type LabelCount struct {
	Label string
	Count int64
}

// EndpointLatency tiempo medio de respuesta por endpoint.
type EndpointLatency struct {
	Endpoint      string
	Method        string
	Requests      int64
	AvgResponseMs decimal.Decimal
}

// ErrorCount errores agrupados por tipo y severidad.
type ErrorCount struct {
	ErrorType string
	Severity  string
	Count     int64
}

// HourBucket actividad agregada por hora del día (0..23).
type HourBucket struct {
	Hour  int
	Count int64
}

// AnalyticsQueryRepository consultas de agregación sobre la base de analítica.
// Los rangos son semiabiertos: [start, end).
type AnalyticsQueryRepository interface {
	AggregateRevenue(ctx context.Context, start, end time.Time) (RevenueAggregate, error)
	AggregateActivity(ctx context.Context, start, end time.Time) (ActivityAggregate, error)
	AggregateDocuments(ctx context.Context, start, end time.Time) (DocumentAggregate, error)
	InsertBusinessMetrics(ctx context.Context, metrics []*entity.BusinessMetric) error
	ListBusinessMetrics(ctx context.Context, period string, limit int) ([]*entity.BusinessMetric, error)

	// ── Dashboard ─────────────────────────────────────────────────────────────
	ActivityTrend(ctx context.Context, scope Scope, since time.Time) ([]DailyPoint, error)
	RevenueTrend(ctx context.Context, scope Scope, since time.Time) ([]DailyPoint, error)
	DocumentTypeDistribution(ctx context.Context, scope Scope, since time.Time) ([]LabelCount, error)
	EndpointPerformance(ctx context.Context, scope Scope, since time.Time, limit int) ([]EndpointLatency, error)
	ErrorBreakdown(ctx context.Context, scope Scope, since time.Time) ([]ErrorCount, error)

	// ── Insights por usuario ──────────────────────────────────────────────────
	TopFeatures(ctx context.Context, userID string, since time.Time, limit int) ([]LabelCount, error)
	HourlyActivity(ctx context.Context, userID string, since time.Time) ([]HourBucket, error)
	DocumentInteractions(ctx context.Context, userID string, since time.Time) ([]LabelCount, error)

	// CountActivity número de acciones de una entidad desde since (radar de salud).
	CountActivity(ctx context.Context, businessEntityID string, since time.Time) (int64, error)
	// Ping consulta trivial para comprobar que la base responde.
	Ping(ctx context.Context) error
}
