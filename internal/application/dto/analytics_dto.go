package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackFeatureRequest evento de uso reportado por el front (fire-and-forget).
type TrackFeatureRequest struct {
	Feature          string         `json:"feature" validate:"required,max=100"`
	Action           string         `json:"action" validate:"required,max=100"`
	BusinessEntityID string         `json:"businessEntityId" validate:"omitempty,uuid"`
	Metadata         map[string]any `json:"metadata"`
}

// DashboardFilter filtros opcionales del dashboard de analítica.
type DashboardFilter struct {
	UserID           string `query:"userId" validate:"omitempty,uuid"`
	BusinessEntityID string `query:"businessEntityId" validate:"omitempty,uuid"`
}

// TrendPoint punto diario de una serie.
type TrendPoint struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// LabelCountDTO conteo por etiqueta.
type LabelCountDTO struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// EndpointLatencyDTO latencia media de un endpoint.
type EndpointLatencyDTO struct {
	Endpoint      string          `json:"endpoint"`
	Method        string          `json:"method"`
	Requests      int64           `json:"requests"`
	AvgResponseMs decimal.Decimal `json:"avgResponseMs"`
}

// ErrorCountDTO errores por tipo y severidad.
type ErrorCountDTO struct {
	ErrorType string `json:"errorType"`
	Severity  string `json:"severity"`
	Count     int64  `json:"count"`
}

// DashboardAnalyticsResponse respuesta de GET /api/admin/analytics/dashboard (últimos 30 días).
type DashboardAnalyticsResponse struct {
	Since               time.Time            `json:"since"`
	ActivityTrend       []TrendPoint         `json:"activityTrend"`
	RevenueTrend        []TrendPoint         `json:"revenueTrend"`
	DocumentTypes       []LabelCountDTO      `json:"documentTypes"`
	EndpointPerformance []EndpointLatencyDTO `json:"endpointPerformance"`
	Errors              []ErrorCountDTO      `json:"errors"`
}

// UserInsightsResponse comportamiento de un usuario en los últimos 30 días.
type UserInsightsResponse struct {
	UserID               string          `json:"userId"`
	Since                time.Time       `json:"since"`
	TopFeatures          []LabelCountDTO `json:"topFeatures"`
	HourlyActivity       []int64         `json:"hourlyActivity"` // 24 posiciones, hora 0..23
	DocumentInteractions []LabelCountDTO `json:"documentInteractions"`
}

// GenerateMetricsRequest rollup manual. Date vacío = hoy.
type GenerateMetricsRequest struct {
	Period string `json:"period" validate:"required,oneof=daily weekly monthly"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// BusinessMetricsRequest filtros del listado de rollups.
type BusinessMetricsRequest struct {
	Period string `query:"period" validate:"omitempty,oneof=daily weekly monthly"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
}

// BusinessMetricResponse métrica agregada.
type BusinessMetricResponse struct {
	ID          string          `json:"id"`
	MetricName  string          `json:"metricName"`
	Value       decimal.Decimal `json:"value"`
	Period      string          `json:"period"`
	PeriodStart time.Time       `json:"periodStart"`
	PeriodEnd   time.Time       `json:"periodEnd"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// AuditLogResponse entrada del registro de auditoría.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorUserID  string         `json:"actorUserId"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType"`
	ResourceID   string         `json:"resourceId"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    string         `json:"ipAddress,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// SystemHealthResponse estado de las bases y de la analítica.
type SystemHealthResponse struct {
	Status    string          `json:"status"` // ok | degraded | down
	Databases map[string]bool `json:"databases"`
	Analytics bool            `json:"analytics"`
	CheckedAt time.Time       `json:"checkedAt"`
}
