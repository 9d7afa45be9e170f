package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento analítico. Cada uno va a su propia tabla append-only.
const (
	EventUserActivity = "user_activity"
	EventDocument     = "document"
	EventRevenue      = "revenue"
	EventPerformance  = "performance"
	EventFeatureUsage = "feature_usage"
	EventError        = "error"
)

// Periodos de agregación de métricas.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// UserActivity acción de un usuario (login, vista de página, etc.).
type UserActivity struct {
	UserID           string
	BusinessEntityID string
	Action           string
	Resource         string
	DurationMs       int64
	IPAddress        string
	UserAgent        string
	Metadata         map[string]any
	OccurredAt       time.Time
}

// DocumentEvent subida, descarga o procesamiento de un documento.
type DocumentEvent struct {
	DocumentID       string
	UserID           string
	BusinessEntityID string
	EventType        string // upload, download, process, archive
	DocumentType     string
	SizeBytes        int64
	ProcessingMs     int64
	OccurredAt       time.Time
}

// RevenueEvent movimiento de dinero asociado a un pago o pedido.
type RevenueEvent struct {
	UserID           string
	BusinessEntityID string
	EventType        string // payment_intent_created, payment_succeeded, refund
	Amount           decimal.Decimal
	Currency         string
	Plan             string
	ReferenceID      string
	OccurredAt       time.Time
}

// PerformanceSample latencia de una petición HTTP.
type PerformanceSample struct {
	Endpoint       string
	Method         string
	StatusCode     int
	ResponseTimeMs int64
	UserID         string
	OccurredAt     time.Time
}

// FeatureUsage uso de una funcionalidad reportado por el front.
type FeatureUsage struct {
	UserID           string
	BusinessEntityID string
	Feature          string
	Action           string
	Metadata         map[string]any
	OccurredAt       time.Time
}

// ErrorEvent error capturado por el servidor.
type ErrorEvent struct {
	ErrorType  string
	Severity   string // low, medium, high, critical
	Message    string
	Endpoint   string
	UserID     string
	StackTrace string
	OccurredAt time.Time
}

// BusinessMetric métrica escalar agregada para un periodo [PeriodStart, PeriodEnd).
type BusinessMetric struct {
	ID          string
	MetricName  string
	Value       decimal.Decimal
	Period      string
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
}
