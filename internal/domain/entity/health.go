package entity

// Severidades de un insight de salud.
const (
	InsightCritical = "critical"
	InsightWarning  = "warning"
	InsightInfo     = "info"
)

// HealthInsight recomendación derivada del estado de la entidad.
// Code es estable para poder descartarla (ej. "annual_report_overdue:2025").
type HealthInsight struct {
	Code        string
	Severity    string
	Category    string
	Title       string
	Description string
	ActionURL   string
}
