package dto

// HealthScores puntuaciones 0..100 por dimensión.
type HealthScores struct {
	Compliance    int `json:"compliance"`
	Financial     int `json:"financial"`
	Operational   int `json:"operational"`
	Documentation int `json:"documentation"`
	Engagement    int `json:"engagement"`
}

// HealthCounts conteos que respaldan cada puntuación.
type HealthCounts struct {
	OverdueReports     int    `json:"overdueReports"`
	DueSoonReports     int    `json:"dueSoonReports"`
	FiledReports       int    `json:"filedReports"`
	TotalReports       int    `json:"totalReports"`
	HasEIN             bool   `json:"hasEin"`
	EinStatus          string `json:"einStatus,omitempty"`
	ActiveBookkeeping  bool   `json:"activeBookkeeping"`
	ActiveMailbox      bool   `json:"activeMailbox"`
	UnreadMail         int    `json:"unreadMail"`
	UrgentUnreadMail   int    `json:"urgentUnreadMail"`
	PendingMailActions int    `json:"pendingMailActions"`
	Documents          int    `json:"documents"`
	RecentDocuments    int    `json:"recentDocuments"`
	RecentActivity     int64  `json:"recentActivity"`
}

// HealthDashboardResponse radar de salud de una entidad.
type HealthDashboardResponse struct {
	BusinessEntityID string            `json:"businessEntityId"`
	Scores           HealthScores      `json:"scores"`
	Overall          int               `json:"overall"`
	Grade            string            `json:"grade"`
	Counts           HealthCounts      `json:"counts"`
	Insights         []InsightResponse `json:"insights"`
}

// InsightResponse recomendación accionable.
type InsightResponse struct {
	Code        string `json:"code"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ActionURL   string `json:"actionUrl,omitempty"`
}

// DismissInsightRequest descarta un insight por código.
type DismissInsightRequest struct {
	Code string `json:"code" validate:"required,max=100"`
}
