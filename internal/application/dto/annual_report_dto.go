package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAnnualReportRequest alta de un reporte anual. Tarifas y vencimiento los calcula el servidor.
type CreateAnnualReportRequest struct {
	BusinessEntityID string            `json:"businessEntityId" validate:"required,uuid"`
	FilingYear       int               `json:"filingYear" validate:"required,min=2000,max=2100"`
	RequiredFields   map[string]string `json:"requiredFields"`
	Notes            string            `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateAnnualReportRequest edición parcial.
type UpdateAnnualReportRequest struct {
	RequiredFields map[string]string `json:"requiredFields"`
	Notes          *string           `json:"notes" validate:"omitempty,max=2000"`
	Status         *string           `json:"status" validate:"omitempty,oneof=not_due due_soon overdue filed exempt"`
}

// FileAnnualReportRequest marca el reporte como presentado.
type FileAnnualReportRequest struct {
	ConfirmationNumber string `json:"confirmationNumber" validate:"required,max=100"`
}

// AnnualReportResponse salida de un reporte.
type AnnualReportResponse struct {
	ID                 string            `json:"id"`
	BusinessEntityID   string            `json:"businessEntityId"`
	FilingYear         int               `json:"filingYear"`
	State              string            `json:"state"`
	DueDate            string            `json:"dueDate"`
	Status             string            `json:"status"`
	StateFee           decimal.Decimal   `json:"stateFee"`
	ServiceFee         decimal.Decimal   `json:"serviceFee"`
	LateFee            decimal.Decimal   `json:"lateFee"`
	TotalDue           decimal.Decimal   `json:"totalDue"`
	RequiredFields     map[string]string `json:"requiredFields"`
	ConfirmationNumber string            `json:"confirmationNumber,omitempty"`
	FiledAt            *time.Time        `json:"filedAt,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// StateRequirementsResponse requisitos de un estado para un tipo de entidad.
type StateRequirementsResponse struct {
	State          string          `json:"state"`
	StateCode      string          `json:"stateCode"`
	EntityType     string          `json:"entityType"`
	Fee            decimal.Decimal `json:"fee"`
	LateFee        decimal.Decimal `json:"lateFee"`
	ServiceFee     decimal.Decimal `json:"serviceFee"`
	Frequency      string          `json:"frequency"`
	DueDate        string          `json:"dueDate"`
	Notes          string          `json:"notes,omitempty"`
	RequiredFields []string        `json:"requiredFields"`
}
