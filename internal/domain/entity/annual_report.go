package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un reporte anual.
const (
	ReportStatusNotDue  = "not_due"
	ReportStatusDueSoon = "due_soon"
	ReportStatusOverdue = "overdue"
	ReportStatusFiled   = "filed"
	ReportStatusExempt  = "exempt"
)

// DueSoonWindow ventana en la que un reporte pasa a due_soon.
const DueSoonWindow = 60 * 24 * time.Hour

// AnnualReport reporte anual de una entidad para un año fiscal. Único por (entidad, año).
type AnnualReport struct {
	ID                 string
	BusinessEntityID   string
	FilingYear         int
	State              string
	DueDate            time.Time
	Status             string
	StateFee           decimal.Decimal
	ServiceFee         decimal.Decimal
	LateFee            decimal.Decimal
	RequiredFields     map[string]string
	ConfirmationNumber string
	FiledAt            *time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AppliedLateFee recargo aplicable: vencido sin presentar, o presentado después del vencimiento.
func (r *AnnualReport) AppliedLateFee() decimal.Decimal {
	switch {
	case r.Status == ReportStatusOverdue:
		return r.LateFee
	case r.Status == ReportStatusFiled && r.FiledAt != nil && pastDueDay(r.DueDate, *r.FiledAt):
		return r.LateFee
	}
	return decimal.Zero
}

// Total importe a cobrar (tarifa estatal + servicio + recargo aplicable).
func (r *AnnualReport) Total() decimal.Decimal {
	return r.StateFee.Add(r.ServiceFee).Add(r.AppliedLateFee())
}

// RefreshStatus recalcula el estado a partir de la fecha de vencimiento.
// filed y exempt son terminales.
func (r *AnnualReport) RefreshStatus(now time.Time) {
	if r.Status == ReportStatusFiled || r.Status == ReportStatusExempt {
		return
	}
	r.Status = StatusForDueDate(r.DueDate, now)
}

// pastDueDay indica si t cae después del día de vencimiento completo.
// El vencimiento se guarda a medianoche; todo el día sigue en plazo.
func pastDueDay(due, t time.Time) bool {
	return !t.Before(due.AddDate(0, 0, 1))
}

// StatusForDueDate estado de un reporte no presentado según su vencimiento.
func StatusForDueDate(due, now time.Time) string {
	switch {
	case pastDueDay(due, now):
		return ReportStatusOverdue
	case due.Sub(now) <= DueSoonWindow:
		return ReportStatusDueSoon
	default:
		return ReportStatusNotDue
	}
}

// IsValidReportStatus valida el enum.
func IsValidReportStatus(s string) bool {
	switch s {
	case ReportStatusNotDue, ReportStatusDueSoon, ReportStatusOverdue, ReportStatusFiled, ReportStatusExempt:
		return true
	}
	return false
}
