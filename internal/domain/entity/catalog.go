package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ciclos de facturación de un plan.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingOneTime = "one_time"
)

// SubscriptionPlan plan del catálogo. Nunca se borra: se desactiva con IsActive.
type SubscriptionPlan struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	BillingCycle string
	Features     []string
	IsActive     bool
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service servicio individual (formación, agente registrado, EIN...). Se borra físicamente.
type Service struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlanService relación plan↔servicio. Única por (PlanID, ServiceID).
type PlanService struct {
	ID         string
	PlanID     string
	ServiceID  string
	IsIncluded bool
	IsAddon    bool
	AddonPrice decimal.Decimal
	CreatedAt  time.Time

	// Solo lectura (JOIN)
	ServiceName string
	PlanName    string
}
