package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanRequest alta/edición completa (PUT) de un plan de suscripción.
type PlanRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Description  string          `json:"description" validate:"omitempty,max=1000"`
	Price        decimal.Decimal `json:"price"`
	BillingCycle string          `json:"billingCycle" validate:"required,oneof=monthly yearly one_time"`
	Features     []string        `json:"features" validate:"omitempty,dive,max=200"`
	IsActive     *bool           `json:"isActive"`
	SortOrder    int             `json:"sortOrder" validate:"min=0"`
}

// PlanResponse plan con sus servicios (solo en el listado público).
type PlanResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Price        decimal.Decimal       `json:"price"`
	BillingCycle string                `json:"billingCycle"`
	Features     []string              `json:"features"`
	IsActive     bool                  `json:"isActive"`
	SortOrder    int                   `json:"sortOrder"`
	Services     []PlanServiceResponse `json:"services,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// ServiceRequest alta/edición de un servicio.
type ServiceRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Category    string          `json:"category" validate:"omitempty,max=50"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"isActive"`
}

// ServiceResponse salida de un servicio.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreatePlanServiceRequest vincula un servicio a un plan.
type CreatePlanServiceRequest struct {
	PlanID     string           `json:"planId" validate:"required,uuid"`
	ServiceID  string           `json:"serviceId" validate:"required,uuid"`
	IsIncluded *bool            `json:"isIncluded"`
	IsAddon    bool             `json:"isAddon"`
	AddonPrice *decimal.Decimal `json:"addonPrice"`
}

// UpdatePlanServiceRequest edición de la relación.
type UpdatePlanServiceRequest struct {
	IsIncluded *bool            `json:"isIncluded"`
	IsAddon    *bool            `json:"isAddon"`
	AddonPrice *decimal.Decimal `json:"addonPrice"`
}

// PlanServiceResponse relación con nombres resueltos.
type PlanServiceResponse struct {
	ID          string          `json:"id"`
	PlanID      string          `json:"planId"`
	PlanName    string          `json:"planName,omitempty"`
	ServiceID   string          `json:"serviceId"`
	ServiceName string          `json:"serviceName,omitempty"`
	IsIncluded  bool            `json:"isIncluded"`
	IsAddon     bool            `json:"isAddon"`
	AddonPrice  decimal.Decimal `json:"addonPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
}
