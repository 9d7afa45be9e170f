package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanOption plan estático (buzón y contabilidad).
type PlanOption struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"`
	Features     []string        `json:"features"`
}

// CreateMailboxSubscriptionRequest alta del buzón.
type CreateMailboxSubscriptionRequest struct {
	Plan              string `json:"plan" validate:"required,oneof=basic premium business"`
	ForwardingAddress string `json:"forwardingAddress" validate:"omitempty,max=500"`
}

// UpdateMailboxSubscriptionRequest cambio de plan, dirección o estado.
type UpdateMailboxSubscriptionRequest struct {
	Plan              *string `json:"plan" validate:"omitempty,oneof=basic premium business"`
	ForwardingAddress *string `json:"forwardingAddress" validate:"omitempty,max=500"`
	Status            *string `json:"status" validate:"omitempty,oneof=active cancelled paused"`
}

// MailboxSubscriptionResponse salida de la suscripción.
type MailboxSubscriptionResponse struct {
	ID                string          `json:"id"`
	BusinessEntityID  string          `json:"businessEntityId"`
	Plan              string          `json:"plan"`
	MonthlyPrice      decimal.Decimal `json:"monthlyPrice"`
	ForwardingAddress string          `json:"forwardingAddress,omitempty"`
	Status            string          `json:"status"`
	StartedAt         time.Time       `json:"startedAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// MailItemListRequest filtros del listado de correo.
type MailItemListRequest struct {
	BusinessEntityID string `query:"businessEntityId" validate:"omitempty,uuid"`
	Status           string `query:"status" validate:"omitempty,oneof=unread read archived"`
	Category         string `query:"category" validate:"omitempty,oneof=legal tax government financial general marketing"`
}

// CreateMailItemRequest registro de correo entrante (admin). El escaneo llega como archivo aparte.
type CreateMailItemRequest struct {
	BusinessEntityID string `json:"businessEntityId" form:"businessEntityId" validate:"required,uuid"`
	Sender           string `json:"sender" form:"sender" validate:"required,max=200"`
	Subject          string `json:"subject" form:"subject" validate:"omitempty,max=300"`
	Category         string `json:"category" form:"category" validate:"required,oneof=legal tax government financial general marketing"`
	Priority         string `json:"priority" form:"priority" validate:"omitempty,oneof=low normal high urgent"`
	ReceivedAt       string `json:"receivedAt" form:"receivedAt" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateMailItemRequest cambio de estado (leído, archivado).
type UpdateMailItemRequest struct {
	Status string `json:"status" validate:"required,oneof=unread read archived"`
}

// MailItemResponse salida de una pieza.
type MailItemResponse struct {
	ID               string    `json:"id"`
	BusinessEntityID string    `json:"businessEntityId"`
	Sender           string    `json:"sender"`
	Subject          string    `json:"subject,omitempty"`
	Category         string    `json:"category"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	HasScan          bool      `json:"hasScan"`
	ReceivedAt       time.Time `json:"receivedAt"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateMailActionRequest acción solicitada por el cliente.
type CreateMailActionRequest struct {
	Action            string `json:"action" validate:"required,oneof=forward shred scan pickup"`
	ForwardingAddress string `json:"forwardingAddress" validate:"omitempty,max=500"`
	Notes             string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateMailActionRequest avance de una acción (admin).
type UpdateMailActionRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed cancelled"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

// MailActionResponse salida de una acción.
type MailActionResponse struct {
	ID                string     `json:"id"`
	MailItemID        string     `json:"mailItemId"`
	RequestedBy       string     `json:"requestedBy"`
	Action            string     `json:"action"`
	Status            string     `json:"status"`
	ForwardingAddress string     `json:"forwardingAddress,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
