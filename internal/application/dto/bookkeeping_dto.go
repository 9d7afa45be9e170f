package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookkeepingSubscriptionRequest alta de la suscripción de contabilidad.
type CreateBookkeepingSubscriptionRequest struct {
	BusinessEntityID string `json:"businessEntityId" validate:"required,uuid"`
	Plan             string `json:"plan" validate:"required,oneof=starter growth premium"`
}

// UpdateBookkeepingSubscriptionRequest cambio de plan o estado.
type UpdateBookkeepingSubscriptionRequest struct {
	Plan   *string `json:"plan" validate:"omitempty,oneof=starter growth premium"`
	Status *string `json:"status" validate:"omitempty,oneof=active cancelled paused"`
}

// BookkeepingSubscriptionResponse salida de la suscripción.
type BookkeepingSubscriptionResponse struct {
	ID               string          `json:"id"`
	BusinessEntityID string          `json:"businessEntityId"`
	Plan             string          `json:"plan"`
	MonthlyPrice     decimal.Decimal `json:"monthlyPrice"`
	Status           string          `json:"status"`
	StartedAt        time.Time       `json:"startedAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// DocumentResponse metadatos de un documento.
type DocumentResponse struct {
	ID               string    `json:"id"`
	BusinessEntityID string    `json:"businessEntityId,omitempty"`
	Category         string    `json:"category"`
	FileName         string    `json:"fileName"`
	ContentType      string    `json:"contentType"`
	SizeBytes        int64     `json:"sizeBytes"`
	IsArchived       bool      `json:"isArchived"`
	CreatedAt        time.Time `json:"createdAt"`
}
