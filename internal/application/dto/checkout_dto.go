package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StripeConfigResponse clave pública para Stripe.js.
type StripeConfigResponse struct {
	PublishableKey string `json:"publishableKey"`
}

// CreatePaymentIntentRequest intención de pago del checkout.
type CreatePaymentIntentRequest struct {
	Amount           decimal.Decimal `json:"amount"`
	Plan             string          `json:"plan" validate:"required,max=100"`
	BusinessEntityID string          `json:"businessEntityId" validate:"omitempty,uuid"`
	Description      string          `json:"description" validate:"omitempty,max=300"`
}

// PaymentIntentResponse datos para confirmar el pago en el front.
type PaymentIntentResponse struct {
	ClientSecret    string          `json:"clientSecret"`
	PaymentIntentID string          `json:"paymentIntentId"`
	Amount          decimal.Decimal `json:"amount"`
}

// TaxFilingPlan fila de la tabla estructura → plan/importe.
type TaxFilingPlan struct {
	BusinessStructure string          `json:"businessStructure"`
	Plan              string          `json:"plan"`
	Amount            decimal.Decimal `json:"amount"`
	Requires          string          `json:"requires,omitempty"`
}

// TaxFilingRequest envío del formulario de declaración. Plan e importe los decide el servidor.
type TaxFilingRequest struct {
	BusinessStructure string `json:"businessStructure" validate:"required,tax_structure"`
	BusinessEntityID  string `json:"businessEntityId" validate:"omitempty,uuid"`
	TaxYear           int    `json:"taxYear" validate:"required,min=2000,max=2100"`
	BusinessName      string `json:"businessName" validate:"required,max=200"`
	EIN               string `json:"ein" validate:"omitempty,ein"`
	ShareholderInfo   string `json:"shareholderInfo" validate:"omitempty,max=5000"`
	PartnerInfo       string `json:"partnerInfo" validate:"omitempty,max=5000"`
	ContactEmail      string `json:"contactEmail" validate:"required,email"`
	ContactPhone      string `json:"contactPhone" validate:"omitempty,phone"`
}

// TaxFilingResponse orden creada con el pago pendiente.
type TaxFilingResponse struct {
	OrderID           string          `json:"orderId"`
	BusinessStructure string          `json:"businessStructure"`
	Plan              string          `json:"plan"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	ClientSecret      string          `json:"clientSecret,omitempty"`
	PaymentIntentID   string          `json:"paymentIntentId,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ConfirmTaxFilingRequest confirmación tras el pago.
type ConfirmTaxFilingRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required,max=255"`
}
