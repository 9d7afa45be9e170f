package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentIntentRequest datos para crear una intención de pago.
type PaymentIntentRequest struct {
	Amount         decimal.Decimal // en dólares, p. ej. 599.00
	Description    string
	ReceiptEmail   string
	Metadata       map[string]string
	IdempotencyKey string
}

// PaymentIntent resultado devuelto por la pasarela.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       decimal.Decimal
	Currency     string
	Status       string // requires_payment_method, succeeded, ...
}

// Succeeded indica si el cobro quedó confirmado.
func (p *PaymentIntent) Succeeded() bool { return p != nil && p.Status == "succeeded" }

// PaymentGateway puerto de salida hacia el procesador de pagos.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
	PublishableKey() string
}
