// Package payments adapta Stripe al puerto ports.PaymentGateway.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"

	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

var _ ports.PaymentGateway = (*StripeGateway)(nil)

var hundred = decimal.NewFromInt(100)

// StripeGateway crea y consulta PaymentIntents. No toca la clave global stripe.Key.
type StripeGateway struct {
	intents        paymentintent.Client
	publishableKey string
	currency       string
	log            *logger.Logger
}

// NewStripeGateway valida la configuración y construye el cliente.
func NewStripeGateway(cfg config.StripeConfig, log *logger.Logger) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: STRIPE_SECRET_KEY requerido")
	}
	if !strings.HasPrefix(cfg.SecretKey, "sk_") && !strings.HasPrefix(cfg.SecretKey, "rk_") {
		return nil, errors.New("stripe: la clave secreta debe empezar por sk_ o rk_")
	}
	if log == nil {
		log = logger.Nop()
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{
		intents:        paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.SecretKey},
		publishableKey: cfg.PublishableKey,
		currency:       currency,
		log:            log.Component("stripe"),
	}, nil
}

// PublishableKey clave pública para el front.
func (g *StripeGateway) PublishableKey() string { return g.publishableKey }

// CreatePaymentIntent crea la intención con métodos de pago automáticos.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req ports.PaymentIntentRequest) (*ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ToCents(req.Amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		g.log.Error().Err(err).Str("amount", req.Amount.StringFixed(2)).Msg("failed to create payment intent")
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}
	g.log.Info().Str("payment_intent_id", pi.ID).Str("amount", req.Amount.StringFixed(2)).Msg("payment intent created")
	return toIntent(pi), nil
}

// GetPaymentIntent consulta el estado actual de una intención.
func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to get payment intent: %w", err)
	}
	return toIntent(pi), nil
}

// ToCents convierte dólares a la unidad mínima que espera Stripe.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func toIntent(pi *stripe.PaymentIntent) *ports.PaymentIntent {
	return &ports.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       decimal.New(pi.Amount, -2),
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}
