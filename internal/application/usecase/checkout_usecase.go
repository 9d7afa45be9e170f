package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

// Estructuras de negocio del checkout de declaraciones.
const (
	StructureSoleProprietorship = "sole-proprietorship"
	StructureSingleMemberLLC    = "single-member-llc"
	StructureMultiMemberLLC     = "multi-member-llc"
	StructurePartnership        = "partnership"
	StructureSCorp              = "s-corp"
	StructureCCorp              = "c-corp"
)

// MaxPaymentAmount importe máximo aceptado en una intención de pago (USD).
var MaxPaymentAmount = decimal.NewFromInt(50000)

type taxPlan struct {
	plan     string
	amount   decimal.Decimal
	requires string // campo condicional obligatorio
}

var taxPlans = map[string]taxPlan{
	StructureSoleProprietorship: {plan: "sole-prop-tax-return", amount: decimal.NewFromInt(299)},
	StructureSingleMemberLLC:    {plan: "single-llc-tax-return", amount: decimal.NewFromInt(349)},
	StructurePartnership:        {plan: "partnership-tax-return", amount: decimal.NewFromInt(499), requires: "partnerInfo"},
	StructureMultiMemberLLC:     {plan: "partnership-tax-return", amount: decimal.NewFromInt(499), requires: "partnerInfo"},
	StructureSCorp:              {plan: "s-corp-tax-return", amount: decimal.NewFromInt(599), requires: "shareholderInfo"},
	StructureCCorp:              {plan: "c-corp-tax-return", amount: decimal.NewFromInt(799), requires: "shareholderInfo"},
}

var taxStructureOrder = []string{
	StructureSoleProprietorship,
	StructureSingleMemberLLC,
	StructureMultiMemberLLC,
	StructurePartnership,
	StructureSCorp,
	StructureCCorp,
}

func init() {
	validate.RegisterStringRule("tax_structure", func(s string) bool {
		_, ok := taxPlans[s]
		return ok
	})
}

// ResolveTaxPlan plan e importe que corresponden a una estructura de negocio.
func ResolveTaxPlan(structure string) (string, decimal.Decimal, bool) {
	p, ok := taxPlans[structure]
	return p.plan, p.amount, ok
}

// CheckoutUseCase intenciones de pago y órdenes de declaración de impuestos.
// gateway puede ser nil si Stripe no está configurado.
type CheckoutUseCase struct {
	gateway ports.PaymentGateway
	idem    ports.IdempotencyStore
	orders  repository.TaxFilingOrderRepository
	tracker *analytics.Tracker
	log     *logger.Logger
	own     ownership
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(gateway ports.PaymentGateway, idem ports.IdempotencyStore, orders repository.TaxFilingOrderRepository, entities repository.BusinessEntityRepository, tracker *analytics.Tracker, log *logger.Logger) *CheckoutUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CheckoutUseCase{
		gateway: gateway,
		idem:    idem,
		orders:  orders,
		tracker: tracker,
		log:     log.Component("checkout"),
		own:     ownership{entities: entities},
	}
}

var errPaymentsDisabled = fmt.Errorf("%w: payments are not configured", domain.ErrPaymentFailed)

// StripeConfig clave pública para Stripe.js.
func (uc *CheckoutUseCase) StripeConfig() (*dto.StripeConfigResponse, error) {
	if uc.gateway == nil {
		return nil, errPaymentsDisabled
	}
	return &dto.StripeConfigResponse{PublishableKey: uc.gateway.PublishableKey()}, nil
}

// CreatePaymentIntent crea la intención de pago del checkout genérico.
// El importe debe ser > 0 y ≤ 50 000 USD. Respeta el Idempotency-Key.
func (uc *CheckoutUseCase) CreatePaymentIntent(ctx context.Context, actor Actor, in dto.CreatePaymentIntentRequest, idemKey string) (*dto.PaymentIntentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, validate.Errors{}.Add("amount", "must be greater than 0")
	}
	if in.Amount.GreaterThan(MaxPaymentAmount) {
		return nil, validate.Errors{}.Add("amount", "must be at most 50000")
	}
	if in.BusinessEntityID != "" {
		if _, err := uc.own.entity(ctx, actor, in.BusinessEntityID); err != nil {
			return nil, err
		}
	}
	if uc.gateway == nil {
		return nil, errPaymentsDisabled
	}
	return idempotent(ctx, uc.idem, uc.log, idemScope("payment_intent", actor, idemKey), func() (*dto.PaymentIntentResponse, error) {
		desc := in.Description
		if desc == "" {
			desc = in.Plan
		}
		intent, err := uc.gateway.CreatePaymentIntent(ctx, ports.PaymentIntentRequest{
			Amount:      in.Amount.Round(2),
			Description: desc,
			Metadata: map[string]string{
				"user_id":            actor.UserID,
				"plan":               in.Plan,
				"business_entity_id": in.BusinessEntityID,
			},
			IdempotencyKey: idemKey,
		})
		if err != nil {
			return nil, err
		}
		uc.tracker.TrackRevenueEvent(entity.RevenueEvent{
			UserID:           actor.UserID,
			BusinessEntityID: in.BusinessEntityID,
			EventType:        "payment_intent_created",
			Amount:           intent.Amount,
			Currency:         intent.Currency,
			Plan:             in.Plan,
			ReferenceID:      intent.ID,
		})
		return &dto.PaymentIntentResponse{
			ClientSecret:    intent.ClientSecret,
			PaymentIntentID: intent.ID,
			Amount:          intent.Amount,
		}, nil
	})
}

// TaxFilingPlans tabla estructura → plan/importe para el formulario.
func (uc *CheckoutUseCase) TaxFilingPlans() []dto.TaxFilingPlan {
	out := make([]dto.TaxFilingPlan, 0, len(taxStructureOrder))
	for _, s := range taxStructureOrder {
		p := taxPlans[s]
		out = append(out, dto.TaxFilingPlan{BusinessStructure: s, Plan: p.plan, Amount: p.amount, Requires: p.requires})
	}
	return out
}

// SubmitTaxFiling crea la orden en pending_payment. Plan e importe los decide la estructura;
// shareholderInfo (s-corp, c-corp) y partnerInfo (partnership, multi-member-llc) son obligatorios
// según el caso. Si hay pasarela se crea además la intención de pago.
func (uc *CheckoutUseCase) SubmitTaxFiling(ctx context.Context, actor Actor, in dto.TaxFilingRequest, idemKey string) (*dto.TaxFilingResponse, error) {
	p, ok := taxPlans[in.BusinessStructure]
	if !ok {
		return nil, validate.Errors{}.Add("businessStructure", "must be one of: "+strings.Join(taxStructureOrder, " "))
	}
	errs := validate.Errors{}
	switch p.requires {
	case "shareholderInfo":
		if strings.TrimSpace(in.ShareholderInfo) == "" {
			errs.Add("shareholderInfo", "is required for "+in.BusinessStructure+" filings")
		}
	case "partnerInfo":
		if strings.TrimSpace(in.PartnerInfo) == "" {
			errs.Add("partnerInfo", "is required for "+in.BusinessStructure+" filings")
		}
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	if in.BusinessEntityID != "" {
		if _, err := uc.own.entity(ctx, actor, in.BusinessEntityID); err != nil {
			return nil, err
		}
	}

	return idempotent(ctx, uc.idem, uc.log, idemScope("tax_filing", actor, idemKey), func() (*dto.TaxFilingResponse, error) {
		now := time.Now().UTC()
		o := &entity.TaxFilingOrder{
			ID:                uuid.New().String(),
			UserID:            actor.UserID,
			BusinessEntityID:  in.BusinessEntityID,
			BusinessStructure: in.BusinessStructure,
			Plan:              p.plan,
			Amount:            p.amount,
			TaxYear:           in.TaxYear,
			BusinessName:      strings.TrimSpace(in.BusinessName),
			EIN:               in.EIN,
			ShareholderInfo:   strings.TrimSpace(in.ShareholderInfo),
			PartnerInfo:       strings.TrimSpace(in.PartnerInfo),
			ContactEmail:      strings.ToLower(strings.TrimSpace(in.ContactEmail)),
			ContactPhone:      strings.TrimSpace(in.ContactPhone),
			Status:            entity.TaxOrderPendingPayment,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := uc.orders.Create(ctx, o); err != nil {
			return nil, err
		}
		out := &dto.TaxFilingResponse{
			OrderID:           o.ID,
			BusinessStructure: o.BusinessStructure,
			Plan:              o.Plan,
			Amount:            o.Amount,
			Status:            o.Status,
			CreatedAt:         o.CreatedAt,
		}
		if uc.gateway == nil {
			uc.log.Warn().Str("order_id", o.ID).Msg("tax filing order created without payment intent")
			return out, nil
		}
		intent, err := uc.gateway.CreatePaymentIntent(ctx, ports.PaymentIntentRequest{
			Amount:         o.Amount,
			Description:    fmt.Sprintf("%d tax return (%s) for %s", o.TaxYear, o.BusinessStructure, o.BusinessName),
			ReceiptEmail:   o.ContactEmail,
			Metadata:       map[string]string{"order_id": o.ID, "user_id": actor.UserID, "plan": o.Plan},
			IdempotencyKey: "tax-filing-" + o.ID,
		})
		if err != nil {
			return nil, err
		}
		o.PaymentIntentID = intent.ID
		o.UpdatedAt = time.Now().UTC()
		if err := uc.orders.Update(ctx, o); err != nil {
			return nil, err
		}
		uc.tracker.TrackRevenueEvent(entity.RevenueEvent{
			UserID:           actor.UserID,
			BusinessEntityID: o.BusinessEntityID,
			EventType:        "payment_intent_created",
			Amount:           o.Amount,
			Currency:         intent.Currency,
			Plan:             o.Plan,
			ReferenceID:      o.ID,
		})
		out.ClientSecret = intent.ClientSecret
		out.PaymentIntentID = intent.ID
		return out, nil
	})
}

// ConfirmTaxFiling marca la orden como pagada tras verificar el cobro en la pasarela.
// Confirmar una orden ya pagada devuelve la orden sin volver a registrar el ingreso.
func (uc *CheckoutUseCase) ConfirmTaxFiling(ctx context.Context, actor Actor, orderID string, in dto.ConfirmTaxFilingRequest) (*dto.TaxFilingResponse, error) {
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin() && o.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if o.Status != entity.TaxOrderPendingPayment {
		return toTaxFilingResponse(o), nil
	}
	if o.PaymentIntentID != "" && o.PaymentIntentID != in.PaymentIntentID {
		return nil, validate.Errors{}.Add("paymentIntentId", "does not match the order")
	}
	if uc.gateway == nil {
		return nil, errPaymentsDisabled
	}
	intent, err := uc.gateway.GetPaymentIntent(ctx, in.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded() {
		return nil, fmt.Errorf("%w: payment intent is %s", domain.ErrPaymentFailed, intent.Status)
	}
	if !intent.Amount.Equal(o.Amount) {
		return nil, fmt.Errorf("%w: paid amount %s does not match order amount %s", domain.ErrPaymentFailed, intent.Amount, o.Amount)
	}
	o.PaymentIntentID = intent.ID
	o.Status = entity.TaxOrderPaid
	o.UpdatedAt = time.Now().UTC()
	if err := uc.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	uc.tracker.TrackRevenueEvent(entity.RevenueEvent{
		UserID:           o.UserID,
		BusinessEntityID: o.BusinessEntityID,
		EventType:        "payment_succeeded",
		Amount:           o.Amount,
		Currency:         intent.Currency,
		Plan:             o.Plan,
		ReferenceID:      o.ID,
	})
	return toTaxFilingResponse(o), nil
}

// idemScope separa las claves por operación y usuario.
func idemScope(op string, actor Actor, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return op + ":" + actor.UserID + ":" + key
}

func toTaxFilingResponse(o *entity.TaxFilingOrder) *dto.TaxFilingResponse {
	return &dto.TaxFilingResponse{
		OrderID:           o.ID,
		BusinessStructure: o.BusinessStructure,
		Plan:              o.Plan,
		Amount:            o.Amount,
		Status:            o.Status,
		PaymentIntentID:   o.PaymentIntentID,
		CreatedAt:         o.CreatedAt,
	}
}
