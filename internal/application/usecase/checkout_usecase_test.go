package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/cache"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

type checkoutSetup struct {
	f       *fixture
	uc      *CheckoutUseCase
	gateway *fakeGateway
	orders  *memory.TaxFilingOrderRepository
	owner   Actor
}

func newCheckout(t *testing.T, withGateway bool) *checkoutSetup {
	t.Helper()
	f := newFixture()
	s := &checkoutSetup{f: f, orders: memory.NewTaxFilingOrderRepository(), owner: f.client(t, "jane@example.com")}
	if withGateway {
		s.gateway = newFakeGateway()
		s.uc = NewCheckoutUseCase(s.gateway, cache.NewMemoryIdempotencyStore(), s.orders, f.entities, nil, logger.Nop())
	} else {
		s.uc = NewCheckoutUseCase(nil, cache.NewMemoryIdempotencyStore(), s.orders, f.entities, nil, logger.Nop())
	}
	return s
}

func sCorpFiling() dto.TaxFilingRequest {
	return dto.TaxFilingRequest{
		BusinessStructure: StructureSCorp,
		TaxYear:           2024,
		BusinessName:      "Doe Holdings",
		ShareholderInfo:   "Jane Doe 100%",
		ContactEmail:      "Jane@Example.com",
	}
}

func TestResolveTaxPlan(t *testing.T) {
	plan, amount, ok := ResolveTaxPlan(StructureSCorp)
	require.True(t, ok)
	assert.Equal(t, "s-corp-tax-return", plan)
	assert.True(t, amount.Equal(decimal.NewFromInt(599)))

	plan, _, ok = ResolveTaxPlan(StructureMultiMemberLLC)
	require.True(t, ok)
	assert.Equal(t, "partnership-tax-return", plan)

	_, _, ok = ResolveTaxPlan("llp")
	assert.False(t, ok)
}

func TestSubmitTaxFiling_ImporteLoDecideElServidor(t *testing.T) {
	s := newCheckout(t, true)

	out, err := s.uc.SubmitTaxFiling(context.Background(), s.owner, sCorpFiling(), "")
	require.NoError(t, err)
	assert.Equal(t, "s-corp-tax-return", out.Plan)
	assert.True(t, out.Amount.Equal(decimal.NewFromInt(599)))
	assert.Equal(t, entity.TaxOrderPendingPayment, out.Status)
	assert.NotEmpty(t, out.ClientSecret)

	order, err := s.orders.GetByID(context.Background(), out.OrderID)
	require.NoError(t, err)
	assert.Equal(t, out.PaymentIntentID, order.PaymentIntentID)
	assert.Equal(t, "jane@example.com", order.ContactEmail)
}

func TestSubmitTaxFiling_CampoCondicionalObligatorio(t *testing.T) {
	s := newCheckout(t, true)
	in := sCorpFiling()
	in.ShareholderInfo = "  "

	_, err := s.uc.SubmitTaxFiling(context.Background(), s.owner, in, "")
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required for s-corp filings", fields["shareholderInfo"])

	in.BusinessStructure = StructurePartnership
	_, err = s.uc.SubmitTaxFiling(context.Background(), s.owner, in, "")
	fields, _ = validate.AsErrors(err)
	assert.Contains(t, fields, "partnerInfo")
	assert.Zero(t, s.gateway.calls)
}

func TestSubmitTaxFiling_SinPasarelaCreaLaOrden(t *testing.T) {
	s := newCheckout(t, false)

	out, err := s.uc.SubmitTaxFiling(context.Background(), s.owner, sCorpFiling(), "")
	require.NoError(t, err)
	assert.Empty(t, out.ClientSecret)
	assert.Equal(t, entity.TaxOrderPendingPayment, out.Status)

	_, err = s.uc.StripeConfig()
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
}

func TestSubmitTaxFiling_IdempotencyKeyRepiteRespuesta(t *testing.T) {
	s := newCheckout(t, true)
	ctx := context.Background()

	first, err := s.uc.SubmitTaxFiling(ctx, s.owner, sCorpFiling(), "key-1")
	require.NoError(t, err)
	again, err := s.uc.SubmitTaxFiling(ctx, s.owner, sCorpFiling(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.OrderID, again.OrderID)
	assert.Equal(t, 1, s.gateway.calls)

	other := s.f.client(t, "other@example.com")
	third, err := s.uc.SubmitTaxFiling(ctx, other, sCorpFiling(), "key-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderID, third.OrderID, "la clave se separa por usuario")
}

func TestConfirmTaxFiling_VerificaCobro(t *testing.T) {
	s := newCheckout(t, true)
	ctx := context.Background()
	out, err := s.uc.SubmitTaxFiling(ctx, s.owner, sCorpFiling(), "")
	require.NoError(t, err)

	_, err = s.uc.ConfirmTaxFiling(ctx, s.owner, out.OrderID, dto.ConfirmTaxFilingRequest{PaymentIntentID: out.PaymentIntentID})
	assert.ErrorIs(t, err, domain.ErrPaymentFailed, "la intención aún no se cobró")

	s.gateway.settle(out.PaymentIntentID, decimal.NewFromInt(100))
	_, err = s.uc.ConfirmTaxFiling(ctx, s.owner, out.OrderID, dto.ConfirmTaxFilingRequest{PaymentIntentID: out.PaymentIntentID})
	assert.ErrorIs(t, err, domain.ErrPaymentFailed, "importe distinto al de la orden")

	s.gateway.settle(out.PaymentIntentID, decimal.NewFromInt(599))
	_, err = s.uc.ConfirmTaxFiling(ctx, s.owner, out.OrderID, dto.ConfirmTaxFilingRequest{PaymentIntentID: "pi_other"})
	_, ok := validate.AsErrors(err)
	assert.True(t, ok)

	paid, err := s.uc.ConfirmTaxFiling(ctx, s.owner, out.OrderID, dto.ConfirmTaxFilingRequest{PaymentIntentID: out.PaymentIntentID})
	require.NoError(t, err)
	assert.Equal(t, entity.TaxOrderPaid, paid.Status)

	again, err := s.uc.ConfirmTaxFiling(ctx, s.owner, out.OrderID, dto.ConfirmTaxFilingRequest{PaymentIntentID: out.PaymentIntentID})
	require.NoError(t, err)
	assert.Equal(t, entity.TaxOrderPaid, again.Status)

	stranger := s.f.client(t, "mallory@example.com")
	_, err = s.uc.ConfirmTaxFiling(ctx, stranger, out.OrderID, dto.ConfirmTaxFilingRequest{PaymentIntentID: out.PaymentIntentID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreatePaymentIntent_LimitesDeImporte(t *testing.T) {
	s := newCheckout(t, true)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5), decimal.NewFromInt(50001)} {
		_, err := s.uc.CreatePaymentIntent(ctx, s.owner, dto.CreatePaymentIntentRequest{Amount: amount, Plan: "formation"}, "")
		fields, ok := validate.AsErrors(err)
		require.True(t, ok, amount.String())
		assert.Contains(t, fields, "amount")
	}

	out, err := s.uc.CreatePaymentIntent(ctx, s.owner, dto.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(50000), Plan: "formation"}, "pay-1")
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(decimal.NewFromInt(50000)))

	again, err := s.uc.CreatePaymentIntent(ctx, s.owner, dto.CreatePaymentIntentRequest{Amount: decimal.NewFromInt(50000), Plan: "formation"}, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, out.PaymentIntentID, again.PaymentIntentID)
	assert.Equal(t, 1, s.gateway.calls)
}
