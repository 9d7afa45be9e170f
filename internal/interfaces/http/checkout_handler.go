package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// HeaderIdempotencyKey clave de idempotencia enviada por el checkout.
const HeaderIdempotencyKey = "Idempotency-Key"

// CheckoutHandler pagos con Stripe y declaraciones de impuestos.
type CheckoutHandler struct {
	uc *usecase.CheckoutUseCase
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *usecase.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// StripeConfig godoc
// @Summary      Clave pública de Stripe
// @Tags         checkout
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StripeConfigResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Router       /api/stripe/config [get]
func (h *CheckoutHandler) StripeConfig(c *fiber.Ctx) error {
	out, err := h.uc.StripeConfig()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePaymentIntent godoc
// @Summary      Crear intención de pago
// @Description  Importe entre 0 (excluido) y 50.000 USD. Respeta el header Idempotency-Key.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                          false  "Clave de idempotencia"
// @Param        body             body    dto.CreatePaymentIntentRequest  true   "amount, plan"
// @Success      200  {object}  dto.PaymentIntentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Router       /api/create-payment-intent [post]
func (h *CheckoutHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var in dto.CreatePaymentIntentRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreatePaymentIntent(c.Context(), actor(c), in, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TaxFilingPlans godoc
// @Summary      Tabla estructura → plan e importe
// @Tags         tax-filing
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.TaxFilingPlan
// @Router       /api/tax-filing/plans [get]
func (h *CheckoutHandler) TaxFilingPlans(c *fiber.Ctx) error {
	return c.JSON(h.uc.TaxFilingPlans())
}

// SubmitTaxFiling godoc
// @Summary      Enviar declaración de impuestos
// @Description  El plan y el importe salen de businessStructure. shareholderInfo es obligatorio
// @Description  para s-corp y c-corp; partnerInfo para partnership y multi-member-llc.
// @Tags         tax-filing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                false  "Clave de idempotencia"
// @Param        body             body    dto.TaxFilingRequest  true   "Formulario"
// @Success      201  {object}  dto.TaxFilingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tax-filing/submit [post]
func (h *CheckoutHandler) SubmitTaxFiling(c *fiber.Ctx) error {
	var in dto.TaxFilingRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SubmitTaxFiling(c.Context(), actor(c), in, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ConfirmTaxFiling godoc
// @Summary      Confirmar pago de la declaración
// @Tags         tax-filing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la orden"
// @Param        body  body  dto.ConfirmTaxFilingRequest  true  "paymentIntentId"
// @Success      200  {object}  dto.TaxFilingResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tax-filing/orders/{id}/confirm [post]
func (h *CheckoutHandler) ConfirmTaxFiling(c *fiber.Ctx) error {
	var in dto.ConfirmTaxFilingRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ConfirmTaxFiling(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
