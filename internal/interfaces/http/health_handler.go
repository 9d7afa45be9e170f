package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// HealthHandler radar de salud de una entidad de negocio.
type HealthHandler struct {
	uc *usecase.HealthUseCase
}

// NewHealthHandler construye el handler.
func NewHealthHandler(uc *usecase.HealthUseCase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Radar de salud del negocio
// @Description  Puntuaciones 0-100 por dimensión, total ponderado y nota A-F.
// @Tags         business-health
// @Security     Bearer
// @Produce      json
// @Param        businessId  path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.HealthDashboardResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/health/dashboard/{businessId} [get]
func (h *HealthHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context(), actor(c), c.Params("businessId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Insights godoc
// @Summary      Recomendaciones activas
// @Tags         business-health
// @Security     Bearer
// @Produce      json
// @Param        businessId  path  string  true  "ID de la entidad"
// @Success      200  {array}  dto.InsightResponse
// @Router       /api/health/insights/{businessId} [get]
func (h *HealthHandler) Insights(c *fiber.Ctx) error {
	out, err := h.uc.Insights(c.Context(), actor(c), c.Params("businessId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dismiss godoc
// @Summary      Descartar una recomendación
// @Tags         business-health
// @Security     Bearer
// @Accept       json
// @Param        businessId  path  string                     true  "ID de la entidad"
// @Param        body        body  dto.DismissInsightRequest  true  "code"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/health/insights/{businessId}/dismiss [post]
func (h *HealthHandler) Dismiss(c *fiber.Ctx) error {
	var in dto.DismissInsightRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Dismiss(c.Context(), actor(c), c.Params("businessId"), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
