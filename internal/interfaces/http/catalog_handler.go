package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// CatalogHandler planes de suscripción, servicios y su relación.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// PublicPlans godoc
// @Summary      Planes activos con sus servicios
// @Tags         subscription-plans
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/subscription-plans [get]
func (h *CatalogHandler) PublicPlans(c *fiber.Ctx) error {
	out, err := h.uc.PublicPlans(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPlans godoc
// @Summary      Listar todos los planes
// @Tags         admin-catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/admin/subscription-plans [get]
func (h *CatalogHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.uc.ListPlans(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePlan godoc
// @Summary      Crear plan
// @Tags         admin-catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanRequest  true  "Plan"
// @Success      201   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/subscription-plans [post]
func (h *CatalogHandler) CreatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreatePlan(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePlan godoc
// @Summary      Actualizar plan
// @Tags         admin-catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID del plan"
// @Param        body  body  dto.PlanRequest  true  "Plan"
// @Success      200   {object}  dto.PlanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/subscription-plans/{id} [put]
func (h *CatalogHandler) UpdatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdatePlan(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePlan godoc
// @Summary      Desactivar plan
// @Description  Baja lógica: el plan queda con isActive=false.
// @Tags         admin-catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID del plan"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/subscription-plans/{id} [delete]
func (h *CatalogHandler) DeletePlan(c *fiber.Ctx) error {
	if err := h.uc.DeactivatePlan(c.Context(), actor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListServices godoc
// @Summary      Listar servicios
// @Tags         admin-catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ServiceResponse
// @Router       /api/admin/services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	out, err := h.uc.ListServices(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateService godoc
// @Summary      Crear servicio
// @Tags         admin-catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServiceRequest  true  "Servicio"
// @Success      201   {object}  dto.ServiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/services [post]
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateService(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateService godoc
// @Summary      Actualizar servicio
// @Tags         admin-catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del servicio"
// @Param        body  body  dto.ServiceRequest  true  "Servicio"
// @Success      200   {object}  dto.ServiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/services/{id} [put]
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateService(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteService godoc
// @Summary      Eliminar servicio
// @Tags         admin-catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID del servicio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	if err := h.uc.DeleteService(c.Context(), actor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPlanServices godoc
// @Summary      Servicios asignados a planes
// @Tags         admin-catalog
// @Security     Bearer
// @Produce      json
// @Param        planId  query  string  false  "Filtrar por plan"
// @Success      200  {array}  dto.PlanServiceResponse
// @Router       /api/admin/plan-services [get]
func (h *CatalogHandler) ListPlanServices(c *fiber.Ctx) error {
	out, err := h.uc.ListPlanServices(c.Context(), c.Query("planId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreatePlanService godoc
// @Summary      Asignar servicio a plan
// @Tags         admin-catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlanServiceRequest  true  "planId, serviceId"
// @Success      201   {object}  dto.PlanServiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/plan-services [post]
func (h *CatalogHandler) CreatePlanService(c *fiber.Ctx) error {
	var in dto.CreatePlanServiceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreatePlanService(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePlanService godoc
// @Summary      Actualizar asignación plan-servicio
// @Tags         admin-catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la asignación"
// @Param        body  body  dto.UpdatePlanServiceRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.PlanServiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/plan-services/{id} [put]
func (h *CatalogHandler) UpdatePlanService(c *fiber.Ctx) error {
	var in dto.UpdatePlanServiceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdatePlanService(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeletePlanService godoc
// @Summary      Quitar servicio de un plan
// @Tags         admin-catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID de la asignación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/plan-services/{id} [delete]
func (h *CatalogHandler) DeletePlanService(c *fiber.Ctx) error {
	if err := h.uc.DeletePlanService(c.Context(), actor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
