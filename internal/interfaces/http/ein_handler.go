package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// EinHandler solicitudes de EIN (SS-4). El SSN/ITIN nunca sale en claro.
type EinHandler struct {
	uc *usecase.EinUseCase
}

// NewEinHandler construye el handler.
func NewEinHandler(uc *usecase.EinUseCase) *EinHandler {
	return &EinHandler{uc: uc}
}

// GetByBusinessEntity godoc
// @Summary      Solicitud de EIN de una entidad
// @Tags         ein
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.EinApplicationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-entities/{id}/ein-application [get]
func (h *EinHandler) GetByBusinessEntity(c *fiber.Ctx) error {
	out, err := h.uc.GetByBusinessEntity(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear borrador de solicitud de EIN
// @Tags         ein
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la entidad"
// @Param        body  body  dto.EinApplicationRequest  true  "Datos SS-4"
// @Success      201   {object}  dto.EinApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/business-entities/{id}/ein-application [post]
func (h *EinHandler) Create(c *fiber.Ctx) error {
	var in dto.EinApplicationRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar borrador
// @Tags         ein
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la solicitud"
// @Param        body  body  dto.EinApplicationRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.EinApplicationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ein/applications/{id} [patch]
func (h *EinHandler) Update(c *fiber.Ctx) error {
	var in dto.EinApplicationRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar solicitud
// @Tags         ein
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.EinApplicationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ein/applications/{id}/submit [post]
func (h *EinHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdminList godoc
// @Summary      Solicitudes de EIN (admin)
// @Tags         admin-ein
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft | submitted | processing | approved | rejected"
// @Success      200  {array}  dto.EinApplicationResponse
// @Router       /api/admin/ein/applications [get]
func (h *EinHandler) AdminList(c *fiber.Ctx) error {
	out, err := h.uc.AdminList(c.Context(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdminSetStatus godoc
// @Summary      Revisar solicitud de EIN
// @Description  Aprobar exige einNumber (NN-NNNNNNN) y lo copia a la entidad; rechazar exige motivo.
// @Tags         admin-ein
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la solicitud"
// @Param        body  body  dto.EinStatusRequest  true  "status, einNumber, rejectionReason"
// @Success      200   {object}  dto.EinApplicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/ein/applications/{id}/status [patch]
func (h *EinHandler) AdminSetStatus(c *fiber.Ctx) error {
	var in dto.EinStatusRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AdminSetStatus(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
