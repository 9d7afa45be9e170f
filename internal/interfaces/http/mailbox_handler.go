package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// MailboxHandler buzón digital: suscripción, correo recibido y acciones.
type MailboxHandler struct {
	uc *usecase.MailboxUseCase
}

// NewMailboxHandler construye el handler.
func NewMailboxHandler(uc *usecase.MailboxUseCase) *MailboxHandler {
	return &MailboxHandler{uc: uc}
}

// Plans godoc
// @Summary      Planes del buzón digital
// @Tags         mailbox
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PlanOption
// @Router       /api/mailbox/plans [get]
func (h *MailboxHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.uc.Plans())
}

// GetSubscription godoc
// @Summary      Suscripción de buzón de una entidad
// @Tags         mailbox
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.MailboxSubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business/{id}/mailbox-subscription [get]
func (h *MailboxHandler) GetSubscription(c *fiber.Ctx) error {
	out, err := h.uc.GetSubscription(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Subscribe godoc
// @Summary      Contratar buzón
// @Tags         mailbox
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "ID de la entidad"
// @Param        body  body  dto.CreateMailboxSubscriptionRequest  true  "plan, forwardingAddress"
// @Success      201   {object}  dto.MailboxSubscriptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/business/{id}/mailbox-subscription [post]
func (h *MailboxHandler) Subscribe(c *fiber.Ctx) error {
	var in dto.CreateMailboxSubscriptionRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Subscribe(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSubscription godoc
// @Summary      Cambiar plan, dirección o estado del buzón
// @Tags         mailbox
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "ID de la entidad"
// @Param        body  body  dto.UpdateMailboxSubscriptionRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.MailboxSubscriptionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/business/{id}/mailbox-subscription [patch]
func (h *MailboxHandler) UpdateSubscription(c *fiber.Ctx) error {
	var in dto.UpdateMailboxSubscriptionRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateSubscription(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListItems godoc
// @Summary      Correo recibido
// @Tags         mailbox
// @Security     Bearer
// @Produce      json
// @Param        businessEntityId  query  string  false  "Entidad"
// @Param        status            query  string  false  "unread | read | archived"
// @Param        category          query  string  false  "legal | tax | government | financial | general | marketing"
// @Success      200  {array}  dto.MailItemResponse
// @Router       /api/mailbox/items [get]
func (h *MailboxHandler) ListItems(c *fiber.Ctx) error {
	var in dto.MailItemListRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListItems(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Ver pieza de correo
// @Description  La primera vista la marca como leída.
// @Tags         mailbox
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {object}  dto.MailItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mailbox/items/{id} [get]
func (h *MailboxHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Cambiar estado de una pieza
// @Tags         mailbox
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la pieza"
// @Param        body  body  dto.UpdateMailItemRequest  true  "status"
// @Success      200   {object}  dto.MailItemResponse
// @Router       /api/mailbox/items/{id} [patch]
func (h *MailboxHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateMailItemRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateItem(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Scan godoc
// @Summary      Descargar escaneo de la pieza
// @Tags         mailbox
// @Security     Bearer
// @Produce      octet-stream
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mailbox/items/{id}/scan [get]
func (h *MailboxHandler) Scan(c *fiber.Ctx) error {
	body, doc, err := h.uc.Scan(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, body, doc)
}

// RequestAction godoc
// @Summary      Pedir reenvío, destrucción, escaneo o recogida
// @Tags         mailbox
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la pieza"
// @Param        body  body  dto.CreateMailActionRequest  true  "action"
// @Success      201   {object}  dto.MailActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/mailbox/items/{id}/actions [post]
func (h *MailboxHandler) RequestAction(c *fiber.Ctx) error {
	var in dto.CreateMailActionRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RequestAction(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListActions godoc
// @Summary      Acciones pedidas sobre una pieza
// @Tags         mailbox
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la pieza"
// @Success      200  {array}  dto.MailActionResponse
// @Router       /api/mailbox/items/{id}/actions [get]
func (h *MailboxHandler) ListActions(c *fiber.Ctx) error {
	out, err := h.uc.ListActions(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdminCreateItem godoc
// @Summary      Registrar correo entrante (admin)
// @Description  multipart: metadatos y escaneo opcional en el campo "scan".
// @Tags         admin-mailbox
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        businessEntityId  formData  string  true   "Entidad"
// @Param        sender            formData  string  true   "Remitente"
// @Param        category          formData  string  true   "Categoría"
// @Param        subject           formData  string  false  "Asunto"
// @Param        priority          formData  string  false  "low | normal | high | urgent"
// @Param        receivedAt        formData  string  false  "YYYY-MM-DD"
// @Param        scan              formData  file    false  "Escaneo"
// @Success      201  {object}  dto.MailItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/mailbox/items [post]
func (h *MailboxHandler) AdminCreateItem(c *fiber.Ctx) error {
	var in dto.CreateMailItemRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	var scan *usecase.FileUpload
	if isMultipart(c) {
		file, closer, err := formFile(c, "scan")
		if err != nil {
			return writeError(c, err)
		}
		if file != nil {
			defer closer.Close()
			scan = file
		}
	}
	out, err := h.uc.AdminCreateItem(c.Context(), actor(c), in, scan)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AdminListActions godoc
// @Summary      Cola de acciones de correo (admin)
// @Tags         admin-mailbox
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | in_progress | completed | cancelled"
// @Success      200  {array}  dto.MailActionResponse
// @Router       /api/admin/mailbox/actions [get]
func (h *MailboxHandler) AdminListActions(c *fiber.Ctx) error {
	out, err := h.uc.AdminListActions(c.Context(), c.Query("status"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AdminUpdateAction godoc
// @Summary      Actualizar acción de correo (admin)
// @Tags         admin-mailbox
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID de la acción"
// @Param        body  body  dto.UpdateMailActionRequest  true  "status"
// @Success      200   {object}  dto.MailActionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/mailbox/actions/{id} [patch]
func (h *MailboxHandler) AdminUpdateAction(c *fiber.Ctx) error {
	var in dto.UpdateMailActionRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AdminUpdateAction(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func isMultipart(c *fiber.Ctx) bool {
	return len(c.Request().Header.MultipartFormBoundary()) > 0
}
