package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// ClientHandler consola admin de clientes (requiere rol admin).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// List godoc
// @Summary      Listar clientes
// @Tags         admin-clients
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre, email o empresa"
// @Param        active  query  string  false  "true | false"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ClientListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var in dto.ClientListRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear cliente
// @Tags         admin-clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         admin-clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/clients/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar cliente (parcial)
// @Tags         admin-clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/clients/{id} [patch]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Activar o desactivar cliente
// @Tags         admin-clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del cliente"
// @Param        body  body  dto.SetClientStatusRequest  true  "isActive"
// @Success      200   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/clients/{id}/status [patch]
func (h *ClientHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetClientStatusRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetStatus(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BusinessEntities godoc
// @Summary      Entidades de un cliente
// @Tags         admin-clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {array}   dto.BusinessEntityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/clients/{id}/business-entities [get]
func (h *ClientHandler) BusinessEntities(c *fiber.Ctx) error {
	out, err := h.uc.BusinessEntities(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BusinessEntityHandler entidades de negocio del cliente autenticado.
type BusinessEntityHandler struct {
	uc *usecase.BusinessEntityUseCase
}

// NewBusinessEntityHandler construye el handler.
func NewBusinessEntityHandler(uc *usecase.BusinessEntityUseCase) *BusinessEntityHandler {
	return &BusinessEntityHandler{uc: uc}
}

// List godoc
// @Summary      Listar entidades de negocio
// @Description  Un admin puede pasar ownerId para ver las de otro cliente.
// @Tags         business-entities
// @Security     Bearer
// @Produce      json
// @Param        ownerId  query  string  false  "Dueño (solo admin)"
// @Success      200  {array}  dto.BusinessEntityResponse
// @Router       /api/business-entities [get]
func (h *BusinessEntityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), actor(c), c.Query("ownerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear entidad de negocio
// @Tags         business-entities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBusinessEntityRequest  true  "Datos de la entidad"
// @Success      201   {object}  dto.BusinessEntityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/business-entities [post]
func (h *BusinessEntityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBusinessEntityRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener entidad de negocio
// @Tags         business-entities
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.BusinessEntityResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business-entities/{id} [get]
func (h *BusinessEntityHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar entidad de negocio
// @Tags         business-entities
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la entidad"
// @Param        body  body  dto.UpdateBusinessEntityRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.BusinessEntityResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/business-entities/{id} [patch]
func (h *BusinessEntityHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBusinessEntityRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
