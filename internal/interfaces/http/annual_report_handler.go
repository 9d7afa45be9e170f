package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
)

// AnnualReportHandler reportes anuales de las entidades del cliente.
type AnnualReportHandler struct {
	uc *usecase.AnnualReportUseCase
}

// NewAnnualReportHandler construye el handler.
func NewAnnualReportHandler(uc *usecase.AnnualReportUseCase) *AnnualReportHandler {
	return &AnnualReportHandler{uc: uc}
}

// List godoc
// @Summary      Listar reportes anuales
// @Description  El estado se recalcula a partir del vencimiento en cada lectura.
// @Tags         annual-reports
// @Security     Bearer
// @Produce      json
// @Param        businessEntityId  query  string  false  "Filtrar por entidad"
// @Success      200  {array}  dto.AnnualReportResponse
// @Router       /api/annual-reports [get]
func (h *AnnualReportHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), actor(c), c.Query("businessEntityId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Requirements godoc
// @Summary      Requisitos del reporte anual de un estado
// @Tags         annual-reports
// @Security     Bearer
// @Produce      json
// @Param        state       path   string  true   "Estado (nombre o código)"
// @Param        entityType  query  string  false  "Tipo de entidad"  default(LLC)
// @Success      200  {object}  dto.StateRequirementsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/annual-reports/requirements/{state} [get]
func (h *AnnualReportHandler) Requirements(c *fiber.Ctx) error {
	out, err := h.uc.Requirements(c.Params("state"), c.Query("entityType"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear reporte anual
// @Description  Tarifas, vencimiento y estado los calcula el servidor.
// @Tags         annual-reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAnnualReportRequest  true  "businessEntityId, filingYear"
// @Success      201   {object}  dto.AnnualReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/annual-reports [post]
func (h *AnnualReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAnnualReportRequest
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
// @Summary      Obtener reporte anual
// @Tags         annual-reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.AnnualReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/annual-reports/{id} [get]
func (h *AnnualReportHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar reporte anual
// @Tags         annual-reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del reporte"
// @Param        body  body  dto.UpdateAnnualReportRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.AnnualReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/annual-reports/{id} [patch]
func (h *AnnualReportHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateAnnualReportRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// File godoc
// @Summary      Marcar reporte como presentado
// @Tags         annual-reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del reporte"
// @Param        body  body  dto.FileAnnualReportRequest  true  "confirmationNumber"
// @Success      200   {object}  dto.AnnualReportResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/annual-reports/{id}/file [post]
func (h *AnnualReportHandler) File(c *fiber.Ctx) error {
	var in dto.FileAnnualReportRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.File(c.Context(), actor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de presentación
// @Tags         annual-reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {file}    binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/annual-reports/{id}/receipt [get]
func (h *AnnualReportHandler) Receipt(c *fiber.Ctx) error {
	pdf, fileName, err := h.uc.Receipt(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(fileName)
	return c.Send(pdf)
}
