package http

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

// formFile abre el archivo multipart del campo indicado. Devuelve nil si no viene.
// El llamador cierra el io.Closer.
func formFile(c *fiber.Ctx, field string) (*usecase.FileUpload, io.Closer, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, validate.Errors{}.Add(field, "must be sent as multipart/form-data")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &usecase.FileUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

// sendDocument envía el blob como adjunto.
func sendDocument(c *fiber.Ctx, body io.ReadCloser, doc *entity.Document) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentLength, strconv.FormatInt(doc.SizeBytes, 10))
	c.Attachment(doc.FileName)
	// fasthttp cierra el stream al terminar de enviarlo
	return c.SendStream(body, int(doc.SizeBytes))
}

// DocumentHandler documentos de contabilidad y documentos del cliente.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// ListBookkeeping godoc
// @Summary      Documentos de contabilidad
// @Tags         bookkeeping
// @Security     Bearer
// @Produce      json
// @Param        businessEntityId  query  string  false  "Filtrar por entidad"
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/bookkeeping/documents [get]
func (h *DocumentHandler) ListBookkeeping(c *fiber.Ctx) error {
	out, err := h.uc.ListBookkeeping(c.Context(), actor(c), c.Query("businessEntityId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadBookkeeping godoc
// @Summary      Subir documento de contabilidad
// @Description  Máximo 25 MB. Tipos: pdf, png, jpeg, csv, xlsx, docx.
// @Tags         bookkeeping
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        businessEntityId  formData  string  true  "ID de la entidad"
// @Param        file              formData  file    true  "Archivo"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/bookkeeping/documents [post]
func (h *DocumentHandler) UploadBookkeeping(c *fiber.Ctx) error {
	businessEntityID := c.FormValue("businessEntityId")
	if businessEntityID == "" {
		return writeError(c, validate.Errors{}.Add("businessEntityId", "is required"))
	}
	file, closer, err := formFile(c, "file")
	if err != nil {
		return writeError(c, err)
	}
	if file == nil {
		return writeError(c, validate.Errors{}.Add("file", "is required"))
	}
	defer closer.Close()

	out, err := h.uc.UploadBookkeeping(c.Context(), actor(c), businessEntityID, *file)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Download godoc
// @Summary      Descargar documento
// @Tags         bookkeeping
// @Security     Bearer
// @Produce      octet-stream
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bookkeeping/documents/{id}/download [get]
// @Router       /api/client/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	body, doc, err := h.uc.Download(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendDocument(c, body, doc)
}

// Archive godoc
// @Summary      Archivar documento
// @Tags         bookkeeping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bookkeeping/documents/{id}/archive [patch]
func (h *DocumentHandler) Archive(c *fiber.Ctx) error {
	out, err := h.uc.Archive(c.Context(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListForClient godoc
// @Summary      Todos los documentos del cliente
// @Tags         client-documents
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/client/documents [get]
func (h *DocumentHandler) ListForClient(c *fiber.Ctx) error {
	out, err := h.uc.ListForClient(c.Context(), actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BookkeepingHandler suscripciones de contabilidad.
type BookkeepingHandler struct {
	uc *usecase.BookkeepingUseCase
}

// NewBookkeepingHandler construye el handler.
func NewBookkeepingHandler(uc *usecase.BookkeepingUseCase) *BookkeepingHandler {
	return &BookkeepingHandler{uc: uc}
}

// Plans godoc
// @Summary      Planes de contabilidad
// @Tags         bookkeeping
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PlanOption
// @Router       /api/bookkeeping/plans [get]
func (h *BookkeepingHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.uc.Plans())
}

// Get godoc
// @Summary      Suscripción de contabilidad de una entidad
// @Tags         bookkeeping
// @Security     Bearer
// @Produce      json
// @Param        businessId  path  string  true  "ID de la entidad"
// @Success      200  {object}  dto.BookkeepingSubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bookkeeping/subscription/{businessId} [get]
func (h *BookkeepingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), actor(c), c.Params("businessId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Subscribe godoc
// @Summary      Contratar contabilidad
// @Tags         bookkeeping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBookkeepingSubscriptionRequest  true  "businessEntityId, plan"
// @Success      201   {object}  dto.BookkeepingSubscriptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bookkeeping/subscriptions [post]
func (h *BookkeepingHandler) Subscribe(c *fiber.Ctx) error {
	var in dto.CreateBookkeepingSubscriptionRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Subscribe(c.Context(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Cambiar plan o estado de la suscripción
// @Tags         bookkeeping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        businessId  path  string                                    true  "ID de la entidad"
// @Param        body        body  dto.UpdateBookkeepingSubscriptionRequest  true  "plan, status"
// @Success      200  {object}  dto.BookkeepingSubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bookkeeping/subscription/{businessId} [patch]
func (h *BookkeepingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBookkeepingSubscriptionRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), actor(c), c.Params("businessId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
