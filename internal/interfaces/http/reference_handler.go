package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/reference"
)

// ReferenceHandler tablas estáticas por estado. Sin estado propio.
type ReferenceHandler struct{}

// NewReferenceHandler construye el handler.
func NewReferenceHandler() *ReferenceHandler { return &ReferenceHandler{} }

// States godoc
// @Summary      Estados conocidos
// @Tags         reference
// @Produce      json
// @Success      200  {array}  dto.StateSummary
// @Router       /api/reference/states [get]
func (h *ReferenceHandler) States(c *fiber.Ctx) error {
	return c.JSON(lo.Map(reference.States(), func(name string, _ int) dto.StateSummary {
		return dto.StateSummary{Name: name, Code: reference.StateCode(name)}
	}))
}

// StateFees godoc
// @Summary      Tarifas de reporte anual de un estado
// @Tags         reference
// @Produce      json
// @Param        state  path  string  true  "Estado (nombre o código)"
// @Success      200  {array}   dto.StateFeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reference/state-fees/{state} [get]
func (h *ReferenceHandler) StateFees(c *fiber.Ctx) error {
	state, ok := reference.CanonicalState(c.Params("state"))
	if !ok {
		return writeError(c, domain.ErrNotFound)
	}
	fees := reference.GetStateFees(state)
	out := lo.Map(reference.GetStateEntityTypes(state), func(t string, _ int) dto.StateFeeResponse {
		f := fees[t]
		return toStateFeeResponse(state, t, &f)
	})
	return c.JSON(out)
}

// StateFee godoc
// @Summary      Tarifa de un tipo de entidad en un estado
// @Tags         reference
// @Produce      json
// @Param        state       path  string  true  "Estado (nombre o código)"
// @Param        entityType  path  string  true  "Tipo de entidad"
// @Success      200  {object}  dto.StateFeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reference/state-fees/{state}/{entityType} [get]
func (h *ReferenceHandler) StateFee(c *fiber.Ctx) error {
	state, _ := reference.CanonicalState(c.Params("state"))
	fee := reference.GetStateFilingFee(c.Params("state"), c.Params("entityType"))
	if fee == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(toStateFeeResponse(state, c.Params("entityType"), fee))
}

// StateResources godoc
// @Summary      Enlaces oficiales de un estado
// @Tags         reference
// @Produce      json
// @Param        state  path  string  true  "Estado (nombre o código)"
// @Success      200  {object}  dto.StateResourcesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reference/state-resources/{state} [get]
func (h *ReferenceHandler) StateResources(c *fiber.Ctx) error {
	state, _ := reference.CanonicalState(c.Params("state"))
	r := reference.GetStateResources(state)
	if r == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(dto.StateResourcesResponse{
		State:            state,
		SecretaryOfState: r.SecretaryOfState,
		TaxAgency:        r.TaxAgency,
		IrsEin:           r.IRSEin,
	})
}

func toStateFeeResponse(state, entityType string, f *reference.StateFilingFee) dto.StateFeeResponse {
	return dto.StateFeeResponse{
		State:      state,
		EntityType: entityType,
		Fee:        f.Fee,
		Frequency:  f.Frequency,
		DueDate:    f.DueDate,
		LateFee:    f.LateFee,
		Notes:      f.Notes,
	}
}
