package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
)

// DatabaseHealth estado por almacén (main, analytics, documents, compliance).
type DatabaseHealth interface {
	HealthCheck(ctx context.Context) map[string]bool
}

// AnalyticsHealth sonda del servicio de analítica.
type AnalyticsHealth interface {
	HealthCheck(ctx context.Context) bool
}

// SystemHandler salud de la plataforma.
type SystemHandler struct {
	dbs       DatabaseHealth
	analytics AnalyticsHealth
}

// NewSystemHandler construye el handler. analytics puede ser nil.
func NewSystemHandler(dbs DatabaseHealth, analytics AnalyticsHealth) *SystemHandler {
	return &SystemHandler{dbs: dbs, analytics: analytics}
}

// Health godoc
// @Summary      Salud del sistema
// @Description  200 mientras la base principal responda; 503 si no.
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.SystemHealthResponse
// @Failure      503  {object}  dto.SystemHealthResponse
// @Router       /api/system/health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	dbs := map[string]bool{}
	if h.dbs != nil {
		dbs = h.dbs.HealthCheck(ctx)
	}
	up := 0
	for store, ok := range dbs {
		metrics.SetDBUp(store, ok)
		if ok {
			up++
		}
	}
	analyticsUp := h.analytics != nil && h.analytics.HealthCheck(ctx)

	out := dto.SystemHealthResponse{
		Databases: dbs,
		Analytics: analyticsUp,
		CheckedAt: time.Now().UTC(),
	}
	switch {
	case !dbs["main"]:
		out.Status = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	case up < len(dbs) || !analyticsUp:
		out.Status = "degraded"
	default:
		out.Status = "ok"
	}
	return c.JSON(out)
}
