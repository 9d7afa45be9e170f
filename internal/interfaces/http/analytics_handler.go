package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// AnalyticsHandler eventos de uso, dashboard de analítica, rollups y auditoría.
type AnalyticsHandler struct {
	service *analytics.Service
	tracker *analytics.Tracker
	audit   *usecase.Auditor
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(service *analytics.Service, tracker *analytics.Tracker, audit *usecase.Auditor) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, tracker: tracker, audit: audit}
}

// TrackFeature godoc
// @Summary      Registrar uso de una funcionalidad
// @Description  Fire-and-forget: responde 202 aunque la escritura falle después.
// @Tags         analytics
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.TrackFeatureRequest  true  "feature, action"
// @Success      202
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/events [post]
func (h *AnalyticsHandler) TrackFeature(c *fiber.Ctx) error {
	var in dto.TrackFeatureRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	h.tracker.TrackFeatureUsage(entity.FeatureUsage{
		UserID:           GetUserID(c),
		BusinessEntityID: in.BusinessEntityID,
		Feature:          in.Feature,
		Action:           in.Action,
		Metadata:         in.Metadata,
	})
	return c.SendStatus(fiber.StatusAccepted)
}

// Dashboard godoc
// @Summary      Dashboard de analítica (últimos 30 días)
// @Tags         admin-analytics
// @Security     Bearer
// @Produce      json
// @Param        userId            query  string  false  "Filtrar por usuario"
// @Param        businessEntityId  query  string  false  "Filtrar por entidad"
// @Success      200  {object}  dto.DashboardAnalyticsResponse
// @Router       /api/admin/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	var f dto.DashboardFilter
	if err := bindQuery(c, &f); err != nil {
		return writeError(c, err)
	}
	out, err := h.service.GetDashboardAnalytics(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UserInsights godoc
// @Summary      Comportamiento de un usuario
// @Tags         admin-analytics
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserInsightsResponse
// @Router       /api/admin/analytics/users/{id}/insights [get]
func (h *AnalyticsHandler) UserInsights(c *fiber.Ctx) error {
	out, err := h.service.GetUserBehaviorInsights(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GenerateMetrics godoc
// @Summary      Ejecutar rollup de métricas
// @Description  Agrega el periodo (día, semana desde domingo o mes) que contiene la fecha.
// @Tags         admin-analytics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateMetricsRequest  true  "period, date"
// @Success      201  {array}   dto.BusinessMetricResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/analytics/metrics/generate [post]
func (h *AnalyticsHandler) GenerateMetrics(c *fiber.Ctx) error {
	var in dto.GenerateMetricsRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	date := time.Now().UTC()
	if in.Date != "" {
		// el formato ya lo validó el tag datetime
		date, _ = time.Parse("2006-01-02", in.Date)
	}
	rows, err := h.service.GenerateBusinessMetrics(c.Context(), in.Period, date)
	if err != nil {
		return writeError(c, err)
	}
	out := lo.Map(rows, func(m *entity.BusinessMetric, _ int) dto.BusinessMetricResponse {
		return dto.BusinessMetricResponse{
			ID:          m.ID,
			MetricName:  m.MetricName,
			Value:       m.Value,
			Period:      m.Period,
			PeriodStart: m.PeriodStart,
			PeriodEnd:   m.PeriodEnd,
			CreatedAt:   m.CreatedAt,
		}
	})
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMetrics godoc
// @Summary      Rollups guardados
// @Tags         admin-analytics
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "daily | weekly | monthly"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Success      200  {array}  dto.BusinessMetricResponse
// @Router       /api/admin/analytics/metrics [get]
func (h *AnalyticsHandler) ListMetrics(c *fiber.Ctx) error {
	var in dto.BusinessMetricsRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.service.ListBusinessMetrics(c.Context(), in.Period, in.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AuditLogs godoc
// @Summary      Registro de auditoría
// @Tags         admin-audit
// @Security     Bearer
// @Produce      json
// @Param        resourceType  query  string  false  "user | business_entity | ein_application | ..."
// @Param        limit         query  int     false  "Límite"  default(100)
// @Success      200  {array}  dto.AuditLogResponse
// @Router       /api/admin/audit-logs [get]
func (h *AnalyticsHandler) AuditLogs(c *fiber.Ctx) error {
	out, err := h.audit.List(c.Context(), c.Query("resourceType"), c.QueryInt("limit", 100))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
