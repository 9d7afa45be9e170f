package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/application/auth"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ClientUC         *usecase.ClientUseCase
	BusinessEntityUC *usecase.BusinessEntityUseCase
	CatalogUC        *usecase.CatalogUseCase
	AnnualReportUC   *usecase.AnnualReportUseCase
	EinUC            *usecase.EinUseCase
	MailboxUC        *usecase.MailboxUseCase
	BookkeepingUC    *usecase.BookkeepingUseCase
	DocumentUC       *usecase.DocumentUseCase
	HealthUC         *usecase.HealthUseCase
	CheckoutUC       *usecase.CheckoutUseCase
	Auditor          *usecase.Auditor
	Analytics        *analytics.Service
	Tracker          *analytics.Tracker
	Databases        DatabaseHealth

	JWTSecret          string
	LoginRatePerMinute int
	ServiceName        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	var analyticsHealth AnalyticsHealth
	if deps.Analytics != nil {
		analyticsHealth = deps.Analytics
	}
	systemHandler := NewSystemHandler(deps.Databases, analyticsHealth)
	api.Get("/system/health", systemHandler.Health)

	// Auth (público, con límite por IP)
	authHandler := NewAuthHandler(deps.AuthUC)
	limiter := NewRateLimiter(deps.LoginRatePerMinute).Handler()
	authGroup := api.Group("/auth")
	authGroup.Post("/register", limiter, authHandler.Register)
	authGroup.Post("/login", limiter, authHandler.Login)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	api.Get("/subscription-plans", catalogHandler.PublicPlans)

	referenceHandler := NewReferenceHandler()
	ref := api.Group("/reference")
	ref.Get("/states", referenceHandler.States)
	ref.Get("/state-fees/:state", referenceHandler.StateFees)
	ref.Get("/state-fees/:state/:entityType", referenceHandler.StateFee)
	ref.Get("/state-resources/:state", referenceHandler.StateResources)

	authGroup.Post("/activate", limiter, authHandler.Activate)

	// Rutas protegidas (requieren Bearer Token)
	var users UserStatusChecker
	if deps.AuthUC != nil {
		users = deps.AuthUC
	}
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, users))
	protected.Get("/auth/user", authHandler.Me)

	entityHandler := NewBusinessEntityHandler(deps.BusinessEntityUC)
	einHandler := NewEinHandler(deps.EinUC)
	mailboxHandler := NewMailboxHandler(deps.MailboxUC)
	entities := protected.Group("/business-entities")
	entities.Get("/", entityHandler.List)
	entities.Post("/", entityHandler.Create)
	entities.Get("/:id", entityHandler.Get)
	entities.Patch("/:id", entityHandler.Update)
	entities.Get("/:id/ein-application", einHandler.GetByBusinessEntity)
	entities.Post("/:id/ein-application", einHandler.Create)

	ein := protected.Group("/ein/applications")
	ein.Patch("/:id", einHandler.Update)
	ein.Post("/:id/submit", einHandler.Submit)

	reportHandler := NewAnnualReportHandler(deps.AnnualReportUC)
	reports := protected.Group("/annual-reports")
	reports.Get("/", reportHandler.List)
	reports.Post("/", reportHandler.Create)
	reports.Get("/requirements/:state", reportHandler.Requirements)
	reports.Get("/:id", reportHandler.Get)
	reports.Patch("/:id", reportHandler.Update)
	reports.Post("/:id/file", reportHandler.File)
	reports.Get("/:id/receipt", reportHandler.Receipt)

	// Buzón digital
	protected.Get("/business/:id/mailbox-subscription", mailboxHandler.GetSubscription)
	protected.Post("/business/:id/mailbox-subscription", mailboxHandler.Subscribe)
	protected.Patch("/business/:id/mailbox-subscription", mailboxHandler.UpdateSubscription)
	mailbox := protected.Group("/mailbox")
	mailbox.Get("/plans", mailboxHandler.Plans)
	mailbox.Get("/items", mailboxHandler.ListItems)
	mailbox.Get("/items/:id", mailboxHandler.GetItem)
	mailbox.Patch("/items/:id", mailboxHandler.UpdateItem)
	mailbox.Get("/items/:id/scan", mailboxHandler.Scan)
	mailbox.Post("/items/:id/actions", mailboxHandler.RequestAction)
	mailbox.Get("/items/:id/actions", mailboxHandler.ListActions)

	// Contabilidad
	bookkeepingHandler := NewBookkeepingHandler(deps.BookkeepingUC)
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	bk := protected.Group("/bookkeeping")
	bk.Get("/plans", bookkeepingHandler.Plans)
	bk.Get("/subscription/:businessId", bookkeepingHandler.Get)
	bk.Post("/subscriptions", bookkeepingHandler.Subscribe)
	bk.Patch("/subscription/:businessId", bookkeepingHandler.Update)
	bk.Get("/documents", documentHandler.ListBookkeeping)
	bk.Post("/documents", documentHandler.UploadBookkeeping)
	bk.Get("/documents/:id/download", documentHandler.Download)
	bk.Patch("/documents/:id/archive", documentHandler.Archive)

	clientDocs := protected.Group("/client/documents")
	clientDocs.Get("/", documentHandler.ListForClient)
	clientDocs.Get("/:id/download", documentHandler.Download)

	healthHandler := NewHealthHandler(deps.HealthUC)
	health := protected.Group("/health")
	health.Get("/dashboard/:businessId", healthHandler.Dashboard)
	health.Get("/insights/:businessId", healthHandler.Insights)
	health.Post("/insights/:businessId/dismiss", healthHandler.Dismiss)

	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC)
	protected.Get("/stripe/config", checkoutHandler.StripeConfig)
	protected.Post("/create-payment-intent", checkoutHandler.CreatePaymentIntent)
	tax := protected.Group("/tax-filing")
	tax.Get("/plans", checkoutHandler.TaxFilingPlans)
	tax.Post("/submit", checkoutHandler.SubmitTaxFiling)
	tax.Post("/orders/:id/confirm", checkoutHandler.ConfirmTaxFiling)

	analyticsHandler := NewAnalyticsHandler(deps.Analytics, deps.Tracker, deps.Auditor)
	protected.Post("/analytics/events", analyticsHandler.TrackFeature)

	// Administración (rol admin)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))

	clientHandler := NewClientHandler(deps.ClientUC)
	clients := admin.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.Get)
	clients.Patch("/:id", clientHandler.Update)
	clients.Patch("/:id/status", clientHandler.SetStatus)
	clients.Post("/:id/activation-token", authHandler.IssueActivation)
	clients.Get("/:id/business-entities", clientHandler.BusinessEntities)

	admin.Get("/subscription-plans", catalogHandler.ListPlans)
	admin.Post("/subscription-plans", catalogHandler.CreatePlan)
	admin.Put("/subscription-plans/:id", catalogHandler.UpdatePlan)
	admin.Delete("/subscription-plans/:id", catalogHandler.DeletePlan)
	admin.Get("/services", catalogHandler.ListServices)
	admin.Post("/services", catalogHandler.CreateService)
	admin.Put("/services/:id", catalogHandler.UpdateService)
	admin.Delete("/services/:id", catalogHandler.DeleteService)
	admin.Get("/plan-services", catalogHandler.ListPlanServices)
	admin.Post("/plan-services", catalogHandler.CreatePlanService)
	admin.Put("/plan-services/:id", catalogHandler.UpdatePlanService)
	admin.Delete("/plan-services/:id", catalogHandler.DeletePlanService)

	admin.Get("/ein/applications", einHandler.AdminList)
	admin.Patch("/ein/applications/:id/status", einHandler.AdminSetStatus)

	admin.Post("/mailbox/items", mailboxHandler.AdminCreateItem)
	admin.Get("/mailbox/actions", mailboxHandler.AdminListActions)
	admin.Patch("/mailbox/actions/:id", mailboxHandler.AdminUpdateAction)

	admin.Get("/analytics/dashboard", analyticsHandler.Dashboard)
	admin.Get("/analytics/users/:id/insights", analyticsHandler.UserInsights)
	admin.Post("/analytics/metrics/generate", analyticsHandler.GenerateMetrics)
	admin.Get("/analytics/metrics", analyticsHandler.ListMetrics)
	admin.Get("/audit-logs", analyticsHandler.AuditLogs)
}
