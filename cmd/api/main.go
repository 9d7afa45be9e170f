package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/bizdesk-api/docs"
	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/application/auth"
	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/application/usecase"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/cache"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/payments"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/pdf"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/pii"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/bizdesk-api/internal/interfaces/http"
	"github.com/jhoicas/bizdesk-api/pkg/config"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// @title                       BizDesk API
// @version                     1.0
// @description                 Plataforma de cumplimiento para pequeñas empresas: entidades, reportes anuales, EIN, buzón digital, contabilidad y pagos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := migrations.UpAll(cfg.DB, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	dbs, err := postgres.NewManager(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer dbs.CloseAll()
	log.Info().Strs("stores", dbs.Configured()).Msg("bases de datos configuradas")

	// Repositorios por base lógica
	userRepo := postgres.NewUserRepository(dbs.Main())
	entityRepo := postgres.NewBusinessEntityRepository(dbs.Main())
	reportRepo := postgres.NewAnnualReportRepository(dbs.Main())
	einRepo := postgres.NewEinApplicationRepository(dbs.Main())
	mailboxRepo := postgres.NewMailboxRepository(dbs.Main())
	bookkeepingRepo := postgres.NewBookkeepingRepository(dbs.Main())
	planRepo := postgres.NewPlanRepository(dbs.Main())
	serviceRepo := postgres.NewServiceRepository(dbs.Main())
	planServiceRepo := postgres.NewPlanServiceRepository(dbs.Main())
	orderRepo := postgres.NewTaxFilingOrderRepository(dbs.Main())
	dismissalRepo := postgres.NewInsightDismissalRepository(dbs.Main())
	documentRepo := postgres.NewDocumentRepository(dbs.ForDataType("documents"))
	auditRepo := postgres.NewAuditLogRepository(dbs.ForDataType("audit"))
	analyticsRepo := postgres.NewAnalyticsRepository(dbs.ForDataType("analytics"))
	txRunner := postgres.NewTxRunner(dbs.Write())

	tracker := analytics.NewTracker(analyticsRepo, analytics.TrackerConfig{
		QueueSize: cfg.Analytics.QueueSize,
		Workers:   cfg.Analytics.Workers,
	}, log)
	tracker.Start(ctx)
	analyticsSvc := analytics.NewService(analyticsRepo, log)

	docStorage := storage.New(ctx, cfg.S3, documentRepo, usecase.MaxUploadBytes, log)
	idemStore, closeIdem := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
	defer func() { _ = closeIdem() }()

	var gateway ports.PaymentGateway
	if stripeGW, err := payments.NewStripeGateway(cfg.Stripe, log); err != nil {
		log.Warn().Err(err).Msg("Stripe no configurado; pagos deshabilitados")
	} else {
		gateway = stripeGW
	}

	var vault *pii.Vault
	if cfg.PII.EncryptionKey != "" {
		vault, err = pii.NewVault(cfg.PII.EncryptionKey)
	} else {
		log.Warn().Msg("PII_ENCRYPTION_KEY vacío; se usa una clave efímera (los datos cifrados no sobreviven al reinicio)")
		vault, err = pii.NewEphemeralVault()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("cifrado de PII")
	}

	auditor := usecase.NewAuditor(auditRepo, log)
	documentUC := usecase.NewDocumentUseCase(documentRepo, docStorage, entityRepo, tracker, log)
	authUC := auth.NewAuthUseCase(userRepo, tracker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var rollups *scheduler.RollupScheduler
	if cfg.Analytics.RollupEnabled {
		rollups, err = scheduler.New(analyticsSvc, scheduler.Config{DailySpec: cfg.Analytics.DailyCron}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("programador de rollups")
		}
		rollups.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log, tracker),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.RequestLogger(log, tracker))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "BizDesk API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ClientUC:         usecase.NewClientUseCase(userRepo, entityRepo, auditor),
		BusinessEntityUC: usecase.NewBusinessEntityUseCase(entityRepo, userRepo, auditor),
		CatalogUC:        usecase.NewCatalogUseCase(planRepo, serviceRepo, planServiceRepo, auditor),
		AnnualReportUC:   usecase.NewAnnualReportUseCase(reportRepo, entityRepo, pdf.NewReceiptGenerator(cfg.App.Name), auditor),
		EinUC:            usecase.NewEinUseCase(einRepo, entityRepo, txRunner, vault, auditor),
		MailboxUC:        usecase.NewMailboxUseCase(mailboxRepo, entityRepo, documentUC, auditor),
		BookkeepingUC:    usecase.NewBookkeepingUseCase(bookkeepingRepo, entityRepo),
		DocumentUC:       documentUC,
		// el puntaje de salud solo lee: va a la réplica si existe
		HealthUC: usecase.NewHealthUseCase(usecase.HealthDeps{
			Entities:    postgres.NewBusinessEntityRepository(dbs.Read()),
			Reports:     postgres.NewAnnualReportRepository(dbs.Read()),
			Ein:         postgres.NewEinApplicationRepository(dbs.Read()),
			Bookkeeping: postgres.NewBookkeepingRepository(dbs.Read()),
			Mailbox:     postgres.NewMailboxRepository(dbs.Read()),
			Documents:   documentRepo,
			Activity:    analyticsRepo,
			Dismissals:  dismissalRepo,
		}, log),
		CheckoutUC: usecase.NewCheckoutUseCase(gateway, idemStore, orderRepo, entityRepo, tracker, log),
		Auditor:    auditor,
		Analytics:  analyticsSvc,
		Tracker:    tracker,
		Databases:  dbs,

		JWTSecret:          cfg.JWT.Secret,
		LoginRatePerMinute: cfg.JWT.LoginRatePerMinute,
		ServiceName:        cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := tracker.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("eventos de analítica pendientes descartados")
	}
	if rollups != nil {
		rollups.Stop(shutdownCtx)
	}

	log.Info().Msg("aplicación detenida")
}
