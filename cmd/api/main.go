package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Logistica-api/internal/application/auth"
	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Logistica-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Logistica-api/internal/interfaces/http"
	"github.com/jhoicas/Logistica-api/pkg/config"
	"github.com/jhoicas/Logistica-api/pkg/logger"
	"github.com/jhoicas/Logistica-api/pkg/metrics"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de negocio")
	}

	ctx := log.Zerolog().WithContext(context.Background())
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	entityRepo := postgres.NewEntityRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	comunaRepo := postgres.NewComunaRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	pages := usecase.Pagination{DefaultLimit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit}
	authzSvc := authz.NewService(profileRepo, userRepo, tenantRepo)
	tenantUC := usecase.NewTenantUseCase(tenantRepo, userRepo, txRunner, pages)

	// Alta del tenant administrador inicial (idempotente)
	if cfg.Bootstrap.Enabled() {
		created, err := tenantUC.Bootstrap(ctx, usecase.BootstrapInput{
			TenantName:    cfg.Bootstrap.TenantName,
			TenantRUT:     cfg.Bootstrap.TenantRUT,
			AdminEmail:    cfg.Bootstrap.AdminEmail,
			AdminPassword: cfg.Bootstrap.AdminPassword,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap del tenant administrador")
		}
		log.Info().Bool("created", created).Str("rut", cfg.Bootstrap.TenantRUT).Msg("bootstrap del tenant administrador")
	}

	orderUC := usecase.NewOrderUseCase(orderRepo, partyRepo, entityRepo, addressRepo, catalogRepo, txRunner,
		usecase.OrderConfig{Location: loc, CodeRetries: cfg.Orders.CodeRetries}, pages)

	// PDF: guía de despacho de la orden
	documentUC := shipping.NewDocumentUseCase(shipping.Repositories{
		Orders:    orderRepo,
		Tenants:   tenantRepo,
		Parties:   partyRepo,
		Entities:  entityRepo,
		Addresses: addressRepo,
		Catalogs:  catalogRepo,
	}, infrapdf.NewMarotoOrderDocumentGenerator(), loc)

	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, authzSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	httpMetrics := metrics.NewHTTPMetrics(cfg.App.Name, nil)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(httpMetrics.Middleware())
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Logística API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", httpMetrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Authz:      authzSvc,
		TenantUC:   tenantUC,
		UserUC:     usecase.NewUserUseCase(userRepo, profileRepo, pages),
		ProfileUC:  usecase.NewProfileUseCase(profileRepo, txRunner, pages),
		RoleUC:     usecase.NewRoleUseCase(roleRepo, pages),
		PartyUC:    usecase.NewPartyUseCase(entityRepo, partyRepo, addressRepo, txRunner, pages),
		AddressUC:  usecase.NewAddressUseCase(addressRepo, comunaRepo, pages),
		CatalogUC:  usecase.NewCatalogUseCase(catalogRepo, pages),
		OrderUC:    orderUC,
		DocumentUC: documentUC,
		Denied:     httpMetrics,
		JWTSecret:  cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
