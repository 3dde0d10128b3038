package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jcastillo/Taller-api/internal/application/auth"
	"github.com/jcastillo/Taller-api/internal/application/presupuesto"
	"github.com/jcastillo/Taller-api/internal/application/usecase"
	infraemail "github.com/jcastillo/Taller-api/internal/infrastructure/email"
	infrapdf "github.com/jcastillo/Taller-api/internal/infrastructure/pdf"
	"github.com/jcastillo/Taller-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcastillo/Taller-api/internal/interfaces/http"
	"github.com/jcastillo/Taller-api/pkg/config"
	"github.com/jcastillo/Taller-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	equipoRepo := postgres.NewEquipoRepository(pool)
	servicioRepo := postgres.NewServicioRepository(pool)
	presupuestoRepo := postgres.NewPresupuestoRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := infraemail.NewGomailSender(cfg.SMTP, log)
	pdfGenerator := infrapdf.NewMarotoPresupuestoGenerator()
	tokenSvc := presupuesto.NewTokenService(cfg.Tokens.TTLDias)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	clienteUC := usecase.NewClienteUseCase(clienteRepo, equipoRepo)
	servicioUC := usecase.NewServicioUseCase(servicioRepo, clienteRepo, equipoRepo)
	presupuestoUC := presupuesto.NewUseCase(
		presupuestoRepo, tokenRepo, servicioRepo, clienteRepo, equipoRepo,
		tokenSvc, txRunner, notifier, pdfGenerator, log, cfg.App.PublicURL,
	)
	publicUC := presupuesto.NewPublicUseCase(
		presupuestoRepo, tokenRepo, servicioRepo, clienteRepo, equipoRepo,
		tokenSvc, txRunner, notifier, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ClienteUC:     clienteUC,
		ServicioUC:    servicioUC,
		PresupuestoUC: presupuestoUC,
		PublicUC:      publicUC,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
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
