package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appeinvoice "github.com/facturis/efactura-pro/internal/application/einvoice"
	infraanaf "github.com/facturis/efactura-pro/internal/infrastructure/anaf"
	infraefactura "github.com/facturis/efactura-pro/internal/infrastructure/efactura"
	"github.com/facturis/efactura-pro/internal/infrastructure/postgres"
	httpRouter "github.com/facturis/efactura-pro/internal/interfaces/http"
	"github.com/facturis/efactura-pro/pkg/config"
	"github.com/facturis/efactura-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("anaf_env", cfg.ANAF.Environment).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	documentRepo := postgres.NewEInvoiceDocumentRepository(pool)
	xmlBuilder := infraefactura.NewXMLBuilderService()

	// ANAF uploader: nil in dev, so the use case runs build-only.
	var uploader appeinvoice.Uploader
	if cfg.ANAF.Environment != infraanaf.EnvDev {
		client, err := infraanaf.NewRestClient(
			&http.Client{
				Timeout:   60 * time.Second,
				Transport: bearerTransport(cfg.ANAF.Token),
			},
			cfg.ANAF.Environment, cfg.ANAF.BaseURL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("ANAF client")
		}
		uploader = client
	}

	buildUC := appeinvoice.NewBuildEInvoiceUseCase(documentRepo, xmlBuilder, uploader, log)

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
		BuildEInvoice: buildUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

// bearerTransport injects the ANAF OAuth token into outgoing requests. Token
// acquisition and refresh stay outside this service; this only attaches the
// configured value.
func bearerTransport(token string) http.RoundTripper {
	if token == "" {
		return http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
		return http.DefaultTransport.RoundTrip(req)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
