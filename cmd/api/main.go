package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sqlrepo/internal/config"
	handlers "sqlrepo/internal/http/handler"
	"sqlrepo/internal/http/middleware"
	"sqlrepo/internal/logger"
	"sqlrepo/internal/otel"
	"sqlrepo/internal/provider"
	"sqlrepo/internal/repository"
	"sqlrepo/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger.Component(log, "otel"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	dbMetrics, err := provider.NewMetrics(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register provider metrics")
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	db, err := provider.New(ctx, cfg.Database,
		provider.WithLogger(logger.Component(log, "provider")),
		provider.WithMetrics(dbMetrics),
	)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	defer db.Close()

	itemRepo := repository.NewItemRepository(db)
	itemSvc := service.NewItemService(itemRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.Component(log, "http")))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, db, itemSvc, reg)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
