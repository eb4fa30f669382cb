package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/bootstrap"
	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/logger"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/observability"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver"
)

// @title Cover Console API
// @version 1.0
// @description Cover art production console: projects, collections, generations and cover selection.
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	infra      *bootstrap.Infrastructure
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, infra *bootstrap.Infrastructure, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		infra:      infra,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	defer a.infra.Close()
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	infra, services, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("assemble application")
	}

	httpServer := bootstrap.NewHTTPServer(cfg, infra, services, log)
	app := NewApplication(httpServer, infra, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
