package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/subscribe-forwarder/internal/config"
	"github.com/deppfellow/subscribe-forwarder/internal/handler"
	"github.com/deppfellow/subscribe-forwarder/internal/logger"
	"github.com/deppfellow/subscribe-forwarder/internal/router"
	"github.com/deppfellow/subscribe-forwarder/internal/server"
	"github.com/deppfellow/subscribe-forwarder/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

// run returns the process exit code. Deferred cleanup, including the New
// Relic flush, always runs before main exits.
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Error().Err(err).Msg("failed to load config")
		return 1
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return 1
	}

	services, err := service.NewServices(srv)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		return 1
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error().Err(err).Msg("failed to start server")
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return 1
	}

	if exitCode == 0 {
		log.Info().Msg("server exited properly")
	}
	return exitCode
}
