package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "resort_rooms/internal/adapters/http_server"
	"resort_rooms/internal/adapters/observability"
	"resort_rooms/internal/app"
	"resort_rooms/internal/bootstrap"
	"resort_rooms/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	deps, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the catalog; a failure here is not fatal, the first request retries the load.
	warm, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	if _, err := deps.Store.Load(warm); err != nil {
		log.Warn().Err(err).Msg("catalog warm-up failed")
	}
	cancel()

	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Rooms:    deps.Rooms,
		Sessions: app.NewSessions(deps.Rooms, 30*time.Minute),
		Catalog:  deps.Store,
		Admin:    deps.Admin,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("catalog", cfg.CatalogSource).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
