// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/murmur/internal/api"
	"github.com/tomtom215/murmur/internal/cache"
	"github.com/tomtom215/murmur/internal/config"
	"github.com/tomtom215/murmur/internal/database"
	"github.com/tomtom215/murmur/internal/eventprocessor"
	"github.com/tomtom215/murmur/internal/graph"
	"github.com/tomtom215/murmur/internal/logging"
	"github.com/tomtom215/murmur/internal/metrics"
	"github.com/tomtom215/murmur/internal/recommend"
	"github.com/tomtom215/murmur/internal/supervisor"
	"github.com/tomtom215/murmur/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Sequential component setup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("graph_uri", cfg.Graph.URI).
		Str("cache_backend", string(cfg.Cache.Backend)).
		Bool("views_async", cfg.Views.Async).
		Msg("Starting Murmur")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	graphClient, err := graph.New(cfg.Graph)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create graph client")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := graphClient.Close(ctx); err != nil {
			logging.Error().Err(err).Msg("Error closing graph client")
		}
	}()

	if cfg.Database.SeedDemoData {
		seedDemoData(db, graphClient)
	}

	cacheStore, err := cache.New(cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create cache store")
	}
	defer func() {
		if err := cacheStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	recorder, pipeline, err := eventprocessor.NewRecorder(cfg.Views, db, logging.WithComponent("views"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create view recorder")
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, db, graphClient, logging.WithComponent("recommend"),
		recommend.WithCache(cacheStore),
		recommend.WithViewRecorder(recorder),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	handler := api.NewHandler(engine, version, healthChecks(db, graphClient, cacheStore)...)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.Routes(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger(logging.WithComponent("supervisor")),
		supervisor.TreeConfig{ShutdownTimeout: cfg.Server.ShutdownTimeout},
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if pipeline != nil {
		tree.AddDataService(services.NewViewPipelineService(pipeline))
		defer func() {
			if err := pipeline.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing view pipeline")
			}
		}()
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Ops server listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor stopped with error")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Murmur stopped")
}

// healthChecks lists the dependencies /healthz probes. Only the database is
// required: without the graph or the cache the engine still answers.
func healthChecks(db *database.DB, g *graph.Client, store cache.Store) []api.HealthCheck {
	checks := []api.HealthCheck{
		{Name: "database", Ping: db.Ping, Required: true},
		{Name: "graph", Ping: g.Ping},
	}
	if p, ok := store.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, api.HealthCheck{Name: "cache", Ping: p.Ping})
	}
	return checks
}
