// Murmur - Social Feed and People Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/murmur

package main

import (
	"context"
	"time"

	"github.com/tomtom215/murmur/internal/database"
	"github.com/tomtom215/murmur/internal/graph"
	"github.com/tomtom215/murmur/internal/logging"
)

const (
	demoSeed        = 42
	demoSeedTimeout = 2 * time.Minute
)

// seedDemoData writes the same synthetic dataset to both stores. A graph
// failure is logged and skipped; the engine degrades without it.
func seedDemoData(db *database.DB, g *graph.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), demoSeedTimeout)
	defer cancel()

	data := database.GenerateDemoData(demoSeed, time.Now())

	if err := db.SeedDemoData(ctx, data); err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed demo data")
	}
	if err := g.Seed(ctx, data); err != nil {
		logging.Warn().Err(err).Msg("Failed to seed graph store, continuing without graph demo data")
		return
	}

	logging.Info().
		Int("users", len(data.Users)).
		Int("posts", len(data.Posts)).
		Int("interactions", len(data.Interactions)).
		Msg("Demo data seeded")
}
