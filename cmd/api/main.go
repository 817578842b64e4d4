package main

import (
	"context"
	"log"
	"time"

	"github.com/01moynul/marketfeed/internal/auth"
	"github.com/01moynul/marketfeed/internal/config"
	"github.com/01moynul/marketfeed/internal/database"
	"github.com/01moynul/marketfeed/internal/drafts"
	"github.com/01moynul/marketfeed/internal/handlers"
	"github.com/01moynul/marketfeed/internal/routes"
	"github.com/01moynul/marketfeed/internal/taxonomy"
	"github.com/01moynul/marketfeed/internal/upstream"
	"github.com/01moynul/marketfeed/internal/vehicle"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("CRITICAL ERROR: %v", err)
	}
	auth.SetSecret(cfg.JWTSecret)

	// 1. --- Draft Storage ---
	// With no DSN drafts live in memory and are lost on restart.
	var store drafts.Store
	if cfg.DSN != "" {
		db, err := database.OpenDB(cfg.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to primary database: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		store = drafts.NewMySQLStore(db)
	} else {
		log.Println("WARNING: DB_DSN_PRIMARY is not set. Drafts are kept in memory.")
		store = drafts.NewMemoryStore()
	}

	// 2. --- Listings API Client ---
	options := vehicle.MustLoad(time.Now())
	client := upstream.NewClient(cfg.UpstreamBaseURL, options)

	// --- Application Setup ---
	app := &handlers.Handlers{
		Upstream: client,
		Resolver: taxonomy.NewResolver(),
		Drafts:   store,
		Options:  options,

		ServerFiltering: cfg.ServerFilters,
	}

	// 3. --- Warm the category set ---
	// A failure here is not fatal; the first request retries.
	ctx, cancel := context.WithTimeout(context.Background(), upstream.DefaultTimeout)
	if err := app.LoadCategories(ctx); err != nil {
		log.Printf("WARNING: initial category load failed: %v", err)
	}
	cancel()

	// --- Router Setup ---
	router := routes.SetupRouter(app, cfg.CORSOrigins)

	// --- Start Server ---
	log.Printf("Starting marketfeed API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
