package main

import (
	"context"
	"log"
	"time"

	"github.com/01moynul/inventory-tracker/internal/config"
	"github.com/01moynul/inventory-tracker/internal/database"
	"github.com/01moynul/inventory-tracker/internal/handlers"
	"github.com/01moynul/inventory-tracker/internal/routes"
	"github.com/01moynul/inventory-tracker/internal/store"
	"github.com/gin-gonic/gin"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 1. --- Item Store ---
	items, closeStore, err := openStore(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open item store: %v", err)
	}
	defer closeStore()

	// --- Application Setup ---
	app := handlers.New(items)

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   cfg.StaticDir,
	})

	// --- Start Server ---
	log.Printf("Starting inventory API server on %s (store: %s)...", cfg.Addr(), cfg.Database.Driver)
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openStore connects the configured backend and makes sure the schema exists.
func openStore(cfg config.Database) (store.ItemStore, func(), error) {
	if cfg.Driver == "memory" {
		log.Println("WARNING: Using in-memory item store. Data is lost on restart.")
		return store.NewMemoryStore(), func() {}, nil
	}

	dialect, err := store.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	sqlStore := store.NewSQLStore(db, dialect)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sqlStore.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return sqlStore, func() { db.Close() }, nil
}
