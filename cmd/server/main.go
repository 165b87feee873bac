package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/rpattn/recordbase/internal/config"
	"github.com/rpattn/recordbase/internal/db"
	"github.com/rpattn/recordbase/internal/domain"
	"github.com/rpattn/recordbase/internal/events"
	"github.com/rpattn/recordbase/internal/export"
	"github.com/rpattn/recordbase/internal/fetch"
	"github.com/rpattn/recordbase/internal/importer"
	"github.com/rpattn/recordbase/internal/middleware"
	"github.com/rpattn/recordbase/internal/store"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local overrides for development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, cfg.Server.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire the pipeline
	client := store.NewPostgresClient(conn.Pool)
	engine := fetch.NewEngine(client)
	bus := events.NewBus()

	importServices := map[string]*importer.Service{}
	for _, table := range domain.Tables() {
		dest := importer.NewStoreDestination(client, table)
		importServices[table.Name] = importer.NewService(dest, bus)
	}

	exportService := export.NewService(engine)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	wrap := func(h http.Handler) http.Handler {
		return corsHandler.Handler(middleware.LoggingMiddleware(middleware.UserScopeMiddleware(h)))
	}

	mux := http.NewServeMux()
	mux.Handle("/api/tables/", wrap(fetch.NewHTTPHandler(engine)))
	mux.Handle("/api/imports/", wrap(importer.NewHTTPHandler(importServices)))
	mux.Handle("/api/exports/", wrap(export.NewHTTPHandler(exportService)))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		log.Printf("Table pages available at http://localhost%s/api/tables/contacts", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
