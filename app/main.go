package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vishalpokuri/inkle-task/app/api"
	"github.com/vishalpokuri/inkle-task/app/cfg"
	"github.com/vishalpokuri/inkle-task/app/customer"
	"github.com/vishalpokuri/inkle-task/app/store"
	"github.com/vishalpokuri/inkle-task/app/tasks"
	"github.com/vishalpokuri/inkle-task/app/upstream"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	log.Println("Starting Taxboard server...")

	// Load table view definitions
	log.Printf("Loading view definitions from %s...", appConfig.ViewsDir)
	viewCache := customer.NewViewCache(appConfig.ViewsDir)
	if err := viewCache.Run(); err != nil {
		log.Fatal("Failed to load view definitions:", err)
	}
	log.Printf("Loaded %d view definitions", viewCache.GetViewCount())

	// Initialize core components
	client := upstream.NewClient(&http.Client{}, appConfig.UpstreamURL,
		appConfig.UserAgent, appConfig.UpstreamTimeout, appConfig.UpstreamRateLimit)
	recordStore := store.NewStore(customer.NewNormalizer())

	// Initial load: records and countries are fetched concurrently, both
	// must land before the canonical collection is first computed.
	log.Printf("Fetching initial collections from %s...", appConfig.UpstreamURL)
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := tasks.NewLoader(client, recordStore).Run(loadCtx); err != nil {
		// The scheduler retries on its own; start degraded rather than die.
		log.Printf("Warning: initial load failed, continuing with empty collections: %v", err)
	}
	loadCancel()
	stats := recordStore.Stats()
	log.Printf("Loaded %d records and %d countries", stats.RecordCount, stats.CountryCount)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appConfig.WorkerCount)
	scheduler := tasks.NewScheduler(client, recordStore)
	scheduler.Start()
	defer scheduler.Stop()

	editor := customer.NewEditor(client, scheduler)

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(recordStore, viewCache, editor, scheduler)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Port)
		log.Printf("API endpoints available:")
		log.Printf("  Customers:     http://localhost:%s/customers", appConfig.Port)
		log.Printf("  Filters:       http://localhost:%s/customers/filters", appConfig.Port)
		log.Printf("  Countries:     http://localhost:%s/countries", appConfig.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appConfig.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appConfig.Port)

		if appConfig.APIAccessKey != "" {
			log.Printf("  Refresh:       http://localhost:%s/api/refresh (POST, requires API key)", appConfig.Port)
		} else {
			log.Printf("  Management endpoints: DISABLED (API_ACCESS_KEY not set)")
		}

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Taxboard server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Background scheduler stopped")

	log.Println("Taxboard server shutdown complete")
}
