package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cesargomez89/leaktracker/internal/cache"
	"github.com/cesargomez89/leaktracker/internal/config"
	"github.com/cesargomez89/leaktracker/internal/constants"
	httpapp "github.com/cesargomez89/leaktracker/internal/http"
	"github.com/cesargomez89/leaktracker/internal/httpclient"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/refresher"
	"github.com/cesargomez89/leaktracker/internal/sheets"
	"github.com/cesargomez89/leaktracker/internal/store"
	"github.com/cesargomez89/leaktracker/internal/tracker"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	trackerCache, err := cache.Open(cfg.CacheBackend, cfg.CachePath, db)
	if err != nil {
		appLogger.Error("Failed to open cache", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer trackerCache.Close()

	client := httpclient.NewWithTimeout(cfg.HTTPTimeout, cfg.FetchRate)
	fetcher := sheets.NewFetcher(client, cfg.SheetsBaseURL, appLogger)

	svc := tracker.NewService(tracker.Deps{
		Source:   fetcher,
		Cache:    trackerCache,
		Trackers: store.NewTrackerRepo(db),
		History:  store.NewHistoryRepo(db),
		Aliases:  tracker.AliasesFromConfig(cfg.Aliases),
		TTL:      cfg.CacheTTL,
		Logger:   appLogger,
	})
	defer svc.Search.Close()

	// Keep registered trackers warm
	ref := refresher.New(svc, cfg.RefreshEvery, cfg.CacheTTL, cfg.RefreshJobs, appLogger)
	ref.Start()
	defer ref.Stop()

	h := httpapp.NewHandler(svc, appLogger)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapp.NewRouter(h, cfg.CORSOrigins, cfg.HTTPTimeout*3),
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "cache", cfg.CacheBackend, "ttl", cfg.CacheTTL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
