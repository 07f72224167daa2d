package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/secdigest/secdigest/app/api"
	"github.com/secdigest/secdigest/app/cfg"
	"github.com/secdigest/secdigest/app/database"
	"github.com/secdigest/secdigest/app/digest"
	"github.com/secdigest/secdigest/app/feed"
	"github.com/secdigest/secdigest/app/summary"
	"github.com/secdigest/secdigest/app/tasks"
)

func main() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting SecDigest server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	itemRepo := database.NewItemRepository(db)
	summaryRepo := database.NewSummaryRepository(db)

	httpClient := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
	}

	catalog, err := feed.NewCatalog(appCfg.OpmlURL, appCfg.MaxFeeds, httpClient, appCfg.UserAgent)
	if err != nil {
		slog.Error("Failed to initialize source catalog", "error", err)
		os.Exit(1)
	}

	fetcher := digest.NewFetcher(httpClient, appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeout)*time.Second, appCfg.FetchRate)
	runner := digest.NewRunner(catalog, fetcher, feed.NewParser(), itemRepo,
		appCfg.HoursBack, appCfg.MaxItems, appCfg.ChunkSize)

	summarizer := summary.New(appCfg.OpenAIAPIKey, appCfg.OpenAIModel, httpClient, summaryRepo, appCfg.UserAgent)
	if summarizer.Enabled() {
		slog.Info("AI summarization enabled", "model", appCfg.OpenAIModel)
	} else {
		slog.Info("AI summarization disabled (OPENAI_API_KEY not set)")
	}

	scheduler := tasks.NewScheduler(runner, summaryRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "refresh_interval", fmt.Sprintf("%dm", appCfg.RefreshInterval))

	handler := api.NewHandler(itemRepo, runner, summarizer)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
