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

	"github.com/contentflow/contentflow/app/api"
	"github.com/contentflow/contentflow/app/cfg"
	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/enhance"
	"github.com/contentflow/contentflow/app/ratelimit"
	"github.com/contentflow/contentflow/app/scrape"
	"github.com/contentflow/contentflow/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting ContentFlow server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	articleRepo := database.NewArticleRepository(db)

	sourceCache := scrape.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load scrape sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Scrape sources loaded", "count", sourceCache.GetSourceCount())

	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	scraper := scrape.NewScraper(httpClient, appCfg.UserAgent)

	searchClient := enhance.NewSearchAPIClient(appCfg.SearchAPIURL, appCfg.SearchAPIKey, httpClient)
	fetcher := enhance.NewFetcher(httpClient, enhance.NewExtractor(), appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeout)*time.Second)
	rewriter := enhance.NewGenerativeClient(appCfg.LLMAPIURL, appCfg.LLMAPIKey, httpClient,
		enhance.LengthPolicy{
			Policy:      appCfg.LengthPolicy,
			TargetWords: appCfg.TargetWordCount,
			Multiplier:  appCfg.LengthMultiplier,
		}, appCfg.ReferenceChars)
	pipeline := enhance.NewPipeline(searchClient, fetcher, rewriter, appCfg.SearchLimit)

	limiter := ratelimit.NewLimiter(time.Duration(appCfg.EnhanceInterval)*time.Second, appCfg.EnhanceJitter)
	defer limiter.Stop()

	scheduler := tasks.NewScheduler(sourceCache, articleRepo, scraper, pipeline, limiter)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	handler := api.NewHandler(articleRepo, pipeline, scheduler)
	server := api.NewServer(handler, appCfg.FrontendOrigin)

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

	slog.Info("Shutdown complete")
}
