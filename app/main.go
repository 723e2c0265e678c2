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

	"github.com/biopulse/bioradar/app/api"
	"github.com/biopulse/bioradar/app/cfg"
	"github.com/biopulse/bioradar/app/database"
	"github.com/biopulse/bioradar/app/expand"
	"github.com/biopulse/bioradar/app/news"
	"github.com/biopulse/bioradar/app/watchlist"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
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
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting BioRadar server", "version", appCfg.Version)

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

	watchlistRepo := database.NewWatchlistRepository(db)

	// Register file-defined watchlists so they are editable through the API.
	loader := watchlist.NewLoader(appCfg.WatchlistsDir)
	watchlists, err := loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load watchlists", "dir", appCfg.WatchlistsDir, "error", err)
		os.Exit(1)
	}
	registered := 0
	for _, w := range watchlists {
		if err := watchlistRepo.Upsert(w); err != nil {
			slog.Warn("Failed to register watchlist", "watchlist", w.Name, "error", err)
			continue
		}
		slog.Info("Registered watchlist", "watchlist", w.Name,
			"keywords", len(w.Keywords), "targets", len(w.Targets))
		registered++
	}
	slog.Info("Watchlists registered", "registered", registered, "loaded", len(watchlists))

	var expander news.Expander
	if appCfg.OpenAIKey != "" {
		expander = expand.NewOpenAIExpander(appCfg.OpenAIKey, appCfg.OpenAIBaseURL,
			appCfg.OpenAIModel, appCfg.MaxExpansions, 10*time.Second)
		slog.Info("Keyword expansion enabled", "model", appCfg.OpenAIModel)
	} else {
		slog.Info("Keyword expansion disabled (OPENAI_API_KEY not set)")
	}

	httpClient := &http.Client{Timeout: time.Duration(appCfg.FetchTimeout) * time.Second}

	planner := news.NewPlanner(expander, appCfg.MaxExpansions)
	sources := []news.Source{
		news.NewGoogleNewsSource(httpClient, appCfg.UserAgent, news.SourceWebSearch),
		news.NewGoogleNewsSource(httpClient, appCfg.UserAgent, news.SourceAISearch),
		news.NewCompanySource(httpClient, appCfg.UserAgent),
	}

	gatherer := news.NewGatherer(planner, sources, news.Options{
		WorkerCount:   appCfg.WorkerCount,
		FetchTimeout:  time.Duration(appCfg.FetchTimeout) * time.Second,
		GatherTimeout: time.Duration(appCfg.GatherTimeout) * time.Second,
	})

	apiHandler := api.NewHandler(gatherer, watchlistRepo)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Duration(appCfg.GatherTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("BioRadar server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("BioRadar server shutdown complete")
}
