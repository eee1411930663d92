package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"geotruth/internal/api"
	"geotruth/pkg/cache"
	"geotruth/pkg/config"
	"geotruth/pkg/db"
	"geotruth/pkg/enrich"
	"geotruth/pkg/llm"
	"geotruth/pkg/llm/gemini"
	"geotruth/pkg/logging"
	"geotruth/pkg/narration"
	"geotruth/pkg/poi"
	"geotruth/pkg/probe"
	"geotruth/pkg/request"
	"geotruth/pkg/tracker"
	"geotruth/pkg/valhalla"
	"geotruth/pkg/version"
)

var configPath = flag.String("config", "configs/geotruth.yaml", "Path to config file")

func main() {
	flag.Parse()

	// Credentials may live in a .env during development; missing file is fine.
	_ = godotenv.Load()

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("GeoTruth API Started", "version", version.Version, "environment", appCfg.Environment)

	// Cache: Redis when reachable, in-memory otherwise. An unreachable
	// Redis at startup still gets the connection (it may come back); only a
	// malformed URL forces the in-memory fallback.
	var cacher cache.Cacher
	redisCache, err := cache.NewRedis(appCfg.Redis.URL, "geotruth")
	if err != nil {
		slog.Warn("Invalid Redis URL, falling back to in-memory cache", "error", err)
		cacher = cache.NewMemory()
	} else {
		defer redisCache.Close()
		cacher = redisCache
	}

	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	poiStore := poi.NewStore(dbConn)

	tr := tracker.New()
	reqClient := request.New(cacher, tr)
	valhallaClient := valhalla.New(appCfg.Valhalla.URL, reqClient)

	// LLM provider stays nil without a credential; narration then serves
	// the placeholder response.
	var provider llm.Provider
	if appCfg.LLM.Key != "" {
		geminiClient, err := gemini.NewClient(gemini.Options{
			APIKey:          appCfg.LLM.Key,
			Model:           appCfg.LLM.Model,
			Temperature:     appCfg.Narration.Temperature,
			MaxOutputTokens: appCfg.Narration.MaxOutputTokens,
		}, tr)
		if err != nil {
			return fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		defer geminiClient.Close()
		provider = geminiClient
	} else {
		slog.Warn("GEMINI_API_KEY not configured, narration runs in placeholder mode")
	}

	narrationSvc := narration.New(provider, appCfg.LLM.Model)
	enrichSvc := enrich.New(cacher, poiStore, nil)

	// Startup probes (all non-critical; the service starts degraded)
	results := probe.Run(ctx, probe.ServiceProbes(cacher, dbConn, valhallaClient, provider))
	if err := results.Err(); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	handlers := api.Handlers{
		Export:   api.NewExportHandler(appCfg.Narration.ReadingSpeedWPM),
		Narrate:  api.NewNarrateHandler(narrationSvc),
		Enrich:   api.NewEnrichHandler(enrichSvc),
		MapMatch: api.NewMapMatchHandler(valhallaClient),
		Health:   api.NewHealthHandler(appCfg.Environment, cacher, dbConn, valhallaClient),
		Stats:    api.NewStatsHandler(tr),
	}

	origins := appCfg.AllowedOrigins
	if appCfg.Environment == "development" {
		origins = nil // allow everything locally
	}
	srv := api.NewServer(appCfg.Server.Address, handlers, origins)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
