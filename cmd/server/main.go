package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicbridge/internal/chat"
	chathandler "civicbridge/internal/chat/handler"
	"civicbridge/internal/civic/congress"
	"civicbridge/internal/civic/fedreg"
	"civicbridge/internal/civic/geocodio"
	"civicbridge/internal/enrich"
	enrichhandler "civicbridge/internal/enrich/handler"
	"civicbridge/internal/explain"
	explainhandler "civicbridge/internal/explain/handler"
	"civicbridge/internal/maintenance"
	mainthandler "civicbridge/internal/maintenance/handler"
	"civicbridge/internal/platform/config"
	"civicbridge/internal/platform/httpserver"
	"civicbridge/internal/platform/logger"
	"civicbridge/internal/platform/metrics"
	"civicbridge/internal/platform/middleware"
	platformredis "civicbridge/internal/platform/redis"
	"civicbridge/internal/policyhub"
	policyhubhandler "civicbridge/internal/policyhub/handler"
	"civicbridge/internal/repcache"
	repmetrics "civicbridge/internal/repcache/metrics"
	"civicbridge/pkg/platform/httputil"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Representative cache store: Postgres when a database URL is configured,
	// the embedded SQLite file otherwise.
	var repStore repcache.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("opening postgres: %w", err)
		}
		defer db.Close()

		store, err := repcache.NewPostgres(ctx, db)
		if err != nil {
			return fmt.Errorf("preparing postgres cache store: %w", err)
		}
		repStore = store
	} else {
		store, err := repcache.OpenSQLiteStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening sqlite cache store: %w", err)
		}
		defer store.Close()
		repStore = store
	}

	cache := repcache.NewCache(repStore, cfg.CacheTTL, log, repmetrics.New())

	// Chat history store: Redis when configured, the SQLite file otherwise.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	var chatStore chat.Store
	if redisClient != nil {
		defer redisClient.Close()
		chatStore = chat.NewRedisStore(redisClient.Client, cfg.ChatRetention)
	} else {
		store, err := chat.OpenSQLiteStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening sqlite chat store: %w", err)
		}
		defer store.Close()
		chatStore = store
	}

	geoClient := geocodio.New(geocodio.Config{
		APIKey:  cfg.GeocodioAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	congressClient := congress.New(congress.Config{
		APIKey:  cfg.CongressAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})
	fedregClient := fedreg.New(fedreg.Config{
		Timeout: cfg.UpstreamTimeout,
	})

	apiKey := cfg.GeminiAPIKey
	if cfg.ExplainProvider == "openai" {
		apiKey = cfg.OpenAIAPIKey
	}
	completer, err := explain.NewCompleter(explain.ProviderConfig{
		Provider: cfg.ExplainProvider,
		APIKey:   apiKey,
		Timeout:  cfg.UpstreamTimeout,
	})
	if err != nil {
		return fmt.Errorf("configuring completion provider: %w", err)
	}

	enrichSvc := enrich.New(geoClient, congressClient, congressClient, cache, log, cfg.MaxLegislators, cfg.ActivityLimit)
	policySvc := policyhub.New(fedregClient, congressClient, log)
	explainSvc := explain.New(completer, fedregClient, congressClient, log)
	chatSvc := chat.New(completer, chatStore, cache, log)
	sweeper := maintenance.NewSweeper(cache, chatStore, cfg.ChatRetention, log)

	httpMetrics := metrics.NewHTTP()

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(httpMetrics))

	router.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "pong"})
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	enrichhandler.New(enrichSvc, cache, log).Register(router)
	policyhubhandler.New(policySvc, log).Register(router)
	explainhandler.New(explainSvc, log).Register(router)
	chathandler.New(chatSvc, log).Register(router)
	mainthandler.New(sweeper, log).Register(router)

	worker := maintenance.NewWorker(sweeper, cfg.SweepInterval)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("maintenance worker stopped", "error", err)
		}
	}()

	srv := httpserver.New(cfg.Addr, router)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	log.Info("civicbridge listening", "addr", cfg.Addr)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("civicbridge stopped")
	return nil
}
