package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"credit-scoring-api/internal/adapters/primary/http/handlers"
	"credit-scoring-api/internal/adapters/primary/http/middleware"
	"credit-scoring-api/internal/adapters/secondary/artifact"
	"credit-scoring-api/internal/adapters/secondary/csvtable"
	"credit-scoring-api/internal/adapters/secondary/model"
	"credit-scoring-api/internal/adapters/secondary/postgres"
	"credit-scoring-api/internal/adapters/secondary/prometheus"
	"credit-scoring-api/internal/adapters/secondary/watcher"
	"credit-scoring-api/internal/config"
	ports "credit-scoring-api/internal/core/ports/output"
	"credit-scoring-api/internal/core/services"
	"credit-scoring-api/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCloser := logging.Init(cfg.Logger)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	registry := promclient.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := prometheus.NewMetrics(registry)

	// Secondary Adapters (Output Ports - Repositories)
	resolver := artifact.NewResolver(cfg.Artifacts.Dirs, cfg.Artifacts.SearchRoot)
	modelRepo := model.NewModelRepository(resolver, cfg.Artifacts.ModelFile)

	var tableRepo ports.FeatureTableRepository
	switch cfg.Artifacts.TableSource {
	case config.TableSourcePostgres:
		pool := openPool(ctx, cfg.Database)
		defer pool.Close()
		tableRepo = postgres.NewFeatureTableRepository(pool, cfg.Database.Table, cfg.Artifacts.IDColumn)
	default:
		tableRepo = csvtable.NewTableRepository(resolver, cfg.Artifacts.TableFile, cfg.Artifacts.IDColumn)
	}

	// Core Services (Application Layer)
	store := services.NewArtifactStore(tableRepo, modelRepo, metrics)
	if err := store.Load(ctx); err != nil {
		log.WithError(err).Warn("artifacts unavailable at startup, requests will report the load error")
	}

	if cfg.Artifacts.Watch {
		startWatcher(ctx, cfg, resolver, store)
	}

	scoringSvc := services.NewScoringService(store, services.ScoringConfig{
		Threshold:          cfg.Scoring.Threshold,
		AttributionEnabled: cfg.Scoring.AttributionEnabled,
		TopK:               cfg.Scoring.TopK,
	}, metrics)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(scoringSvc, store)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery(), middleware.CORS())

	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	api := router.Group("", middleware.APIKey(cfg.APIKey))
	h.RegisterRoutes(api)

	// Start server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openPool(ctx context.Context, db config.DatabaseConfig) *pgxpool.Pool {
	poolCfg, err := pgxpool.ParseConfig(db.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Warnf("ping db: %v", err)
	} else {
		log.Info("database connection established")
	}
	return pool
}

// startWatcher reloads file-backed artifacts when they change on disk.
func startWatcher(ctx context.Context, cfg *config.Config, resolver *artifact.Resolver, store *services.ArtifactStore) {
	targets := make(map[string]watcher.ReloadFunc)

	if path, err := resolver.Resolve(cfg.Artifacts.ModelFile); err == nil {
		targets[path] = store.ReloadModel
	} else {
		log.WithError(err).Warn("model file not watched")
	}
	if cfg.Artifacts.TableSource == config.TableSourceCSV {
		if path, err := resolver.Resolve(cfg.Artifacts.TableFile); err == nil {
			targets[path] = store.ReloadTable
		} else {
			log.WithError(err).Warn("feature table not watched")
		}
	}
	if len(targets) == 0 {
		return
	}

	w, err := watcher.New(targets)
	if err != nil {
		log.WithError(err).Warn("artifact watcher disabled")
		return
	}
	go w.Run(ctx)
	log.WithField("files", len(targets)).Info("artifact watcher started")
}
