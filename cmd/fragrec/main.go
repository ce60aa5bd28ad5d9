package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/scentlab/fragrec/internal/catalog"
	"github.com/scentlab/fragrec/internal/config"
	"github.com/scentlab/fragrec/internal/db"
	dbRedis "github.com/scentlab/fragrec/internal/db/redis"
	"github.com/scentlab/fragrec/internal/domain"
	logpkg "github.com/scentlab/fragrec/internal/logger"
	"github.com/scentlab/fragrec/internal/metrics"
	"github.com/scentlab/fragrec/internal/repository/explcache"
	chiTransport "github.com/scentlab/fragrec/internal/transport/chi"
	openaiExpl "github.com/scentlab/fragrec/internal/transport/openai"
	healthuc "github.com/scentlab/fragrec/internal/usecase/health"
	recommenduc "github.com/scentlab/fragrec/internal/usecase/recommend"
	"github.com/scentlab/fragrec/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fragrec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
	)

	// Register recommendation metrics explicitly (no init())
	metrics.RegisterExplainMetrics()

	// Build the initial catalog snapshot. An empty or missing snapshot
	// is not fatal: the service answers with an explanatory message.
	holder := catalog.NewHolder(loadSnapshot(cfg.Catalog.Path, logger))

	// Optional explanation cache store
	var store db.Store
	if cfg.Cache.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to explanation cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	explainer := buildExplainer(cfg, store, logger)
	if explainer.IsAvailable() {
		logger.Info("Explanation provider configured", zap.String("model", cfg.LLM.Model))
	} else {
		logger.Info("No explanation provider configured, baseline justifications only")
	}

	// Create use case services
	recommendSvc := recommenduc.New(holder, explainer).
		WithLimits(cfg.Recommend.DefaultK, cfg.Recommend.MaxK, cfg.Recommend.ExplainLimit)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(holder, cachePinger, explainer)

	// Create chi server
	server := chiTransport.NewServer(recommendSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// SIGHUP swaps in a freshly loaded snapshot; in-flight requests keep
	// the snapshot they started with.
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			logger.Info("Reloading catalog", zap.String("path", cfg.Catalog.Path))
			holder.Swap(loadSnapshot(cfg.Catalog.Path, logger))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadSnapshot reads the catalog CSV and builds the similarity index.
// Failures degrade to an empty snapshot so the service stays up.
func loadSnapshot(path string, logger *zap.Logger) *catalog.Snapshot {
	items, err := catalog.LoadCSV(path)
	if err != nil {
		logger.Warn("Failed to load catalog, serving empty snapshot", zap.Error(err))
		items = nil
	}

	snap := catalog.NewSnapshot(items)
	metrics.CatalogSize.Set(float64(len(items)))
	logger.Info("Catalog snapshot built",
		zap.Int("items", len(items)),
		zap.Int("vocabulary", indexTerms(snap)),
	)
	return snap
}

func indexTerms(snap *catalog.Snapshot) int {
	if snap.Index == nil {
		return 0
	}
	return snap.Index.Terms()
}

// buildExplainer assembles the provider chain: OpenAI -> Cached.
// Without an API key the no-op provider is selected at startup, not
// checked per call.
func buildExplainer(cfg config.Config, store db.Store, logger *zap.Logger) domain.Explainer {
	if cfg.LLM.APIKey == "" {
		return domain.NoopExplainer{}
	}

	var explainer domain.Explainer = openaiExpl.NewExplainer(&openaiExpl.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	if store != nil {
		explainer = explcache.New(
			explainer, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.ExplainCacheTotal, logger,
		)
	}
	return explainer
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
