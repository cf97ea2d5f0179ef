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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/oradigit/orderhelper/internal/config"
	"github.com/oradigit/orderhelper/internal/db"
	dbRedis "github.com/oradigit/orderhelper/internal/db/redis"
	logpkg "github.com/oradigit/orderhelper/internal/logger"
	"github.com/oradigit/orderhelper/internal/metrics"
	"github.com/oradigit/orderhelper/internal/repository/rules"
	chiTransport "github.com/oradigit/orderhelper/internal/transport/chi"
	openaiCompletion "github.com/oradigit/orderhelper/internal/transport/openai"
	cataloguc "github.com/oradigit/orderhelper/internal/usecase/catalog"
	healthuc "github.com/oradigit/orderhelper/internal/usecase/health"
	justifyuc "github.com/oradigit/orderhelper/internal/usecase/justify"
	matchuc "github.com/oradigit/orderhelper/internal/usecase/match"
	suggestuc "github.com/oradigit/orderhelper/internal/usecase/suggest"
	"github.com/oradigit/orderhelper/internal/version"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting orderhelper API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Strings("storage_addrs", cfg.Storage.Addrs),
	)

	ctx := context.Background()

	// The rule store is optional: without addresses the service runs on
	// files, URLs, and the embedded defaults alone.
	var store db.Store
	if cfg.Storage.Enabled() {
		switch cfg.Storage.Driver {
		case "valkey", "redis":
			// Both drivers speak the same protocol for every command the
			// store issues, so one client serves either.
			store, err = dbRedis.NewStore(dbRedis.Config{
				Addrs:    cfg.Storage.Addrs,
				Password: cfg.Storage.Password,
			})
		default:
			logger.Fatal("Unknown storage driver", zap.String("driver", cfg.Storage.Driver))
		}
		if err != nil {
			logger.Fatal("Failed to create rule store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Rule store not ready", zap.Error(err))
		}
		logger.Info("Connected to rule store")
	}

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	// Rule sources in merge order: files, then URLs, then the store.
	// Later sources win id collisions.
	sources := buildSources(cfg, store)

	catalogSvc := cataloguc.New(sources, logger)
	if store != nil {
		snapshots := rules.NewSnapshotStore(
			store,
			cfg.Storage.KeyPrefix+"catalog:snapshot",
			time.Duration(cfg.Storage.SnapshotTTLSec)*time.Second,
		)
		catalogSvc.WithSnapshots(snapshots)
	}

	if cfg.Sources.RebuildOn == "startup" {
		build := catalogSvc.Rebuild(ctx)
		logger.Info("Initial catalog built",
			zap.Int("records", build.Catalog.Len()),
			zap.Int("warnings", len(build.Warnings)),
		)
	}

	matcher := matchuc.New()
	if t, ok := thresholdOverrides(cfg.Match); ok {
		matcher.WithThresholds(t)
	}

	suggestSvc := suggestuc.New(catalogSvc, matcher, logger).
		WithMaxCodes(cfg.Match.MaxCodes)

	// Completion provider is optional; without it /v1/justify answers 502.
	var completer justifyuc.ChatCompleter
	var completionChecker healthuc.CompletionChecker
	if cfg.Justify.Enabled() {
		c := openaiCompletion.NewCompleter(&openaiCompletion.Config{
			APIKey:      cfg.Justify.APIKey,
			BaseURL:     cfg.Justify.BaseURL,
			Model:       cfg.Justify.Model,
			Temperature: cfg.Justify.Temperature,
			MaxTokens:   cfg.Justify.MaxTokens,
			Logger:      logger,
		})
		completer = c
		completionChecker = c
		logger.Info("Justify provider configured", zap.String("model", cfg.Justify.Model))
	}
	justifySvc := justifyuc.New(completer, logger)

	// Pass nil interface (not typed nil pointer!) if the store is not
	// configured. Go gotcha: (db.Store)(nil) wrapped in StorePinger != nil.
	var storePinger healthuc.StorePinger
	if store != nil {
		storePinger = store
	}
	healthSvc := healthuc.New(catalogSvc, storePinger, completionChecker)

	// Create chi server
	server := chiTransport.NewServer(catalogSvc, suggestSvc, justifySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

// buildSources assembles the rule source list in configured merge order.
func buildSources(cfg config.Config, store db.Store) []rules.Source {
	var sources []rules.Source
	for _, f := range cfg.Sources.Files {
		sources = append(sources, rules.NewFileSource(f.Path).WithModalityHint(f.ModalityHint))
	}
	for _, u := range cfg.Sources.URLs {
		sources = append(sources, rules.NewHTTPSource(u.URL).WithModalityHint(u.ModalityHint))
	}
	if cfg.Sources.UseStore && store != nil {
		sources = append(sources, rules.NewStoreSource(store, cfg.Storage.KeyPrefix+"rules:"))
	}
	return sources
}

// thresholdOverrides maps config cutoffs onto the engine thresholds. Zero
// config fields keep their stock values, so a partial match section only
// overrides what it names.
func thresholdOverrides(m config.MatchConfig) (matchuc.Thresholds, bool) {
	if (m == config.MatchConfig{MaxCodes: m.MaxCodes}) {
		return matchuc.Thresholds{}, false
	}
	t := matchuc.DefaultThresholds()
	if m.Floor > 0 {
		t.Floor = m.Floor
	}
	if m.RegionStrong > 0 {
		t.RegionStrong = m.RegionStrong
	}
	if m.RegionWeak > 0 {
		t.RegionWeak = m.RegionWeak
	}
	if m.ContextFuzzy > 0 {
		t.ContextFuzzy = m.ContextFuzzy
	}
	if m.KeywordStrong > 0 {
		t.KeywordStrong = m.KeywordStrong
	}
	if m.KeywordWeak > 0 {
		t.KeywordWeak = m.KeywordWeak
	}
	return t, true
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
						"code":    "internal_error",
						"message": "internal error",
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

			// Set X-Request-ID in response header
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
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
