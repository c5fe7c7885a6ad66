package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/HammerMeetNail/giftmatch/internal/app"
	"github.com/HammerMeetNail/giftmatch/internal/config"
	"github.com/HammerMeetNail/giftmatch/internal/database"
	"github.com/HammerMeetNail/giftmatch/internal/handlers"
	"github.com/HammerMeetNail/giftmatch/internal/logging"
	"github.com/HammerMeetNail/giftmatch/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{"env": cfg.Server.Environment})
	}

	logger.Info("Starting giftmatch server...")

	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	svc, err := app.NewServices(cfg, db.Pool, redisDB.Client)
	if err != nil {
		return fmt.Errorf("initializing services: %w", err)
	}
	if svc.Shopping == nil {
		logger.Warn("SERPAPI_API_KEY not set; serving internal catalog only")
	}

	warmCtx, stopWarm := context.WithCancel(context.Background())
	defer stopWarm()
	if svc.Warmer != nil {
		if err := svc.Warmer.Start(warmCtx); err != nil {
			return fmt.Errorf("starting cache warmer: %w", err)
		}
		defer svc.Warmer.Stop()
	}

	healthHandler := handlers.NewHealthHandler(db, redisDB)
	suggestionHandler := handlers.NewSuggestionHandler(svc.Suggestions)
	taxonomyHandler := handlers.NewTaxonomyHandler(svc.Taxonomy)
	clickHandler := handlers.NewClickHandler(svc.Clicks)

	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	cacheControl := middleware.NewCacheControl("/api/gift-categories", "/api/gift-types")
	compress := middleware.NewCompress()
	requestLogger := middleware.NewRequestLogger(logger)
	suggestionLimiter := middleware.NewSuggestionRateLimiter(redisDB.Client, cfg.Suggestions.RateLimit)

	mux := http.NewServeMux()

	// Health endpoints (no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Suggestion endpoints
	mux.Handle("GET /api/suggestions", suggestionLimiter.Limit(http.HandlerFunc(suggestionHandler.Get)))
	mux.Handle("GET /api/sugestoes-auto", suggestionLimiter.Limit(http.HandlerFunc(suggestionHandler.GetLegacy)))

	// Taxonomy endpoints
	mux.HandleFunc("GET /api/gift-categories", taxonomyHandler.Categories)
	mux.HandleFunc("GET /api/gift-types", taxonomyHandler.GiftTypes)

	// Click tracking
	mux.HandleFunc("POST /api/clicks/record", clickHandler.Record)

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = cacheControl.Apply(handler)
	handler = compress.Apply(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Covers the provider timeout plus catalog reads.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		stopWarm()
		// Let in-flight click writes land before the pools close.
		svc.Clicks.Wait()
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
