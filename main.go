package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	database "github.com/kanworks/kanapi/app/db"
	appLogger "github.com/kanworks/kanapi/app/logger"
	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/app/tracer"
	"github.com/kanworks/kanapi/config"
	"github.com/kanworks/kanapi/internal/api/auth"
	"github.com/kanworks/kanapi/internal/api/cases"
	"github.com/kanworks/kanapi/internal/api/customer"
	"github.com/kanworks/kanapi/internal/api/health"
	"github.com/kanworks/kanapi/internal/api/user"
	"github.com/kanworks/kanapi/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	// A missing signing secret aborts startup here; it must never degrade
	// into a per-request error.
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler, err := tracer.Init("kanapi")
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Auth core ---
	hasher, err := auth.NewHasher(cfg.Auth.PasswordScheme)
	if err != nil {
		logger.Error("Invalid password scheme", slog.Any("error", err))
		os.Exit(1)
	}
	codec, err := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.TokenTTL())
	if err != nil {
		logger.Error("Invalid token configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency Injection ---
	userStore := auth.NewPostgresUserStore(pool, logger)
	authService := auth.NewAuthService(userStore, hasher, codec, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, hasher, logger)
	userHandler := user.NewUserHandler(userService, logger)

	caseRepo := cases.NewPostgresCaseRepo(pool, logger)
	caseService := cases.NewCaseService(caseRepo, logger)
	caseHandler := cases.NewCaseHandler(caseService, logger)

	customerHandler := customer.NewCustomerHandler(logger)
	healthHandler := health.NewHealthHandler(pool, logger)

	if cfg.Mode == "development" {
		if err := cases.SeedDemoData(ctx, caseRepo, logger); err != nil {
			logger.Warn("Demo seeding failed", slog.Any("error", err))
		}
	}

	// --- Router Setup ---
	mainRouter := router.SetupRouter(&router.Config{
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		CaseHandler:     caseHandler,
		CustomerHandler: customerHandler,
		HealthHandler:   healthHandler,
		BearerAuth:      auth.Authenticate(authService, auth.SourceBearer, logger),
		CookieAuth:      auth.Authenticate(authService, auth.SourceCookie, logger),
	})

	mux := chi.NewMux()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(chimiddleware.Recoverer)
	mux.Use(chimiddleware.StripSlashes)
	mux.Use(chimiddleware.Timeout(cfg.Server.Timeout))
	mux.Use(chimiddleware.Compress(5, "application/json"))

	mux.Mount("/", mainRouter)

	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Welcome to kanAPI!"}`))
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger(mode string) *slog.Logger {
	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		return slog.New(tint.NewHandler(os.Stdout, tintOpts))
	}

	jsonOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
}
