package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"car-rental-platform/internal/adapters/clients"
	httphandler "car-rental-platform/internal/adapters/http"
	"car-rental-platform/internal/adapters/storage/postgres"
	"car-rental-platform/internal/adapters/storage/redis"
	"car-rental-platform/internal/app"
	"car-rental-platform/internal/config"
	"car-rental-platform/internal/observability"
)

const serviceName = "reservation-service"

func main() {
	fallbackLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fallbackLogger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg.App.Env)
	logger.Info("Application starting", "service", serviceName, "env", cfg.App.Env, "port", cfg.ReservationService.Port)

	shutdownTracer, err := observability.InitTracer(cfg.Jaeger.Endpoint, serviceName)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("Failed to shutdown tracer", "error", err)
		}
	}()

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Connected to PostgreSQL")

	rateLimiterRepo, err := redis.NewRateLimiterAdapter(cfg.Redis.Addr)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rateLimiterRepo.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		}
	}()

	reservationRepo := postgres.NewReservationRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	maintenanceRepo := postgres.NewMaintenanceRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)

	carModelRepo, err := redis.NewCachedCarModelRepository(postgres.NewCarModelRepository(pool), cfg.Redis.Addr, logger)
	if err != nil {
		logger.Error("Failed to build car model cache", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := carModelRepo.Close(); err != nil {
			logger.Warn("Failed to close car model cache", "error", err)
		}
	}()

	userDirectory := clients.NewUserClient(cfg.Collaborators.UserServiceURL)
	paymentGateway := clients.NewPaymentClient(cfg.Collaborators.PaymentServiceURL)

	matcher := app.NewAvailabilityMatcher(vehicleRepo, maintenanceRepo, reservationRepo)
	reservationService := app.NewReservationService(reservationRepo, vehicleRepo, carModelRepo, matcher, userDirectory, paymentGateway, logger)
	transferService := app.NewTransferService(transferRepo, reservationRepo, userDirectory, logger)

	reservationHandler := httphandler.NewReservationHandler(reservationService, logger)
	transferHandler := httphandler.NewTransferHandler(transferService, logger)
	rateLimiterMiddleware := httphandler.NewRateLimiterMiddleware(
		rateLimiterRepo,
		cfg.RateLimit.Limit,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		logger,
	)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		rateLimiterMiddleware.Handler,
		middleware.Logger,
		middleware.Recoverer,
		observability.NewLoggerMiddleware(logger),
		observability.NewMetricsMiddleware(serviceName),
		observability.NewTracingMiddleware(serviceName),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": serviceName,
		}); err != nil {
			logger.Error("Failed to write health response", "error", err)
		}
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		reservationHandler.RegisterRoutes(r)
		transferHandler.RegisterRoutes(r)
	})

	runServer(cfg.ReservationService.Port, r, logger)
}

func runServer(addr string, handler http.Handler, logger *slog.Logger) {
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exited properly")
}
