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

	httphandler "car-rental-platform/internal/adapters/http"
	"car-rental-platform/internal/adapters/messaging/kafka"
	"car-rental-platform/internal/adapters/messaging/mock"
	"car-rental-platform/internal/adapters/storage/postgres"
	"car-rental-platform/internal/app"
	"car-rental-platform/internal/config"
	"car-rental-platform/internal/core/ports"
	"car-rental-platform/internal/observability"
)

const serviceName = "payment-service"

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
	logger.Info("Application starting", "service", serviceName, "env", cfg.App.Env, "port", cfg.PaymentService.Port)

	if cfg.Payment.SigningKey == "" {
		logger.Error("PAYMENT_SIGNING_KEY is not set")
		os.Exit(1)
	}

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

	// An empty broker list means local smoke testing without Kafka.
	var publisher ports.EventPublisher
	if cfg.Kafka.BootstrapServers == "" {
		logger.Warn("Kafka is not configured, events go to stdout")
		publisher = mock.NewBroker()
	} else {
		broker, err := kafka.NewBroker([]string{cfg.Kafka.BootstrapServers}, cfg.Kafka.PaymentsTopic, logger)
		if err != nil {
			logger.Error("Failed to create Kafka broker", "error", err)
			os.Exit(1)
		}
		defer broker.Close()
		logger.Info("Kafka broker created")
		publisher = broker
	}

	paymentRepo := postgres.NewPaymentRepository(pool)
	paymentService := app.NewPaymentService(
		paymentRepo,
		publisher,
		[]byte(cfg.Payment.SigningKey),
		cfg.Payment.ApprovalBaseURL,
		logger,
	)
	paymentHandler := httphandler.NewPaymentHandler(paymentService, logger)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
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
		paymentHandler.RegisterRoutes(r)
	})

	addr := cfg.PaymentService.Port
	if addr == "" {
		addr = ":8082"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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
