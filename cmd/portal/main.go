package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hcportal/patient-portal/internal/api/router"
	appconfig "github.com/hcportal/patient-portal/internal/config"
	"github.com/hcportal/patient-portal/internal/flows"
	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/http/handlers"
	"github.com/hcportal/patient-portal/internal/observability/metrics"
	"github.com/hcportal/patient-portal/internal/session"
	"github.com/hcportal/patient-portal/pkg/logging"
)

func main() {
	// Load configuration
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting patient portal",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.BackendBaseURL,
	)

	// Redis backs the session and registration wizard state.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("redis unreachable", "error", err, "addr", cfg.RedisAddr)
		os.Exit(1)
	}

	portalMetrics := metrics.NewPortalMetrics(prometheus.DefaultRegisterer)

	// Backend gateway: the only component performing network I/O against
	// the clinic backend.
	backend := gateway.NewClient(cfg.BackendBaseURL,
		gateway.WithLogger(logger),
		gateway.WithTimeout(cfg.BackendTimeout),
		gateway.WithMetrics(portalMetrics),
	)

	sessions := session.NewStore(redisClient, cfg.SessionTTL, logger)
	registrationStates := flows.NewRegistrationStateStore(redisClient, cfg.RegistrationTTL)

	// Flows
	registrationFlow := flows.NewRegistrationFlow(backend, logger)
	schedulingFlow := flows.NewSchedulingFlow(backend, logger)
	dashboardFlow := flows.NewDashboardFlow(backend, logger)
	editFlow := flows.NewEditFlow(backend, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(backend, sessions, logger, portalMetrics)
	registrationHandler := handlers.NewRegistrationHandler(registrationFlow, registrationStates, logger, portalMetrics)
	scheduleHandler := handlers.NewScheduleHandler(schedulingFlow, logger, portalMetrics)
	dashboardHandler := handlers.NewDashboardHandler(dashboardFlow, logger, portalMetrics)
	editHandler := handlers.NewEditHandler(editFlow, logger, portalMetrics)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		Sessions:           sessions,
		SessionCookieName:  cfg.SessionCookieName,
		Auth:               authHandler,
		Registration:       registrationHandler,
		Schedule:           scheduleHandler,
		Dashboard:          dashboardHandler,
		Edit:               editHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
