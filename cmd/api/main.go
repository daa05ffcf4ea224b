package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"internhub/internal/app"
	"internhub/internal/config"
	apphttp "internhub/internal/http"
	"internhub/internal/http/handlers"
	"internhub/internal/loader"
	"internhub/internal/metrics"
	"internhub/internal/observability"
	"internhub/internal/repository/memory"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	applicantRepo := memory.NewApplicantRepository()
	representativeRepo := memory.NewRepresentativeRepository()
	opportunityRepo := memory.NewOpportunityRepository()
	applicationRepo := memory.NewApplicationRepository()

	seed := loader.New(applicantRepo, representativeRepo, opportunityRepo, logger)
	if err := seed.Load(cfg.DataDir); err != nil {
		logger.Fatal("seed data load failed", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	applicationService := app.NewApplicationService(applicationRepo, opportunityRepo, applicantRepo, m, logger)
	opportunityService := app.NewOpportunityService(opportunityRepo, representativeRepo, logger)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, opportunityService),
		OpportunityHandler: handlers.NewOpportunityHandler(opportunityService, applicationService),
		MetricsGatherer:    registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
