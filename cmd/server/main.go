package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbook-service/internal/infrastructure/config"
	"travelbook-service/internal/infrastructure/persistence"
	fileRepo "travelbook-service/internal/interface/repository"
	"travelbook-service/internal/interface/rest"
	"travelbook-service/internal/usecase"
	"travelbook-service/pkg/logger"
	"travelbook-service/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Travelbook Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up metrics
	m := metrics.NewMetrics("travelbook", prometheus.DefaultRegisterer)

	// Set up the record store over the JSONL file
	recordFile := persistence.NewRecordFile(cfg.RecordFile, log)
	recordRepository, err := fileRepo.NewFileRecordRepository(recordFile, log, m)
	if err != nil {
		log.Fatal("Failed to load record file", "path", cfg.RecordFile, "error", err)
	}

	// Set up the reference data lists for the lookup endpoints
	refdataRepository := fileRepo.NewCSVRefDataRepository(cfg.RefDataDir, log)

	// Set up the record service and HTTP layer
	recordService := usecase.NewRecordService(recordRepository, log, m)
	handler := rest.NewHandler(recordService, refdataRepository, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	handler.Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port, "version", cfg.AppVersion)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("Travelbook Service stopped")
}
