package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trackmate/internal/amqp"
	"trackmate/internal/backend"
	"trackmate/internal/config"
	"trackmate/internal/extract"
	apphttp "trackmate/internal/http"
	"trackmate/internal/log"
	"trackmate/internal/services"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend",
			log.FieldError, err.Error(),
			log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	// Mirroring runs only against the durable backend; the in-memory store
	// has nothing worth exporting after a restart.
	var publisher services.SyncPublisher
	if result.SyncQueue != nil && cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, spreadsheet mirroring disabled",
				log.FieldError, err.Error())
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP publisher connected", log.FieldExchange, cfg.AMQPExchange)
		}
	}

	hub := apphttp.NewHub(logger)

	var extractor *extract.Client
	if cfg.ExtractionConfigured() {
		extractor = extract.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		logger.Info("AI extraction enabled", log.FieldModel, cfg.OpenAIModel)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Store:        result.Store,
		Transactions: services.NewTransactionService(result.Store, publisher, hub, logger),
		Goals:        services.NewGoalService(result.Store, hub, logger),
		Debts:        services.NewDebtService(result.Store, publisher, hub, logger),
		Extractor:    extractor,
		Hub:          hub,
		Logger:       logger,
	})
	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting trackmate server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
