package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"risparmio/internal/amqp"
	"risparmio/internal/config"
	apphttp "risparmio/internal/http"
	"risparmio/internal/log"
	"risparmio/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel)})
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel)})
	log.SetDefault(logger)

	logger.Info("Starting risparmio server", "port", cfg.Port)

	// Event publishing is optional: without a broker URL projections are
	// still served, they just go unannounced.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP broker unreachable, projection events disabled",
				log.FieldError, err,
				log.FieldExchange, cfg.AMQPExchange)
			amqpClient = nil
		} else {
			logger.Info("Connected to AMQP broker",
				log.FieldExchange, cfg.AMQPExchange,
				log.FieldQueue, cfg.AMQPQueue)
		}
	} else {
		logger.Info("No AMQP_URL configured, projection events disabled")
	}

	rates := services.RateTable{
		NPS:   decimal.NewFromFloat(cfg.NPSAnnualRate),
		Index: decimal.NewFromFloat(cfg.IndexAnnualRate),
	}
	plans := services.NewPlanService(rates, amqpClient)
	defer plans.Close()

	srv := apphttp.NewServer(cfg, plans, logger)

	// Graceful shutdown handling
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
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
