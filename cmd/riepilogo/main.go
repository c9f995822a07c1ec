package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"riepilogo/internal/adapters"
	"riepilogo/internal/amqp"
	"riepilogo/internal/cli"
	apphttp "riepilogo/internal/http"
	"riepilogo/internal/log"
	"riepilogo/internal/services"
)

func main() {
	envErr := cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	if envErr != nil {
		logger.Warn("Failed to load .env file", log.FieldError, envErr.Error())
	}

	cfg := cli.LoadAndValidateConfig(logger, false)

	backend := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err.Error())
		}
	}()

	deps := apphttp.Deps{
		Store:              backend.Backend,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitRPM,
		RequestTimeout:     cfg.RequestTimeout,
	}

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
			os.Exit(1)
		}
		deps.Publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

		if cfg.ExportOnChange {
			service := services.NewExpenseService(backend.Backend, amqpClient, logger)
			deps.Store = adapters.NewStoreAdapter(backend.Backend, service)
			logger.Info("Exports follow expense changes")
		}
	} else {
		logger.Info("AMQP disabled, sheet exports will be refused")
	}

	srv := apphttp.NewServer(":"+cfg.Port, deps)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = cfg.RequestTimeout + 5*time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("Failed to close AMQP client", log.FieldError, err.Error())
			}
		}
	})

	logger.Info("Starting riepilogo server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
