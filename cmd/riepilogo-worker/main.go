package main

import (
	"context"
	"errors"
	"os"
	"time"

	"riepilogo/internal/amqp"
	"riepilogo/internal/cli"
	"riepilogo/internal/export/gsheets"
	"riepilogo/internal/log"
	"riepilogo/internal/worker"
)

func main() {
	envErr := cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	if envErr != nil {
		logger.Warn("Failed to load .env file", log.FieldError, envErr.Error())
	}

	logger.Info("Starting riepilogo-worker")
	cfg := cli.LoadAndValidateConfig(logger, true)

	backend := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err.Error())
		}
	}()

	creds, err := gsheets.LoadCredentials(cli.SheetsCredentials(cfg))
	if err != nil {
		logger.Error("Failed to load Google credentials", log.FieldError, err.Error())
		os.Exit(1)
	}
	svc, err := gsheets.NewService(context.Background(), creds)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets service", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Google Sheets service initialized", log.FieldSpreadsheet, cfg.GoogleSpreadsheetID)

	resolve := worker.CachedResolver(cfg.GoogleSpreadsheetID, func(id string) (worker.WorkbookWriter, error) {
		return gsheets.NewWriter(svc, id)
	})
	exporter := worker.NewExportWorker(backend.Backend, resolve, logger)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Error("Failed to close AMQP client", log.FieldError, err.Error())
		}
	})

	go func() {
		err := amqpClient.ConsumeExportRequests(ctx, exporter.HandleExportRequest)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err.Error())
		}
	}()

	if cfg.ExportInterval > 0 {
		go func() {
			err := exporter.RunScheduled(ctx, cfg.ExportInterval)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Scheduled export stopped", log.FieldError, err.Error())
			}
		}()
	} else {
		logger.Info("Scheduled exports disabled")
	}

	logger.Info("Worker started", "queue", cfg.AMQPQueue, "export_interval", cfg.ExportInterval.String())
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
