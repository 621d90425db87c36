package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"

	"timesheet.service/internal/config"
	"timesheet.service/internal/ports/repository"
	"timesheet.service/internal/worker"
	"timesheet.service/internal/worker/legacyapi"
	"timesheet.service/internal/worker/overtime"
	"timesheet.service/pkg/aws"
	"timesheet.service/pkg/database"
	"timesheet.service/pkg/logger"
	"timesheet.service/pkg/telemetry"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	logger.Setup(cfg.LogLevel, cfg.IsLocalDev)

	shutdownTracer, err := telemetry.InitTracer("overtime-worker", cfg.OTELExporterEndpoint, cfg.IsLocalDev)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init tracer")
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// DB connection
	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening database")
	}
	defer db.Close()
	log.Info().Msg("Successfully connected to the database.")

	// AWS SDK Config
	awsCfg, err := aws.NewAWSConfig(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load SDK config")
	}

	// Initialize Dependencies
	sqsClient := sqs.NewFromConfig(awsCfg)
	repo := repository.NewEntryRepository(db)
	legacyClient := legacyapi.NewHTTPClient(cfg.LegacyAPIURL)
	processor := overtime.NewProcessor(repo, legacyClient)

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqsClient, cfg.OvertimeSQSQueueURL, processor, cfg.WorkerConcurrency)

	done := make(chan struct{})
	go func() {
		app.Start(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	// Cancel the context to signal the worker to stop polling, then let
	// in-flight messages finish.
	cancel()
	<-done

	log.Info().Msg("Worker exited gracefully")
}
