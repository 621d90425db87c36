package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"

	"timesheet.service/internal/config"
	"timesheet.service/internal/core"
	"timesheet.service/internal/ports/repository"
	"timesheet.service/internal/worker"
	"timesheet.service/internal/worker/email"
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

	shutdownTracer, err := telemetry.InitTracer("email-worker", cfg.OTELExporterEndpoint, cfg.IsLocalDev)
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
	sesClient := ses.NewFromConfig(awsCfg)
	repo := repository.NewEntryRepository(db)
	emailService := core.NewSESEmailService(sesClient, cfg.EmailSender)
	processor := email.NewProcessor(emailService, repo, cfg.EmailDomain)

	// Start Worker
	ctx, cancel := context.WithCancel(context.Background())
	app := worker.NewWorker(sqsClient, cfg.EmailSQSQueueURL, processor, cfg.WorkerConcurrency)

	done := make(chan struct{})
	go func() {
		app.Start(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down worker...")

	cancel()
	<-done

	log.Info().Msg("Worker exited gracefully")
}
