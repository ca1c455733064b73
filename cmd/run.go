package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lottoledger/application"
	"lottoledger/config"
	"lottoledger/database"
	"lottoledger/infrastructure"
)

// Run initializes and starts the ledger service
func Run(ctx context.Context) error {
	log.Info("Starting lottoledger...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure event stream: %w", err)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	application.RegisterApplicationSubscriptions(uowFactory, uowFactory, cfg.ReferralProgram)

	scheduler := application.NewLotteryScheduler(uowFactory)
	stopScheduler, err := scheduler.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.WithField("environment", cfg.Environment).Info("Service is running")
	<-ctx.Done()

	log.Info("Shutting down...")
	stopScheduler()

	if err := natsClient.Close(); err != nil {
		log.WithError(err).Error("Error closing NATS connection")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
