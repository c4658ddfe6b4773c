package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/internal/database"
	"github.com/nexusvision/studio/internal/entitlement"
	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/payment"
	"github.com/nexusvision/studio/internal/queue"
	"github.com/nexusvision/studio/internal/session"
	"github.com/nexusvision/studio/pkg/models"
)

// The worker consumes payment notifications from the queue and applies them
// to the entitlement ledger, keeping the webhook request path free of ledger
// writes.
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	sessions, err := session.NewStore(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to connect to session store: %v", err)
	}
	defer sessions.Close()

	q, err := queue.New(cfg.Queue)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	entitlementSvc := entitlement.NewService(repo, sessions, logger)
	processor := payment.NewProcessor(entitlementSvc, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = q.ConsumePaymentNotifications(ctx, func(notification *models.PaymentNotification) error {
		return processor.Process(ctx, notification)
	})
	if err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	logger.Info("Payment worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Payment worker stopping")
}
