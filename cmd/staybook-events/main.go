package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	"staybook/internal/infra/inbox"
	"staybook/internal/infra/notifications"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/storage/s3"
)

const bookingTopic = "booking.events.v1"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV"), "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel).With("service", "staybook-events")
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("consumer stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if len(cfg.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	var dedupe inbox.Deduper = inbox.NewMemoryStore()
	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}()
		store, err := inbox.NewStore(ctx, client.DB, cfg.KafkaGroupID)
		if err != nil {
			return fmt.Errorf("inbox store: %w", err)
		}
		dedupe = store
	} else {
		logger.Warn("MONGO_URI not set, de-duplication is kept in memory")
	}

	var receipts s3.ReceiptStore = s3.NoopStore{}
	if cfg.ReceiptsEnabled {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
		if err != nil {
			return fmt.Errorf("receipt store: %w", err)
		}
		receipts = client
	}

	handler := &notifications.Handler{Inbox: dedupe, Receipts: receipts, Logger: logger}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, handler, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	go func() {
		<-ctx.Done()
		if err := consumer.Close(); err != nil {
			logger.Warn("consumer close failed", "error", err)
		}
	}()

	topic := cfg.KafkaTopicPrefix + bookingTopic
	logger.Info("consuming booking events", "topic", topic, "group", cfg.KafkaGroupID)
	return consumer.Run(ctx, []string{topic})
}
