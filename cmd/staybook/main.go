package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/bootstrap"
	"staybook/internal/app/clock"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	"staybook/internal/domain/refund"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/cache"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	outboxinfra "staybook/internal/infra/outbox"
	"staybook/internal/infra/storage/memory"
	"staybook/internal/infra/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger(os.Getenv("APP_ENV"), "info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("staybook stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("staybook stopped")
}

// storage bundles whatever the selected backend provides to the application layer.
type storage struct {
	uow         uow.UoWFactory
	outbox      appoutbox.Outbox
	idempotency middleware.IdempotencyStore
	ready       func(ctx context.Context) error
	background  []func(ctx context.Context) error
	close       func(ctx context.Context)
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	policy, err := refund.NewPolicy(cfg.RefundPartialPercent)
	if err != nil {
		return err
	}

	var st storage
	switch cfg.Storage {
	case config.StorageMongo:
		st, err = mongoStorage(ctx, cfg, logger)
	default:
		st = memoryStorage(cfg, logger)
	}
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st.close(closeCtx)
	}()

	buses := bootstrap.Build(bootstrap.Deps{
		UoW:         st.uow,
		Outbox:      st.outbox,
		Idempotency: st.idempotency,
		Validator:   validation.New(),
		Clock:       clock.NewSystem(),
		Policy:      policy,
		Currency:    cfg.Currency,
		Logger:      logger,
	})

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: st.ready}, ginserver.Handlers{
		Property: ginserver.PropertyHandler{Commands: buses.Commands, Queries: buses.Queries},
		User:     ginserver.UserHandler{Commands: buses.Commands, Queries: buses.Queries},
		Booking:  ginserver.BookingHandler{Commands: buses.Commands, Queries: buses.Queries},
	})

	for _, job := range st.background {
		go func(job func(context.Context) error) {
			if err := job(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background job stopped", "error", err)
			}
		}(job)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func memoryStorage(cfg config.Config, logger *slog.Logger) storage {
	users := cache.NewUserRepository(memory.NewUserRepository(), cfg.UserCacheSize, cfg.UserCacheTTL)
	factory := memory.NewFactory(memory.NewPropertyRepository(), users, memory.NewBookingRepository())
	sink := func(ctx context.Context, rec appoutbox.EventRecord) error {
		logger.InfoContext(ctx, "domain event", "event", rec.Name, "aggregate", rec.Aggregate, "event_id", rec.ID)
		return nil
	}
	return storage{
		uow:         factory,
		outbox:      memory.NewOutbox(sink),
		idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		close:       func(context.Context) { users.Stop() },
	}
}

func mongoStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage, error) {
	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return storage{}, fmt.Errorf("mongo connect: %w", err)
	}
	fail := func(stage string, err error) (storage, error) {
		_ = client.Close(context.Background())
		return storage{}, fmt.Errorf("%s: %w", stage, err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		return fail("mongo indexes", err)
	}
	idemStore, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return fail("idempotency store", err)
	}
	outboxStore, err := outboxinfra.NewStore(ctx, client.DB)
	if err != nil {
		return fail("outbox store", err)
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return fail("kafka producer", err)
	}

	users := cache.NewUserRepository(mongodb.NewUserRepository(client.DB), cfg.UserCacheSize, cfg.UserCacheTTL)
	factory := mongodb.Factory{
		DB:             client.DB,
		PropertiesRepo: mongodb.NewPropertyRepository(client.DB),
		UsersRepo:      users,
		BookingsRepo:   mongodb.NewBookingRepository(client.DB),
	}
	worker := &outboxinfra.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger,
	}

	return storage{
		uow:         factory,
		outbox:      outboxStore,
		idempotency: idemStore,
		ready:       client.Ping,
		background:  []func(ctx context.Context) error{worker.Run},
		close: func(ctx context.Context) {
			users.Stop()
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
			if err := client.Close(ctx); err != nil {
				logger.Warn("mongo disconnect failed", "error", err)
			}
		},
	}, nil
}
