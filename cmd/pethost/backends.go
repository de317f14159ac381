package main

import (
	"context"
	"fmt"
	"log/slog"

	"pethost/internal/infra/broker/kafka"
	"pethost/internal/infra/config"
	mongostore "pethost/internal/infra/db/mongo"
	redislocks "pethost/internal/infra/locks/redis"
	"pethost/internal/infra/obs"
	outboxrelay "pethost/internal/infra/outbox"
	"pethost/internal/infra/storage/memory"
)

// newMemoryBackend keeps everything in process. Events are logged, never relayed.
func newMemoryBackend(cfg config.Config, logger *slog.Logger) (*backend, error) {
	store := memory.NewStore()
	directory := memory.NewDirectory()
	if cfg.DirectoryFixtures != "" {
		if err := loadDirectoryFixtures(cfg.DirectoryFixtures, directory, logger); err != nil {
			return nil, err
		}
	}
	return &backend{
		factory:     memory.Factory{Store: store},
		outbox:      memory.NewOutbox(logger),
		idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		locker:      memory.NewLocker(cfg.LockWait),
		users:       directory,
		pets:        directory,
		checks:      map[string]obs.Check{},
		workers:     map[string]func(ctx context.Context) error{},
	}, nil
}

func newMongoBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}
	closers := []func(context.Context) error{client.Close}
	if err := client.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	idem, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("mongo idempotency: %w", err)
	}
	outboxStore, err := outboxrelay.NewStore(ctx, client.DB)
	if err != nil {
		return nil, fmt.Errorf("mongo outbox: %w", err)
	}

	redisClient := redislocks.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	closers = append(closers, func(context.Context) error { return redisClient.Close() })
	locker := redislocks.New(redisClient, cfg.LockTTL, cfg.LockWait)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig("pethost"))
	if err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	closers = append(closers, func(context.Context) error { return producer.Close() })
	worker := &outboxrelay.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
		Logger:      logger.With("component", "outbox"),
	}

	directory := mongostore.NewDirectory(client.DB)
	logger.Info("mongo backend ready", "db", cfg.MongoDB, "brokers", cfg.KafkaBrokers, "redis", cfg.RedisAddr)
	return &backend{
		factory:     mongostore.NewFactory(client.DB),
		outbox:      outboxStore,
		idempotency: idem,
		locker:      locker,
		users:       directory,
		pets:        directory,
		checks: map[string]obs.Check{
			"mongo": client.Ping,
			"redis": locker.Ping,
		},
		workers: map[string]func(ctx context.Context) error{"outbox": worker.Run},
		closers: closers,
	}, nil
}
