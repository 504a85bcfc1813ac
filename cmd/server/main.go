package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/peterso/event-sourced-ledger/internal/events/kafka"
	interfaces "github.com/peterso/event-sourced-ledger/internal/interfaces"
	"github.com/peterso/event-sourced-ledger/internal/ledger"
	"github.com/peterso/event-sourced-ledger/internal/server"
	"github.com/peterso/event-sourced-ledger/internal/storage/memory"
	"github.com/peterso/event-sourced-ledger/internal/storage/postgres"
	"github.com/peterso/event-sourced-ledger/pkg/config"
	"github.com/peterso/event-sourced-ledger/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load("./config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Logging)

	var store interfaces.EventStore
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Storage.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pgStore := postgres.NewPostgresEventStore(db)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate event store")
		}
		store = pgStore
		log.Info().Msg("Using postgres event store")
	case "memory":
		store = memory.NewMemoryEventStore()
		log.Info().Msg("Using in-memory event store")
	default:
		log.Fatal().Str("backend", cfg.Storage.Backend).Msg("Unknown storage backend")
	}

	var publisher interfaces.EventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", ledger.TransactionsTopic).Msg("Kafka publishing enabled")
	}

	engine := ledger.NewLedger(store, publisher, log)

	srv := server.New(cfg, engine, log)
	srv.Start()
}
