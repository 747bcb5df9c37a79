package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kotche/notes/infrastructure/logger"
	infra_metrics "github.com/kotche/notes/infrastructure/metrics"
	"github.com/kotche/notes/infrastructure/tracing"
	"github.com/kotche/notes/internal/app/journal"
	"github.com/kotche/notes/internal/config"
	"github.com/kotche/notes/internal/metrics"
	journal_repo "github.com/kotche/notes/internal/repository/journal"
	"github.com/kotche/notes/internal/service/kafka"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck

	if err = cfg.ValidateJournal(); err != nil {
		lg.Fatal("invalid configuration", zap.Error(err))
	}

	metrics.Init()
	infra_metrics.Init()
	infra_metrics.StartMetricsServer(cfg.MetricsAddr, lg)

	_, cleanup, err := tracing.InitTracing(cfg.TracingConfig.Endpoint, lg)
	if err != nil {
		lg.Fatal("failed to init tracing", zap.Error(err))
	}
	defer cleanup()

	connStr := cfg.PostgresConfig.URL()
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		lg.Fatal("failed to open postgres", zap.Error(err))
	}
	defer db.Close()

	if err = runMigrations(connStr); err != nil {
		lg.Fatal("migration error", zap.Error(err))
	}

	kafkaServ, err := kafka.New(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic, cfg.KafkaConfig.GroupID,
		cfg.KafkaConfig.NumPartitions, cfg.KafkaConfig.ReplicationFactor, lg)
	if err != nil {
		lg.Fatal("failed to initialize kafka", zap.Error(err))
	}
	defer kafkaServ.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journalImpl := journal.New(kafkaServ, journal_repo.NewDefaultRepository(db), lg)
	if err = journalImpl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("journal stopped", zap.Error(err))
	}
}

func runMigrations(dbURL string) error {
	m, err := migrate.New(
		"file://migrations",
		dbURL,
	)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err = m.Up(); !errors.Is(err, migrate.ErrNoChange) && err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
