package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kotche/notes/infrastructure/logger"
	infra_metrics "github.com/kotche/notes/infrastructure/metrics"
	"github.com/kotche/notes/infrastructure/tracing"
	"github.com/kotche/notes/internal/app/bot"
	"github.com/kotche/notes/internal/config"
	"github.com/kotche/notes/internal/metrics"
	notes_repo "github.com/kotche/notes/internal/repository/notes"
	"github.com/kotche/notes/internal/service/auth"
	"github.com/kotche/notes/internal/service/kafka"
	notes_serv "github.com/kotche/notes/internal/service/notes"
	"github.com/kotche/notes/internal/workspace"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
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

	if !cfg.EnvFileLoaded {
		lg.Info(".env file not found, using environment variables")
	}
	if err = cfg.ValidateBot(); err != nil {
		lg.Fatal("invalid configuration", zap.Error(err))
	}

	metrics.Init()
	infra_metrics.Init()
	metricsServer := infra_metrics.StartMetricsServer(cfg.MetricsAddr, lg)

	_, cleanup, err := tracing.InitTracing(cfg.TracingConfig.Endpoint, lg)
	if err != nil {
		lg.Fatal("failed to init tracing", zap.Error(err))
	}
	defer cleanup()

	seed, err := notes_repo.LoadSeedFile(cfg.NotesConfig.SeedFile)
	if err != nil {
		lg.Fatal("failed to load seed notes", zap.Error(err))
	}
	emptyEdit, _ := notes_repo.ParseEmptyEditPolicy(cfg.NotesConfig.EmptyEdit)

	authClient, err := auth.NewSupabaseClient(cfg.SupabaseConfig.URL, cfg.SupabaseConfig.Key)
	if err != nil {
		lg.Fatal("failed to init identity provider", zap.Error(err))
	}

	var publisher notes_serv.EventPublisher = notes_serv.NopPublisher{}
	if cfg.KafkaConfig.Enabled {
		kafkaServ, err := kafka.New(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.Topic, cfg.KafkaConfig.GroupID,
			cfg.KafkaConfig.NumPartitions, cfg.KafkaConfig.ReplicationFactor, lg)
		if err != nil {
			lg.Fatal("failed to initialize kafka", zap.Error(err))
		}
		defer func() {
			if err := kafkaServ.Close(); err != nil {
				lg.Error("failed to close kafka", zap.Error(err))
			}
		}()
		publisher = kafka.NewEventPublisher(kafkaServ)
	}

	registry := workspace.NewRegistry(
		auth.SupabaseFactory(authClient),
		publisher,
		lg,
		notes_repo.WithEmptyEditPolicy(emptyEdit),
		notes_repo.WithSeed(seed),
	)

	tb, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramConfig.TokenNotesBot,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	botImpl := bot.New(tb, registry, lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		lg.Info("shutting down")
		botImpl.Stop()
	}()

	botImpl.Start()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = metricsServer.Shutdown(shutdownCtx); err != nil {
		lg.Error("failed to stop metrics server", zap.Error(err))
	}
}
