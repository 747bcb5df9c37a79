package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/kotche/notes/internal/metrics"
	"github.com/kotche/notes/internal/model"
	journal_repo "github.com/kotche/notes/internal/repository/journal"
	"github.com/kotche/notes/internal/service/kafka"
	"go.uber.org/zap"
)

// Journal copies note events from the broker into the journal repository.
type Journal struct {
	broker kafka.MessageBroker
	repo   journal_repo.Repository
	logger *zap.Logger
}

func New(broker kafka.MessageBroker, repo journal_repo.Repository, logger *zap.Logger) *Journal {
	return &Journal{
		broker: broker,
		repo:   repo,
		logger: logger,
	}
}

// Run consumes events until ctx is done. Undecodable messages are skipped.
func (j *Journal) Run(ctx context.Context) error {
	j.logger.Info("Journal started...")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		key, val, err := j.broker.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			j.logger.Error("error reading message from kafka", zap.Error(err))
			continue
		}

		event, err := kafka.DecodeEvent(key, val)
		if err != nil {
			j.logger.Warn("skipping malformed note event", zap.ByteString("key", key), zap.Error(err))
			continue
		}

		if err = j.record(ctx, event); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			j.logger.Error("error recording note event",
				zap.String("event_id", event.ID.String()),
				zap.Int64("chat_id", int64(event.ChatID)),
				zap.Error(err),
			)
			continue
		}

		j.logger.Debug("note event recorded",
			zap.String("event_id", event.ID.String()),
			zap.String("note_id", event.NoteID.String()),
			zap.String("kind", string(event.Kind)),
		)
	}
}

func (j *Journal) record(ctx context.Context, event model.NoteEvent) error {
	if err := j.repo.EnsureChat(ctx, event.ChatID); err != nil {
		return err
	}
	if err := j.repo.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	metrics.ObserveJournalEvent(string(event.Kind))
	return nil
}
