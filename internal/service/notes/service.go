package notes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kotche/notes/infrastructure/tracing"
	"github.com/kotche/notes/internal/metrics"
	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/repository/notes"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type DefaultService struct {
	chatID    model.ChatID
	repo      notes.Repository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewDefaultService(chatID model.ChatID, repo notes.Repository, publisher EventPublisher, logger *zap.Logger) *DefaultService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &DefaultService{
		chatID:    chatID,
		repo:      repo,
		publisher: publisher,
		logger:    logger.With(zap.Int64("chat_id", int64(chatID))),
		now:       time.Now,
	}
}

func (d *DefaultService) Upsert(ctx context.Context, target model.Target, title, content string) (model.Note, notes.Outcome) {
	ctx, span := tracing.StartSpan(ctx, "Upsert_service")
	defer span.End()

	note, outcome := d.repo.Upsert(target, title, content)
	span.SetAttributes(attribute.String("outcome", outcome.String()))
	metrics.ObserveNoteOutcome(outcome.String())

	switch outcome {
	case notes.Created:
		d.publish(ctx, model.NoteCreated, note)
	case notes.Updated:
		d.publish(ctx, model.NoteUpdated, note)
	case notes.Removed:
		d.publish(ctx, model.NoteRemoved, note)
	}

	return note, outcome
}

func (d *DefaultService) Delete(ctx context.Context, noteID model.NoteID) bool {
	ctx, span := tracing.StartSpan(ctx, "Delete_service")
	defer span.End()

	note, ok := d.repo.Delete(noteID)
	if !ok {
		metrics.ObserveNoteOutcome(notes.Ignored.String())
		return false
	}

	metrics.ObserveNoteOutcome(notes.Removed.String())
	d.publish(ctx, model.NoteRemoved, note)
	return true
}

func (d *DefaultService) Get(_ context.Context, noteID model.NoteID) (model.Note, error) {
	note, ok := d.repo.Get(noteID)
	if !ok {
		return model.Note{}, model.ErrNoteNotFound
	}
	return note, nil
}

func (d *DefaultService) List(ctx context.Context) []model.Note {
	_, span := tracing.StartSpan(ctx, "List_service")
	defer span.End()

	return d.repo.List()
}

// publish never fails the caller: the journal is best effort.
func (d *DefaultService) publish(ctx context.Context, kind model.NoteEventKind, note model.Note) {
	event := model.NoteEvent{
		ID:      uuid.New(),
		ChatID:  d.chatID,
		Kind:    kind,
		NoteID:  note.ID,
		Title:   note.Title,
		Content: note.Content,
		At:      d.now().UTC(),
	}

	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Warn("failed to publish note event",
			zap.String("note_id", note.ID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.NoteEvent) error { return nil }
