package notes

import (
	"context"

	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/repository/notes"
)

type (
	Service interface {
		Upsert(ctx context.Context, target model.Target, title, content string) (model.Note, notes.Outcome)
		Delete(ctx context.Context, noteID model.NoteID) bool
		Get(ctx context.Context, noteID model.NoteID) (model.Note, error)
		List(ctx context.Context) []model.Note
	}

	EventPublisher interface {
		Publish(ctx context.Context, event model.NoteEvent) error
	}
)
