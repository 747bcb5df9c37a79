package journal

import (
	"context"

	"github.com/kotche/notes/internal/model"
)

type (
	Repository interface {
		EnsureChat(ctx context.Context, chatID model.ChatID) error
		AppendEvent(ctx context.Context, event model.NoteEvent) error
		ListEvents(ctx context.Context, chatID model.ChatID, limit uint64) ([]model.NoteEvent, error)
	}
)
