package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/kotche/notes/infrastructure/tracing"
	"github.com/kotche/notes/internal/model"
	_ "github.com/lib/pq"
)

// DefaultRepository appends note events to Postgres. Nothing here is ever read
// back into a note list.
type DefaultRepository struct {
	db *sql.DB
}

func NewDefaultRepository(pg *sql.DB) *DefaultRepository {
	return &DefaultRepository{pg}
}

func (d *DefaultRepository) EnsureChat(ctx context.Context, chatID model.ChatID) error {
	query := `INSERT INTO chats (id, created_at) VALUES ($1, NOW()) ON CONFLICT (id) DO NOTHING`
	if _, err := d.db.ExecContext(ctx, query, int64(chatID)); err != nil {
		return fmt.Errorf("failed to ensure chat '%d': %w", chatID, err)
	}
	return nil
}

// AppendEvent stores event once; a redelivered event is ignored.
func (d *DefaultRepository) AppendEvent(ctx context.Context, event model.NoteEvent) error {
	ctx, span := tracing.StartSpan(ctx, "AppendEvent_repo")
	defer span.End()

	query, args, err := appendEventQuery(event)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err = d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append event '%s' for chat '%d': %w", event.ID, event.ChatID, err)
	}
	return nil
}

func (d *DefaultRepository) ListEvents(ctx context.Context, chatID model.ChatID, limit uint64) ([]model.NoteEvent, error) {
	ctx, span := tracing.StartSpan(ctx, "ListEvents_repo")
	defer span.End()

	query, args, err := listEventsQuery(chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.NoteEvent
	for rows.Next() {
		var (
			event  model.NoteEvent
			chat   int64
			kind   string
			noteID uuid.UUID
		)
		if err = rows.Scan(&event.ID, &chat, &kind, &noteID, &event.Title, &event.Content, &event.At); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.ChatID = model.ChatID(chat)
		event.Kind = model.NoteEventKind(kind)
		event.NoteID = model.NoteID(noteID)
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

func appendEventQuery(event model.NoteEvent) (string, []interface{}, error) {
	return squirrel.
		Insert("note_events").
		Columns("id", "chat_id", "kind", "note_id", "title", "content", "occurred_at").
		Values(event.ID, int64(event.ChatID), string(event.Kind), uuid.UUID(event.NoteID), event.Title, event.Content, event.At).
		Suffix("ON CONFLICT (id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func listEventsQuery(chatID model.ChatID, limit uint64) (string, []interface{}, error) {
	queryBuilder := squirrel.
		Select("id",
			"chat_id",
			"kind",
			"note_id",
			"title",
			"content",
			"occurred_at").
		From("note_events").
		Where(squirrel.Eq{"chat_id": int64(chatID)}).
		OrderBy("occurred_at DESC")

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(limit)
	}

	return queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
}
