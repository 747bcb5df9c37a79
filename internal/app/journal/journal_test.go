package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/service/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type message struct {
	key, value []byte
	err        error
}

// chanBroker hands out queued messages and blocks once they run out.
type chanBroker struct {
	messages chan message
}

func (b *chanBroker) SendMessage(context.Context, []byte, []byte) error { return nil }

func (b *chanBroker) ReadMessage(ctx context.Context) ([]byte, []byte, error) {
	select {
	case m := <-b.messages:
		return m.key, m.value, m.err
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

func (b *chanBroker) Close() error { return nil }

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) EnsureChat(ctx context.Context, chatID model.ChatID) error {
	return m.Called(ctx, chatID).Error(0)
}

func (m *mockRepository) AppendEvent(ctx context.Context, event model.NoteEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockRepository) ListEvents(ctx context.Context, chatID model.ChatID, limit uint64) ([]model.NoteEvent, error) {
	args := m.Called(ctx, chatID, limit)
	return args.Get(0).([]model.NoteEvent), args.Error(1)
}

func event(chatID model.ChatID, kind model.NoteEventKind) model.NoteEvent {
	return model.NoteEvent{
		ID:     uuid.New(),
		ChatID: chatID,
		Kind:   kind,
		NoteID: model.NewNoteID(),
		Title:  "Dream Log",
		At:     time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
	}
}

func encoded(t *testing.T, e model.NoteEvent) message {
	t.Helper()
	key, value, err := kafka.EncodeEvent(e)
	require.NoError(t, err)
	return message{key: key, value: value}
}

func TestJournal_RecordsEventsAndSkipsBadOnes(t *testing.T) {
	created := event(5, model.NoteCreated)
	removed := event(5, model.NoteRemoved)
	failing := event(6, model.NoteUpdated)

	broker := &chanBroker{messages: make(chan message, 8)}
	broker.messages <- encoded(t, created)
	broker.messages <- message{key: []byte("5"), value: []byte("not json")}
	broker.messages <- message{err: errors.New("broker hiccup")}
	broker.messages <- encoded(t, failing)
	broker.messages <- encoded(t, removed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := new(mockRepository)
	repo.On("EnsureChat", mock.Anything, model.ChatID(5)).Return(nil)
	repo.On("EnsureChat", mock.Anything, model.ChatID(6)).Return(errors.New("db down"))
	repo.On("AppendEvent", mock.Anything, created).Return(nil).Once()
	repo.On("AppendEvent", mock.Anything, removed).Return(nil).Once().Run(func(mock.Arguments) { cancel() })

	err := New(broker, repo, zap.NewNop()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "AppendEvent", mock.Anything, failing)
}

func TestJournal_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(&chanBroker{messages: make(chan message)}, new(mockRepository), zap.NewNop()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
