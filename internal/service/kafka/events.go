package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kotche/notes/internal/model"
)

// EventPublisher sends note events keyed by chat id, so the events of one chat
// stay ordered within a partition.
type EventPublisher struct {
	broker MessageBroker
}

func NewEventPublisher(broker MessageBroker) *EventPublisher {
	return &EventPublisher{broker: broker}
}

func (p *EventPublisher) Publish(ctx context.Context, event model.NoteEvent) error {
	key, value, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	return p.broker.SendMessage(ctx, key, value)
}

func EncodeEvent(event model.NoteEvent) (key, value []byte, err error) {
	value, err = json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode note event '%s': %w", event.ID, err)
	}
	return []byte(strconv.FormatInt(int64(event.ChatID), 10)), value, nil
}

func DecodeEvent(key, value []byte) (model.NoteEvent, error) {
	var event model.NoteEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return model.NoteEvent{}, fmt.Errorf("failed to decode note event: %w", err)
	}

	chatID, err := strconv.ParseInt(string(key), 10, 64)
	if err != nil {
		return model.NoteEvent{}, fmt.Errorf("error converting chat id `%s` to int: %w", key, err)
	}
	if model.ChatID(chatID) != event.ChatID {
		return model.NoteEvent{}, fmt.Errorf("chat id key %d does not match event chat %d", chatID, event.ChatID)
	}

	switch event.Kind {
	case model.NoteCreated, model.NoteUpdated, model.NoteRemoved:
	default:
		return model.NoteEvent{}, fmt.Errorf("unknown note event kind '%s'", event.Kind)
	}

	return event, nil
}
