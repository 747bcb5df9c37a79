package model

import (
	"time"

	"github.com/google/uuid"
)

type (
	NoteID uuid.UUID
	ChatID int64

	Note struct {
		ID      NoteID
		Title   string
		Content string
	}

	// Identity is an authenticated user as reported by the identity provider.
	Identity struct {
		ID          string
		Email       string
		AccessToken string
	}

	NoteEvent struct {
		ID      uuid.UUID     `json:"id"`
		ChatID  ChatID        `json:"chat_id"`
		Kind    NoteEventKind `json:"kind"`
		NoteID  NoteID        `json:"note_id"`
		Title   string        `json:"title"`
		Content string        `json:"content"`
		At      time.Time     `json:"at"`
	}

	NoteEventKind string
)

const (
	NoteCreated NoteEventKind = "created"
	NoteUpdated NoteEventKind = "updated"
	NoteRemoved NoteEventKind = "removed"
)

func NewNoteID() NoteID {
	return NoteID(uuid.New())
}

func ParseNoteID(s string) (NoteID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NoteID{}, err
	}
	return NoteID(id), nil
}

func (id NoteID) String() string {
	return uuid.UUID(id).String()
}

func (id NoteID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *NoteID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}

// IsBlank reports whether the note carries neither title nor content.
func (n Note) IsBlank() bool {
	return n.Title == "" && n.Content == ""
}
