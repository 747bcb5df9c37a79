package notes

import (
	"github.com/kotche/notes/internal/model"
)

type (
	Repository interface {
		Upsert(target model.Target, title, content string) (model.Note, Outcome)
		Delete(noteID model.NoteID) (model.Note, bool)
		Get(noteID model.NoteID) (model.Note, bool)
		List() []model.Note
		Subscribe(fn func([]model.Note)) func()
	}
)

// Outcome describes what an upsert did to the sequence.
type Outcome int

const (
	Ignored Outcome = iota
	Created
	Updated
	Removed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	default:
		return "ignored"
	}
}

// EmptyEditPolicy decides what saving an existing note with a blank title and
// blank content does.
type EmptyEditPolicy int

const (
	DeleteEmptyEdit EmptyEditPolicy = iota
	KeepEmptyEdit
)

func ParseEmptyEditPolicy(s string) (EmptyEditPolicy, bool) {
	switch s {
	case "", "delete":
		return DeleteEmptyEdit, true
	case "keep":
		return KeepEmptyEdit, true
	default:
		return DeleteEmptyEdit, false
	}
}
