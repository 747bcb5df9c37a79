package model

// Target selects what an upsert acts on: a brand-new note or an existing one.
// It is implemented only by NewNote and ExistingNote.
type Target interface {
	isTarget()
}

type (
	NewNote struct{}

	ExistingNote struct {
		ID NoteID
	}
)

func (NewNote) isTarget()      {}
func (ExistingNote) isTarget() {}

// TargetOf returns ExistingNote for a non-nil note and NewNote otherwise.
func TargetOf(note *Note) Target {
	if note == nil {
		return NewNote{}
	}
	return ExistingNote{ID: note.ID}
}
