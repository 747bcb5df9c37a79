package notes

import (
	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/state"
)

// MemoryRepository keeps the notes of one session, most recently touched first.
type MemoryRepository struct {
	notes     *state.Observable[[]model.Note]
	emptyEdit EmptyEditPolicy
}

type Option func(*MemoryRepository)

func WithEmptyEditPolicy(p EmptyEditPolicy) Option {
	return func(r *MemoryRepository) { r.emptyEdit = p }
}

// WithSeed starts the sequence with fresh copies of seed, in the given order.
// Blank seed notes are skipped.
func WithSeed(seed []SeedNote) Option {
	return func(r *MemoryRepository) {
		initial := make([]model.Note, 0, len(seed))
		for _, s := range seed {
			if s.Title == "" && s.Content == "" {
				continue
			}
			initial = append(initial, model.Note{ID: model.NewNoteID(), Title: s.Title, Content: s.Content})
		}
		r.notes = state.NewObservable(initial)
	}
}

func NewMemoryRepository(opts ...Option) *MemoryRepository {
	r := &MemoryRepository{
		notes: state.NewObservable([]model.Note{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upsert creates or replaces a note and moves it to the front.
//
// A new note with blank title and content is ignored. An existing note that is
// not in the sequence any more is inserted again under its id. Blanking an
// existing note follows the repository's EmptyEditPolicy.
func (r *MemoryRepository) Upsert(target model.Target, title, content string) (model.Note, Outcome) {
	var (
		note    model.Note
		outcome = Ignored
		blank   = title == "" && content == ""
	)

	r.notes.Update(func(current []model.Note) ([]model.Note, bool) {
		existing, ok := target.(model.ExistingNote)
		if !ok {
			if blank {
				return current, false
			}
			note = model.Note{ID: model.NewNoteID(), Title: title, Content: content}
			outcome = Created
			return prepend(note, current), true
		}

		idx := indexOf(current, existing.ID)
		if idx < 0 {
			if blank {
				return current, false
			}
			note = model.Note{ID: existing.ID, Title: title, Content: content}
			outcome = Created
			return prepend(note, current), true
		}

		if blank && r.emptyEdit == DeleteEmptyEdit {
			note = current[idx]
			outcome = Removed
			return without(current, idx), true
		}

		note = model.Note{ID: existing.ID, Title: title, Content: content}
		outcome = Updated
		return prepend(note, without(current, idx)), true
	})

	return note, outcome
}

// Delete removes the note with noteID. It is a no-op when the note is absent.
func (r *MemoryRepository) Delete(noteID model.NoteID) (model.Note, bool) {
	var removed model.Note

	ok := r.notes.Update(func(current []model.Note) ([]model.Note, bool) {
		idx := indexOf(current, noteID)
		if idx < 0 {
			return current, false
		}
		removed = current[idx]
		return without(current, idx), true
	})

	return removed, ok
}

func (r *MemoryRepository) Get(noteID model.NoteID) (model.Note, bool) {
	current := r.notes.Get()
	if idx := indexOf(current, noteID); idx >= 0 {
		return current[idx], true
	}
	return model.Note{}, false
}

// List returns a snapshot of the notes, front first.
func (r *MemoryRepository) List() []model.Note {
	current := r.notes.Get()
	snapshot := make([]model.Note, len(current))
	copy(snapshot, current)
	return snapshot
}

func (r *MemoryRepository) Subscribe(fn func([]model.Note)) func() {
	return r.notes.Subscribe(func(notes []model.Note) {
		snapshot := make([]model.Note, len(notes))
		copy(snapshot, notes)
		fn(snapshot)
	})
}

func indexOf(notes []model.Note, noteID model.NoteID) int {
	for i, n := range notes {
		if n.ID == noteID {
			return i
		}
	}
	return -1
}

// prepend and without never modify their input; published slices are shared
// with readers.
func prepend(note model.Note, notes []model.Note) []model.Note {
	out := make([]model.Note, 0, len(notes)+1)
	out = append(out, note)
	return append(out, notes...)
}

func without(notes []model.Note, idx int) []model.Note {
	out := make([]model.Note, 0, len(notes)-1)
	out = append(out, notes[:idx]...)
	return append(out, notes[idx+1:]...)
}
