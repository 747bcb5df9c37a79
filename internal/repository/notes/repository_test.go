package notes

import (
	"testing"

	"github.com/kotche/notes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(notes []model.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

// fill creates X, Y, Z so that the sequence reads [X, Y, Z] front to back.
func fill(t *testing.T, r *MemoryRepository) (x, y, z model.Note) {
	t.Helper()
	z, _ = r.Upsert(model.NewNote{}, "Z", "z")
	y, _ = r.Upsert(model.NewNote{}, "Y", "y")
	x, _ = r.Upsert(model.NewNote{}, "X", "x")
	require.Equal(t, []string{"X", "Y", "Z"}, titles(r.List()))
	return x, y, z
}

func TestUpsert_CreatesAtFront(t *testing.T) {
	r := NewMemoryRepository()

	note, outcome := r.Upsert(model.NewNote{}, "A", "B")

	assert.Equal(t, Created, outcome)
	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "B", list[0].Content)
	assert.Equal(t, note.ID, list[0].ID)
}

func TestUpsert_EmptyNewNoteIsNoop(t *testing.T) {
	r := NewMemoryRepository()
	fill(t, r)
	before := r.List()

	notified := false
	r.Subscribe(func([]model.Note) { notified = true })

	_, outcome := r.Upsert(model.NewNote{}, "", "")

	assert.Equal(t, Ignored, outcome)
	assert.Equal(t, before, r.List())
	assert.False(t, notified)
}

func TestUpsert_NilTargetActsAsNew(t *testing.T) {
	r := NewMemoryRepository()

	_, outcome := r.Upsert(model.TargetOf(nil), "", "only content")

	assert.Equal(t, Created, outcome)
	assert.Len(t, r.List(), 1)
}

func TestUpsert_EditPromotesToFront(t *testing.T) {
	r := NewMemoryRepository()
	x, y, z := fill(t, r)

	edited, outcome := r.Upsert(model.TargetOf(&y), "newTitle", "newContent")

	assert.Equal(t, Updated, outcome)
	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, model.Note{ID: y.ID, Title: "newTitle", Content: "newContent"}, list[0])
	assert.Equal(t, edited, list[0])
	assert.Equal(t, x, list[1])
	assert.Equal(t, z, list[2])
}

func TestUpsert_ResaveUnchangedStillPromotes(t *testing.T) {
	r := NewMemoryRepository()
	_, _, z := fill(t, r)

	_, outcome := r.Upsert(model.ExistingNote{ID: z.ID}, z.Title, z.Content)

	assert.Equal(t, Updated, outcome)
	assert.Equal(t, []string{"Z", "X", "Y"}, titles(r.List()))
}

func TestUpsert_StaleExistingIsReinsertedWithItsID(t *testing.T) {
	r := NewMemoryRepository()
	x, y, _ := fill(t, r)
	r.Delete(y.ID)

	note, outcome := r.Upsert(model.ExistingNote{ID: y.ID}, "back", "again")

	assert.Equal(t, Created, outcome)
	assert.Equal(t, y.ID, note.ID)
	list := r.List()
	assert.Equal(t, []string{"back", "X", "Z"}, titles(list))
	assert.Equal(t, x, list[1])
}

func TestUpsert_StaleExistingBlankIsIgnored(t *testing.T) {
	r := NewMemoryRepository(WithEmptyEditPolicy(KeepEmptyEdit))
	_, y, _ := fill(t, r)
	r.Delete(y.ID)

	_, outcome := r.Upsert(model.ExistingNote{ID: y.ID}, "", "")

	assert.Equal(t, Ignored, outcome)
	assert.Equal(t, []string{"X", "Z"}, titles(r.List()))
}

func TestUpsert_BlankEditDeletesByDefault(t *testing.T) {
	r := NewMemoryRepository()
	x, y, z := fill(t, r)

	removed, outcome := r.Upsert(model.ExistingNote{ID: y.ID}, "", "")

	assert.Equal(t, Removed, outcome)
	assert.Equal(t, y, removed)
	assert.Equal(t, []model.Note{x, z}, r.List())
}

func TestUpsert_BlankEditKeepsWhenConfigured(t *testing.T) {
	r := NewMemoryRepository(WithEmptyEditPolicy(KeepEmptyEdit))
	x, y, z := fill(t, r)

	_, outcome := r.Upsert(model.ExistingNote{ID: y.ID}, "", "")

	assert.Equal(t, Updated, outcome)
	assert.Equal(t, []model.Note{{ID: y.ID}, x, z}, r.List())
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	r := NewMemoryRepository()
	x, y, z := fill(t, r)

	removed, ok := r.Delete(y.ID)
	assert.True(t, ok)
	assert.Equal(t, y, removed)
	assert.Equal(t, []model.Note{x, z}, r.List())

	_, ok = r.Delete(y.ID)
	assert.False(t, ok)
	assert.Equal(t, []model.Note{x, z}, r.List())
}

func TestUpsert_IDsAreUnique(t *testing.T) {
	r := NewMemoryRepository()

	const n = 500
	seen := make(map[model.NoteID]struct{}, n)
	for i := 0; i < n; i++ {
		note, outcome := r.Upsert(model.NewNote{}, "t", "")
		require.Equal(t, Created, outcome)
		seen[note.ID] = struct{}{}
	}

	assert.Len(t, seen, n)
	assert.Len(t, r.List(), n)
}

func TestList_ReturnsSnapshot(t *testing.T) {
	r := NewMemoryRepository()
	fill(t, r)

	list := r.List()
	list[0].Title = "mutated"

	assert.Equal(t, "X", r.List()[0].Title)
}

func TestSubscribe_ReceivesEveryChange(t *testing.T) {
	r := NewMemoryRepository()

	var sizes []int
	r.Subscribe(func(notes []model.Note) { sizes = append(sizes, len(notes)) })

	a, _ := r.Upsert(model.NewNote{}, "a", "")
	r.Upsert(model.NewNote{}, "b", "")
	r.Delete(a.ID)
	r.Delete(a.ID)

	assert.Equal(t, []int{1, 2, 1}, sizes)
}

func TestGet(t *testing.T) {
	r := NewMemoryRepository()
	x, _, _ := fill(t, r)

	got, ok := r.Get(x.ID)
	assert.True(t, ok)
	assert.Equal(t, x, got)

	_, ok = r.Get(model.NewNoteID())
	assert.False(t, ok)
}

func TestWithSeed(t *testing.T) {
	r := NewMemoryRepository(WithSeed([]SeedNote{
		{Title: "Grocery List", Content: "Milk, Eggs"},
		{},
		{Title: "Ideas"},
	}))

	list := r.List()
	assert.Equal(t, []string{"Grocery List", "Ideas"}, titles(list))
	assert.NotEqual(t, list[0].ID, list[1].ID)
}

func TestParseEmptyEditPolicy(t *testing.T) {
	p, ok := ParseEmptyEditPolicy("")
	assert.True(t, ok)
	assert.Equal(t, DeleteEmptyEdit, p)

	p, ok = ParseEmptyEditPolicy("keep")
	assert.True(t, ok)
	assert.Equal(t, KeepEmptyEdit, p)

	_, ok = ParseEmptyEditPolicy("archive")
	assert.False(t, ok)
}
