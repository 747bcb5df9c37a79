package session

import (
	"testing"

	"github.com/kotche/notes/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestState_StartsAnonymous(t *testing.T) {
	s := New()

	_, ok := s.User().User()
	assert.False(t, ok)
}

func TestState_RoundTrip(t *testing.T) {
	s := New()
	user := model.Identity{ID: "u-1", Email: "ann@example.com"}

	s.SetUser(model.Anonymous())
	_, ok := s.User().User()
	assert.False(t, ok)

	s.SetUser(model.SignedIn(user))
	got, ok := s.User().User()
	assert.True(t, ok)
	assert.Equal(t, user, got)

	s.SetUser(model.Anonymous())
	got, ok = s.User().User()
	assert.False(t, ok)
	assert.Equal(t, model.Identity{}, got)
}

func TestState_NotifiesSubscribers(t *testing.T) {
	s := New()

	var seen []bool
	s.Subscribe(func(sess model.Session) { seen = append(seen, sess.SignedIn()) })

	s.SetUser(model.SignedIn(model.Identity{Email: "a@b.c"}))
	s.SetUser(model.Anonymous())

	assert.Equal(t, []bool{true, false}, seen)
}
