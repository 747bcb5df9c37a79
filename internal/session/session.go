// Package session tracks who is signed in, independent of how that was decided.
package session

import (
	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/state"
)

type State struct {
	current *state.Observable[model.Session]
}

func New() *State {
	return &State{current: state.NewObservable(model.Anonymous())}
}

// SetUser replaces the held session unconditionally.
func (s *State) SetUser(session model.Session) {
	s.current.Set(session)
}

func (s *State) User() model.Session {
	return s.current.Get()
}

func (s *State) Subscribe(fn func(model.Session)) func() {
	return s.current.Subscribe(fn)
}
