// Package workspace gives every chat its own session and note list.
package workspace

import (
	"sync"

	"github.com/kotche/notes/internal/metrics"
	"github.com/kotche/notes/internal/model"
	notes_repo "github.com/kotche/notes/internal/repository/notes"
	"github.com/kotche/notes/internal/service/auth"
	notes_serv "github.com/kotche/notes/internal/service/notes"
	"github.com/kotche/notes/internal/session"
	"go.uber.org/zap"
)

// Workspace is one running instance of the notes application.
//
// Mutations from concurrent handlers of the same chat are serialized by Lock.
type Workspace struct {
	ChatID  model.ChatID
	Session *session.State
	Notes   notes_serv.Service
	Auth    *auth.Authenticator

	mu     sync.Mutex
	editor editor
}

type editor struct {
	open   bool
	target model.Target
}

func (w *Workspace) Lock()   { w.mu.Lock() }
func (w *Workspace) Unlock() { w.mu.Unlock() }

// OpenEditor starts editing target. The caller holds the lock.
func (w *Workspace) OpenEditor(target model.Target) {
	w.editor = editor{open: true, target: target}
}

// CloseEditor ends editing and returns what was being edited. The caller holds
// the lock.
func (w *Workspace) CloseEditor() (model.Target, bool) {
	e := w.editor
	w.editor = editor{}
	return e.target, e.open
}

func (w *Workspace) EditorOpen() bool {
	return w.editor.open
}

type Registry struct {
	newProvider func() auth.Provider
	publisher   notes_serv.EventPublisher
	repoOptions []notes_repo.Option
	logger      *zap.Logger

	mu         sync.Mutex
	workspaces map[model.ChatID]*Workspace
}

func NewRegistry(
	newProvider func() auth.Provider,
	publisher notes_serv.EventPublisher,
	logger *zap.Logger,
	repoOptions ...notes_repo.Option,
) *Registry {
	return &Registry{
		newProvider: newProvider,
		publisher:   publisher,
		repoOptions: repoOptions,
		logger:      logger,
		workspaces:  make(map[model.ChatID]*Workspace),
	}
}

// Get returns the workspace of chatID, creating it on first use.
func (r *Registry) Get(chatID model.ChatID) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workspaces[chatID]; ok {
		return w
	}

	w := r.build(chatID)
	r.workspaces[chatID] = w
	metrics.ActiveWorkspacesGauge.Set(float64(len(r.workspaces)))
	return w
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *Registry) build(chatID model.ChatID) *Workspace {
	logger := r.logger.With(zap.Int64("chat_id", int64(chatID)))

	repo := notes_repo.NewMemoryRepository(r.repoOptions...)
	sess := session.New()

	w := &Workspace{
		ChatID:  chatID,
		Session: sess,
		Notes:   notes_serv.NewDefaultService(chatID, repo, r.publisher, logger),
		Auth:    auth.NewAuthenticator(r.newProvider(), sess, logger),
	}

	// Signing out abandons any half-written note. Session changes always
	// happen under the workspace lock.
	sess.Subscribe(func(s model.Session) {
		if !s.SignedIn() {
			w.CloseEditor()
		}
		logger.Debug("session changed", zap.Bool("signed_in", s.SignedIn()))
	})
	repo.Subscribe(func(notes []model.Note) {
		logger.Debug("notes changed", zap.Int("count", len(notes)))
	})

	return w
}
