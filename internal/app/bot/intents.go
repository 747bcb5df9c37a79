package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/kotche/notes/internal/model"
	notes_repo "github.com/kotche/notes/internal/repository/notes"
	"github.com/kotche/notes/internal/workspace"
	"go.uber.org/zap"
)

const (
	helpMessage = "Available commands:\n" +
		"/login {email} {password} - sign in\n" +
		"/signup {email} {password} - create an account\n" +
		"/notes - show your notes\n" +
		"/new - add a note\n" +
		"/logout - sign out\n" +
		"/help - show this message"

	loginHint = "Please sign in: /login {email} {password} or /signup {email} {password}"
)

// The intent methods run with the workspace locked and never talk to Telegram
// directly.

func (b *Bot) start(ctx context.Context, w *workspace.Workspace) reply {
	current := w.Auth.Restore(ctx)
	if user, ok := current.User(); ok {
		return b.notes(ctx, w, user)
	}
	return reply{text: "Welcome to Notes!\n\n" + loginHint}
}

func (b *Bot) login(ctx context.Context, w *workspace.Workspace, args []string) reply {
	email, password := credentials(args)

	user, err := w.Auth.Login(ctx, email, password)
	if err != nil {
		b.logger.Info("SignIn failed", zap.Int64("chat_id", int64(w.ChatID)), zap.Error(err))
		return reply{text: "Authentication Failed"}
	}

	view := b.notes(ctx, w, user)
	view.text = "SignIn successful\n\n" + view.text
	return view
}

func (b *Bot) signup(ctx context.Context, w *workspace.Workspace, args []string) reply {
	email, password := credentials(args)

	user, err := w.Auth.Signup(ctx, email, password)
	if err != nil {
		b.logger.Info("Couldn't create a user", zap.Int64("chat_id", int64(w.ChatID)), zap.Error(err))
		return reply{text: "User signup failed"}
	}

	view := b.notes(ctx, w, user)
	view.text = "User created successfully\n\n" + view.text
	return view
}

func (b *Bot) logout(ctx context.Context, w *workspace.Workspace) reply {
	if err := w.Auth.Logout(ctx); err != nil {
		b.logger.Warn("sign out reported an error", zap.Int64("chat_id", int64(w.ChatID)), zap.Error(err))
	}
	return reply{text: "Logged out\n\n" + loginHint}
}

func (b *Bot) showNotes(ctx context.Context, w *workspace.Workspace) reply {
	user, ok := w.Session.User().User()
	if !ok {
		return reply{text: loginHint}
	}
	return b.notes(ctx, w, user)
}

func (b *Bot) newNote(w *workspace.Workspace) reply {
	if !w.Session.User().SignedIn() {
		return reply{text: loginHint}
	}
	w.OpenEditor(model.NewNote{})
	return editorView(nil)
}

func (b *Bot) openNote(ctx context.Context, w *workspace.Workspace, data string) reply {
	user, ok := w.Session.User().User()
	if !ok {
		return reply{text: loginHint}
	}

	noteID, err := model.ParseNoteID(data)
	if err != nil {
		b.logger.Warn("failed to parse note id", zap.String("data", data), zap.Error(err))
		return b.notes(ctx, w, user)
	}

	note, err := w.Notes.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, model.ErrNoteNotFound) {
			view := b.notes(ctx, w, user)
			view.text = "Note not found\n\n" + view.text
			return view
		}
		b.logger.Error("failed to get note", zap.String("note_id", noteID.String()), zap.Error(err))
		return b.notes(ctx, w, user)
	}

	w.OpenEditor(model.TargetOf(&note))
	return editorView(&note)
}

// submit saves the text of an open editor. ok is false when no editor is open.
func (b *Bot) submit(ctx context.Context, w *workspace.Workspace, text string) (reply, bool) {
	user, signedIn := w.Session.User().User()
	if !signedIn || !w.EditorOpen() {
		return reply{}, false
	}

	target, _ := w.CloseEditor()
	title, content := parseNoteText(text)
	note, outcome := w.Notes.Upsert(ctx, target, title, content)

	b.logger.Debug("note saved",
		zap.Int64("chat_id", int64(w.ChatID)),
		zap.String("note_id", note.ID.String()),
		zap.Stringer("outcome", outcome),
	)

	view := b.notes(ctx, w, user)
	switch outcome {
	case notes_repo.Created:
		view.text = "Note added\n\n" + view.text
	case notes_repo.Updated:
		view.text = "Note updated\n\n" + view.text
	case notes_repo.Removed:
		view.text = "Note deleted\n\n" + view.text
	default:
		view.text = "Nothing to save\n\n" + view.text
	}
	return view, true
}

func (b *Bot) cancelEdit(ctx context.Context, w *workspace.Workspace) reply {
	w.CloseEditor()
	return b.showNotes(ctx, w)
}

func (b *Bot) deleteNote(ctx context.Context, w *workspace.Workspace) reply {
	user, ok := w.Session.User().User()
	if !ok {
		return reply{text: loginHint}
	}

	target, open := w.CloseEditor()
	existing, isExisting := target.(model.ExistingNote)
	if !open || !isExisting {
		return b.notes(ctx, w, user)
	}

	if !w.Notes.Delete(ctx, existing.ID) {
		return b.notes(ctx, w, user)
	}

	view := b.notes(ctx, w, user)
	view.text = "Note deleted\n\n" + view.text
	return view
}

func (b *Bot) notes(ctx context.Context, w *workspace.Workspace, user model.Identity) reply {
	return notesView(user, w.Notes.List(ctx))
}

func credentials(args []string) (email, password string) {
	if len(args) > 0 {
		email = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		password = args[1]
	}
	return email, password
}
