package bot

import (
	"context"
	"time"

	"github.com/kotche/notes/infrastructure/metrics"
	"github.com/kotche/notes/internal/model"
	"github.com/kotche/notes/internal/workspace"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

const (
	longProcessTimeout = 10 * time.Second
)

// Bot is the Telegram front end of the notes application. Each chat gets its
// own workspace.
type Bot struct {
	bot       *telebot.Bot
	workspace *workspace.Registry
	logger    *zap.Logger
}

func New(bot *telebot.Bot, registry *workspace.Registry, logger *zap.Logger) *Bot {
	return &Bot{bot: bot, workspace: registry, logger: logger}
}

func (b *Bot) Start() {
	b.bot.Handle("/start", b.handle("start", func(ctx context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.start(ctx, w), true
	}))
	b.bot.Handle("/help", func(c telebot.Context) error {
		return c.Send(helpMessage)
	})
	b.bot.Handle("/login", b.handle("login", func(ctx context.Context, w *workspace.Workspace, c telebot.Context) (reply, bool) {
		b.dropCredentials(c)
		return b.login(ctx, w, c.Args()), true
	}))
	b.bot.Handle("/signup", b.handle("signup", func(ctx context.Context, w *workspace.Workspace, c telebot.Context) (reply, bool) {
		b.dropCredentials(c)
		return b.signup(ctx, w, c.Args()), true
	}))
	b.bot.Handle("/logout", b.handle("logout", func(ctx context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.logout(ctx, w), true
	}))
	b.bot.Handle("/notes", b.handle("notes", func(ctx context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.showNotes(ctx, w), true
	}))
	b.bot.Handle("/new", b.handle("new", func(_ context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.newNote(w), true
	}))
	b.bot.Handle(telebot.OnText, b.handle("text", func(ctx context.Context, w *workspace.Workspace, c telebot.Context) (reply, bool) {
		// Любой текст вне редактора игнорируем
		return b.submit(ctx, w, c.Text())
	}))

	b.bot.Handle(&telebot.InlineButton{Unique: uniqueOpen}, b.handle("open", func(ctx context.Context, w *workspace.Workspace, c telebot.Context) (reply, bool) {
		return b.openNote(ctx, w, c.Data()), true
	}))
	b.bot.Handle(&telebot.InlineButton{Unique: uniqueAdd}, b.handle("add", func(_ context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.newNote(w), true
	}))
	b.bot.Handle(&telebot.InlineButton{Unique: uniqueDelete}, b.handle("delete", func(ctx context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.deleteNote(ctx, w), true
	}))
	b.bot.Handle(&telebot.InlineButton{Unique: uniqueCancel}, b.handle("cancel", func(ctx context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.cancelEdit(ctx, w), true
	}))
	b.bot.Handle(&telebot.InlineButton{Unique: uniqueLogOut}, b.handle("logout", func(ctx context.Context, w *workspace.Workspace, _ telebot.Context) (reply, bool) {
		return b.logout(ctx, w), true
	}))

	b.logger.Info("Bot started...")
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

type intent func(ctx context.Context, w *workspace.Workspace, c telebot.Context) (reply, bool)

// handle runs fn with the chat's workspace locked, under a timeout, and sends
// the reply.
func (b *Bot) handle(name string, fn intent) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		start := time.Now()
		defer metrics.ObserveSince(name, start)

		if c.Callback() != nil {
			if err := c.Respond(); err != nil {
				b.logger.Debug("failed to answer callback", zap.Error(err))
			}
		}

		chat := c.Chat()
		if chat == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), longProcessTimeout)
		defer cancel()

		w := b.workspace.Get(model.ChatID(chat.ID))
		w.Lock()
		r, ok := fn(ctx, w, c)
		w.Unlock()

		if !ok {
			return nil
		}
		if r.markup != nil {
			return c.Send(r.text, r.markup)
		}
		return c.Send(r.text)
	}
}

// dropCredentials removes the message carrying a password from the chat.
func (b *Bot) dropCredentials(c telebot.Context) {
	if err := c.Delete(); err != nil {
		b.logger.Debug("failed to delete credentials message", zap.Error(err))
	}
}
