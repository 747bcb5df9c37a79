package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kotche/notes/internal/model"
	"gopkg.in/telebot.v3"
)

const (
	uniqueOpen   = "note_open"
	uniqueAdd    = "note_add"
	uniqueDelete = "note_delete"
	uniqueCancel = "note_cancel"
	uniqueLogOut = "log_out"

	gridColumns  = 2
	maxCellRunes = 28
)

// reply is what a handler answers with; markup may be nil.
type reply struct {
	text   string
	markup *telebot.ReplyMarkup
}

// gridMarkup lays the notes out two per row, front of the list first, followed
// by the add and log out buttons.
func gridMarkup(notes []model.Note) *telebot.ReplyMarkup {
	rows := make([][]telebot.InlineButton, 0, len(notes)/gridColumns+2)

	for i, note := range notes {
		button := telebot.InlineButton{
			Unique: uniqueOpen,
			Text:   cellText(note),
			Data:   note.ID.String(),
		}
		if i%gridColumns == 0 {
			rows = append(rows, []telebot.InlineButton{button})
		} else {
			rows[len(rows)-1] = append(rows[len(rows)-1], button)
		}
	}

	rows = append(rows, []telebot.InlineButton{
		{Unique: uniqueAdd, Text: "Add Note"},
		{Unique: uniqueLogOut, Text: "Log out"},
	})

	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

func editorMarkup(existing bool) *telebot.ReplyMarkup {
	row := []telebot.InlineButton{{Unique: uniqueCancel, Text: "Cancel"}}
	if existing {
		row = append([]telebot.InlineButton{{Unique: uniqueDelete, Text: "Delete Note"}}, row...)
	}
	return &telebot.ReplyMarkup{InlineKeyboard: [][]telebot.InlineButton{row}}
}

// cellText prefers the title and falls back to the content.
func cellText(note model.Note) string {
	text := strings.TrimSpace(note.Title)
	if text == "" {
		text = strings.TrimSpace(note.Content)
	}
	if text == "" {
		return "(empty)"
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > maxCellRunes {
		runes := []rune(text)
		text = string(runes[:maxCellRunes-1]) + "…"
	}
	return text
}

// parseNoteText splits a submitted message: the first line is the title, the
// rest is the content.
func parseNoteText(text string) (title, content string) {
	first, rest, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(first), strings.TrimSpace(rest)
}

func notesView(user model.Identity, notes []model.Note) reply {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Hello %s!\n\n", user.Email))
	if len(notes) == 0 {
		b.WriteString("No notes")
	} else {
		b.WriteString(fmt.Sprintf("Notes: %d. Tap one to edit it.", len(notes)))
	}
	return reply{text: b.String(), markup: gridMarkup(notes)}
}

func editorView(note *model.Note) reply {
	if note == nil {
		return reply{
			text:   "New note. Send its text: the first line is the title, the rest is the content.",
			markup: editorMarkup(false),
		}
	}

	return reply{
		text: fmt.Sprintf("%s\n\n%s\n\nSend the new text to update this note: the first line is the title, the rest is the content.",
			orPlaceholder(note.Title, "Title"), orPlaceholder(note.Content, "Content")),
		markup: editorMarkup(true),
	}
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return "(" + placeholder + ")"
	}
	return s
}
