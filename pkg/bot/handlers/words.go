package handlers

import (
	"context"
	"strings"

	"github.com/akulagin/tg-flashcards-bot/pkg/bot/quiz"
	"github.com/akulagin/tg-flashcards-bot/pkg/db"
	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"github.com/akulagin/tg-flashcards-bot/pkg/ui"
	"github.com/go-telegram/bot"
)

func promptAddWord(ctx context.Context, b *bot.Bot, chatID int64, session *quiz.Session) {
	quiz.DefaultManager.SetPending(session, quiz.PendingAddWord)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.AskWordToAdd(session.Name()),
	})
}

func promptDeleteWord(ctx context.Context, b *bot.Bot, chatID int64, session *quiz.Session) {
	quiz.DefaultManager.SetPending(session, quiz.PendingDeleteWord)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.AskWordToDelete(session.Name()),
	})
}

// processAddWord handles the message following the add prompt, expected as
// "word translation". Token-count validation lives here, not in the store.
func processAddWord(ctx context.Context, b *bot.Bot, chatID int64, session *quiz.Session, text string) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.AddWordUsageHint(),
		})
		sendCard(ctx, b, chatID, session)
		return
	}

	word, translation := fields[0], fields[1]
	count, outcome, err := db.AddWord(word, translation, session.VocabUserID())
	if err != nil {
		logger.Error("failed to add word", "word", word, "user_id", session.VocabUserID(), "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to add the word. Please try again later.",
		})
		sendCard(ctx, b, chatID, session)
		return
	}

	normalized := db.NormalizeTerm(word)
	switch outcome {
	case db.WordAdded:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.WordAdded(normalized, db.NormalizeTerm(translation), count),
		})
	case db.WordAlreadyAssigned:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.WordAlreadyAssigned(normalized, count),
		})
	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "The word could not be added right now. Please try again.",
		})
	}

	sendCard(ctx, b, chatID, session)
}

// processDeleteWord handles the message following the delete prompt.
func processDeleteWord(ctx context.Context, b *bot.Bot, chatID int64, session *quiz.Session, text string) {
	word := db.NormalizeTerm(text)

	entry, err := db.FindWord(word)
	if err != nil {
		logger.Error("failed to look up word", "word", word, "user_id", session.VocabUserID(), "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to delete the word. Please try again later.",
		})
		sendCard(ctx, b, chatID, session)
		return
	}
	if entry == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.NoSuchWord(session.Name()),
		})
		sendCard(ctx, b, chatID, session)
		return
	}

	if err := db.DeleteWord(word, session.VocabUserID()); err != nil {
		logger.Error("failed to delete word", "word", word, "user_id", session.VocabUserID(), "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to delete the word. Please try again later.",
		})
		sendCard(ctx, b, chatID, session)
		return
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.WordDeleted(word),
	})
	sendCard(ctx, b, chatID, session)
}
