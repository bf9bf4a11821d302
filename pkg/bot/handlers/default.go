package handlers

import (
	"context"
	"strings"

	"github.com/akulagin/tg-flashcards-bot/pkg/bot/quiz"
	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"github.com/akulagin/tg-flashcards-bot/pkg/ui"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// DefaultHandler routes every non-command message: keyboard buttons,
// pending add/delete input, and quiz answers.
func DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		logger.Error("received invalid update in DefaultHandler")
		return
	}
	if !isValidMessage(update) {
		logger.Error("chat or sender missing in DefaultHandler")
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   ui.Help(),
		})
		return
	}

	chatID := update.Message.Chat.ID
	session, _, err := resolveSession(update)
	if err != nil {
		logger.Error("failed to resolve session", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Something went wrong. Please try again later.",
		})
		return
	}

	switch text {
	case ui.ButtonNext:
		sendCard(ctx, b, chatID, session)
		return
	case ui.ButtonAddWord:
		promptAddWord(ctx, b, chatID, session)
		return
	case ui.ButtonDeleteWord:
		promptDeleteWord(ctx, b, chatID, session)
		return
	}

	switch quiz.DefaultManager.ConsumePending(session) {
	case quiz.PendingAddWord:
		processAddWord(ctx, b, chatID, session, text)
		return
	case quiz.PendingDeleteWord:
		processDeleteWord(ctx, b, chatID, session, text)
		return
	}

	result := quiz.DefaultManager.ResolveAnswer(session, text)
	if !result.Active {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.Help(),
		})
		return
	}

	if result.Correct {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   ui.CorrectAnswer(result.Card.Target, result.Card.Translation),
		})
		sendCard(ctx, b, chatID, session)
		return
	}

	// Wrong guess: the card stays active and the keyboard stays up, so the
	// user can simply tap another option.
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.WrongAnswer(result.Card.Translation),
	})
}
