package handlers

import (
	"context"

	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"github.com/akulagin/tg-flashcards-bot/pkg/ui"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleStart serves both /start and /cards: it registers the user on
// first contact and deals the first card.
func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !isValidMessage(update) {
		logger.Error("invalid update in HandleStart")
		return
	}

	session, created, err := resolveSession(update)
	if err != nil {
		logger.Error("failed to initialize user", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Failed to set up your account. Please try again later.",
		})
		return
	}

	if created {
		logger.Info("new user registered", "name", session.Name())
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   ui.Greeting(session.Name()),
		})
	}

	sendCard(ctx, b, update.Message.Chat.ID, session)
}
