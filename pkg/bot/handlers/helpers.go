package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/akulagin/tg-flashcards-bot/pkg/bot/quiz"
	"github.com/akulagin/tg-flashcards-bot/pkg/db"
	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"github.com/akulagin/tg-flashcards-bot/pkg/ui"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func isValidMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.From != nil && update.Message.Chat.ID != 0
}

// userDisplayName picks the identity string for the vocabulary store:
// username when set, otherwise first name, otherwise the numeric id.
func userDisplayName(from *models.User) string {
	if from.Username != "" {
		return from.Username
	}
	if from.FirstName != "" {
		return from.FirstName
	}
	return strconv.FormatInt(from.ID, 10)
}

// resolveSession ensures both the store user and the conversation session
// exist, so every handler works even without a prior /start.
func resolveSession(update *models.Update) (*quiz.Session, bool, error) {
	name := userDisplayName(update.Message.From)
	user, created, err := db.EnsureUser(name)
	if err != nil {
		return nil, false, err
	}
	session := quiz.DefaultManager.Ensure(update.Message.Chat.ID, update.Message.From.ID, user.ID, name)
	return session, created, nil
}

// sendCard asks the selector for the next card and renders it with the
// shuffled answer keyboard.
func sendCard(ctx context.Context, b *bot.Bot, chatID int64, session *quiz.Session) {
	card, err := quiz.DefaultManager.NextCard(session)
	if errors.Is(err, quiz.ErrNoWordsAvailable) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        ui.NoWordsAvailable(),
			ReplyMarkup: ui.AnswerKeyboard(nil),
		})
		return
	}
	if err != nil {
		logger.Error("failed to pick the next card", "user_id", session.VocabUserID(), "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Failed to prepare the next card. Please try again later.",
		})
		return
	}

	options := append([]string{card.Target}, card.Distractors...)
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        ui.QuizPrompt(card.Translation),
		ReplyMarkup: ui.AnswerKeyboard(options),
	})
	if err != nil {
		logger.Error("failed to send card message", "user_id", session.VocabUserID(), "error", err)
	}
}
