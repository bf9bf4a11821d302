package ui

import (
	"math/rand"

	"github.com/go-telegram/bot/models"
)

const (
	ButtonNext       = "Next ⏭"
	ButtonAddWord    = "Add word ➕"
	ButtonDeleteWord = "Delete word 🔙"
)

const answersPerRow = 2

// AnswerKeyboard builds the reply keyboard for a card: the answer options
// shuffled so the correct one has no fixed slot, then the control row.
func AnswerKeyboard(options []string) *models.ReplyKeyboardMarkup {
	shuffled := append([]string(nil), options...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	keyboard := make([][]models.KeyboardButton, 0, len(shuffled)/answersPerRow+2)
	row := make([]models.KeyboardButton, 0, answersPerRow)
	for _, option := range shuffled {
		row = append(row, models.KeyboardButton{Text: option})
		if len(row) == answersPerRow {
			keyboard = append(keyboard, row)
			row = make([]models.KeyboardButton, 0, answersPerRow)
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, []models.KeyboardButton{
		{Text: ButtonNext},
	})
	keyboard = append(keyboard, []models.KeyboardButton{
		{Text: ButtonAddWord},
		{Text: ButtonDeleteWord},
	})

	return &models.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}
