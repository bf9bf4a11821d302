// pkg/db/seed.go
package db

import (
	"errors"
	"fmt"

	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"gorm.io/gorm"
)

// seedVocabulary is the shared starter set every user is quizzed on until
// they build a personal list. Stored lowercase like everything AddWord
// writes.
var seedVocabulary = []Word{
	{TargetWord: "red", Translate: "красный"},
	{TargetWord: "blue", Translate: "синий"},
	{TargetWord: "green", Translate: "зеленый"},
	{TargetWord: "i", Translate: "я"},
	{TargetWord: "you", Translate: "ты"},
	{TargetWord: "they", Translate: "они"},
	{TargetWord: "run", Translate: "бежать"},
	{TargetWord: "jump", Translate: "прыгать"},
	{TargetWord: "eat", Translate: "есть"},
	{TargetWord: "cat", Translate: "кошка"},
	{TargetWord: "dog", Translate: "собака"},
	{TargetWord: "elephant", Translate: "слон"},
	{TargetWord: "book", Translate: "книга"},
	{TargetWord: "sun", Translate: "солнце"},
	{TargetWord: "water", Translate: "вода"},
}

// SeedDefaults creates the reserved user and its shared vocabulary. Runs
// only when the reserved user does not exist yet, so calling it on every
// startup is safe.
func SeedDefaults() error {
	var reserved User
	err := DB.Where("name = ?", ReservedUserName).First(&reserved).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	err = DB.Transaction(func(tx *gorm.DB) error {
		user := User{Name: ReservedUserName}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// Seeding happens before any user can register, so the reserved
		// user must land on the well-known id the visibility queries use.
		if user.ID != ReservedUserID {
			return fmt.Errorf("reserved user got id %d, want %d", user.ID, ReservedUserID)
		}
		for _, seed := range seedVocabulary {
			word := Word{TargetWord: seed.TargetWord, Translate: seed.Translate}
			if err := tx.Where("target_word = ?", word.TargetWord).FirstOrCreate(&word).Error; err != nil {
				return err
			}
			if err := tx.Create(&UserWord{UserID: user.ID, WordID: word.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Two instances racing to seed: the loser's transaction fails on
		// the unique name and the winner's data is already in place.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Info("seed skipped, another instance initialized the vocabulary")
			return nil
		}
		return err
	}

	logger.Info("seeded default vocabulary", "words", len(seedVocabulary))
	return nil
}
