// pkg/db/vocab.go
package db

import (
	"errors"
	"strings"

	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"gorm.io/gorm"
)

// AddOutcome reports what AddWord did. Constraint races at commit time are
// converted to WordConflict instead of escaping as storage errors.
type AddOutcome int

const (
	WordAdded AddOutcome = iota
	WordAlreadyAssigned
	WordConflict
)

// NormalizeTerm is applied to every word and translation at write time and
// to lookups, so "Cat" and "cat" are the same vocabulary entry.
func NormalizeTerm(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// EnsureUser creates the user if missing. A duplicate-name race at commit
// time means someone else created it first, which is just as good.
func EnsureUser(name string) (User, bool, error) {
	name = strings.TrimSpace(name)

	var user User
	err := DB.Where("name = ?", name).First(&user).Error
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, false, err
	}

	user = User{Name: name}
	if err := DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := DB.Where("name = ?", name).First(&user).Error; err != nil {
				return User{}, false, err
			}
			return user, false, nil
		}
		return User{}, false, err
	}
	return user, true, nil
}

// visibleWords scopes a words query to the set the user can be quizzed on:
// their personal words plus the reserved user's shared vocabulary.
func visibleWords(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Model(&Word{}).
		Joins("JOIN user_words ON user_words.word_id = words.id").
		Where("user_words.user_id IN ?", []uint{ReservedUserID, userID})
}

// CountStudyWords returns the size of the user's study set. Counted over
// assignments, so a personal word that also lives in the shared vocabulary
// contributes for each; adding a word always bumps the count by one.
func CountStudyWords(userID uint) (int64, error) {
	var count int64
	err := visibleWords(DB, userID).Count(&count).Error
	return count, err
}

// AddWord assigns a word to the user, creating the Word row first if no user
// has it yet. Word creation and assignment commit together; a constraint
// violation rolls both back and reports WordConflict. Returns the updated
// study-word count for the user.
func AddWord(word, translate string, userID uint) (int64, AddOutcome, error) {
	word = NormalizeTerm(word)
	translate = NormalizeTerm(translate)

	outcome := WordAdded
	err := DB.Transaction(func(tx *gorm.DB) error {
		var entry Word
		err := tx.Where("target_word = ?", word).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = Word{TargetWord: word, Translate: translate}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var assignment UserWord
		err = tx.Where("user_id = ? AND word_id = ?", userID, entry.ID).First(&assignment).Error
		if err == nil {
			outcome = WordAlreadyAssigned
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&UserWord{UserID: userID, WordID: entry.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Debug("add word lost a constraint race", "word", word, "user_id", userID)
			count, countErr := CountStudyWords(userID)
			return count, WordConflict, countErr
		}
		return 0, WordConflict, err
	}

	count, err := CountStudyWords(userID)
	return count, outcome, err
}

// FindWord looks up a word by its normalized text. Returns nil when absent.
func FindWord(word string) (*Word, error) {
	var entry Word
	err := DB.Where("target_word = ?", NormalizeTerm(word)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteWord removes the user's assignment for the word, then deletes the
// Word itself once no assignment references it. A word the user never had
// is a no-op, not an error.
func DeleteWord(word string, userID uint) error {
	word = NormalizeTerm(word)

	return DB.Transaction(func(tx *gorm.DB) error {
		var entry Word
		err := tx.Where("target_word = ?", word).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND word_id = ?", userID, entry.ID).Delete(&UserWord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var remaining int64
		if err := tx.Model(&UserWord{}).Where("word_id = ?", entry.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Delete(&Word{}, entry.ID).Error
		}
		return nil
	})
}

// PickRandomWordPair samples one word uniformly from the user's visible set,
// skipping any word whose text appears in excluded. Returns nil when no
// candidate remains.
func PickRandomWordPair(userID uint, excluded []string) (*Word, error) {
	query := visibleWords(DB, userID)
	if len(excluded) > 0 {
		query = query.Where("words.target_word NOT IN ?", normalizeAll(excluded))
	}

	var words []Word
	err := query.Select("words.*").Group("words.id").Order("RANDOM()").Limit(1).Find(&words).Error
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	return &words[0], nil
}

// PickDistractors samples up to limit distinct visible word texts, excluding
// the target and everything in excluded. A shortage is not an error; callers
// get whatever the vocabulary can supply.
func PickDistractors(userID uint, target string, excluded []string, limit int) ([]string, error) {
	exclude := append(normalizeAll(excluded), NormalizeTerm(target))

	var texts []string
	err := visibleWords(DB, userID).
		Where("words.target_word NOT IN ?", exclude).
		Group("words.id").
		Order("RANDOM()").
		Limit(limit).
		Pluck("words.target_word", &texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

func normalizeAll(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		normalized = append(normalized, NormalizeTerm(value))
	}
	return normalized
}
