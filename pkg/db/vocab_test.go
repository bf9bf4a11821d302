package db

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVocabTestDB(t *testing.T, name string) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := gdb.AutoMigrate(&User{}, &Word{}, &UserWord{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	DB = gdb

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access underlying DB: %v", err)
	}
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}
		DB = nil
	})
}

func TestEnsureUserCreatesOnce(t *testing.T) {
	setupVocabTestDB(t, "ensure_user")

	first, created, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if !created {
		t.Fatal("expected first EnsureUser call to create the user")
	}

	second, created, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed on repeat: %v", err)
	}
	if created {
		t.Fatal("expected second EnsureUser call to find the existing user")
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same user id, got %d and %d", first.ID, second.ID)
	}

	var count int64
	if err := DB.Model(&User{}).Where("name = ?", "alice").Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one alice row, got %d", count)
	}
}

func TestAddWordSharedDedupScenario(t *testing.T) {
	setupVocabTestDB(t, "add_shared_dedup")

	if err := SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	count, err := CountStudyWords(alice.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}
	if count != 15 {
		t.Fatalf("expected 15 shared words before adding, got %d", count)
	}

	// "cat" already exists in the seed vocabulary: the Word row must be
	// reused, only the assignment is new.
	count, outcome, err := AddWord("cat", "кошка", alice.ID)
	if err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}
	if outcome != WordAdded {
		t.Fatalf("expected WordAdded, got %v", outcome)
	}
	if count != 16 {
		t.Fatalf("expected study count 16 after first add, got %d", count)
	}

	var wordRows int64
	if err := DB.Model(&Word{}).Where("target_word = ?", "cat").Count(&wordRows).Error; err != nil {
		t.Fatalf("failed to count word rows: %v", err)
	}
	if wordRows != 1 {
		t.Fatalf("expected cat to stay a single Word row, got %d", wordRows)
	}

	count, outcome, err = AddWord("cat", "кошка", alice.ID)
	if err != nil {
		t.Fatalf("repeated AddWord failed: %v", err)
	}
	if outcome != WordAlreadyAssigned {
		t.Fatalf("expected WordAlreadyAssigned on repeat, got %v", outcome)
	}
	if count != 16 {
		t.Fatalf("expected study count to stay 16 on repeated add, got %d", count)
	}
}

func TestAddWordNormalizesCase(t *testing.T) {
	setupVocabTestDB(t, "add_normalize")

	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	if _, _, err := AddWord("  Table ", "СТОЛ", alice.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	entry, err := FindWord("table")
	if err != nil {
		t.Fatalf("FindWord failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected normalized word to be retrievable")
	}
	if entry.TargetWord != "table" || entry.Translate != "стол" {
		t.Fatalf("expected lowercase storage, got %q -> %q", entry.TargetWord, entry.Translate)
	}

	_, outcome, err := AddWord("TABLE", "стол", alice.ID)
	if err != nil {
		t.Fatalf("AddWord failed on case variant: %v", err)
	}
	if outcome != WordAlreadyAssigned {
		t.Fatalf("expected case variant to be the same word, got %v", outcome)
	}
}

func TestDeleteWordIdempotent(t *testing.T) {
	setupVocabTestDB(t, "delete_idempotent")

	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if _, _, err := AddWord("table", "стол", alice.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	if err := DeleteWord("table", alice.ID); err != nil {
		t.Fatalf("first DeleteWord failed: %v", err)
	}
	if err := DeleteWord("table", alice.ID); err != nil {
		t.Fatalf("second DeleteWord should be a no-op, got: %v", err)
	}

	count, err := CountStudyWords(alice.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty study set after delete, got %d", count)
	}
}

func TestDeleteWordGarbageCollectsOrphan(t *testing.T) {
	setupVocabTestDB(t, "delete_orphan")

	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if _, _, err := AddWord("table", "стол", alice.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	if err := DeleteWord("table", alice.ID); err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}

	entry, err := FindWord("table")
	if err != nil {
		t.Fatalf("FindWord failed: %v", err)
	}
	if entry != nil {
		t.Fatal("expected orphaned word to be deleted with its last assignment")
	}

	word, err := PickRandomWordPair(alice.ID, nil)
	if err != nil {
		t.Fatalf("PickRandomWordPair failed: %v", err)
	}
	if word != nil {
		t.Fatalf("expected no pickable words, got %q", word.TargetWord)
	}
}

func TestDeleteWordKeepsSharedWord(t *testing.T) {
	setupVocabTestDB(t, "delete_shared")

	if err := SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if _, _, err := AddWord("cat", "кошка", alice.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	if err := DeleteWord("cat", alice.ID); err != nil {
		t.Fatalf("DeleteWord failed: %v", err)
	}

	// The reserved user still studies "cat", so the Word row survives and
	// stays visible to everyone through the shared vocabulary.
	entry, err := FindWord("cat")
	if err != nil {
		t.Fatalf("FindWord failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected shared word to survive a personal delete")
	}

	count, err := CountStudyWords(alice.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}
	if count != 15 {
		t.Fatalf("expected the shared 15 words after delete, got %d", count)
	}
}

func TestDeleteWordUnknownIsNoop(t *testing.T) {
	setupVocabTestDB(t, "delete_unknown")

	if err := SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	before, err := CountStudyWords(alice.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}

	if err := DeleteWord("ghost", alice.ID); err != nil {
		t.Fatalf("DeleteWord of unknown word should not error: %v", err)
	}

	after, err := CountStudyWords(alice.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}
	if before != after {
		t.Fatalf("expected store unchanged, count went %d -> %d", before, after)
	}
}

func TestPickRandomWordPairHonorsExclusions(t *testing.T) {
	setupVocabTestDB(t, "pick_excluded")

	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	for _, pair := range [][2]string{{"red", "красный"}, {"blue", "синий"}, {"green", "зеленый"}} {
		if _, _, err := AddWord(pair[0], pair[1], alice.ID); err != nil {
			t.Fatalf("AddWord failed: %v", err)
		}
	}

	excluded := []string{"red", "blue"}
	for i := 0; i < 25; i++ {
		word, err := PickRandomWordPair(alice.ID, excluded)
		if err != nil {
			t.Fatalf("PickRandomWordPair failed: %v", err)
		}
		if word == nil {
			t.Fatal("expected a candidate to remain")
		}
		if word.TargetWord != "green" {
			t.Fatalf("expected only green to be pickable, got %q", word.TargetWord)
		}
	}

	word, err := PickRandomWordPair(alice.ID, []string{"red", "blue", "green"})
	if err != nil {
		t.Fatalf("PickRandomWordPair failed: %v", err)
	}
	if word != nil {
		t.Fatalf("expected empty result when everything is excluded, got %q", word.TargetWord)
	}
}

func TestPickDistractorsProperties(t *testing.T) {
	setupVocabTestDB(t, "pick_distractors")

	if err := SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	excluded := []string{"dog", "sun"}
	for i := 0; i < 25; i++ {
		distractors, err := PickDistractors(alice.ID, "cat", excluded, 3)
		if err != nil {
			t.Fatalf("PickDistractors failed: %v", err)
		}
		if len(distractors) != 3 {
			t.Fatalf("expected 3 distractors from a 15-word vocabulary, got %d", len(distractors))
		}
		seen := make(map[string]bool, len(distractors))
		for _, text := range distractors {
			if text == "cat" {
				t.Fatal("distractors must not include the target")
			}
			for _, ex := range excluded {
				if text == ex {
					t.Fatalf("distractors must not include excluded word %q", ex)
				}
			}
			if seen[text] {
				t.Fatalf("duplicate distractor %q", text)
			}
			seen[text] = true
		}
	}
}

func TestPickDistractorsShortageIsNotAnError(t *testing.T) {
	setupVocabTestDB(t, "pick_shortage")

	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if _, _, err := AddWord("sun", "солнце", alice.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}
	if _, _, err := AddWord("water", "вода", alice.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	distractors, err := PickDistractors(alice.ID, "sun", nil, 3)
	if err != nil {
		t.Fatalf("PickDistractors failed: %v", err)
	}
	if len(distractors) != 1 || distractors[0] != "water" {
		t.Fatalf("expected exactly [water], got %v", distractors)
	}
}

func TestVisibilityIsPersonalUnionShared(t *testing.T) {
	setupVocabTestDB(t, "visibility_union")

	if err := SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	alice, _, err := EnsureUser("alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	bob, _, err := EnsureUser("bob")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if _, _, err := AddWord("table", "стол", bob.ID); err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	// Bob's personal word must never show up in Alice's quizzes.
	for i := 0; i < 25; i++ {
		word, err := PickRandomWordPair(alice.ID, nil)
		if err != nil {
			t.Fatalf("PickRandomWordPair failed: %v", err)
		}
		if word == nil {
			t.Fatal("expected shared vocabulary to be visible")
		}
		if word.TargetWord == "table" {
			t.Fatal("another user's personal word leaked into the visible set")
		}
	}

	aliceCount, err := CountStudyWords(alice.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}
	bobCount, err := CountStudyWords(bob.ID)
	if err != nil {
		t.Fatalf("CountStudyWords failed: %v", err)
	}
	if aliceCount != 15 || bobCount != 16 {
		t.Fatalf("expected counts 15/16, got %d/%d", aliceCount, bobCount)
	}
}
