package ui

import "fmt"

func Greeting(name string) string {
	return fmt.Sprintf("Hello, %s, let's study English! Pick the right translation, or use the buttons to manage your words.", name)
}

func QuizPrompt(translation string) string {
	return fmt.Sprintf("Choose the translation of:\n🇷🇺 %s", translation)
}

func CorrectAnswer(target, translation string) string {
	return fmt.Sprintf("Great!❤\n%s -> %s", target, translation)
}

func WrongAnswer(translation string) string {
	return fmt.Sprintf("Not quite!\nTry to recall the word for 🇷🇺 %s", translation)
}

func AskWordToAdd(name string) string {
	return fmt.Sprintf("%s, send the word and its translation separated by a space.", name)
}

func AskWordToDelete(name string) string {
	return fmt.Sprintf("%s, send the word you want to delete.", name)
}

func WordAdded(word, translation string, count int64) string {
	return fmt.Sprintf("The word <%s> with translation <%s> has been added!\nYou are studying %d words now.", word, translation, count)
}

func WordAlreadyAssigned(word string, count int64) string {
	return fmt.Sprintf("The word <%s> is already in your list.\nYou are studying %d words.", word, count)
}

func WordDeleted(word string) string {
	return fmt.Sprintf("The word <%s> has been deleted!", word)
}

func NoSuchWord(name string) string {
	return fmt.Sprintf("%s, there is no such word!", name)
}

func AddWordUsageHint() string {
	return "Please send exactly two words: the word and its translation, separated by a space."
}

func NoWordsAvailable() string {
	return "You have no words to study yet. Use the add button to create your first one."
}

func Help() string {
	return "Commands:\n" +
		"* /start or /cards: start the quiz.\n" +
		"* " + ButtonNext + ": skip to the next card.\n" +
		"* " + ButtonAddWord + ": add a word to your study list.\n" +
		"* " + ButtonDeleteWord + ": remove a word from your study list."
}
