package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akulagin/tg-flashcards-bot/pkg/db"
	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
)

const (
	// RecentWindowSize bounds the sliding history used to avoid showing
	// the same word twice in a row. Oldest entries are evicted FIFO.
	RecentWindowSize = 4
	DistractorCount  = 3

	InactivityTimeout = 30 * time.Minute
	SweeperInterval   = 5 * time.Minute
)

// ErrNoWordsAvailable means the visible vocabulary had no candidate left
// after exclusions. Terminal for the current card request only.
var ErrNoWordsAvailable = errors.New("no words available")

// Card is one flashcard: the word being asked, its translation shown as the
// prompt, and the wrong options rendered next to the right one.
type Card struct {
	Target      string
	Translation string
	Distractors []string
}

// PendingInput tracks multi-step conversations: after tapping "add" or
// "delete" the next plain message is treated as that command's argument.
type PendingInput int

const (
	PendingNone PendingInput = iota
	PendingAddWord
	PendingDeleteWord
)

// Session is one conversation's ephemeral quiz state. Nothing here is
// persisted; a restart simply starts users on a fresh card.
type Session struct {
	chatID      int64
	userID      int64
	vocabUserID uint
	userName    string

	recent         []string
	current        *Card
	pending        PendingInput
	lastActivityAt time.Time
}

// VocabUserID is the store-side id for this conversation's user.
func (s *Session) VocabUserID() uint {
	if s == nil {
		return 0
	}
	return s.vocabUserID
}

func (s *Session) Name() string {
	if s == nil {
		return ""
	}
	return s.userName
}

// Manager owns all active sessions, keyed by conversation. Sessions from
// different chats never share state.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewManager initializes a manager with an injectable clock.
func NewManager(now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

var DefaultManager = NewManager(nil)

func ResetDefaultManager(now func() time.Time) {
	DefaultManager = NewManager(now)
}

func sessionKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

// Ensure returns the conversation's session, creating it on first contact.
func (m *Manager) Ensure(chatID, userID int64, vocabUserID uint, userName string) *Session {
	key := sessionKey(chatID, userID)
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[key]; ok {
		session.lastActivityAt = m.now()
		return session
	}
	session := &Session{
		chatID:         chatID,
		userID:         userID,
		vocabUserID:    vocabUserID,
		userName:       userName,
		lastActivityAt: m.now(),
	}
	m.sessions[key] = session
	return session
}

// Get returns the session for a conversation, or nil.
func (m *Manager) Get(chatID, userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[sessionKey(chatID, userID)]
}

// NextCard produces the next flashcard: a random visible word outside the
// recent window, plus up to DistractorCount decoys. The chosen word joins
// the window before distractors are drawn, so decoys also skip it.
func (m *Manager) NextCard(session *Session) (*Card, error) {
	if session == nil {
		return nil, ErrNoWordsAvailable
	}

	m.mu.Lock()
	vocabUserID := session.vocabUserID
	recent := append([]string(nil), session.recent...)
	m.mu.Unlock()

	// DB work happens outside the manager lock.
	word, err := db.PickRandomWordPair(vocabUserID, recent)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, ErrNoWordsAvailable
	}

	recent = pushRecent(recent, word.TargetWord)

	distractors, err := db.PickDistractors(vocabUserID, word.TargetWord, recent, DistractorCount)
	if err != nil {
		return nil, err
	}

	card := &Card{
		Target:      word.TargetWord,
		Translation: word.Translate,
		Distractors: distractors,
	}

	m.mu.Lock()
	session.recent = recent
	session.current = card
	session.pending = PendingNone
	session.lastActivityAt = m.now()
	m.mu.Unlock()

	return card, nil
}

func pushRecent(recent []string, word string) []string {
	recent = append(recent, word)
	if len(recent) > RecentWindowSize {
		recent = recent[len(recent)-RecentWindowSize:]
	}
	return recent
}

// CurrentCard returns the card the conversation is answering, if any.
func (m *Manager) CurrentCard(session *Session) *Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		return nil
	}
	return session.current
}

// SetPending arms the next plain message as input for a word command.
func (m *Manager) SetPending(session *Session, pending PendingInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		return
	}
	session.pending = pending
	session.lastActivityAt = m.now()
}

// ConsumePending returns the armed input mode and clears it.
func (m *Manager) ConsumePending(session *Session) PendingInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil {
		return PendingNone
	}
	pending := session.pending
	session.pending = PendingNone
	return pending
}

// AnswerResult reports how a quiz answer was resolved.
type AnswerResult struct {
	Active  bool
	Correct bool
	Card    Card
}

// ResolveAnswer checks the text against the active card. A correct answer
// retires the card; a wrong one keeps it active for another attempt.
func (m *Manager) ResolveAnswer(session *Session, text string) AnswerResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session == nil || session.current == nil {
		return AnswerResult{}
	}

	result := AnswerResult{
		Active: true,
		Card:   *session.current,
	}
	result.Correct = strings.EqualFold(strings.TrimSpace(text), session.current.Target)
	if result.Correct {
		session.current = nil
	}
	session.lastActivityAt = m.now()
	return result
}

// StartSweeper drops idle sessions until ctx is canceled. State is cheap and
// conversation-local, so expiry is silent: the next message recreates it.
func (m *Manager) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(SweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := m.SweepInactive(m.now()); dropped > 0 {
				logger.Debug("dropped idle quiz sessions", "count", dropped)
			}
		}
	}
}

// SweepInactive removes sessions idle longer than InactivityTimeout.
func (m *Manager) SweepInactive(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for key, session := range m.sessions {
		if session == nil || now.Sub(session.lastActivityAt) > InactivityTimeout {
			delete(m.sessions, key)
			dropped++
		}
	}
	return dropped
}
