package repository

import (
	"sync"
	"time"

	"github.com/mattwalter2/NourDemoDashboardBackend/internal/entities"
)

// MessageStore is the in-memory message history. Newest record is
// always at index 0; records are never updated or deleted and the
// whole list is discarded on restart.
type MessageStore struct {
	mu       sync.RWMutex
	messages []entities.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Prepend inserts a record at position 0.
func (s *MessageStore) Prepend(msg entities.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]entities.Message{msg}, s.messages...)
}

// All returns a copy of the history, newest first.
func (s *MessageStore) All() []entities.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *MessageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Seed pre-populates the store with one sample message per platform so
// the dashboard has something to render on a fresh start.
func (s *MessageStore) Seed() {
	now := time.Now().Format("03:04 PM")
	s.Prepend(entities.Message{
		ID:       "init_msg_1",
		Platform: entities.PlatformWhatsApp,
		Sender:   "New Patient (Sample)",
		From:     "+15550009999",
		Text:     "Hello! Is this the NovaSync Dental line? (Test Message sent to 555-147-9581)",
		Time:     now,
		Unread:   true,
	})
	s.Prepend(entities.Message{
		ID:       "init_msg_ig_1",
		Platform: entities.PlatformInstagram,
		Sender:   "instagram_user_123",
		From:     "ig_123456789",
		Text:     "Hi, saw your ad on Instagram! DMing you here.",
		Time:     now,
		Unread:   true,
	})
}
