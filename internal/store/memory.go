package store

import (
	"sync"

	"github.com/paulhq/paul-assistant/internal/model/chat"
)

// MemoryStore keeps conversations in a process-local map. It is the
// fallback substrate for the durable stores and the default for tests.
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[string][]chat.Message
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: make(map[string][]chat.Message)}
}

// History returns a copy of the stored messages, creating an empty record
// for unknown identifiers.
func (s *MemoryStore) History(conversationID string) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, ok := s.conversations[conversationID]
	if !ok {
		s.conversations[conversationID] = nil
		return []chat.Message{}
	}
	return copyMessages(messages)
}

// Append records a message and evicts entries beyond the history limit.
func (s *MemoryStore) Append(conversationID string, role chat.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[conversationID] = trim(append(s.conversations[conversationID], newMessage(role, content)))
}

// Clear removes the conversation; unknown identifiers are a no-op.
func (s *MemoryStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, conversationID)
}

var _ Store = (*MemoryStore)(nil)
