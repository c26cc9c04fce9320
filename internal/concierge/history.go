package concierge

import (
	"sync"

	"rfpmarket/internal/ai"
)

// maxHistoryEntries bounds each user's conversation to 5 exchanges.
const maxHistoryEntries = 10

// HistoryStore keeps per-user conversation history. Implementations must be
// safe for concurrent use; mutation for one user must not block another.
type HistoryStore interface {
	// Messages returns a copy of the user's history, oldest first.
	Messages(userId string) []ai.Message
	// Append adds turns to the user's history and truncates to the bound,
	// evicting the oldest entries first.
	Append(userId string, msgs ...ai.Message)
	// Clear drops the user's history. Unknown users are a no-op.
	Clear(userId string)
}

type memoryHistoryStore struct {
	mu       sync.Mutex
	sessions map[string][]ai.Message
}

// NewMemoryHistoryStore creates a process-local HistoryStore.
func NewMemoryHistoryStore() HistoryStore {
	return &memoryHistoryStore{
		sessions: make(map[string][]ai.Message),
	}
}

func (s *memoryHistoryStore) Messages(userId string) []ai.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.sessions[userId]
	copied := make([]ai.Message, len(history))
	copy(copied, history)
	return copied
}

func (s *memoryHistoryStore) Append(userId string, msgs ...ai.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[userId], msgs...)
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}
	s.sessions[userId] = history
}

func (s *memoryHistoryStore) Clear(userId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userId)
}
