package model

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryConversationStore is an in-process ConversationStore for local/dev
// use and tests. A single mutex makes each append atomic, matching the
// per-document atomicity of the mongo store.
type MemoryConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	order         []string
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{conversations: make(map[string]*Conversation)}
}

func (s *MemoryConversationStore) Create(_ context.Context, ownerID uint) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.conversations[id] = &Conversation{
		ID:        id,
		OwnerID:   ownerID,
		Messages:  []ChatMessage{},
		CreatedAt: time.Now().UTC(),
	}
	s.order = append(s.order, id)
	return id, nil
}

func (s *MemoryConversationStore) Get(_ context.Context, id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	copied := *conv
	copied.Messages = append([]ChatMessage(nil), conv.Messages...)
	return &copied, nil
}

func (s *MemoryConversationStore) AppendMessage(_ context.Context, id string, msg ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrConversationNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

func (s *MemoryConversationStore) ListByOwner(_ context.Context, ownerID uint) ([]Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// order holds creation order; walk it backwards for newest-first.
	conversations := make([]Conversation, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		conv, ok := s.conversations[s.order[i]]
		if !ok || conv.OwnerID != ownerID {
			continue
		}
		copied := *conv
		copied.Messages = append([]ChatMessage(nil), conv.Messages...)
		conversations = append(conversations, copied)
	}
	return conversations, nil
}

func (s *MemoryConversationStore) SetTitle(_ context.Context, id string, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrConversationNotFound
	}
	conv.Title = title
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryConversationStore) Delete(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return 0, nil
	}
	delete(s.conversations, id)
	return 1, nil
}
