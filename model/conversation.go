package model

import (
	"errors"
	"strings"
	"time"
)

// ErrConversationNotFound reports that a conversation id does not resolve.
var ErrConversationNotFound = errors.New("conversation not found")

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// DefaultConversationTitle is used when a conversation has no user turn yet.
const DefaultConversationTitle = "Nieuwe conversatie"

const derivedTitleMax = 50

// ChatMessage is one turn of a tutoring conversation.
type ChatMessage struct {
	Role      string    `bson:"role" json:"role"`
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Conversation is a durable, append-only sequence of chat turns owned by one
// user. The message order is the conversation order; messages are only ever
// appended, never reordered.
type Conversation struct {
	ID        string        `json:"id"`
	OwnerID   uint          `json:"owner_id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at,omitempty"`
}

// ConversationSummary is the list-view projection of a conversation.
type ConversationSummary struct {
	ID           string    `json:"id"`
	OwnerID      uint      `json:"owner_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// DerivedTitle returns the stored title when set, otherwise a deterministic
// title computed from the first user message, truncated at 50 characters with
// an ellipsis marker. Nothing is written back; every read recomputes the same
// value from the same input.
func (c *Conversation) DerivedTitle() string {
	if strings.TrimSpace(c.Title) != "" {
		return c.Title
	}
	for _, msg := range c.Messages {
		if msg.Role != MessageRoleUser {
			continue
		}
		runes := []rune(msg.Content)
		if len(runes) > derivedTitleMax {
			return string(runes[:derivedTitleMax]) + "..."
		}
		return msg.Content
	}
	return DefaultConversationTitle
}

// Summary projects the conversation for list responses, with the derived title.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		OwnerID:      c.OwnerID,
		Title:        c.DerivedTitle(),
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
