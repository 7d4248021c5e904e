package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"prochatbot/model"
	"prochatbot/platform"
)

var (
	// ErrInvalidRequest reports missing or malformed caller input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInferenceUnavailable reports that the model service is unreachable,
	// timed out, or returned an unusable reply.
	ErrInferenceUnavailable = errors.New("inference service unavailable")
)

// Completer is the boundary to the stateless model service.
type Completer interface {
	Complete(ctx context.Context, messages []platform.Message) (string, error)
}

// ChatService orchestrates the conversation lifecycle: it resolves or creates
// the conversation, appends the turns around one inference round trip, and
// triggers the best-effort usage bookkeeping.
type ChatService struct {
	conversations model.ConversationStore
	llm           Completer
	stats         QuestionRecorder
	logger        *logrus.Logger
}

func NewChatService(conversations model.ConversationStore, llm Completer, stats QuestionRecorder, logger *logrus.Logger) *ChatService {
	return &ChatService{
		conversations: conversations,
		llm:           llm,
		stats:         stats,
		logger:        logger,
	}
}

// Chat handles one student message and returns the conversation id and the
// tutor's reply. A supplied conversation id that no longer resolves is not an
// error: a fresh conversation is created and its id returned, and the caller
// must treat that id as the authoritative one from then on.
func (s *ChatService) Chat(ctx context.Context, ownerID uint, conversationID, message string) (string, string, error) {
	if ownerID == 0 || strings.TrimSpace(message) == "" {
		return "", "", ErrInvalidRequest
	}

	if conversationID != "" {
		if _, err := s.conversations.Get(ctx, conversationID); err != nil {
			if !errors.Is(err, model.ErrConversationNotFound) {
				return "", "", fmt.Errorf("resolve conversation: %w", err)
			}
			s.logger.Warnf("conversation %s not found, creating a new one", conversationID)
			conversationID = ""
		}
	}

	if conversationID == "" {
		id, err := s.conversations.Create(ctx, ownerID)
		if err != nil {
			return "", "", fmt.Errorf("create conversation: %w", err)
		}
		conversationID = id
	}

	// The user turn is appended before inference so it survives an
	// inference failure.
	userMsg := model.ChatMessage{
		Role:      model.MessageRoleUser,
		Content:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := s.conversations.AppendMessage(ctx, conversationID, userMsg); err != nil {
		return "", "", fmt.Errorf("append user message: %w", err)
	}

	// Re-read so the prompt includes the turn just appended.
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return "", "", fmt.Errorf("load conversation: %w", err)
	}

	reply, err := s.llm.Complete(ctx, BuildPrompt(conv))
	if err != nil {
		s.logger.Warnf("inference failed for conversation %s: %v", conversationID, err)
		return "", "", fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}

	assistantMsg := model.ChatMessage{
		Role:      model.MessageRoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	}
	if err := s.conversations.AppendMessage(ctx, conversationID, assistantMsg); err != nil {
		return "", "", fmt.Errorf("append assistant message: %w", err)
	}

	// Bookkeeping is best effort; the reply is never held back by it.
	switch s.stats.RecordQuestion(ctx, ownerID) {
	case RecordFailed:
		s.logger.Warnf("question statistics not recorded for user %d", ownerID)
	case RecordSkipped:
		s.logger.Debugf("user %d has no school, question not counted", ownerID)
	}

	return conversationID, reply, nil
}

// GetConversation returns the full conversation with its derived title.
func (s *ChatService) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	conv, err := s.conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	conv.Title = conv.DerivedTitle()
	return conv, nil
}

// ListConversations returns the owner's conversation summaries, newest first.
func (s *ChatService) ListConversations(ctx context.Context, ownerID uint) ([]model.ConversationSummary, error) {
	conversations, err := s.conversations.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		summaries = append(summaries, conversations[i].Summary())
	}
	return summaries, nil
}

// DeleteConversation removes a conversation for good. The second delete of
// the same id reports not found.
func (s *ChatService) DeleteConversation(ctx context.Context, id string) error {
	deleted, err := s.conversations.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return model.ErrConversationNotFound
	}
	return nil
}

// RenameConversation sets an explicit title, which stops lazy derivation.
func (s *ChatService) RenameConversation(ctx context.Context, id string, title string) error {
	return s.conversations.SetTitle(ctx, id, title)
}
