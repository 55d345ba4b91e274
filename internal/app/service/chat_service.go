package service

import (
	"context"
	"fmt"
	"time"

	"codetrek/internal/common"
	"codetrek/internal/domain/model"
	"codetrek/internal/domain/repository"
	"codetrek/internal/platform/llm"
	"codetrek/internal/platform/logger"
	"codetrek/internal/platform/vectorstore"

	"github.com/google/uuid"
)

// Generator produces model text for a prompt; failures come back inside the Result.
type Generator interface {
	Generate(ctx context.Context, prompt string) llm.Result
}

type ChatService struct {
	chats    repository.ChatRepository
	concepts vectorstore.Store
	gen      Generator
	log      *logger.Logger
	now      func() time.Time
}

func NewChatService(chats repository.ChatRepository, concepts vectorstore.Store, gen Generator, log *logger.Logger) *ChatService {
	if concepts == nil {
		concepts = vectorstore.NopStore{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChatService{
		chats:    chats,
		concepts: concepts,
		gen:      gen,
		log:      log.With("service", "ChatService"),
		now:      time.Now,
	}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	UserMessage *model.ChatMessage `json:"user_message"`
	BotResponse *model.ChatMessage `json:"bot_response"`
}

// Send stores the user's message, answers it with the closest stored concept
// as context, and stores the answer. The bot message is always timestamped
// after the user message.
func (s *ChatService) Send(ctx context.Context, userID string, req ChatRequest) (*ChatResponse, error) {
	if req.Message == "" {
		return nil, common.NewError(common.ErrBadRequest, "Message cannot be empty")
	}

	userMsg := &model.ChatMessage{
		ID:          uuid.NewString(),
		UserID:      userID,
		MessageType: model.MessageTypeUser,
		Content:     req.Message,
		Timestamp:   s.timestamp(),
	}
	if err := s.chats.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	concept := s.nearestConcept(ctx, req.Message)
	result := s.gen.Generate(ctx, TutorPrompt(req.Message, concept))

	botTs := s.timestamp()
	if !botTs.After(userMsg.Timestamp) {
		botTs = userMsg.Timestamp.Add(time.Microsecond)
	}
	botMsg := &model.ChatMessage{
		ID:          uuid.NewString(),
		UserID:      userID,
		MessageType: model.MessageTypeBot,
		Content:     result.Content(),
		Timestamp:   botTs,
	}
	if err := s.chats.Create(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return &ChatResponse{UserMessage: userMsg, BotResponse: botMsg}, nil
}

func (s *ChatService) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	messages, err := s.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return messages, nil
}

// nearestConcept returns "" when the store fails or has nothing close.
func (s *ChatService) nearestConcept(ctx context.Context, query string) string {
	passages, err := s.concepts.Nearest(ctx, query, 1)
	if err != nil {
		s.log.Warn("Concept lookup failed, answering without context", "error", err)
		return ""
	}
	if len(passages) == 0 {
		return ""
	}
	return passages[0].Text
}

// timestamp matches Postgres timestamptz precision so stored and returned values agree.
func (s *ChatService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
