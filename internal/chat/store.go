package chat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"chat-backend/internal/llm"
	"chat-backend/internal/utils"
)

const DefaultMaxMessages = 20

type ChatRequest struct {
	UserID  string
	Message string
	// Model is a model alias; empty selects the registry's active model.
	Model string
	// Reset discards the user's stored conversation before the message is added.
	Reset bool
}

// ConversationStore keeps the recent message history of every user for the
// lifetime of the process and runs one chat exchange at a time per user.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string][]Message

	userLocks   *utils.MutexMap
	models      *ModelRegistry
	generator   llm.Generator
	maxMessages int
}

// NewConversationStore creates an empty store. maxMessages <= 0 selects
// DefaultMaxMessages; maxActiveUsers <= 0 places no bound on how many users
// may have an exchange in flight.
func NewConversationStore(generator llm.Generator, models *ModelRegistry, maxMessages, maxActiveUsers int) *ConversationStore {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	return &ConversationStore{
		conversations: make(map[string][]Message),
		userLocks:     utils.NewMutexMap(maxActiveUsers),
		models:        models,
		generator:     generator,
		maxMessages:   maxMessages,
	}
}

func (s *ConversationStore) Models() *ModelRegistry {
	return s.models
}

// Chat records the user's message, asks the generator for a reply to the whole
// conversation and records the reply. It returns the reply and a copy of the
// stored conversation. If generation fails the user's message stays recorded
// and a *GenerationError is returned.
func (s *ConversationStore) Chat(ctx context.Context, req ChatRequest) (string, []Message, error) {
	model := req.Model
	if model == "" {
		model = s.models.Active()
	}

	engine, err := s.models.Engine(model)
	if err != nil {
		return "", nil, err
	}

	if err := s.userLocks.LockContext(ctx, req.UserID); err != nil {
		return "", nil, err
	}
	defer s.userLocks.Unlock(req.UserID) //nolint:errcheck

	var history []Message
	if !req.Reset {
		history = s.load(req.UserID)
	}
	history = append(history, Message{Role: RoleUser, Content: req.Message})
	s.save(req.UserID, history)

	prompt := BuildPrompt(history)

	reply, err := s.generator.Generate(ctx, prompt, engine)
	if err != nil {
		slog.Error("generation failed", "user_id", req.UserID, "model", model, "engine", engine, "error", err)
		s.save(req.UserID, s.clip(history))
		return "", nil, &GenerationError{Err: err}
	}

	history = s.clip(append(history, Message{Role: RoleAssistant, Content: reply}))
	s.save(req.UserID, history)

	return reply, slices.Clone(history), nil
}

// Conversation returns a copy of the stored conversation for userID.
func (s *ConversationStore) Conversation(userID string) ([]Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.conversations[userID]
	if !ok {
		return nil, false
	}
	return slices.Clone(history), true
}

func (s *ConversationStore) SetActiveModel(name string) error {
	if err := s.models.SetActive(name); err != nil {
		return fmt.Errorf("unable to set active model: %w", err)
	}
	slog.Info("active model updated", "model", name)
	return nil
}

func (s *ConversationStore) load(userID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conversations[userID])
}

func (s *ConversationStore) save(userID string, history []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[userID] = slices.Clone(history)
}

// clip drops the oldest messages beyond the store's limit.
func (s *ConversationStore) clip(history []Message) []Message {
	if len(history) <= s.maxMessages {
		return history
	}
	return history[len(history)-s.maxMessages:]
}
