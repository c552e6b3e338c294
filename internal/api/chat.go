package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chat-backend/internal/chat"
	"chat-backend/internal/utils"
	"chat-backend/pkg/api"
)

type ChatService struct {
	store *chat.ConversationStore
}

func NewChatService(store *chat.ConversationStore) *ChatService {
	return &ChatService{store: store}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Post("/chat", RestHandler(s.Chat))
	r.Get("/chat", RestHandler(s.GetConversationByQuery))
	r.Get("/chat/{user_id}", RestHandler(s.GetConversation))
	r.Post("/set_model", RestHandler(s.SetModel))
	r.Get("/model", RestHandler(s.GetModel))
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	if req.UserID == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "user_id is required")
	}

	reply, history, err := s.store.Chat(r.Context(), chat.ChatRequest{
		UserID:  req.UserID,
		Message: req.Message,
		Model:   req.Model,
		Reset:   req.Reset,
	})
	if err != nil {
		return nil, chatError(err)
	}

	return api.ChatResponse{Reply: reply, Context: convertMessages(history)}, nil
}

func (s *ChatService) GetConversation(r *http.Request) (any, error) {
	userID, err := URLParam(r, "user_id")
	if err != nil {
		return nil, err
	}

	return s.conversation(userID)
}

// GetConversationByQuery serves ids that cannot appear as a path segment,
// such as ones containing a slash.
func (s *ChatService) GetConversationByQuery(r *http.Request) (any, error) {
	query, err := ParseRequestForm[api.ConversationQuery](r)
	if err != nil {
		return nil, err
	}
	if query.UserID == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "user_id is required")
	}

	return s.conversation(query.UserID)
}

func (s *ChatService) conversation(userID string) (any, error) {
	history, ok := s.store.Conversation(userID)
	if !ok {
		return nil, CodedErrorf(http.StatusNotFound, "no conversation for user %s", userID)
	}

	return api.ConversationResponse{UserID: userID, Context: convertMessages(history)}, nil
}

func (s *ChatService) SetModel(r *http.Request) (any, error) {
	req, err := ParseRequestBody[api.SetModelRequest](r)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetActiveModel(req.ModelName); err != nil {
		return nil, chatError(err)
	}

	return api.SetModelResponse{Status: "Model updated", Model: req.ModelName}, nil
}

func (s *ChatService) GetModel(r *http.Request) (any, error) {
	registry := s.store.Models()

	var models []api.ModelInfo
	for _, model := range registry.Models() {
		models = append(models, api.ModelInfo{Name: model.Name, Engine: model.Engine})
	}

	return api.ModelsResponse{Model: registry.Active(), Models: models}, nil
}

func chatError(err error) error {
	var genErr *chat.GenerationError
	switch {
	case errors.Is(err, chat.ErrUnsupportedModel):
		return CodedErrorf(http.StatusBadRequest, "Model not supported.")
	case errors.As(err, &genErr):
		return CodedErrorf(http.StatusInternalServerError, "Error generating response: %v", genErr.Err)
	case errors.Is(err, utils.ErrMaxKeysReached):
		return CodedErrorf(http.StatusServiceUnavailable, "too many conversations in progress, try again later")
	default:
		return err
	}
}

func convertMessages(messages []chat.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, api.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return out
}
