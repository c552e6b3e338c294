package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	backend "chat-backend/internal/api"
	"chat-backend/internal/chat"
	"chat-backend/internal/llm"
	"chat-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGenerator struct {
	models []string
	err    error
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	g.models = append(g.models, model)
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("reply-%d", len(g.models)), nil
}

func newChatRouter(t *testing.T, gen llm.Generator, maxActiveUsers int) chi.Router {
	t.Helper()

	registry, err := chat.NewModelRegistry(map[string]string{
		chat.ModelDefault:  "gpt-3.5-turbo",
		chat.ModelAdvanced: "gpt-4",
	}, chat.ModelDefault)
	require.NoError(t, err)

	store := chat.NewConversationStore(gen, registry, chat.DefaultMaxMessages, maxActiveUsers)

	router := chi.NewRouter()
	backend.NewChatService(store).AddRoutes(router)
	return router
}

func postJSON(t *testing.T, router http.Handler, endpoint string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, endpoint string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, endpoint, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := newChatRouter(t, &recordingGenerator{}, 0)

	rec := get(router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "{}", rec.Body.String())
}

func TestChatEndpoint(t *testing.T) {
	gen := &recordingGenerator{}
	router := newChatRouter(t, gen, 0)

	rec := postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.ChatResponse{
		Reply: "reply-1",
		Context: []api.Message{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "reply-1"},
		},
	}, resp)

	rec = postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Again", Model: "advanced"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Context, 4)
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4"}, gen.models)

	rec = get(router, "/chat/u1")
	require.Equal(t, http.StatusOK, rec.Code)
	var conversation api.ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversation))
	assert.Equal(t, "u1", conversation.UserID)
	assert.Equal(t, resp.Context, conversation.Context)
}

func TestChatEndpoint_Reset(t *testing.T) {
	router := newChatRouter(t, &recordingGenerator{}, 0)

	for i := 0; i < 3; i++ {
		rec := postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi"})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Start over", Reset: true})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []api.Message{
		{Role: "user", Content: "Start over"},
		{Role: "assistant", Content: "reply-4"},
	}, resp.Context)
}

func TestChatEndpoint_BadRequests(t *testing.T) {
	router := newChatRouter(t, &recordingGenerator{}, 0)

	rec := postJSON(t, router, "/chat", api.ChatRequest{Message: "Hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi", Model: "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Model not supported.", strings.TrimSpace(rec.Body.String()))

	rec = get(router, "/chat/u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpoint_GenerationError(t *testing.T) {
	gen := &recordingGenerator{err: errors.New("backend unavailable")}
	router := newChatRouter(t, gen, 0)

	rec := postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error generating response: backend unavailable", strings.TrimSpace(rec.Body.String()))

	// The user's half of the turn is kept.
	rec = get(router, "/chat/u1")
	require.Equal(t, http.StatusOK, rec.Code)
	var conversation api.ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversation))
	assert.Equal(t, []api.Message{{Role: "user", Content: "Hi"}}, conversation.Context)
}

func TestSetModelEndpoint_Form(t *testing.T) {
	gen := &recordingGenerator{}
	router := newChatRouter(t, gen, 0)

	form := url.Values{"model_name": {"advanced"}}
	req := httptest.NewRequest(http.MethodPost, "/set_model", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp api.SetModelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.SetModelResponse{Status: "Model updated", Model: "advanced"}, resp)

	rec = postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"gpt-4"}, gen.models)
}

func TestSetModelEndpoint_JSON(t *testing.T) {
	router := newChatRouter(t, &recordingGenerator{}, 0)

	rec := postJSON(t, router, "/set_model", api.SetModelRequest{ModelName: "advanced"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(router, "/model")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ModelsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.ModelsResponse{
		Model: "advanced",
		Models: []api.ModelInfo{
			{Name: "default", Engine: "gpt-3.5-turbo"},
			{Name: "advanced", Engine: "gpt-4"},
		},
	}, resp)
}

func TestSetModelEndpoint_Unsupported(t *testing.T) {
	gen := &recordingGenerator{}
	router := newChatRouter(t, gen, 0)

	form := url.Values{"model_name": {"bogus"}}
	req := httptest.NewRequest(http.MethodPost, "/set_model", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Model not supported.", strings.TrimSpace(rec.Body.String()))

	rec = postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"gpt-3.5-turbo"}, gen.models)
}

// blockingGenerator holds every call until release is closed.
type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	g.started <- struct{}{}
	<-g.release
	return "done", nil
}

func TestChatEndpoint_TooManyActiveUsers(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{}, 1), release: make(chan struct{})}
	router := newChatRouter(t, gen, 1)

	done := make(chan int)
	go func() {
		done <- postJSON(t, router, "/chat", api.ChatRequest{UserID: "u1", Message: "Hi"}).Code
	}()
	<-gen.started

	rec := postJSON(t, router, "/chat", api.ChatRequest{UserID: "u2", Message: "Hi"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	close(gen.release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestGetConversationEndpoint_QueryParam(t *testing.T) {
	router := newChatRouter(t, &recordingGenerator{}, 0)

	rec := postJSON(t, router, "/chat", api.ChatRequest{UserID: "team/alice", Message: "Hi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(router, "/chat?"+url.Values{"user_id": {"team/alice"}}.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var conversation api.ConversationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversation))
	assert.Equal(t, "team/alice", conversation.UserID)
	assert.Equal(t, []api.Message{
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "reply-1"},
	}, conversation.Context)

	rec = get(router, "/chat?user_id=nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(router, "/chat")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
