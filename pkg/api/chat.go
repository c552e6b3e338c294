package api

type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
	Reset   bool   `json:"reset,omitempty"`
}

type ChatResponse struct {
	Reply   string    `json:"reply"`
	Context []Message `json:"context"`
}

type ConversationQuery struct {
	UserID string `schema:"user_id"`
}

type ConversationResponse struct {
	UserID  string    `json:"user_id"`
	Context []Message `json:"context"`
}

type SetModelRequest struct {
	ModelName string `json:"model_name" schema:"model_name"`
}

type SetModelResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

type ModelInfo struct {
	Name   string `json:"name"`
	Engine string `json:"engine"`
}

type ModelsResponse struct {
	Model  string      `json:"model"`
	Models []ModelInfo `json:"models"`
}

type UploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
}
