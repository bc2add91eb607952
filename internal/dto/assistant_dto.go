package dto

import "lingua-workbench-be/pkg/agent"

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Audience  string `json:"audience" validate:"omitempty,oneof=user developer"`
}

type ChatResponse struct {
	SessionId string         `json:"session_id"`
	Route     string         `json:"route"`
	Reply     string         `json:"reply"`
	Sources   []agent.Source `json:"sources,omitempty"`
}

type ChatHistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GetChatHistoryResponse struct {
	SessionId string             `json:"session_id"`
	Messages  []ChatHistoryEntry `json:"messages"`
}

type DeleteSessionRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}
