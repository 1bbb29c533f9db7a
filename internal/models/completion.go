package models

import "encoding/json"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation. Content is any
// JSON value the provider accepts: usually a string, sometimes content parts.
type ChatMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// TextContent encodes s as a JSON string for ChatMessage.Content.
func TextContent(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// CompletionRequest is the body sent to the upstream chat completions API.
type CompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

// CompletionChoice is one generated alternative.
type CompletionChoice struct {
	Index        int               `json:"index"`
	Message      CompletionMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// CompletionMessage is a generated message. Content is nil when the provider
// sent null or omitted it.
type CompletionMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// CompletionResponse is the upstream reply. Error is set by providers that
// report failures in the body.
type CompletionResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []CompletionChoice `json:"choices"`
	Error   *UpstreamAPIError  `json:"error,omitempty"`
}

// UpstreamAPIError is the provider's error envelope.
type UpstreamAPIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}
