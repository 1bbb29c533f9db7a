package models

import "encoding/json"

// ChatRequest is the payload sent to the chat endpoint. Prompt is kept as
// raw JSON and forwarded untouched as the user turn's content.
type ChatRequest struct {
	Prompt json.RawMessage `json:"prompt"`
}

// ChatResponse is the relayed completion text.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
