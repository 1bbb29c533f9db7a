package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chat-relay-backend/internal/metrics"
	"chat-relay-backend/internal/models"
)

// maxErrorBody caps how much of a non-2xx upstream body is kept for logs.
const maxErrorBody = 512

type ChatOptions struct {
	APIKey        string
	URL           string
	Model         string
	MaxTokens     int
	SystemPrompt  string
	Timeout       time.Duration
	MaxConcurrent int
	HTTPClient    *http.Client
}

type ChatService struct {
	apiKey       string
	url          string
	model        string
	maxTokens    int
	systemPrompt string
	httpClient   *http.Client
	rateChan     chan struct{} // nil when unlimited
}

func NewChatService(opts ChatOptions) *ChatService {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	var rateChan chan struct{}
	if opts.MaxConcurrent > 0 {
		rateChan = make(chan struct{}, opts.MaxConcurrent)
		for i := 0; i < opts.MaxConcurrent; i++ {
			rateChan <- struct{}{}
		}
	}

	return &ChatService{
		apiKey:       opts.APIKey,
		url:          opts.URL,
		model:        opts.Model,
		maxTokens:    opts.MaxTokens,
		systemPrompt: opts.SystemPrompt,
		httpClient:   client,
		rateChan:     rateChan,
	}
}

// acquireRate blocks until a concurrency slot is available
func (s *ChatService) acquireRate(ctx context.Context) error {
	if s.rateChan == nil {
		return nil
	}
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChatService) releaseRate() {
	if s.rateChan != nil {
		s.rateChan <- struct{}{}
	}
}

// BuildRequest returns the upstream payload for prompt: the system
// instruction followed by the prompt as the single user turn. An absent
// prompt becomes an empty string.
func (s *ChatService) BuildRequest(prompt json.RawMessage) models.CompletionRequest {
	if len(prompt) == 0 {
		prompt = models.TextContent("")
	}
	return models.CompletionRequest{
		Model: s.model,
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: models.TextContent(s.systemPrompt)},
			{Role: models.RoleUser, Content: prompt},
		},
		MaxTokens: s.maxTokens,
	}
}

// Complete sends prompt upstream and returns the first choice's content with
// surrounding whitespace removed. Any failure is an *UpstreamError.
func (s *ChatService) Complete(ctx context.Context, prompt json.RawMessage) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", &UpstreamError{Kind: FailureCanceled, Err: err}
	}
	defer s.releaseRate()

	start := time.Now()
	defer func() { metrics.ObserveUpstreamDuration(s.model, time.Since(start)) }()

	body, err := json.Marshal(s.BuildRequest(prompt))
	if err != nil {
		return "", &UpstreamError{Kind: FailureTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", &UpstreamError{Kind: FailureTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		kind := FailureTransport
		if errors.Is(err, context.Canceled) {
			kind = FailureCanceled
		}
		return "", &UpstreamError{Kind: kind, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &UpstreamError{
			Kind:       FailureStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(snippet))),
		}
	}

	var chatResp models.CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &UpstreamError{Kind: FailureDecode, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if chatResp.Error != nil {
		return "", &UpstreamError{Kind: FailureAPI, StatusCode: resp.StatusCode, Err: fmt.Errorf("API error: %s", chatResp.Error.Message)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &UpstreamError{Kind: FailureShape, StatusCode: resp.StatusCode, Err: errors.New("no response choices returned")}
	}

	content := chatResp.Choices[0].Message.Content
	if content == nil {
		return "", &UpstreamError{Kind: FailureShape, StatusCode: resp.StatusCode, Err: errors.New("first choice has no message content")}
	}

	return strings.TrimSpace(*content), nil
}
