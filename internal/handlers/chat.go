package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"chat-relay-backend/internal/logx"
	"chat-relay-backend/internal/metrics"
	"chat-relay-backend/internal/models"
	"chat-relay-backend/internal/services"
)

const (
	// UpstreamFailureMessage is the only error text callers see when the
	// completion could not be fetched.
	UpstreamFailureMessage = "Sorry, an error occurred while fetching the response."

	// maxBodyBytes matches the usual 100kb JSON body limit of web frameworks.
	maxBodyBytes = 100 << 10
)

type chatCompleter interface {
	Complete(ctx context.Context, prompt json.RawMessage) (string, error)
}

type ChatHandler struct {
	chatService chatCompleter
}

func NewChatHandler(chatService chatCompleter) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Relay handles POST /api/chat. The prompt is not validated: any JSON value
// is forwarded as the user turn and a missing one becomes an empty turn.
func (h *ChatHandler) Relay(w http.ResponseWriter, r *http.Request) {
	reqID := chimiddleware.GetReqID(r.Context())

	var req models.ChatRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("Request body too large"))
			return
		}
		logx.Log.Debug().Err(err).Str("request_id", reqID).Msg("invalid chat body")
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body"))
		return
	}

	reply, err := h.chatService.Complete(r.Context(), req.Prompt)
	if err != nil {
		evt := logx.Log.Error().Err(err).Str("request_id", reqID)
		var upErr *services.UpstreamError
		if errors.As(err, &upErr) {
			evt = evt.Str("kind", string(upErr.Kind)).Int("status", upErr.StatusCode)
			metrics.RecordUpstreamFailure(string(upErr.Kind))
		}
		evt.Msg("Error fetching response from chat completions API")
		metrics.RecordChatRequest(false)
		writeJSON(w, http.StatusInternalServerError, errorResp(UpstreamFailureMessage))
		return
	}

	metrics.RecordChatRequest(true)
	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}
