package handlers

import (
	"encoding/json"
	"net/http"

	"chat-relay-backend/internal/logx"
	"chat-relay-backend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Log.Error().Err(err).Msg("write response")
	}
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}
