package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/session"
	"mockinterview/api/internal/utils"
)

// writeServiceError maps domain and provider errors onto the HTTP error shape.
// Provider failures carry their proximate cause; nothing else is exposed.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallbackCode string) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, session.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "session_not_found", "Session not found. Please start a new interview.")
	case errors.As(err, &maxBytesErr):
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", "Uploaded file is too large")
	case llm.IsRateLimited(err):
		utils.WriteError(w, http.StatusTooManyRequests, "ai_rate_limited", err.Error())
	default:
		logger.Debug("Request failed", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
