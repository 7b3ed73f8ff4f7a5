package utils

import (
	"encoding/json"
	"net/http"

	"mockinterview/api/internal/models"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes the uniform {code, message} error body.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	JSON(w, statusCode, models.ErrorResponse{Code: code, Message: message})
}
