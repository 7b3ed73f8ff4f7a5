package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"mockinterview/api/internal/utils"
)

// readMultipartFile pulls one file part out of a size-capped multipart body.
// On failure the error response has already been written.
func readMultipartFile(w http.ResponseWriter, r *http.Request, field string, limit int64, logger *zap.Logger) (io.ReadCloser, string, bool) {
	if r.ContentLength > limit {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", "Uploaded file is too large")
		return nil, "", false
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", "Uploaded file is too large")
			return nil, "", false
		}
		logger.Debug("Invalid multipart body", zap.Error(err))
		utils.WriteError(w, http.StatusBadRequest, "invalid_form", "Expected a multipart/form-data body")
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "missing_file", "Missing form file: "+field)
		return nil, "", false
	}
	return file, header.Filename, true
}
