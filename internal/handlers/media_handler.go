package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/utils"
)

const (
	resumeField         = "file"
	jobDescriptionField = "job_description"
)

// MediaService covers the endpoints that call the provider outside a session.
type MediaService interface {
	Speak(ctx context.Context, text string) ([]byte, error)
	ParseResume(ctx context.Context, filename string, content []byte) (*models.ResumeParseResponse, error)
	AnalyzeJob(ctx context.Context, description string) (*models.JobAnalysisResponse, error)
}

type MediaHandler struct {
	service        MediaService
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewMediaHandler(service MediaService, logger *zap.Logger, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *MediaHandler) SpeechHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TextToSpeechRequest](r)

	audio, err := h.service.Speak(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err, "tts_failed")
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", "inline; filename=speech.wav")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		h.logger.Warn("Failed to write audio response", zap.Error(err))
	}
}

func (h *MediaHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := readMultipartFile(w, r, resumeField, h.maxUploadBytes, h.logger)
	if !ok {
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeServiceError(w, h.logger, err, "resume_parse_failed")
		return
	}

	resp, err := h.service.ParseResume(r.Context(), filename, content)
	if err != nil {
		writeServiceError(w, h.logger, err, "resume_parse_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *MediaHandler) JobHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	description := r.FormValue(jobDescriptionField)
	if strings.TrimSpace(description) == "" {
		utils.WriteError(w, http.StatusBadRequest, "missing_job_description", "job_description is required")
		return
	}

	resp, err := h.service.AnalyzeJob(r.Context(), description)
	if err != nil {
		writeServiceError(w, h.logger, err, "job_analysis_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
