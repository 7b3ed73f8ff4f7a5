package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/utils"
)

const audioField = "file"

// InterviewService is what the interview endpoints need from the domain layer.
type InterviewService interface {
	Start(req *models.StartInterviewRequest) *models.StartInterviewResponse
	SubmitAudio(ctx context.Context, sessionID, filename string, audio io.Reader) (*models.AnalyzeResponse, error)
	End(ctx context.Context, sessionID string) (*models.EndInterviewResponse, error)
	Status(sessionID string) (*models.StatusResponse, error)
	Time(sessionID string) (*models.TimeResponse, error)
	AnalyzeOnce(ctx context.Context, filename string, audio io.Reader) (*models.AnalyzeResponse, error)
}

type InterviewHandler struct {
	service        InterviewService
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewInterviewHandler(service InterviewService, logger *zap.Logger, maxUploadBytes int64) *InterviewHandler {
	return &InterviewHandler{
		service:        service,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)
	utils.JSON(w, http.StatusOK, h.service.Start(req))
}

func (h *InterviewHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	file, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.service.SubmitAudio(r.Context(), sessionID, filename, file)
	if err != nil {
		writeServiceError(w, h.logger, err, "analyze_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.End(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "end_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Status(chi.URLParam(r, "session_id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "status_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) TimeHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Time(chi.URLParam(r, "session_id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "time_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// LegacyAnalyzeHandler serves the deprecated POST /analyze.
func (h *InterviewHandler) LegacyAnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	resp, err := h.service.AnalyzeOnce(r.Context(), filename, file)
	if err != nil {
		writeServiceError(w, h.logger, err, "analyze_failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) readUpload(w http.ResponseWriter, r *http.Request) (io.ReadCloser, string, bool) {
	return readMultipartFile(w, r, audioField, h.maxUploadBytes, h.logger)
}
