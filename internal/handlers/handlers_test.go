package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/models"
)

type mockProvider struct {
	getProviderNameFn func() string
}

func (m *mockProvider) Chat(context.Context, []llm.Message, llm.ChatOptions) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{}, nil
}

func (m *mockProvider) Transcribe(context.Context, string, io.Reader) (string, error) {
	return "", nil
}

func (m *mockProvider) Synthesize(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (m *mockProvider) GetProviderName() string {
	if m.getProviderNameFn == nil {
		return "mock"
	}
	return m.getProviderNameFn()
}

type mockPromptManager struct {
	templateCountFn func() int
}

func (m *mockPromptManager) TemplateCount() int {
	if m.templateCountFn == nil {
		return 3
	}
	return m.templateCountFn()
}

type mockInterviewService struct {
	startFn       func(req *models.StartInterviewRequest) *models.StartInterviewResponse
	submitAudioFn func(ctx context.Context, sessionID, filename string, audio io.Reader) (*models.AnalyzeResponse, error)
	endFn         func(ctx context.Context, sessionID string) (*models.EndInterviewResponse, error)
	statusFn      func(sessionID string) (*models.StatusResponse, error)
	timeFn        func(sessionID string) (*models.TimeResponse, error)
	analyzeOnceFn func(ctx context.Context, filename string, audio io.Reader) (*models.AnalyzeResponse, error)
}

func (m *mockInterviewService) Start(req *models.StartInterviewRequest) *models.StartInterviewResponse {
	if m.startFn == nil {
		return &models.StartInterviewResponse{SessionID: "sess-1"}
	}
	return m.startFn(req)
}

func (m *mockInterviewService) SubmitAudio(ctx context.Context, sessionID, filename string, audio io.Reader) (*models.AnalyzeResponse, error) {
	if m.submitAudioFn == nil {
		return &models.AnalyzeResponse{}, nil
	}
	return m.submitAudioFn(ctx, sessionID, filename, audio)
}

func (m *mockInterviewService) End(ctx context.Context, sessionID string) (*models.EndInterviewResponse, error) {
	if m.endFn == nil {
		return &models.EndInterviewResponse{SessionID: sessionID}, nil
	}
	return m.endFn(ctx, sessionID)
}

func (m *mockInterviewService) Status(sessionID string) (*models.StatusResponse, error) {
	if m.statusFn == nil {
		return &models.StatusResponse{SessionID: sessionID}, nil
	}
	return m.statusFn(sessionID)
}

func (m *mockInterviewService) Time(sessionID string) (*models.TimeResponse, error) {
	if m.timeFn == nil {
		return &models.TimeResponse{}, nil
	}
	return m.timeFn(sessionID)
}

func (m *mockInterviewService) AnalyzeOnce(ctx context.Context, filename string, audio io.Reader) (*models.AnalyzeResponse, error) {
	if m.analyzeOnceFn == nil {
		return &models.AnalyzeResponse{}, nil
	}
	return m.analyzeOnceFn(ctx, filename, audio)
}

type mockMediaService struct {
	speakFn       func(ctx context.Context, text string) ([]byte, error)
	parseResumeFn func(ctx context.Context, filename string, content []byte) (*models.ResumeParseResponse, error)
	analyzeJobFn  func(ctx context.Context, description string) (*models.JobAnalysisResponse, error)
}

func (m *mockMediaService) Speak(ctx context.Context, text string) ([]byte, error) {
	if m.speakFn == nil {
		return []byte("RIFF"), nil
	}
	return m.speakFn(ctx, text)
}

func (m *mockMediaService) ParseResume(ctx context.Context, filename string, content []byte) (*models.ResumeParseResponse, error) {
	if m.parseResumeFn == nil {
		return &models.ResumeParseResponse{Success: true, Filename: filename}, nil
	}
	return m.parseResumeFn(ctx, filename, content)
}

func (m *mockMediaService) AnalyzeJob(ctx context.Context, description string) (*models.JobAnalysisResponse, error) {
	if m.analyzeJobFn == nil {
		return &models.JobAnalysisResponse{Success: true}, nil
	}
	return m.analyzeJobFn(ctx, description)
}

// multipartRequest builds a POST with one file part.
func multipartRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}
