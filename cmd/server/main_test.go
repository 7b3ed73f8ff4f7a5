package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockinterview/api/internal/config"
	"mockinterview/api/internal/interview"
	"mockinterview/api/internal/llm"
	apimw "mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/session"

	"go.uber.org/zap"
)

type fakeProvider struct{}

func (fakeProvider) Chat(context.Context, []llm.Message, llm.ChatOptions) (*llm.ChatResponse, error) {
	return &llm.ChatResponse{Content: "Great answer. [SCORE: 9/10]"}, nil
}

func (fakeProvider) Transcribe(context.Context, string, io.Reader) (string, error) {
	return "transcribed", nil
}

func (fakeProvider) Synthesize(context.Context, string) ([]byte, error) {
	return []byte("RIFF"), nil
}

func (fakeProvider) GetProviderName() string { return "fake" }

var _ llm.Provider = (*fakeProvider)(nil)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	logger := zap.NewNop()
	cfg := &config.Config{
		Provider:       "openai",
		AllowedOrigins: []string{"http://localhost:5173"},
		MaxUploadBytes: 1 << 20,
		TurnRateLimit:  100,
	}
	service := interview.NewService(session.NewStore(), pm, fakeProvider{}, logger)

	router := newRouter(dependencies{
		config:        cfg,
		provider:      fakeProvider{},
		promptManager: pm,
		service:       service,
		limiter:       apimw.NewRateLimiter(cfg.TurnRateLimit),
		logger:        logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/", "/healthz", "/readyz", "/topics"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestNewRouter_StartStatusEnd(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/interview/start", "application/json", bytes.NewBufferString(`{"topic":"dsa","duration_minutes":15}`))
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	var started models.StartInterviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("failed to decode start response: %v", err)
	}
	resp.Body.Close()
	if started.SessionID == "" || started.DurationMinutes != 15 {
		t.Fatalf("unexpected start response %+v", started)
	}

	resp, err = http.Get(srv.URL + "/interview/" + started.SessionID + "/status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/interview/"+started.SessionID+"/end", "application/json", nil)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected end 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/interview/" + started.SessionID + "/time")
	if err != nil {
		t.Fatalf("time failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after end, got %d", resp.StatusCode)
	}
}
