package interview

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/session"
)

type stubProvider struct {
	mu          sync.Mutex
	replies     []string
	chatErr     error
	transcript  string
	transcErr   error
	transcribed int
	speech      []byte
	calls       [][]llm.Message
	opts        []llm.ChatOptions
}

func (p *stubProvider) Chat(_ context.Context, messages []llm.Message, opts llm.ChatOptions) (*llm.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, messages)
	p.opts = append(p.opts, opts)
	if p.chatErr != nil {
		return nil, p.chatErr
	}
	reply := "Tell me more."
	if len(p.replies) > 0 {
		reply, p.replies = p.replies[0], p.replies[1:]
	}
	return &llm.ChatResponse{Content: reply}, nil
}

func (p *stubProvider) Transcribe(_ context.Context, _ string, audio io.Reader) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transcribed++
	if p.transcErr != nil {
		return "", p.transcErr
	}
	_, _ = io.Copy(io.Discard, audio)
	return p.transcript, nil
}

func (p *stubProvider) Synthesize(context.Context, string) ([]byte, error) {
	if p.speech == nil {
		return nil, &llm.ProviderError{Provider: "stub", Code: llm.ErrCodeUnsupported, Message: "no speech"}
	}
	return p.speech, nil
}

func (p *stubProvider) GetProviderName() string { return "stub" }

func (p *stubProvider) lastCall() []llm.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}

func newTestService(t *testing.T, provider *stubProvider, storeOpts ...session.Option) *Service {
	t.Helper()
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)
	return NewService(session.NewStore(storeOpts...), pm, provider, zap.NewNop())
}

func startDefault(t *testing.T, svc *Service) *models.StartInterviewResponse {
	t.Helper()
	req := &models.StartInterviewRequest{}
	require.NoError(t, req.Validate())
	return svc.Start(req)
}

func TestStartResolvesDefaults(t *testing.T) {
	svc := newTestService(t, &stubProvider{})

	req := &models.StartInterviewRequest{Topic: "quantum", CompanyStyle: "acme", Difficulty: "nightmare"}
	require.NoError(t, req.Validate())
	resp := svc.Start(req)

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "medium", resp.Difficulty)
	assert.Equal(t, models.DefaultDurationMinutes, resp.DurationMinutes)
	assert.True(t, resp.EnableTTS)
	assert.NotEmpty(t, resp.OpeningMessage)

	status, err := svc.Status(resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.HistoryLength)
	assert.Equal(t, 1, status.QuestionCount)
	assert.Nil(t, status.CurrentAverage)
}

func TestStartCustomDefaultDuration(t *testing.T) {
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)
	svc := NewService(session.NewStore(), pm, &stubProvider{}, zap.NewNop(), WithDefaultDuration(45))

	resp := startDefault(t, svc)
	assert.Equal(t, 45, resp.DurationMinutes)
}

func TestSubmitTurnSendsSystemPromptAndFullHistory(t *testing.T) {
	provider := &stubProvider{replies: []string{"Nice. Next question? [SCORE: 8/10]", "Hmm. [SCORE: 9/10]"}}
	svc := newTestService(t, provider)
	started := startDefault(t, svc)
	ctx := context.Background()

	first, err := svc.SubmitTurn(ctx, started.SessionID, "I would use a heap")
	require.NoError(t, err)
	assert.Equal(t, "Nice. Next question?", first.AIResponse)
	assert.Equal(t, 8, *first.Score)
	assert.Equal(t, 2, first.QuestionNumber)
	assert.Equal(t, 3, first.HistoryLength)
	assert.Equal(t, "harder", first.DifficultyTrend)

	_, err = svc.SubmitTurn(ctx, started.SessionID, "O(log n) per insert")
	require.NoError(t, err)

	msgs := provider.lastCall()
	require.Len(t, msgs, 5)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "[SCORE: X/10]")
	assert.Equal(t, llm.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Nice. Next question? [SCORE: 8/10]", msgs[3].Content, "the tag stays in history")
	assert.Equal(t, "O(log n) per insert", msgs[4].Content)
	assert.Equal(t, turnOptions, provider.opts[0])
}

func TestSubmitAudioUnknownSessionSkipsTranscription(t *testing.T) {
	provider := &stubProvider{transcript: "hello"}
	svc := newTestService(t, provider)

	_, err := svc.SubmitAudio(context.Background(), "missing", "a.webm", strings.NewReader("audio"))
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, provider.transcribed)
}

func TestSubmitAudioTranscriptionFailure(t *testing.T) {
	boom := &llm.ProviderError{Provider: "stub", Code: llm.ErrCodeServiceDown, Message: "down"}
	provider := &stubProvider{transcErr: boom}
	svc := newTestService(t, provider)
	started := startDefault(t, svc)

	_, err := svc.SubmitAudio(context.Background(), started.SessionID, "a.webm", strings.NewReader("audio"))
	require.Error(t, err)
	var provErr *llm.ProviderError
	assert.True(t, errors.As(err, &provErr))

	status, err := svc.Status(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.HistoryLength, "nothing was heard, nothing is recorded")
}

func TestSubmitAudioRunsTurn(t *testing.T) {
	provider := &stubProvider{transcript: "a linked list", replies: []string{"OK [SCORE: 3/10]"}}
	svc := newTestService(t, provider)
	started := startDefault(t, svc)

	resp, err := svc.SubmitAudio(context.Background(), started.SessionID, "a.webm", strings.NewReader("audio"))
	require.NoError(t, err)
	assert.Equal(t, "a linked list", resp.UserText)
	assert.Equal(t, "OK", resp.AIResponse)
	assert.Equal(t, "easier", resp.DifficultyTrend)
}

func TestSubmitTurnProviderFailureKeepsUserTurn(t *testing.T) {
	provider := &stubProvider{chatErr: &llm.ProviderError{Provider: "stub", Code: llm.ErrCodeRateLimit, Message: "slow down"}}
	svc := newTestService(t, provider)
	started := startDefault(t, svc)

	_, err := svc.SubmitTurn(context.Background(), started.SessionID, "answer")
	require.Error(t, err)
	assert.True(t, llm.IsRateLimited(err))

	status, err := svc.Status(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.HistoryLength)
	assert.Equal(t, 1, status.QuestionCount)
}

func TestEndReportsAnalyticsAndDeletes(t *testing.T) {
	provider := &stubProvider{replies: []string{"a [SCORE: 5/10]", "b [SCORE: 6/10]", "c [SCORE: 9/10]", "Solid performance."}}
	svc := newTestService(t, provider)
	started := startDefault(t, svc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SubmitTurn(ctx, started.SessionID, "answer")
		require.NoError(t, err)
	}

	result, err := svc.End(ctx, started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 9}, result.Scores.Individual)
	assert.Equal(t, 6.7, *result.Scores.Average)
	assert.Equal(t, 5, *result.Scores.Min)
	assert.Equal(t, 9, *result.Scores.Max)
	assert.Equal(t, "improving", *result.Scores.Trend)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, "Solid performance.", result.Summary)
	assert.Len(t, result.History, 7)

	prompt := provider.lastCall()[0].Content
	assert.Contains(t, prompt, "Scores received: [5 6 9]")
	assert.Contains(t, prompt, "Average score: 6.7/10")
	assert.Contains(t, prompt, "USER: answer")
	assert.Equal(t, summaryOptions, provider.opts[len(provider.opts)-1])

	_, err = svc.Status(started.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = svc.End(ctx, started.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestEndSummaryFallback(t *testing.T) {
	provider := &stubProvider{chatErr: errors.New("offline")}
	svc := newTestService(t, provider)
	started := startDefault(t, svc)

	result, err := svc.End(context.Background(), started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SummaryFallback, result.Summary)
	assert.Empty(t, result.Scores.Individual)
	assert.Nil(t, result.Scores.Average)
	assert.Nil(t, result.Scores.Trend)
	assert.Len(t, result.History, 1)
}

func TestTimeUsesStoreClock(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, &stubProvider{}, session.WithClock(func() time.Time { return now }))
	started := startDefault(t, svc)

	now = now.Add(1600 * time.Second)
	tm, err := svc.Time(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 200, tm.RemainingSeconds)
	assert.Equal(t, "26:40", tm.ElapsedFormatted)
	assert.Equal(t, "03:20", tm.RemainingFormatted)
	assert.True(t, tm.IsWarning)

	now = now.Add(300 * time.Second)
	status, err := svc.Status(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.RemainingSeconds)
	assert.True(t, status.IsTimeUp)

	_, err = svc.Time("missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAnalyzeOnceDropsSession(t *testing.T) {
	provider := &stubProvider{transcript: "hi", replies: []string{"Welcome [SCORE: 6/10]"}}
	svc := newTestService(t, provider)

	resp, err := svc.AnalyzeOnce(context.Background(), "a.webm", strings.NewReader("audio"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome", resp.AIResponse)
	assert.Equal(t, 0, svc.store.Len())

	want := svc.prompts.Compose(prompts.ComposeInput{
		Topic:      models.DefaultTopic,
		Company:    models.DefaultCompanyStyle,
		Difficulty: models.DefaultDifficulty,
	})
	require.Len(t, provider.calls, 1)
	assert.Equal(t, want.SystemPrompt, provider.calls[0][0].Content)
}

func TestSweepEvictsOldSessions(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, &stubProvider{}, session.WithClock(func() time.Time { return now }))
	old := startDefault(t, svc)
	now = now.Add(7 * time.Hour)
	fresh := startDefault(t, svc)

	removed := svc.Sweep(now.Add(-6 * time.Hour))
	assert.Equal(t, []string{old.SessionID}, removed)
	_, err := svc.Status(fresh.SessionID)
	assert.NoError(t, err)
}
