package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/metrics"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
	"mockinterview/api/internal/scoring"
	"mockinterview/api/internal/session"
	"mockinterview/api/internal/utils"
)

// generation settings per call site
var (
	turnOptions    = llm.ChatOptions{Temperature: 0.7, MaxTokens: 200}
	summaryOptions = llm.ChatOptions{Temperature: 0.5, MaxTokens: 500}
)

// Service runs interviews: it owns the session store and talks to the AI
// provider for transcription, replies and summaries.
type Service struct {
	store           *session.Store
	prompts         *prompts.PromptManager
	provider        llm.Provider
	logger          *zap.Logger
	defaultDuration int
}

type Option func(*Service)

// WithDefaultDuration sets the interview length used when a start request
// leaves duration_minutes at zero.
func WithDefaultDuration(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.defaultDuration = minutes
		}
	}
}

func NewService(store *session.Store, pm *prompts.PromptManager, provider llm.Provider, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:           store,
		prompts:         pm,
		provider:        provider,
		logger:          logger,
		defaultDuration: models.DefaultDurationMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a session from a validated request. It never fails: unknown
// catalog keys resolve to defaults.
func (s *Service) Start(req *models.StartInterviewRequest) *models.StartInterviewResponse {
	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.defaultDuration
	}

	comp := s.prompts.Compose(prompts.ComposeInput{
		Topic:          req.Topic,
		Company:        req.CompanyStyle,
		Difficulty:     req.Difficulty,
		Resume:         req.Resume(),
		JobDescription: req.Job(),
	})

	sess := s.store.Create(session.Config{
		Topic:             comp.Topic,
		TopicName:         comp.TopicName,
		Company:           comp.Company,
		CompanyName:       comp.CompanyName,
		Difficulty:        comp.Difficulty,
		SystemPrompt:      comp.SystemPrompt,
		OpeningMessage:    comp.OpeningMessage,
		EnableTTS:         req.TTSEnabled(),
		DurationMinutes:   duration,
		HasResume:         req.Resume() != "",
		HasJobDescription: req.Job() != "",
	})
	metrics.SetActiveSessions(s.store.Len())

	s.logger.Info("Interview started",
		zap.String("session_id", sess.ID),
		zap.String("topic", comp.Topic),
		zap.String("company", comp.Company),
		zap.String("difficulty", comp.Difficulty),
		zap.Int("duration_minutes", duration))

	cfg := sess.Config
	return &models.StartInterviewResponse{
		SessionID:         sess.ID,
		Topic:             cfg.TopicName,
		Company:           cfg.CompanyName,
		Difficulty:        cfg.Difficulty,
		OpeningMessage:    cfg.OpeningMessage,
		EnableTTS:         cfg.EnableTTS,
		DurationMinutes:   cfg.DurationMinutes,
		HasResume:         cfg.HasResume,
		HasJobDescription: cfg.HasJobDescription,
	}
}

// SubmitAudio transcribes a recorded answer and runs it as a turn. Unknown
// sessions are rejected before any provider call.
func (s *Service) SubmitAudio(ctx context.Context, sessionID, filename string, audio io.Reader) (*models.AnalyzeResponse, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		metrics.ObserveTurn(metrics.TurnNotFound)
		return nil, err
	}

	start := time.Now()
	text, err := s.provider.Transcribe(ctx, filename, audio)
	metrics.ObserveProvider(s.provider.GetProviderName(), "transcribe", start, err)
	if err != nil {
		metrics.ObserveTurn(metrics.TurnTranscribeErr)
		s.logProviderError(ctx, "Transcription failed", sessionID, err)
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}

	return s.runTurn(ctx, sess, text)
}

// SubmitTurn runs one exchange with an already transcribed utterance.
func (s *Service) SubmitTurn(ctx context.Context, sessionID, utterance string) (*models.AnalyzeResponse, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		metrics.ObserveTurn(metrics.TurnNotFound)
		return nil, err
	}
	return s.runTurn(ctx, sess, utterance)
}

func (s *Service) runTurn(ctx context.Context, sess *session.Session, utterance string) (*models.AnalyzeResponse, error) {
	out, err := sess.RunTurn(utterance, func(history []session.Turn) (string, error) {
		messages := make([]llm.Message, 0, len(history)+1)
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: sess.Config.SystemPrompt})
		for _, turn := range history {
			messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
		}

		start := time.Now()
		resp, err := s.provider.Chat(ctx, messages, turnOptions)
		metrics.ObserveProvider(s.provider.GetProviderName(), "chat", start, err)
		if err != nil {
			return "", err
		}
		return resp.Content, nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			metrics.ObserveTurn(metrics.TurnNotFound)
			return nil, err
		}
		metrics.ObserveTurn(metrics.TurnProviderErr)
		s.logProviderError(ctx, "Completion failed", sess.ID, err)
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	metrics.ObserveTurn(metrics.TurnOK)
	if out.Score != nil {
		metrics.ObserveScore(*out.Score)
	}

	s.logger.Info("Turn completed",
		zap.String("session_id", sess.ID),
		zap.String("request_id", chimw.GetReqID(ctx)),
		zap.Int("question_number", out.QuestionCount),
		zap.Bool("scored", out.Score != nil),
		zap.String("difficulty_trend", out.DifficultyTrend))

	return &models.AnalyzeResponse{
		UserText:        out.UserText,
		AIResponse:      out.DisplayReply,
		QuestionNumber:  out.QuestionCount,
		HistoryLength:   out.HistoryLength,
		Score:           out.Score,
		AverageScore:    out.Average,
		TotalScores:     out.TotalScores,
		DifficultyTrend: out.DifficultyTrend,
	}, nil
}

// End deletes the session and reports final analytics with a narrative
// summary. A failed summary call falls back to a fixed message.
func (s *Service) End(ctx context.Context, sessionID string) (*models.EndInterviewResponse, error) {
	snap, err := s.store.Delete(sessionID)
	if err != nil {
		return nil, err
	}
	metrics.SetActiveSessions(s.store.Len())

	analytics := scoring.Summarize(snap.Scores)
	summary := s.summarize(ctx, snap, analytics)

	history := make([]models.Message, len(snap.History))
	for i, turn := range snap.History {
		history[i] = models.Message{Role: turn.Role, Content: turn.Content}
	}

	s.logger.Info("Interview ended",
		zap.String("session_id", sessionID),
		zap.Int("total_questions", snap.QuestionCount),
		zap.Int("scores", len(snap.Scores)))

	return &models.EndInterviewResponse{
		SessionID:      sessionID,
		Topic:          snap.Config.TopicName,
		CompanyStyle:   snap.Config.CompanyName,
		Difficulty:     snap.Config.Difficulty,
		TotalQuestions: snap.QuestionCount,
		Scores: models.ScoreAnalytics{
			Individual: analytics.Individual,
			Average:    analytics.Average,
			Min:        analytics.Min,
			Max:        analytics.Max,
			Trend:      analytics.Trend,
		},
		Summary: summary,
		History: history,
	}, nil
}

func (s *Service) summarize(ctx context.Context, snap session.Snapshot, analytics scoring.Analytics) string {
	scoreInfo := ""
	if len(snap.Scores) > 0 {
		scoreInfo = fmt.Sprintf("\nScores received: %v\nAverage score: %.1f/10", snap.Scores, *analytics.Average)
	}

	lines := make([]string, len(snap.History))
	for i, turn := range snap.History {
		lines[i] = strings.ToUpper(turn.Role) + ": " + turn.Content
	}

	prompt, err := s.prompts.BuildPrompt(prompts.InstructionSummary, map[string]string{
		"Topic":      snap.Config.TopicName,
		"Company":    snap.Config.CompanyName,
		"Difficulty": snap.Config.Difficulty,
		"Exchanges":  fmt.Sprint(snap.QuestionCount),
		"ScoreInfo":  scoreInfo,
		"Transcript": strings.Join(lines, "\n"),
	})
	if err != nil {
		s.logger.Error("Failed to build prompt", zap.Error(err), zap.String("session_id", snap.ID))
		return models.SummaryFallback
	}

	start := time.Now()
	resp, err := s.provider.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, summaryOptions)
	metrics.ObserveProvider(s.provider.GetProviderName(), "summary", start, err)
	if err != nil {
		s.logProviderError(ctx, "Summary generation failed", snap.ID, err)
		return models.SummaryFallback
	}
	return resp.Content
}

// Status is a read-only view of a live session.
func (s *Service) Status(sessionID string) (*models.StatusResponse, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	clock := session.ClockAt(snap.StartTime, snap.Config.DurationMinutes, s.store.Now())

	return &models.StatusResponse{
		SessionID:         snap.ID,
		Topic:             snap.Config.TopicName,
		CompanyStyle:      snap.Config.CompanyName,
		Difficulty:        snap.Config.Difficulty,
		QuestionCount:     snap.QuestionCount,
		HistoryLength:     len(snap.History),
		CurrentAverage:    snap.Average,
		DifficultyTrend:   scoring.DifficultyTrend(snap.DifficultyAdjustment),
		EnableTTS:         snap.Config.EnableTTS,
		ElapsedSeconds:    clock.ElapsedSeconds,
		RemainingSeconds:  clock.RemainingSeconds,
		DurationMinutes:   clock.DurationMinutes,
		IsTimeUp:          clock.IsTimeUp,
		HasResume:         snap.Config.HasResume,
		HasJobDescription: snap.Config.HasJobDescription,
	}, nil
}

// Time reports the interview clock of a live session.
func (s *Service) Time(sessionID string) (*models.TimeResponse, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	clock := session.ClockAt(sess.StartTime, sess.Config.DurationMinutes, s.store.Now())

	return &models.TimeResponse{
		ElapsedSeconds:     clock.ElapsedSeconds,
		ElapsedFormatted:   utils.FormatClock(clock.ElapsedSeconds),
		RemainingSeconds:   clock.RemainingSeconds,
		RemainingFormatted: utils.FormatClock(clock.RemainingSeconds),
		DurationMinutes:    clock.DurationMinutes,
		ProgressPercent:    clock.ProgressPercent,
		IsTimeUp:           clock.IsTimeUp,
		IsWarning:          clock.IsWarning,
	}, nil
}

// AnalyzeOnce backs the legacy single-shot endpoint: a default session is
// created, used for one turn and dropped.
func (s *Service) AnalyzeOnce(ctx context.Context, filename string, audio io.Reader) (*models.AnalyzeResponse, error) {
	started := s.Start(&models.StartInterviewRequest{
		Topic:        models.DefaultTopic,
		Difficulty:   models.DefaultDifficulty,
		CompanyStyle: models.DefaultCompanyStyle,
	})
	defer func() {
		_, _ = s.store.Delete(started.SessionID)
		metrics.SetActiveSessions(s.store.Len())
	}()

	return s.SubmitAudio(ctx, started.SessionID, filename, audio)
}

// Sweep evicts sessions started before cutoff.
func (s *Service) Sweep(cutoff time.Time) []string {
	removed := s.store.Sweep(cutoff)
	metrics.SetActiveSessions(s.store.Len())
	return removed
}

func (s *Service) logProviderError(ctx context.Context, msg, sessionID string, err error) {
	s.logger.Error(msg,
		zap.Error(err),
		zap.String("session_id", sessionID),
		zap.String("request_id", chimw.GetReqID(ctx)),
		zap.String("provider", s.provider.GetProviderName()))
}
