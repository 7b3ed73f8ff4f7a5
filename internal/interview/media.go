package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mockinterview/api/internal/llm"
	"mockinterview/api/internal/metrics"
	"mockinterview/api/internal/models"
	"mockinterview/api/internal/prompts"
)

const rawResumePreviewLimit = 2000

var (
	resumeOptions = llm.ChatOptions{Temperature: 0.3, MaxTokens: 500}
	jobOptions    = llm.ChatOptions{Temperature: 0.3, MaxTokens: 400}
)

// Speak synthesizes text into WAV audio.
func (s *Service) Speak(ctx context.Context, text string) ([]byte, error) {
	start := time.Now()
	audio, err := s.provider.Synthesize(ctx, text)
	metrics.ObserveProvider(s.provider.GetProviderName(), "synthesize", start, err)
	if err != nil {
		s.logProviderError(ctx, "Speech synthesis failed", "", err)
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return audio, nil
}

// ParseResume extracts structured fields from an uploaded resume. Bytes
// that are not valid UTF-8 are dropped.
func (s *Service) ParseResume(ctx context.Context, filename string, content []byte) (*models.ResumeParseResponse, error) {
	text := strings.ToValidUTF8(string(content), "")

	parsed, err := s.extract(ctx, prompts.InstructionResumeExtraction, map[string]string{
		"Resume": prompts.Truncate(text, prompts.ResumeExtractionLimit),
	}, resumeOptions)
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	s.logger.Info("Resume parsed", zap.String("filename", filename), zap.Int("chars", len(text)))

	return &models.ResumeParseResponse{
		Success:    true,
		RawText:    prompts.Truncate(text, rawResumePreviewLimit),
		ParsedInfo: parsed,
		Filename:   filename,
	}, nil
}

// AnalyzeJob summarizes what an interviewer should focus on for a job posting.
func (s *Service) AnalyzeJob(ctx context.Context, description string) (*models.JobAnalysisResponse, error) {
	analysis, err := s.extract(ctx, prompts.InstructionJobAnalysis, map[string]string{
		"JobDescription": prompts.Truncate(description, prompts.JobAnalysisLimit),
	}, jobOptions)
	if err != nil {
		return nil, fmt.Errorf("analyze job description: %w", err)
	}
	return &models.JobAnalysisResponse{Success: true, Analysis: analysis}, nil
}

func (s *Service) extract(ctx context.Context, instruction string, data map[string]string, opts llm.ChatOptions) (string, error) {
	prompt, err := s.prompts.BuildPrompt(instruction, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := s.provider.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts)
	metrics.ObserveProvider(s.provider.GetProviderName(), instruction, start, err)
	if err != nil {
		s.logProviderError(ctx, "Extraction failed", "", err)
		return "", err
	}
	return resp.Content, nil
}
