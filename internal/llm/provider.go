package llm

import (
	"context"
	"errors"
	"io"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// single chat message sent to a completion provider
type Message struct {
	Role    string
	Content string
}

// per-call generation knobs; zero values leave the provider default
type ChatOptions struct {
	Temperature float32
	MaxTokens   int
}

type ChatResponse struct {
	Content  string
	Metadata ResponseMetadata
}

type ResponseMetadata struct {
	ProcessingTime int // milliseconds
	Provider       string
	Model          string
}

// defines the interface for AI providers: chat completion, speech-to-text
// and text-to-speech
type Provider interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (*ChatResponse, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
	GetProviderName() string
}

// represents an error from an AI provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes shared by all providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
	ErrCodeUnsupported  = "unsupported"
)

// IsRateLimited reports whether err is a provider rate limit error.
func IsRateLimited(err error) bool {
	var provErr *ProviderError
	return errors.As(err, &provErr) && provErr.Code == ErrCodeRateLimit
}
