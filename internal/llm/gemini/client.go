package gemini

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/genai"

	"mockinterview/api/internal/llm"
)

const transcribeInstruction = "Transcribe this interview answer verbatim. Reply with the transcript only."

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// runs a chat completion; system messages become the system instruction and
// assistant turns are sent with the "model" role
func (c *Client) Chat(ctx context.Context, messages []llm.Message, opts llm.ChatOptions) (*llm.ChatResponse, error) {
	startTime := time.Now()

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = append(system, msg.Content)
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: msg.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: msg.Content}}})
		}
	}

	var genConfig *genai.GenerateContentConfig
	if len(system) > 0 {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}}},
		}
	}

	text, err := c.generate(ctx, contents, genConfig, "Failed to generate chat completion")
	if err != nil {
		return nil, err
	}

	return &llm.ChatResponse{
		Content: text,
		Metadata: llm.ResponseMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       "gemini",
			Model:          c.config.Model,
		},
	}, nil
}

// transcribes audio by sending it inline with a transcription instruction
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to read audio",
			Err:      err,
		}
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: transcribeInstruction},
			{InlineData: &genai.Blob{MIMEType: audioMIMEType(filename), Data: data}},
		},
	}}

	text, err := c.generate(ctx, contents, nil, "Failed to transcribe audio")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Gemini's text API has no speech synthesis
func (c *Client) Synthesize(context.Context, string) ([]byte, error) {
	return nil, &llm.ProviderError{
		Provider: "gemini",
		Code:     llm.ErrCodeUnsupported,
		Message:  "Speech synthesis is not supported by this provider",
	}
}

func (c *Client) GetProviderName() string {
	return "gemini"
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content, genConfig *genai.GenerateContentConfig, failure string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.config.Model, contents, genConfig)
	if err != nil {
		code := llm.ErrCodeServiceDown
		if isRateLimitError(err) {
			code = llm.ErrCodeRateLimit
		}
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     code,
			Message:  failure,
			Err:      err,
		}
	}

	// Extract the response text
	if result == nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return "", &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}
	return text, nil
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}

func audioMIMEType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); strings.HasPrefix(t, "audio/") {
		return t
	}
	return "audio/webm"
}
