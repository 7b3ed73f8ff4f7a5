package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"mockinterview/api/internal/llm"
)

const providerName = "openai"

// Client talks to an OpenAI-compatible API for chat, transcription and speech.
type Client struct {
	client *goopenai.Client
	config *Config
}

func NewClient(config *Config) *Client {
	clientConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &Client{
		client: goopenai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (c *Client) Chat(ctx context.Context, messages []llm.Message, opts llm.ChatOptions) (*llm.ChatResponse, error) {
	startTime := time.Now()

	req := goopenai.ChatCompletionRequest{
		Model:       c.config.ChatModel,
		Messages:    make([]goopenai.ChatCompletionMessage, len(messages)),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	for i, msg := range messages {
		req.Messages[i] = goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, wrapError(err, "Failed to generate chat completion")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return &llm.ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Metadata: llm.ResponseMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          c.config.ChatModel,
		},
	}, nil
}

func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if filename == "" {
		filename = "audio.webm"
	}
	resp, err := c.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:       c.config.TranscriptionModel,
		FilePath:    filename,
		Reader:      audio,
		Format:      goopenai.AudioResponseFormatJSON,
		Language:    c.config.Language,
		Temperature: 0,
	})
	if err != nil {
		return "", wrapError(err, "Failed to transcribe audio")
	}
	return resp.Text, nil
}

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(c.config.SpeechModel),
		Input:          text,
		Voice:          goopenai.SpeechVoice(c.config.SpeechVoice),
		ResponseFormat: goopenai.SpeechResponseFormatWav,
	})
	if err != nil {
		return nil, wrapError(err, "Failed to synthesize speech")
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeServiceDown,
			Message:  "Failed to read synthesized audio",
			Err:      err,
		}
	}
	return audio, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

// maps SDK errors onto the shared provider error codes
func wrapError(err error, message string) error {
	code := llm.ErrCodeServiceDown

	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = codeForStatus(apiErr.HTTPStatusCode)
	case errors.As(err, &reqErr):
		code = codeForStatus(reqErr.HTTPStatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		code = llm.ErrCodeTimeout
	case isRateLimitError(err):
		code = llm.ErrCodeRateLimit
	}

	return &llm.ProviderError{
		Provider: providerName,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return llm.ErrCodeRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.ErrCodeAPIKey
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return llm.ErrCodeInvalidInput
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return llm.ErrCodeTimeout
	default:
		return llm.ErrCodeServiceDown
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
