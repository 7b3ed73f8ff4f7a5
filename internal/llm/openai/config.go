package openai

import (
	"errors"
	"os"
)

// holds configuration for any OpenAI-compatible endpoint (OpenAI, Groq, ...)
type Config struct {
	APIKey             string
	BaseURL            string
	ChatModel          string
	TranscriptionModel string
	SpeechModel        string
	SpeechVoice        string
	Language           string
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is required")
	}

	return &Config{
		APIKey:             apiKey,
		BaseURL:            os.Getenv("OPENAI_BASE_URL"), // empty keeps the SDK default
		ChatModel:          getEnvOrDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		TranscriptionModel: getEnvOrDefault("OPENAI_TRANSCRIPTION_MODEL", "whisper-1"),
		SpeechModel:        getEnvOrDefault("OPENAI_SPEECH_MODEL", "tts-1"),
		SpeechVoice:        getEnvOrDefault("OPENAI_SPEECH_VOICE", "alloy"),
		Language:           getEnvOrDefault("OPENAI_TRANSCRIPTION_LANGUAGE", "en"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
