package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// app config, loaded once from the environment
type Config struct {
	Port           string
	Provider       string
	AllowedOrigins []string
	LogLevel       string

	JWTSecret    string
	AuthRequired bool

	SessionMaxAge          time.Duration
	SessionReaperEnabled   bool
	SessionReaperSchedule  string
	TurnRateLimit          int
	MaxUploadBytes         int64
	DefaultDurationMinutes int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("AI_PROVIDER", ProviderOpenAI)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("SESSION_MAX_AGE", "6h")
	v.SetDefault("SESSION_REAPER_ENABLED", true)
	v.SetDefault("SESSION_REAPER_SCHEDULE", "@every 10m")
	v.SetDefault("TURN_RATE_LIMIT", 20)
	v.SetDefault("MAX_UPLOAD_BYTES", 25<<20)
	v.SetDefault("DEFAULT_DURATION_MINUTES", 30)
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                   v.GetString("PORT"),
		Provider:               strings.ToLower(strings.TrimSpace(v.GetString("AI_PROVIDER"))),
		AllowedOrigins:         splitList(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:               v.GetString("LOG_LEVEL"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		AuthRequired:           v.GetBool("AUTH_REQUIRED"),
		SessionMaxAge:          v.GetDuration("SESSION_MAX_AGE"),
		SessionReaperEnabled:   v.GetBool("SESSION_REAPER_ENABLED"),
		SessionReaperSchedule:  v.GetString("SESSION_REAPER_SCHEDULE"),
		TurnRateLimit:          v.GetInt("TURN_RATE_LIMIT"),
		MaxUploadBytes:         v.GetInt64("MAX_UPLOAD_BYTES"),
		DefaultDurationMinutes: v.GetInt("DEFAULT_DURATION_MINUTES"),
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(config *Config) error {
	switch config.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: openai, gemini")
	}
	// provider credentials are validated by each provider's NewConfig()

	if config.AuthRequired && config.JWTSecret == "" {
		return errors.New("AUTH_REQUIRED is set but JWT_SECRET is empty")
	}
	if config.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if config.DefaultDurationMinutes <= 0 {
		return errors.New("DEFAULT_DURATION_MINUTES must be positive")
	}
	if config.SessionReaperEnabled {
		if config.SessionMaxAge <= 0 {
			return errors.New("SESSION_MAX_AGE must be a positive duration")
		}
		if _, err := cron.ParseStandard(config.SessionReaperSchedule); err != nil {
			return fmt.Errorf("invalid SESSION_REAPER_SCHEDULE: %w", err)
		}
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
