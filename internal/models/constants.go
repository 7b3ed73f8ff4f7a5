package models

const (
	DefaultTopic           = "general"
	DefaultDifficulty      = "medium"
	DefaultCompanyStyle    = "default"
	DefaultDurationMinutes = 30

	// one day; anything longer is a malformed request
	MaxDurationMinutes = 24 * 60

	MaxSpeechChars = 4096

	SummaryFallback = "Unable to generate summary. Please try again."
)
