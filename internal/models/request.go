package models

import (
	"strings"
)

// StartInterviewRequest is the body of POST /interview/start. Unknown topic,
// company or difficulty keys are not rejected; the prompt catalog resolves
// them to its defaults.
type StartInterviewRequest struct {
	Topic           string  `json:"topic"`
	Difficulty      string  `json:"difficulty"`
	CompanyStyle    string  `json:"company_style"`
	EnableTTS       *bool   `json:"enable_tts"`
	JobDescription  *string `json:"job_description"`
	ResumeText      *string `json:"resume_text"`
	DurationMinutes int     `json:"duration_minutes"`
}

// implements the Validator interface
func (r *StartInterviewRequest) Validate() error {
	if r.DurationMinutes < 0 {
		return &ErrorResponse{
			Code:    "invalid_duration",
			Message: "duration_minutes must not be negative",
		}
	}
	if r.DurationMinutes > MaxDurationMinutes {
		return &ErrorResponse{
			Code:    "invalid_duration",
			Message: "duration_minutes is too large",
		}
	}
	if r.Topic == "" {
		r.Topic = DefaultTopic
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.CompanyStyle == "" {
		r.CompanyStyle = DefaultCompanyStyle
	}
	return nil
}

// TTSEnabled defaults to true when the field is omitted.
func (r *StartInterviewRequest) TTSEnabled() bool {
	return r.EnableTTS == nil || *r.EnableTTS
}

func (r *StartInterviewRequest) Resume() string {
	if r.ResumeText == nil {
		return ""
	}
	return *r.ResumeText
}

func (r *StartInterviewRequest) Job() string {
	if r.JobDescription == nil {
		return ""
	}
	return *r.JobDescription
}

type TextToSpeechRequest struct {
	Text string `json:"text"`
}

func (r *TextToSpeechRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ErrorResponse{Code: "missing_text", Message: "text is required"}
	}
	if len(r.Text) > MaxSpeechChars {
		return &ErrorResponse{Code: "text_too_long", Message: "text exceeds the speech length limit"}
	}
	return nil
}
