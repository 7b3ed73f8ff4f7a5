package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type StartInterviewResponse struct {
	SessionID         string `json:"session_id"`
	Topic             string `json:"topic"`
	Company           string `json:"company"`
	Difficulty        string `json:"difficulty"`
	OpeningMessage    string `json:"opening_message"`
	EnableTTS         bool   `json:"enable_tts"`
	DurationMinutes   int    `json:"duration_minutes"`
	HasResume         bool   `json:"has_resume"`
	HasJobDescription bool   `json:"has_job_description"`
}

type AnalyzeResponse struct {
	UserText        string   `json:"user_text"`
	AIResponse      string   `json:"ai_response"`
	QuestionNumber  int      `json:"question_number"`
	HistoryLength   int      `json:"history_length"`
	Score           *int     `json:"score"`
	AverageScore    *float64 `json:"average_score"`
	TotalScores     int      `json:"total_scores"`
	DifficultyTrend string   `json:"difficulty_trend"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ScoreAnalytics struct {
	Individual []int    `json:"individual"`
	Average    *float64 `json:"average"`
	Min        *int     `json:"min"`
	Max        *int     `json:"max"`
	Trend      *string  `json:"trend"`
}

type EndInterviewResponse struct {
	SessionID      string         `json:"session_id"`
	Topic          string         `json:"topic"`
	CompanyStyle   string         `json:"company_style"`
	Difficulty     string         `json:"difficulty"`
	TotalQuestions int            `json:"total_questions"`
	Scores         ScoreAnalytics `json:"scores"`
	Summary        string         `json:"summary"`
	History        []Message      `json:"history"`
}

type StatusResponse struct {
	SessionID         string   `json:"session_id"`
	Topic             string   `json:"topic"`
	CompanyStyle      string   `json:"company_style"`
	Difficulty        string   `json:"difficulty"`
	QuestionCount     int      `json:"question_count"`
	HistoryLength     int      `json:"history_length"`
	CurrentAverage    *float64 `json:"current_average"`
	DifficultyTrend   string   `json:"difficulty_trend"`
	EnableTTS         bool     `json:"enable_tts"`
	ElapsedSeconds    int      `json:"elapsed_seconds"`
	RemainingSeconds  int      `json:"remaining_seconds"`
	DurationMinutes   int      `json:"duration_minutes"`
	IsTimeUp          bool     `json:"is_time_up"`
	HasResume         bool     `json:"has_resume"`
	HasJobDescription bool     `json:"has_job_description"`
}

type TimeResponse struct {
	ElapsedSeconds     int     `json:"elapsed_seconds"`
	ElapsedFormatted   string  `json:"elapsed_formatted"`
	RemainingSeconds   int     `json:"remaining_seconds"`
	RemainingFormatted string  `json:"remaining_formatted"`
	DurationMinutes    int     `json:"duration_minutes"`
	ProgressPercent    float64 `json:"progress_percent"`
	IsTimeUp           bool    `json:"is_time_up"`
	IsWarning          bool    `json:"is_warning"`
}

type CatalogOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ResumeParseResponse struct {
	Success    bool   `json:"success"`
	RawText    string `json:"raw_text"`
	ParsedInfo string `json:"parsed_info"`
	Filename   string `json:"filename"`
}

type JobAnalysisResponse struct {
	Success  bool   `json:"success"`
	Analysis string `json:"analysis"`
}
