package session

import (
	"errors"
	"sync"
	"time"

	"mockinterview/api/internal/scoring"
)

// ErrNotFound is returned for unknown or already ended sessions.
var ErrNotFound = errors.New("session not found")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config is the immutable snapshot taken when the interview starts.
type Config struct {
	Topic             string
	TopicName         string
	Company           string
	CompanyName       string
	Difficulty        string
	SystemPrompt      string
	OpeningMessage    string
	EnableTTS         bool
	DurationMinutes   int
	HasResume         bool
	HasJobDescription bool
}

// Session is one candidate's in-progress interview.
//
// turnMu serializes whole exchanges (user append, provider round-trip,
// assistant append) and deletion. mu only guards the in-memory state, so
// status reads never wait on a provider call.
type Session struct {
	ID        string
	Config    Config
	StartTime time.Time

	turnMu sync.Mutex

	mu            sync.RWMutex
	history       []Turn
	tracker       scoring.Tracker
	questionCount int
	ended         bool
}

func newSession(id string, cfg Config, start time.Time) *Session {
	return &Session{
		ID:            id,
		Config:        cfg,
		StartTime:     start,
		history:       []Turn{{Role: RoleAssistant, Content: cfg.OpeningMessage}},
		questionCount: 1,
	}
}

// Snapshot is a point-in-time copy of a session, safe to hand out.
type Snapshot struct {
	ID                   string
	Config               Config
	StartTime            time.Time
	History              []Turn
	Scores               []int
	QuestionCount        int
	DifficultyAdjustment int
	Average              *float64
}

// Snapshot copies the current state without waiting for an in-flight turn.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:                   s.ID,
		Config:               s.Config,
		StartTime:            s.StartTime,
		History:              append([]Turn(nil), s.history...),
		Scores:               s.tracker.Scores(),
		QuestionCount:        s.questionCount,
		DifficultyAdjustment: s.tracker.Adjustment(),
	}
	if avg, ok := s.tracker.Average(); ok {
		rounded := scoring.Round1(avg)
		snap.Average = &rounded
	}
	return snap
}

// TurnOutcome is what one completed exchange produced.
type TurnOutcome struct {
	UserText             string
	RawReply             string
	DisplayReply         string
	QuestionCount        int
	HistoryLength        int
	Score                *int
	Average              *float64
	TotalScores          int
	DifficultyAdjustment int
	DifficultyTrend      string
}

// CompleteFunc produces the assistant reply for the given history, which
// already ends with the new user turn.
type CompleteFunc func(history []Turn) (string, error)

// RunTurn performs one exchange. Exchanges on the same session are
// serialized; the provider call made by complete runs without holding the
// state lock. When complete fails the user turn stays in history and the
// question count is left untouched.
func (s *Session) RunTurn(utterance string, complete CompleteFunc) (*TurnOutcome, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.history = append(s.history, Turn{Role: RoleUser, Content: utterance})
	history := append([]Turn(nil), s.history...)
	s.mu.Unlock()

	reply, err := complete(history)
	if err != nil {
		return nil, err
	}

	out := &TurnOutcome{
		UserText:     utterance,
		RawReply:     reply,
		DisplayReply: scoring.StripScore(reply),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if score, ok := scoring.ExtractScore(reply); ok {
		s.tracker.Record(score)
		out.Score = &score
	}
	s.tracker.Step()
	s.history = append(s.history, Turn{Role: RoleAssistant, Content: reply})
	s.questionCount++

	out.QuestionCount = s.questionCount
	out.HistoryLength = len(s.history)
	out.TotalScores = s.tracker.Count()
	out.DifficultyAdjustment = s.tracker.Adjustment()
	out.DifficultyTrend = s.tracker.Trend()
	if avg, ok := s.tracker.Average(); ok {
		rounded := scoring.Round1(avg)
		out.Average = &rounded
	}
	return out, nil
}

// end marks the session as gone once any in-flight turn has finished and
// returns its final state. The second caller gets ErrNotFound.
func (s *Session) end() (Snapshot, error) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Snapshot{}, ErrNotFound
	}
	s.ended = true
	return s.snapshotLocked(), nil
}
