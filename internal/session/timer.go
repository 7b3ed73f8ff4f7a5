package session

import (
	"math"
	"time"
)

const warningWindowSeconds = 300

// Clock is the derived timer view of a session; it is never stored.
type Clock struct {
	ElapsedSeconds   int
	RemainingSeconds int
	DurationMinutes  int
	ProgressPercent  float64
	IsTimeUp         bool
	IsWarning        bool
}

// ClockAt derives the timer state at now for a session started at start.
func ClockAt(start time.Time, durationMinutes int, now time.Time) Clock {
	elapsed := int(now.Sub(start) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return NewClock(elapsed, durationMinutes)
}

// NewClock derives the timer state from whole elapsed seconds.
func NewClock(elapsedSeconds, durationMinutes int) Clock {
	total := durationMinutes * 60
	remaining := total - elapsedSeconds
	if remaining < 0 {
		remaining = 0
	}

	progress := 100.0
	if total > 0 {
		progress = math.Min(100, 100*float64(elapsedSeconds)/float64(total))
	}

	return Clock{
		ElapsedSeconds:   elapsedSeconds,
		RemainingSeconds: remaining,
		DurationMinutes:  durationMinutes,
		ProgressPercent:  progress,
		IsTimeUp:         remaining <= 0,
		IsWarning:        remaining > 0 && remaining <= warningWindowSeconds,
	}
}
