package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 10

	// adjustment bounds for the adaptive difficulty signal
	MaxAdjustment = 2
	MinAdjustment = -2

	raiseThreshold = 8.0
	lowerThreshold = 4.0
)

// Difficulty trends reported after every turn.
const (
	TrendHarder = "harder"
	TrendEasier = "easier"
	TrendStable = "stable"
)

// Performance trends reported at the end of a session.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
)

var scoreTagPattern = regexp.MustCompile(`\[SCORE:\s*(\d{1,2})/10\]`)

// strips the tag together with any whitespace in front of it
var scoreTagWithSpace = regexp.MustCompile(`\s*\[SCORE:\s*\d{1,2}/10\]`)

// ExtractScore returns the first score tag found anywhere in the reply.
// Values outside 0..10 are treated as if no tag was present.
func ExtractScore(reply string) (int, bool) {
	match := scoreTagPattern.FindStringSubmatch(reply)
	if match == nil {
		return 0, false
	}
	score, err := strconv.Atoi(match[1])
	if err != nil || score < MinScore || score > MaxScore {
		return 0, false
	}
	return score, true
}

// StripScore removes every score tag from the reply for display. A reply
// without a tag is returned verbatim.
func StripScore(reply string) string {
	if !scoreTagPattern.MatchString(reply) {
		return reply
	}
	return strings.TrimSpace(scoreTagWithSpace.ReplaceAllString(reply, ""))
}

// NextAdjustment applies the clamped integrator rule to the running average.
func NextAdjustment(average float64, current int) int {
	switch {
	case average >= raiseThreshold && current < MaxAdjustment:
		return current + 1
	case average <= lowerThreshold && current > MinAdjustment:
		return current - 1
	default:
		return current
	}
}

// DifficultyTrend maps an adjustment onto the reported trend label.
func DifficultyTrend(adjustment int) string {
	switch {
	case adjustment > 0:
		return TrendHarder
	case adjustment < 0:
		return TrendEasier
	default:
		return TrendStable
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
