package scoring

// Tracker keeps the running score statistics of one session. It is not safe
// for concurrent use; the owning session serializes access.
type Tracker struct {
	scores     []int
	sum        int
	adjustment int
}

// Record appends a score. The adjustment is only moved by Step.
func (t *Tracker) Record(score int) {
	t.scores = append(t.scores, score)
	t.sum += score
}

// Step applies the difficulty rule once using the current running average.
// It is called on every completed turn and does nothing before the first score.
func (t *Tracker) Step() int {
	if avg, ok := t.Average(); ok {
		t.adjustment = NextAdjustment(avg, t.adjustment)
	}
	return t.adjustment
}

// Average returns the unrounded running average, false when nothing is scored yet.
func (t *Tracker) Average() (float64, bool) {
	if len(t.scores) == 0 {
		return 0, false
	}
	return float64(t.sum) / float64(len(t.scores)), true
}

func (t *Tracker) Count() int { return len(t.scores) }

func (t *Tracker) Adjustment() int { return t.adjustment }

func (t *Tracker) Trend() string { return DifficultyTrend(t.adjustment) }

// Scores returns a copy of the recorded scores in order.
func (t *Tracker) Scores() []int {
	out := make([]int, len(t.scores))
	copy(out, t.scores)
	return out
}

// Analytics summarizes a finished session's scores.
type Analytics struct {
	Individual []int    `json:"individual"`
	Average    *float64 `json:"average"`
	Min        *int     `json:"min"`
	Max        *int     `json:"max"`
	Trend      *string  `json:"trend"`
}

// Summarize computes end-of-session analytics. Average is rounded to one
// decimal; Trend compares the last score with the first and is nil with
// fewer than two scores.
func Summarize(scores []int) Analytics {
	a := Analytics{Individual: append([]int{}, scores...)}
	if len(scores) == 0 {
		return a
	}

	lo, hi, sum := scores[0], scores[0], 0
	for _, s := range scores {
		sum += s
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	avg := Round1(float64(sum) / float64(len(scores)))
	a.Average = &avg
	a.Min = &lo
	a.Max = &hi

	if len(scores) >= 2 {
		trend := TrendStable
		first, last := scores[0], scores[len(scores)-1]
		if last > first {
			trend = TrendImproving
		} else if last < first {
			trend = TrendDeclining
		}
		a.Trend = &trend
	}
	return a
}
