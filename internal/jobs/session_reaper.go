package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper evicts sessions started before a cutoff.
type Sweeper interface {
	Sweep(cutoff time.Time) []string
}

// Pruner drops per-key state idle since before a cutoff.
type Pruner interface {
	Prune(cutoff time.Time) int
}

// SessionReaperJob periodically removes sessions older than MaxAge, along
// with rate limiter buckets nobody has used for as long.
type SessionReaperJob struct {
	sweeper Sweeper
	pruner  Pruner
	config  *ReaperConfig
	logger  *zap.Logger
	cron    *cron.Cron
	now     func() time.Time
}

type ReaperConfig struct {
	Schedule string        // cron spec, e.g. "@every 10m"
	MaxAge   time.Duration // absolute session lifetime
	Enabled  bool
}

// NewSessionReaperJob creates a reaper; pruner may be nil.
func NewSessionReaperJob(sweeper Sweeper, pruner Pruner, config *ReaperConfig, logger *zap.Logger) *SessionReaperJob {
	return &SessionReaperJob{
		sweeper: sweeper,
		pruner:  pruner,
		config:  config,
		logger:  logger,
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start begins the scheduled sweeps
func (j *SessionReaperJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("Session reaper is disabled, skipping scheduler")
		return nil
	}

	if _, err := j.cron.AddFunc(j.config.Schedule, func() { j.RunSweep() }); err != nil {
		return fmt.Errorf("failed to schedule session reaper: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Session reaper started",
		zap.String("schedule", j.config.Schedule),
		zap.Duration("max_age", j.config.MaxAge))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *SessionReaperJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Session reaper stopped")
	}
}

// RunSweep performs a single sweep and returns the evicted session ids.
func (j *SessionReaperJob) RunSweep() []string {
	cutoff := j.now().Add(-j.config.MaxAge)

	removed := j.sweeper.Sweep(cutoff)
	pruned := 0
	if j.pruner != nil {
		pruned = j.pruner.Prune(cutoff)
	}

	if len(removed) > 0 || pruned > 0 {
		j.logger.Info("Expired sessions reaped",
			zap.Int("sessions", len(removed)),
			zap.Int("limiters", pruned),
			zap.Time("cutoff", cutoff))
	}
	return removed
}
