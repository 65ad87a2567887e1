package scheduler

import (
	"context"
	"time"

	"github.com/deppfellow/robotics-club/internal/lib/health"
	"github.com/rs/zerolog"
)

type tempSweeper interface {
	SweepTemp(maxAge time.Duration) (int, error)
}

// TempSweepJob deletes staging files left behind by interrupted uploads.
type TempSweepJob struct {
	uploads tempSweeper
	maxAge  time.Duration
	logger  *zerolog.Logger
}

func NewTempSweepJob(uploads tempSweeper, maxAge time.Duration, logger *zerolog.Logger) *TempSweepJob {
	return &TempSweepJob{uploads: uploads, maxAge: maxAge, logger: logger}
}

func (j *TempSweepJob) Run() {
	removed, err := j.uploads.SweepTemp(j.maxAge)
	if err != nil {
		j.logger.Error().Err(err).Msg("temp upload sweep failed")
		return
	}
	if removed > 0 {
		j.logger.Info().Int("removed", removed).Msg("swept stale temp uploads")
	}
}

type healthRunner interface {
	Run(ctx context.Context) health.Report
}

// HealthProbeJob runs the dependency checks so outages show up in logs and
// APM even when nobody polls /api/health.
type HealthProbeJob struct {
	checker healthRunner
	logger  *zerolog.Logger
	last    bool
}

func NewHealthProbeJob(checker healthRunner, logger *zerolog.Logger) *HealthProbeJob {
	return &HealthProbeJob{checker: checker, logger: logger, last: true}
}

func (j *HealthProbeJob) Run() {
	report := j.checker.Run(context.Background())

	healthy := report.Healthy()
	if healthy != j.last {
		if healthy {
			j.logger.Info().Msg("dependencies recovered")
		} else {
			j.logger.Warn().Interface("checks", report.Checks).Msg("dependencies unhealthy")
		}
	}
	j.last = healthy
}
