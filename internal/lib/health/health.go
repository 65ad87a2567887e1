// Package health probes the service's dependencies.
//
// The same Checker backs GET /api/health and the periodic probe run by the
// scheduler. Failures are logged and recorded as HealthCheckError events.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc returns nil when the dependency is reachable.
type CheckFunc func(ctx context.Context) error

type eventRecorder interface {
	RecordEvent(eventType string, params map[string]interface{})
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type Report struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

func (r Report) Healthy() bool {
	return r.Status == StatusHealthy
}

type namedCheck struct {
	name string
	fn   CheckFunc
}

type Checker struct {
	env     string
	timeout time.Duration
	logger  *zerolog.Logger
	events  eventRecorder

	mu     sync.RWMutex
	checks []namedCheck
}

// NewChecker builds an empty Checker. events may be nil.
func NewChecker(env string, timeout time.Duration, logger *zerolog.Logger, events eventRecorder) *Checker {
	return &Checker{
		env:     env,
		timeout: timeout,
		logger:  logger,
		events:  events,
	}
}

// Register adds a named check. Checks run in registration order.
func (c *Checker) Register(name string, fn CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks = append(c.checks, namedCheck{name: name, fn: fn})
}

// Run executes every check, each bounded by the configured timeout.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := append([]namedCheck(nil), c.checks...)
	c.mu.RUnlock()

	start := time.Now()
	report := Report{
		Status:      StatusHealthy,
		Timestamp:   start.UTC(),
		Environment: c.env,
		Checks:      make(map[string]CheckResult, len(checks)),
	}

	for _, check := range checks {
		result := c.runOne(ctx, check)
		if result.Status != StatusHealthy {
			report.Status = StatusUnhealthy
		}
		report.Checks[check.name] = result
	}

	if !report.Healthy() {
		c.logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		c.record(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})
	}

	return report
}

func (c *Checker) runOne(ctx context.Context, check namedCheck) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := check.fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("check", check.name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		c.record(map[string]interface{}{
			"check_type":       check.name,
			"operation":        "health_check",
			"error_type":       check.name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return CheckResult{
			Status:       StatusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	c.logger.Debug().
		Str("check", check.name).
		Dur("response_time", elapsed).
		Msg("health check passed")

	return CheckResult{
		Status:       StatusHealthy,
		ResponseTime: elapsed.String(),
	}
}

func (c *Checker) record(params map[string]interface{}) {
	if c.events != nil {
		c.events.RecordEvent("HealthCheckError", params)
	}
}
