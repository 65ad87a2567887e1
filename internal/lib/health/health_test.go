package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recorder struct{ events []map[string]interface{} }

func (r *recorder) RecordEvent(_ string, params map[string]interface{}) {
	r.events = append(r.events, params)
}

func newChecker(rec *recorder) *Checker {
	logger := zerolog.Nop()
	return NewChecker("test", 50*time.Millisecond, &logger, rec)
}

func TestAllChecksHealthy(t *testing.T) {
	rec := &recorder{}
	c := newChecker(rec)
	c.Register("database", func(context.Context) error { return nil })
	c.Register("redis", func(context.Context) error { return nil })

	report := c.Run(context.Background())

	assert.True(t, report.Healthy())
	assert.Equal(t, "test", report.Environment)
	assert.Len(t, report.Checks, 2)
	assert.Empty(t, rec.events)
}

func TestFailingCheckMarksReportUnhealthy(t *testing.T) {
	rec := &recorder{}
	c := newChecker(rec)
	c.Register("database", func(context.Context) error { return nil })
	c.Register("redis", func(context.Context) error { return errors.New("connection refused") })

	report := c.Run(context.Background())

	assert.False(t, report.Healthy())
	assert.Equal(t, StatusHealthy, report.Checks["database"].Status)
	assert.Equal(t, "connection refused", report.Checks["redis"].Error)
	assert.Len(t, rec.events, 2)
	assert.Equal(t, "redis", rec.events[0]["check_type"])
	assert.Equal(t, "overall", rec.events[1]["check_type"])
}

func TestCheckTimeout(t *testing.T) {
	logger := zerolog.Nop()
	c := NewChecker("test", 20*time.Millisecond, &logger, nil)
	c.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := c.Run(context.Background())
	assert.Equal(t, StatusUnhealthy, report.Checks["slow"].Status)
}
