package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

type mailer interface {
	SendWelcomeEmail(to, username string) error
	SendPasswordChangedEmail(to, username string, changedAt time.Time) error
}

type fileRemover interface {
	Remove(urls ...string) error
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal welcome email payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Processing welcome email task")

	if err := j.mailer.SendWelcomeEmail(p.To, p.Username); err != nil {
		j.logger.Error().
			Str("type", "welcome").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send welcome email")
		return err
	}

	j.logger.Info().
		Str("type", "welcome").
		Str("to", p.To).
		Msg("Successfully sent welcome email")

	return nil
}

func (j *JobService) handlePasswordChangedTask(ctx context.Context, t *asynq.Task) error {
	var p PasswordChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal password changed payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := j.mailer.SendPasswordChangedEmail(p.To, p.Username, p.ChangedAt); err != nil {
		j.logger.Error().
			Str("type", "password_changed").
			Str("to", p.To).
			Err(err).
			Msg("Failed to send password changed email")
		return err
	}

	j.logger.Info().
		Str("type", "password_changed").
		Str("to", p.To).
		Msg("Successfully sent password changed email")

	return nil
}

func (j *JobService) handleUploadCleanupTask(ctx context.Context, t *asynq.Task) error {
	var p UploadCleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal upload cleanup payload: %w: %w", err, asynq.SkipRetry)
	}

	if err := j.files.Remove(p.URLs...); err != nil {
		j.logger.Warn().Err(err).Strs("urls", p.URLs).Msg("Failed to remove uploads")
		return err
	}

	j.logger.Debug().Int("count", len(p.URLs)).Msg("Removed unreferenced uploads")
	return nil
}
