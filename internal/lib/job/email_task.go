package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskWelcome         = "email:welcome"
	TaskPasswordChanged = "email:password_changed"
)

type WelcomeEmailPayload struct {
	To       string `json:"to"`
	Username string `json:"username"`
}

func NewWelcomeEmailTask(to, username string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		To:       to,
		Username: username,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

type PasswordChangedPayload struct {
	To        string    `json:"to"`
	Username  string    `json:"username"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewPasswordChangedTask goes to the critical queue: a password change the
// user did not make should be reported quickly.
func NewPasswordChangedTask(to, username string, changedAt time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(PasswordChangedPayload{
		To:        to,
		Username:  username,
		ChangedAt: changedAt,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPasswordChanged,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(QueueCritical),
		asynq.Timeout(30*time.Second),
	), nil
}
