package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskUploadCleanup = "upload:cleanup"

// UploadCleanupPayload lists /uploads URLs that no row references anymore.
type UploadCleanupPayload struct {
	URLs []string `json:"urls"`
}

func NewUploadCleanupTask(urls ...string) (*asynq.Task, error) {
	payload, err := json.Marshal(UploadCleanupPayload{URLs: urls})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskUploadCleanup,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueLow),
		asynq.Timeout(time.Minute),
	), nil
}
